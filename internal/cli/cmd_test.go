package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/missionctl/internal/domain"
	"github.com/alexanderramin/missionctl/internal/identity"
	"github.com/alexanderramin/missionctl/internal/mission"
	"github.com/alexanderramin/missionctl/internal/service"
	"github.com/alexanderramin/missionctl/internal/store"
	"github.com/alexanderramin/missionctl/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

// ansiPattern matches ANSI escape sequences.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// testApp wires a full App backed by an in-memory store for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	client := store.NewSQLiteClient(testutil.NewTestDB(t))
	t.Cleanup(client.Close)

	ref := store.CollectionRef{AppID: "default-app-id", UserID: "user-1"}
	return &App{
		Missions:   service.NewMissionService(client, ref, service.UploadConfig{DeliverableURL: "https://fake-storage.com/evidence.pdf"}),
		User:       identity.User{ID: "user-1", Anonymous: true},
		Collection: ref.Path(),
		Now:        func() time.Time { return testNow },
	}
}

// seed creates an item through the service and returns it.
func seed(t *testing.T, app *App, title, parentID string) domain.Item {
	t.Helper()
	item, err := app.Missions.Create(context.Background(), mission.Draft{Title: title}, parentID)
	require.NoError(t, err)
	return item
}

// seedChain creates Mission > Task > Subtask > Action > Step.
func seedChain(t *testing.T, app *App) []domain.Item {
	t.Helper()
	var chain []domain.Item
	parentID := ""
	for _, title := range []string{"Apollo", "Engines", "Turbopump", "Weld seams", "Inspect weld"} {
		item := seed(t, app, title, parentID)
		chain = append(chain, item)
		parentID = item.ID
	}
	return chain
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return stripANSI(buf.String()), err
}

// --- Root ---

func TestRootCmd_NonInteractiveShowsHelp(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, out, "Missions break down into tasks")
	assert.Contains(t, out, "upload")
}

func TestSignInFailure_CommandsReturnIt(t *testing.T) {
	app := &App{SignInErr: errors.New("invalid sign-in token")}

	_, err := executeCmd(t, app, "dashboard")
	require.Error(t, err)
	assert.Equal(t, "signing in: invalid sign-in token", err.Error())

	// Without a terminal the bare command reports it too.
	out, err := executeCmd(t, app)
	require.Error(t, err)
	assert.Empty(t, out)
}

func TestWhoamiCmd(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "user-1")
	assert.Contains(t, out, "artifacts/default-app-id/users/user-1/mission_items")
}

// --- add ---

func TestAddCmd_Mission(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "add", "--title", "Apollo", "--description", "Reach orbit")
	require.NoError(t, err)
	assert.Contains(t, out, "Created Mission Apollo")

	items, err := app.Missions.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.LevelMission, items[0].Level)
	assert.Equal(t, "Reach orbit", items[0].Description)
	assert.Equal(t, domain.ItemPending, items[0].Status)
}

func TestAddCmd_ChildByPrefix(t *testing.T) {
	app := testApp(t)
	m := seed(t, app, "Apollo", "")

	out, err := executeCmd(t, app, "add", "--title", "Engines", "--parent", m.ID[:8])
	require.NoError(t, err)
	assert.Contains(t, out, "Created Task Engines")

	children := mustChildren(t, app, m.ID)
	require.Len(t, children, 1)
	assert.Equal(t, domain.LevelTask, children[0].Level)
}

func TestAddCmd_TitleRequired(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "add")
	require.Error(t, err)
}

func TestAddCmd_BelowStepRejected(t *testing.T) {
	app := testApp(t)
	chain := seedChain(t, app)

	_, err := executeCmd(t, app, "add", "--title", "Too deep", "--parent", chain[4].ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, mission.ErrDepthExceeded)
}

func TestAddCmd_AgendaSlot(t *testing.T) {
	app := testApp(t)
	chain := seedChain(t, app)

	_, err := executeCmd(t, app, "add", "--title", "Standup", "--parent", chain[0].ID,
		"--start-time", "09:00", "--end-time", "09:15")
	require.Error(t, err, "a task cannot carry an agenda slot")
	assert.ErrorIs(t, err, mission.ErrAgendaNotAllowed)

	_, err = executeCmd(t, app, "add", "--title", "Torque check", "--parent", chain[2].ID,
		"--start-time", "09:00", "--end-time", "09:15")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "agenda")
	require.NoError(t, err)
	assert.Contains(t, out, "Torque check")
	assert.Contains(t, out, "09:00")
}

func TestAddCmd_UnknownParent(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "add", "--title", "Lost", "--parent", "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// --- show ---

func TestShowCmd_LockState(t *testing.T) {
	app := testApp(t)
	m := seed(t, app, "Apollo", "")
	a := seed(t, app, "Design", m.ID)
	b := seed(t, app, "Build", m.ID)
	require.NoError(t, app.Missions.AddDependency(context.Background(), b.ID, a.ID))

	out, err := executeCmd(t, app, "show", b.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Locked by Dependencies")
	assert.Contains(t, out, "Design")

	out, err = executeCmd(t, app, "show", b.ID, "--override")
	require.NoError(t, err)
	assert.Contains(t, out, "In Progress")
	assert.NotContains(t, out, "Locked by Dependencies")
}

// --- upload ---

func TestUploadCmd_RequiresYesWithoutTerminal(t *testing.T) {
	app := testApp(t)
	m := seed(t, app, "Apollo", "")

	_, err := executeCmd(t, app, "upload", m.ID)
	require.ErrorIs(t, err, errConfirmationRequired)

	item, err := app.Missions.Get(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemPending, item.Status)
}

func TestUploadCmd_Completes(t *testing.T) {
	app := testApp(t)
	m := seed(t, app, "Apollo", "")
	task := seed(t, app, "Engines", m.ID)

	out, err := executeCmd(t, app, "upload", task.ID, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Uploading...")
	assert.Contains(t, out, "Completed")
	assert.Contains(t, out, "https://fake-storage.com/evidence.pdf")

	item, err := app.Missions.Get(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemComplete, item.Status)
	require.NotNil(t, item.CompletedAt)

	out, err = executeCmd(t, app, "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "100%")
}

func TestUploadCmd_LockedAndOverride(t *testing.T) {
	app := testApp(t)
	m := seed(t, app, "Apollo", "")
	a := seed(t, app, "Design", m.ID)
	b := seed(t, app, "Build", m.ID)
	require.NoError(t, app.Missions.AddDependency(context.Background(), b.ID, a.ID))

	_, err := executeCmd(t, app, "upload", b.ID, "-y")
	require.ErrorIs(t, err, service.ErrLocked)

	_, err = executeCmd(t, app, "upload", b.ID, "-y", "--override")
	require.NoError(t, err)
}

func TestUploadCmd_AlreadyComplete(t *testing.T) {
	app := testApp(t)
	m := seed(t, app, "Apollo", "")

	_, err := executeCmd(t, app, "upload", m.ID, "-y")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "upload", m.ID, "-y")
	require.ErrorIs(t, err, service.ErrAlreadyComplete)
}

// --- delete / orphans ---

func TestDeleteCmd_OrphansChildren(t *testing.T) {
	app := testApp(t)
	m := seed(t, app, "Apollo", "")
	task := seed(t, app, "Engines", m.ID)

	out, err := executeCmd(t, app, "delete", m.ID, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 1 item(s)")
	assert.Contains(t, out, "1 child item(s) orphaned")

	out, err = executeCmd(t, app, "orphans")
	require.NoError(t, err)
	assert.Contains(t, out, "Engines")

	out, err = executeCmd(t, app, "tree")
	require.NoError(t, err)
	assert.NotContains(t, out, "Engines", "orphans are not reachable from any root")

	_, err = app.Missions.Get(context.Background(), task.ID)
	require.NoError(t, err)
}

func TestDeleteCmd_Cascade(t *testing.T) {
	app := testApp(t)
	chain := seedChain(t, app)
	other := seed(t, app, "Gemini", "")

	out, err := executeCmd(t, app, "delete", chain[0].ID[:8], "--yes", "--cascade")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 5 item(s)")

	items, err := app.Missions.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, other.ID, items[0].ID)
}

func TestDeleteCmd_RequiresYesWithoutTerminal(t *testing.T) {
	app := testApp(t)
	m := seed(t, app, "Apollo", "")

	_, err := executeCmd(t, app, "delete", m.ID)
	require.ErrorIs(t, err, errConfirmationRequired)
}

// --- dep ---

func TestDepCmd_AddAndRemove(t *testing.T) {
	app := testApp(t)
	m := seed(t, app, "Apollo", "")
	a := seed(t, app, "Design", m.ID)
	b := seed(t, app, "Build", m.ID)

	out, err := executeCmd(t, app, "dep", "add", b.ID, a.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Build now depends on Design")

	item, err := app.Missions.Get(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, item.Dependencies)

	out, err = executeCmd(t, app, "dep", "rm", b.ID, a.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed dependency")

	item, err = app.Missions.Get(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Empty(t, item.Dependencies)
}

func TestDepCmd_RejectsCycleAndSelf(t *testing.T) {
	app := testApp(t)
	m := seed(t, app, "Apollo", "")
	a := seed(t, app, "Design", m.ID)
	b := seed(t, app, "Build", m.ID)

	_, err := executeCmd(t, app, "dep", "add", b.ID, a.ID)
	require.NoError(t, err)

	_, err = executeCmd(t, app, "dep", "add", a.ID, b.ID)
	require.ErrorIs(t, err, service.ErrDependencyCycle)

	_, err = executeCmd(t, app, "dep", "add", a.ID, a.ID)
	require.ErrorIs(t, err, service.ErrSelfDependency)
}

// --- views ---

func TestTreeCmd_Depth(t *testing.T) {
	app := testApp(t)
	seedChain(t, app)

	out, err := executeCmd(t, app, "tree")
	require.NoError(t, err)
	assert.Contains(t, out, "Apollo")
	assert.Contains(t, out, "Inspect weld")

	out, err = executeCmd(t, app, "tree", "--depth", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Engines")
	assert.NotContains(t, out, "Turbopump")
}

func TestDashboardCmd(t *testing.T) {
	app := testApp(t)
	m := seed(t, app, "Apollo", "")
	seed(t, app, "Engines", m.ID)
	seed(t, app, "Gemini", "")

	out, err := executeCmd(t, app, "home")
	require.NoError(t, err)
	assert.Contains(t, out, "Active Missions 2")
	assert.Contains(t, out, "Deliverables Pending 1")
	assert.Contains(t, out, "Apollo")
	assert.Contains(t, out, "Gemini")
}

func TestTimelineCmd(t *testing.T) {
	app := testApp(t)
	_, err := app.Missions.Create(context.Background(),
		mission.Draft{Title: "Apollo", StartDate: "2025-06-01", DueDate: "2025-06-20"}, "")
	require.NoError(t, err)
	seed(t, app, "Unscheduled", "")

	out, err := executeCmd(t, app, "gantt")
	require.NoError(t, err)
	assert.Contains(t, out, "Apollo")
	assert.Contains(t, out, "2025-06-20")
	assert.NotContains(t, out, "Unscheduled")
}

// --- export ---

func TestExportCmd_YAML(t *testing.T) {
	app := testApp(t)
	m := seed(t, app, "Apollo", "")
	seed(t, app, "Engines", m.ID)
	lost := seed(t, app, "Lost", "")
	orphan := seed(t, app, "Stray", lost.ID)
	_, err := app.Missions.Delete(context.Background(), lost.ID, false)
	require.NoError(t, err)

	out, err := executeCmd(t, app, "export")
	require.NoError(t, err)

	var doc exportDoc
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, app.Collection, doc.Collection)
	require.Len(t, doc.Missions, 1)
	assert.Equal(t, "Apollo", doc.Missions[0].Title)
	require.Len(t, doc.Missions[0].Children, 1)
	assert.Equal(t, "Task", doc.Missions[0].Children[0].Level)
	require.NotNil(t, doc.Missions[0].Progress)
	assert.InDelta(t, 0, *doc.Missions[0].Progress, 0.001)

	require.Len(t, doc.Orphans, 1)
	assert.Equal(t, orphan.ID, doc.Orphans[0].ID)
	assert.Equal(t, lost.ID, doc.Orphans[0].ParentID)
}

func TestExportCmd_JSON(t *testing.T) {
	app := testApp(t)
	seed(t, app, "Apollo", "")

	out, err := executeCmd(t, app, "export", "--format", "JSON")
	require.NoError(t, err)

	var doc exportDoc
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Missions, 1)
	assert.Equal(t, "pending", doc.Missions[0].Status)
	assert.Nil(t, doc.Missions[0].Progress, "leaf items carry no progress")
}

func TestExportCmd_UnknownFormat(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "export", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

// --- import ---

func TestImportCmd_RoundTripsExport(t *testing.T) {
	src := testApp(t)
	ctx := context.Background()
	chain := seedChain(t, src)
	gemini := seed(t, src, "Gemini", "")
	require.NoError(t, src.Missions.AddDependency(ctx, gemini.ID, chain[0].ID))
	_, err := src.Missions.UploadDeliverable(ctx, chain[4].ID, false)
	require.NoError(t, err)

	exported, err := executeCmd(t, src, "export")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "missions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(exported), 0o644))

	dst := testApp(t)
	out, err := executeCmd(t, dst, "import", path, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "would import 6 item(s) in 2 mission(s)")
	items, err := dst.Missions.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, items, "dry run stores nothing")

	out, err = executeCmd(t, dst, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 6 item(s)")

	items, err = dst.Missions.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, items, 6)
	byTitle := make(map[string]domain.Item, len(items))
	for _, it := range items {
		byTitle[it.Title] = it
	}
	inspect := byTitle["Inspect weld"]
	assert.Equal(t, domain.LevelStep, inspect.Level)
	assert.Equal(t, byTitle["Weld seams"].ID, inspect.ParentID)
	assert.True(t, inspect.IsComplete())
	assert.NotNil(t, inspect.CompletedAt)
	assert.Equal(t, []string{byTitle["Apollo"].ID}, byTitle["Gemini"].Dependencies)
}

func TestImportCmd_ReportsValidationErrors(t *testing.T) {
	app := testApp(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	doc := `{"missions":[{"title":"","status":"done","dependencies":["ghost"]}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	out, err := executeCmd(t, app, "import", path)
	require.Error(t, err)
	assert.Equal(t, "import file has 3 error(s)", err.Error())
	assert.Contains(t, out, "  - missions[0].title is required")
	assert.Contains(t, out, `  - missions[0].status: invalid value "done"`)
	assert.Contains(t, out, `  - missions[0].dependencies: id "ghost" not found in file`)
}

func TestImportCmd_MissingFile(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "import", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

// --- resolve ---

func TestResolveItemID(t *testing.T) {
	items := []domain.Item{
		testutil.NewTestItem("A", testutil.WithID("abc123")),
		testutil.NewTestItem("B", testutil.WithID("abd456")),
	}

	id, err := resolveItemID(items, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)

	id, err = resolveItemID(items, "abd")
	require.NoError(t, err)
	assert.Equal(t, "abd456", id)

	_, err = resolveItemID(items, "ab")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")

	_, err = resolveItemID(items, "zzz")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = resolveItemID(items, " ")
	require.Error(t, err)
}

func mustChildren(t *testing.T, app *App, parentID string) []domain.Item {
	t.Helper()
	items, err := app.Missions.Snapshot(context.Background())
	require.NoError(t, err)
	return mission.Children(parentID, items)
}
