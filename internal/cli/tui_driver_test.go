package cli

import (
	"context"
	"testing"

	"github.com/alexanderramin/missionctl/internal/teatest"
	"github.com/stretchr/testify/require"
)

// TestDriver wraps teatest.Driver with inspection methods for appModel
// internals (view stack, shared state) that the generic driver can't see.
type TestDriver struct {
	*teatest.Driver
	app *App
}

// NewTestDriver creates a TestDriver from a test App, sets the terminal
// size and drains Init(). No snapshot is delivered until Sync is called, so
// the board starts on its loading screen.
func NewTestDriver(t *testing.T, app *App) *TestDriver {
	t.Helper()

	m := newAppModel(context.Background(), app)
	d := teatest.New(t, m, teatest.WithSize(120, 40))
	d.DrainInit()

	return &TestDriver{Driver: d, app: app}
}

// Sync reads the collection and delivers it the way the live subscription
// would after a write.
func (d *TestDriver) Sync() {
	d.T.Helper()
	items, err := d.app.Missions.Snapshot(context.Background())
	require.NoError(d.T, err)
	d.Send(snapshotMsg{items: items})
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ActiveViewTitle returns the Title() of the top view on the stack.
func (d *TestDriver) ActiveViewTitle() string {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ""
	}
	return v.Title()
}

// ViewStackLen returns the number of views on the stack.
func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().viewStack)
}

// State returns the shared state for inspection.
func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// Flash returns the current status-bar message without styling.
func (d *TestDriver) Flash() string {
	return stripANSI(d.State().Flash)
}

// IsQuitting returns whether the app has signaled a quit.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}
