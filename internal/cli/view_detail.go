package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/missionctl/internal/cli/formatter"
	"github.com/alexanderramin/missionctl/internal/mission"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// pendingAction is a destructive or slow action waiting for y/n.
type pendingAction int

const (
	pendingNone pendingAction = iota
	pendingUpload
	pendingDelete
	pendingDeleteCascade
)

// detailView shows one item with its lock state, children and dependencies.
type detailView struct {
	state   *SharedState
	itemID  string
	pending pendingAction
}

func newDetailView(state *SharedState, itemID string) *detailView {
	return &detailView{state: state, itemID: itemID}
}

var detailKeys = struct {
	Upload, Delete, DeleteAll, AddChild, AddDep key.Binding
}{
	Upload:    key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload deliverable")),
	Delete:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
	DeleteAll: key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "delete subtree")),
	AddChild:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add child")),
	AddDep:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "add dependency")),
}

func (v *detailView) capturesInput() bool { return v.pending != pendingNone }

func (v *detailView) Init() tea.Cmd { return nil }

func (v *detailView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	if v.pending != pendingNone {
		return v, v.answer(keyMsg)
	}

	item, found := v.state.find(v.itemID)
	if !found {
		return v, nil
	}

	switch {
	case key.Matches(keyMsg, detailKeys.Upload):
		switch {
		case v.state.Uploading[item.ID]:
			return v, nil
		case item.IsComplete():
			return v, outputCmd(formatter.Dim("Deliverable already uploaded."))
		case mission.IsLocked(item, v.state.Items, v.state.Override):
			return v, outputCmd(formatter.StyleRed.Render("Locked: complete its dependencies first, or press o for admin mode."))
		}
		v.pending = pendingUpload

	case key.Matches(keyMsg, detailKeys.Delete):
		v.pending = pendingDelete

	case key.Matches(keyMsg, detailKeys.DeleteAll):
		v.pending = pendingDeleteCascade

	case key.Matches(keyMsg, detailKeys.AddChild):
		if !mission.CanHaveChildren(item) {
			return v, outputCmd(formatter.StyleYellow.Render(mission.ErrDepthExceeded.Error()))
		}
		return v, startNewItemWizard(v.state, &item)

	case key.Matches(keyMsg, detailKeys.AddDep):
		return v, startDependencyWizard(v.state, item)
	}
	return v, nil
}

// answer resolves a pending confirmation. Only y proceeds.
func (v *detailView) answer(msg tea.KeyMsg) tea.Cmd {
	action := v.pending
	v.pending = pendingNone
	if msg.String() != "y" && msg.String() != "Y" {
		return outputCmd(formatter.Dim("Cancelled."))
	}

	state, id := v.state, v.itemID
	switch action {
	case pendingUpload:
		state.Uploading[id] = true
		override := state.Override
		return func() tea.Msg {
			_, err := state.App.Missions.UploadDeliverable(state.Ctx, id, override)
			return uploadDoneMsg{id: id, err: err}
		}
	case pendingDelete, pendingDeleteCascade:
		cascade := action == pendingDeleteCascade
		return func() tea.Msg {
			n, err := state.App.Missions.Delete(state.Ctx, id, cascade)
			return deleteDoneMsg{id: id, count: n, err: err}
		}
	}
	return nil
}

func (v *detailView) View() string {
	item, found := v.state.find(v.itemID)
	if !found {
		return "\n  " + formatter.Dim("This item no longer exists.")
	}

	var b strings.Builder
	b.WriteString(strings.TrimRight(formatter.FormatDetail(item, v.state.Items, v.state.Override, v.state.App.now()), "\n"))
	b.WriteString("\n\n")

	if v.state.Uploading[item.ID] {
		b.WriteString(formatter.StyleYellow.Render("Uploading..."))
		b.WriteString("\n")
	}

	switch v.pending {
	case pendingUpload:
		b.WriteString(formatter.StyleYellowBold.Render(fmt.Sprintf("Upload deliverable for %q? (y/n)", item.Title)))
	case pendingDelete:
		prompt := fmt.Sprintf("Delete %q? (y/n)", item.Title)
		if len(mission.Children(item.ID, v.state.Items)) > 0 {
			prompt = fmt.Sprintf("Delete %q? Its children will be orphaned. (y/n)", item.Title)
		}
		b.WriteString(formatter.StyleYellowBold.Render(prompt))
	case pendingDeleteCascade:
		n := len(mission.Subtree(item.ID, v.state.Items))
		b.WriteString(formatter.StyleYellowBold.Render(fmt.Sprintf("Delete %q and everything below it (%d items)? (y/n)", item.Title, n)))
	}
	return b.String()
}

func (v *detailView) ID() ViewID { return ViewDetail }

func (v *detailView) Title() string {
	if item, ok := v.state.find(v.itemID); ok {
		return formatter.Truncate(item.Title, 30)
	}
	return "Details"
}

func (v *detailView) ShortHelp() []key.Binding {
	if v.pending != pendingNone {
		return []key.Binding{
			key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
			key.NewBinding(key.WithKeys("n"), key.WithHelp("any key", "cancel")),
		}
	}
	item, ok := v.state.find(v.itemID)
	if !ok {
		return nil
	}
	var help []key.Binding
	if !item.IsComplete() && !v.state.Uploading[item.ID] {
		help = append(help, detailKeys.Upload)
	}
	if mission.CanHaveChildren(item) {
		help = append(help, detailKeys.AddChild)
	}
	return append(help, detailKeys.AddDep, detailKeys.Delete, detailKeys.DeleteAll)
}
