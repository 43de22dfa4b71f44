package cli

import (
	"strings"

	"github.com/alexanderramin/missionctl/internal/cli/formatter"
	"github.com/alexanderramin/missionctl/internal/domain"
	"github.com/alexanderramin/missionctl/internal/mission"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// hierarchyView is the collapsible tree of every reachable item.
type hierarchyView struct {
	state      *SharedState
	rows       []mission.Row
	cursor     int
	selectedID string
	offset     int
}

func newHierarchyView(state *SharedState) *hierarchyView {
	v := &hierarchyView{state: state}
	v.reload()
	return v
}

var hierarchyKeys = struct {
	Up, Down, Expand, Collapse, Toggle, Open, AddChild, New key.Binding
}{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Expand:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "expand")),
	Collapse: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "collapse")),
	Toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
	Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
	AddChild: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add child")),
	New:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new mission")),
}

// reload recomputes the visible rows and keeps the cursor on the same item
// when it is still visible.
func (v *hierarchyView) reload() {
	v.rows = mission.Flatten(v.state.Tree, v.state.Expanded)
	if v.selectedID != "" {
		for i, r := range v.rows {
			if r.Node.ID == v.selectedID {
				v.cursor = i
				v.syncSelection()
				return
			}
		}
	}
	if v.cursor >= len(v.rows) {
		v.cursor = max(len(v.rows)-1, 0)
	}
	v.syncSelection()
}

func (v *hierarchyView) syncSelection() {
	if v.cursor < len(v.rows) {
		v.selectedID = v.rows[v.cursor].Node.ID
	} else {
		v.selectedID = ""
	}
}

func (v *hierarchyView) selected() (domain.Item, bool) {
	if v.cursor >= len(v.rows) {
		return domain.Item{}, false
	}
	return v.rows[v.cursor].Node.Item, true
}

func (v *hierarchyView) Init() tea.Cmd { return nil }

func (v *hierarchyView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg, refreshViewMsg:
		v.reload()
	case tea.KeyMsg:
		return v, v.handleKey(msg)
	}
	return v, nil
}

func (v *hierarchyView) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, hierarchyKeys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
		v.syncSelection()

	case key.Matches(msg, hierarchyKeys.Down):
		if v.cursor < len(v.rows)-1 {
			v.cursor++
		}
		v.syncSelection()

	case key.Matches(msg, hierarchyKeys.Expand):
		if v.cursor < len(v.rows) && v.rows[v.cursor].HasChildren {
			v.state.Expanded[v.selectedID] = true
			v.reload()
		}

	case key.Matches(msg, hierarchyKeys.Collapse):
		if v.cursor >= len(v.rows) {
			return nil
		}
		row := v.rows[v.cursor]
		if row.Expanded && row.HasChildren {
			delete(v.state.Expanded, v.selectedID)
		} else if row.Node.ParentID != "" {
			// Already folded: jump to the parent row.
			v.selectedID = row.Node.ParentID
		}
		v.reload()

	case key.Matches(msg, hierarchyKeys.Toggle):
		if v.cursor < len(v.rows) && v.rows[v.cursor].HasChildren {
			if v.state.Expanded[v.selectedID] {
				delete(v.state.Expanded, v.selectedID)
			} else {
				v.state.Expanded[v.selectedID] = true
			}
			v.reload()
		}

	case key.Matches(msg, hierarchyKeys.Open):
		if item, ok := v.selected(); ok {
			return pushView(newDetailView(v.state, item.ID))
		}

	case key.Matches(msg, hierarchyKeys.AddChild):
		item, ok := v.selected()
		if !ok {
			return nil
		}
		if !mission.CanHaveChildren(item) {
			return outputCmd(formatter.StyleYellow.Render(mission.ErrDepthExceeded.Error()))
		}
		return startNewItemWizard(v.state, &item)

	case key.Matches(msg, hierarchyKeys.New):
		return startNewItemWizard(v.state, nil)
	}
	return nil
}

func (v *hierarchyView) View() string {
	if len(v.rows) == 0 {
		return "\n  " + formatter.Dim("No missions yet. Press n to create one.")
	}

	lines := strings.Split(strings.TrimRight(
		formatter.RenderTree(formatter.TreeItems(v.rows, v.state.Items, v.state.Override, v.selectedID)),
		"\n"), "\n")

	// Keep the cursor inside the visible window.
	h := v.state.ContentHeight()
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+h {
		v.offset = v.cursor - h + 1
	}
	end := min(v.offset+h, len(lines))
	return strings.Join(lines[v.offset:end], "\n")
}

func (v *hierarchyView) ID() ViewID    { return ViewHierarchy }
func (v *hierarchyView) Title() string { return "Hierarchy" }
func (v *hierarchyView) ShortHelp() []key.Binding {
	help := []key.Binding{hierarchyKeys.Up, hierarchyKeys.Down, hierarchyKeys.Expand, hierarchyKeys.Collapse, hierarchyKeys.Open}
	if item, ok := v.selected(); ok && mission.CanHaveChildren(item) {
		help = append(help, hierarchyKeys.AddChild)
	}
	return append(help, hierarchyKeys.New)
}
