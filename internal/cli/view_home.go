package cli

import (
	"strings"

	"github.com/alexanderramin/missionctl/internal/cli/formatter"
	"github.com/alexanderramin/missionctl/internal/mission"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// homeView shows the dashboard counters and one card per mission.
type homeView struct {
	state  *SharedState
	cursor int
}

func newHomeView(state *SharedState) *homeView {
	return &homeView{state: state}
}

var homeKeys = struct {
	Up, Down, Open, New key.Binding
}{
	Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Open: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	New:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new mission")),
}

func (v *homeView) Init() tea.Cmd { return nil }

func (v *homeView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		v.clamp()
	case tea.KeyMsg:
		roots := v.state.Tree.RootItems
		switch {
		case key.Matches(msg, homeKeys.Up):
			if v.cursor > 0 {
				v.cursor--
			}
		case key.Matches(msg, homeKeys.Down):
			if v.cursor < len(roots)-1 {
				v.cursor++
			}
		case key.Matches(msg, homeKeys.Open):
			if v.cursor < len(roots) {
				return v, pushView(newDetailView(v.state, roots[v.cursor].ID))
			}
		case key.Matches(msg, homeKeys.New):
			return v, startNewItemWizard(v.state, nil)
		}
	}
	return v, nil
}

func (v *homeView) clamp() {
	if n := len(v.state.Tree.RootItems); v.cursor >= n {
		v.cursor = max(n-1, 0)
	}
}

func (v *homeView) View() string {
	d := mission.Summarize(v.state.Items, v.state.Tree)
	out := formatter.FormatDashboardSelected(d, v.state.App.now(), v.cursor)
	return strings.TrimRight(out, "\n")
}

func (v *homeView) ID() ViewID    { return ViewHome }
func (v *homeView) Title() string { return "Home" }
func (v *homeView) ShortHelp() []key.Binding {
	return []key.Binding{homeKeys.Up, homeKeys.Down, homeKeys.Open, homeKeys.New}
}
