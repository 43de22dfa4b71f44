package cli

import (
	"strings"

	"github.com/alexanderramin/missionctl/internal/cli/formatter"
	"github.com/alexanderramin/missionctl/internal/mission"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// scheduleView is a read-only scrollable rendering of the snapshot. The
// timeline and agenda tabs differ only in their render function.
type scheduleView struct {
	state  *SharedState
	id     ViewID
	title  string
	render func(s *SharedState) string
	vp     viewport.Model
}

var scrollKeys = struct {
	Up, Down key.Binding
}{
	Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll")),
	Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll")),
}

func newScheduleView(state *SharedState, id ViewID, title string, render func(*SharedState) string) *scheduleView {
	vp := viewport.New(max(state.Width, 20), state.ContentHeight())
	vp.KeyMap = viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		Up:       scrollKeys.Up,
		Down:     scrollKeys.Down,
	}
	v := &scheduleView{state: state, id: id, title: title, render: render, vp: vp}
	v.refresh()
	return v
}

func newTimelineView(state *SharedState) *scheduleView {
	return newScheduleView(state, ViewTimeline, "Timeline", func(s *SharedState) string {
		return formatter.FormatTimeline(mission.Timeline(s.Items))
	})
}

func newAgendaView(state *SharedState) *scheduleView {
	return newScheduleView(state, ViewAgenda, "Agenda", func(s *SharedState) string {
		return formatter.FormatAgenda(mission.Agenda(s.Items), s.Items, s.Override)
	})
}

func (v *scheduleView) refresh() {
	v.vp.SetContent(strings.TrimRight(v.render(v.state), "\n"))
}

func (v *scheduleView) Init() tea.Cmd { return nil }

func (v *scheduleView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.vp.Width = msg.Width
		v.vp.Height = v.state.ContentHeight()
		v.refresh()
		return v, nil
	case snapshotMsg, refreshViewMsg:
		v.refresh()
		return v, nil
	}
	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	return v, cmd
}

func (v *scheduleView) View() string {
	return v.vp.View()
}

func (v *scheduleView) ID() ViewID    { return v.id }
func (v *scheduleView) Title() string { return v.title }
func (v *scheduleView) ShortHelp() []key.Binding {
	return []key.Binding{scrollKeys.Up, scrollKeys.Down}
}
