package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewID identifies each type of view in the TUI.
type ViewID int

const (
	ViewHome ViewID = iota
	ViewHierarchy
	ViewTimeline
	ViewAgenda
	ViewDetail
	ViewForm
)

// View is the interface that all TUI views must implement.
// It extends tea.Model with navigation and help metadata.
type View interface {
	tea.Model
	ID() ViewID
	ShortHelp() []key.Binding // key hints shown in the bottom bar
	Title() string            // breadcrumb segment for this view
}

// inputCapturer is implemented by views that temporarily need every key,
// such as a detail view waiting for a y/n answer.
type inputCapturer interface {
	capturesInput() bool
}

// tab is one of the top-level screens reachable from the tab bar.
type tab struct {
	id    ViewID
	label string
}

var tabs = []tab{
	{ViewHome, "Home"},
	{ViewHierarchy, "Hierarchy"},
	{ViewTimeline, "Timeline"},
	{ViewAgenda, "Agenda"},
}

// newTabView builds the root view for tabs[i].
func newTabView(state *SharedState, i int) View {
	switch tabs[i].id {
	case ViewHierarchy:
		return newHierarchyView(state)
	case ViewTimeline:
		return newTimelineView(state)
	case ViewAgenda:
		return newAgendaView(state)
	default:
		return newHomeView(state)
	}
}
