package cli

import (
	"github.com/alexanderramin/missionctl/internal/cli/formatter"
	"github.com/alexanderramin/missionctl/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
)

// Navigation messages used by views to request view transitions.
// The appModel handles these in its Update method.

// pushViewMsg pushes a new view onto the navigation stack.
type pushViewMsg struct {
	view View
}

// popViewMsg pops the current view off the navigation stack,
// returning to the previous view.
type popViewMsg struct{}

// refreshViewMsg asks every view on the stack to recompute what it renders
// from the shared state, e.g. after the override flag flipped.
type refreshViewMsg struct{}

// cmdOutputMsg carries a one-line result shown in the status bar until the
// next key press.
type cmdOutputMsg struct {
	output string
}

// wizardCompleteMsg is sent when a wizard form completes or is cancelled.
// The appModel handles it atomically: pop the wizard view, then run nextCmd.
type wizardCompleteMsg struct {
	nextCmd tea.Cmd
}

// snapshotMsg delivers the latest full collection from the subscription.
type snapshotMsg struct {
	items []domain.Item
}

// snapshotErrMsg reports a subscription failure.
type snapshotErrMsg struct {
	err error
}

// uploadDoneMsg ends the "Uploading..." state of an item.
type uploadDoneMsg struct {
	id  string
	err error
}

// deleteDoneMsg reports a finished delete started from a detail view.
type deleteDoneMsg struct {
	id    string
	count int
	err   error
}

// pushView returns a tea.Cmd that pushes a view onto the stack.
func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

// popView returns a tea.Cmd that pops the current view.
func popView() tea.Cmd {
	return func() tea.Msg { return popViewMsg{} }
}

// outputCmd returns a tea.Cmd that shows s in the status bar.
func outputCmd(s string) tea.Cmd {
	return func() tea.Msg { return cmdOutputMsg{output: s} }
}

// errorOutput formats err for the status bar.
func errorOutput(err error) string {
	return formatter.StyleRed.Render("Error: " + err.Error())
}

// wizardCompleteOutput returns a wizardCompleteMsg that displays a message string.
func wizardCompleteOutput(msg string) tea.Msg {
	return wizardCompleteMsg{nextCmd: outputCmd(msg)}
}
