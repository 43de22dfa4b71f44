package cli

import (
	"strings"

	"github.com/alexanderramin/missionctl/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// formView hosts a huh form on the view stack. While it is on top it
// receives every key. On submit it hands the submit command to the app
// model inside a wizardCompleteMsg, which pops the form first.
type formView struct {
	form     *huh.Form
	title    string
	location string // "Under Apollo › Engines", empty for a new mission
	submit   func() tea.Cmd
}

func newFormView(title, location string, form *huh.Form, submit func() tea.Cmd) *formView {
	return &formView{form: form, title: title, location: location, submit: submit}
}

func (v *formView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *formView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return v, func() tea.Msg { return wizardCompleteOutput(formatter.Dim("Cancelled.")) }
		}
	case snapshotMsg, refreshViewMsg:
		// Options were fixed when the form was built.
		return v, nil
	}

	model, cmd := v.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		v.form = f
	}
	if v.form.State != huh.StateCompleted {
		return v, cmd
	}

	// huh may deliver more messages after completion; submit once.
	var next tea.Cmd
	if v.submit != nil {
		next = v.submit()
		v.submit = nil
	}
	return v, func() tea.Msg { return wizardCompleteMsg{nextCmd: tea.Batch(cmd, next)} }
}

func (v *formView) View() string {
	if v.location == "" {
		return v.form.View()
	}
	return "  " + formatter.Dim(v.location) + "\n\n" + v.form.View()
}

func (v *formView) ID() ViewID    { return ViewForm }
func (v *formView) Title() string { return v.title }
func (v *formView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// ancestry renders the path from the root down to id, e.g.
// "Apollo › Engines". Broken or cyclic parent chains stop early.
func ancestry(state *SharedState, id string) string {
	var titles []string
	seen := make(map[string]bool)
	for id != "" && !seen[id] {
		seen[id] = true
		item, ok := state.find(id)
		if !ok {
			break
		}
		titles = append(titles, item.Title)
		id = item.ParentID
	}
	for i, j := 0, len(titles)-1; i < j; i, j = i+1, j-1 {
		titles[i], titles[j] = titles[j], titles[i]
	}
	return strings.Join(titles, " › ")
}
