package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/missionctl/internal/cli/formatter"
	"github.com/alexanderramin/missionctl/internal/domain"
	"github.com/alexanderramin/missionctl/internal/mission"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// missionHuhTheme returns a custom huh theme using the Gruvbox palette.
func missionHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// validateRequired rejects blank input.
func validateRequired(field string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// validateOptionalDate accepts empty or a YYYY-MM-DD date string.
func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

// validateOptionalTime accepts empty or a 24h HH:MM time.
func validateOptionalTime(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(timeLayout, s); err != nil {
		return fmt.Errorf("use HH:MM format")
	}
	return nil
}

// wizardConfirm creates a huh form for a yes/no confirmation.
func wizardConfirm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(missionHuhTheme()).WithShowHelp(false)
}

// startNewItemWizard pushes the new-item form. A nil parent creates a mission.
func startNewItemWizard(state *SharedState, parent *domain.Item) tea.Cmd {
	in := &newItemInput{}
	form := newItemForm(parent, in, state.App.now())

	title, location := "New Mission", ""
	parentID := ""
	if parent != nil {
		parentID = parent.ID
		title = fmt.Sprintf("New %s", domain.LevelName(parent.Level+1))
		location = "Under " + ancestry(state, parent.ID)
	}

	return pushView(newFormView(title, location, form, func() tea.Cmd {
		if parentID != "" {
			state.Expanded[parentID] = true
		}
		return createItemCmd(state, in.draft(), parentID)
	}))
}

// createItemCmd runs the create outside the update loop.
func createItemCmd(state *SharedState, draft mission.Draft, parentID string) tea.Cmd {
	return func() tea.Msg {
		item, err := state.App.Missions.Create(state.Ctx, draft, parentID)
		if err != nil {
			return cmdOutputMsg{output: errorOutput(err)}
		}
		return cmdOutputMsg{output: formatter.StyleGreen.Render(
			fmt.Sprintf("Created %s %q.", domain.LevelName(item.Level), item.Title))}
	}
}

// startDependencyWizard pushes a picker for a new dependency of item.
func startDependencyWizard(state *SharedState, item domain.Item) tea.Cmd {
	var dependsOn string
	form := dependencyForm(item, state.Items, &dependsOn)
	if form == nil {
		return outputCmd(formatter.Dim("No other items to depend on."))
	}

	return pushView(newFormView("Add Dependency", "For "+ancestry(state, item.ID), form, func() tea.Cmd {
		if dependsOn == "" {
			return nil
		}
		id := item.ID
		return func() tea.Msg {
			if err := state.App.Missions.AddDependency(state.Ctx, id, dependsOn); err != nil {
				return cmdOutputMsg{output: errorOutput(err)}
			}
			return cmdOutputMsg{output: formatter.StyleGreen.Render("Dependency added.")}
		}
	}))
}
