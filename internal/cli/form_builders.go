package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/missionctl/internal/domain"
	"github.com/alexanderramin/missionctl/internal/mission"
	"github.com/charmbracelet/huh"
)

// newItemInput is bound to the fields of the new-item form.
type newItemInput struct {
	Title       string
	Description string
	StartDate   string
	DueDate     string
	StartTime   string
	EndTime     string
}

func (in *newItemInput) draft() mission.Draft {
	return mission.Draft{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		StartDate:   strings.TrimSpace(in.StartDate),
		DueDate:     strings.TrimSpace(in.DueDate),
		StartTime:   strings.TrimSpace(in.StartTime),
		EndTime:     strings.TrimSpace(in.EndTime),
	}
}

// dateInput returns a huh.Input for an optional date field with YYYY-MM-DD validation.
func dateInput(title, placeholder string, value *string) *huh.Input {
	if placeholder == "" {
		placeholder = "2025-06-30"
	}
	return huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(value).
		Validate(validateOptionalDate)
}

// timeInput returns a huh.Input for an optional HH:MM agenda time.
func timeInput(title, placeholder string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(value).
		Validate(validateOptionalTime)
}

// newItemForm builds the create form for a child of parent, or a mission
// when parent is nil. Agenda time fields only appear where the level allows
// a time slot.
func newItemForm(parent *domain.Item, in *newItemInput, now time.Time) *huh.Form {
	level, _ := mission.NextLevel(parent)

	fields := []huh.Field{
		huh.NewInput().
			Title(fmt.Sprintf("%s Title", domain.LevelName(level))).
			Value(&in.Title).
			Validate(validateRequired("title")),
		huh.NewInput().
			Title("Description").
			Value(&in.Description),
		dateInput("Start Date (blank for today)", now.Format(dateLayout), &in.StartDate),
		dateInput("Due Date (YYYY-MM-DD, blank for none)", "", &in.DueDate),
	}
	if mission.AllowsAgendaSlot(parent) {
		fields = append(fields,
			timeInput("Agenda Start (HH:MM, blank for none)", "09:00", &in.StartTime),
			timeInput("Agenda End (HH:MM)", "10:00", &in.EndTime),
		)
	}

	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(missionHuhTheme()).
		WithShowHelp(false)
}

// dependencyForm builds a picker over every item item could depend on. It
// returns nil when there is nothing to pick.
func dependencyForm(item domain.Item, items []domain.Item, result *string) *huh.Form {
	options := make([]huh.Option[string], 0, len(items))
	for _, other := range items {
		if other.ID == item.ID || item.DependsOn(other.ID) {
			continue
		}
		label := fmt.Sprintf("%s · %s", domain.LevelName(other.Level), other.Title)
		if other.IsComplete() {
			label += " ✔"
		}
		options = append(options, huh.NewOption(label, other.ID))
	}
	if len(options) == 0 {
		return nil
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(fmt.Sprintf("%s depends on", item.Title)).
				Options(options...).
				Value(result),
		),
	).WithTheme(missionHuhTheme()).WithShowHelp(false)
}
