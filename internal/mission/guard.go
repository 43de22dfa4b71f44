package mission

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/missionctl/internal/domain"
)

// NextLevel computes the level of a new item created under parent. A nil
// parent creates a Mission.
func NextLevel(parent *domain.Item) (int, error) {
	if parent == nil {
		return domain.LevelMission, nil
	}
	level := parent.Level + 1
	if level > domain.MaxLevel {
		return 0, ErrDepthExceeded
	}
	return level, nil
}

// CanHaveChildren reports whether the add-child action is available for item.
func CanHaveChildren(item domain.Item) bool {
	return item.Level < domain.MaxLevel
}

// AllowsAgendaSlot reports whether children of parent may carry agenda times.
func AllowsAgendaSlot(parent *domain.Item) bool {
	return parent != nil && parent.Level >= domain.AgendaMinParentLevel
}

// Draft is the user-supplied part of a new item.
type Draft struct {
	Title       string
	Description string
	StartDate   string
	DueDate     string
	StartTime   string
	EndTime     string
}

// NewItem validates draft against parent and returns the pending item to
// store. ID and CreatedAt are left for the store to assign.
func NewItem(draft Draft, parent *domain.Item) (domain.Item, error) {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return domain.Item{}, ErrTitleRequired
	}
	level, err := NextLevel(parent)
	if err != nil {
		return domain.Item{}, err
	}
	if (draft.StartTime != "" || draft.EndTime != "") && !AllowsAgendaSlot(parent) {
		return domain.Item{}, fmt.Errorf("new %s: %w", strings.ToLower(domain.LevelName(level)), ErrAgendaNotAllowed)
	}

	item := domain.Item{
		Title:        title,
		Description:  draft.Description,
		Level:        level,
		Status:       domain.ItemPending,
		StartDate:    draft.StartDate,
		DueDate:      draft.DueDate,
		StartTime:    draft.StartTime,
		EndTime:      draft.EndTime,
		Dependencies: []string{},
	}
	if parent != nil {
		item.ParentID = parent.ID
	}
	return item, nil
}
