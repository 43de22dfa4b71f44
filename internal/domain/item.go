package domain

import "time"

// Item is a single document in a user's mission collection. Missions, tasks,
// subtasks, actions and steps are all Items distinguished only by Level.
type Item struct {
	ID             string
	Title          string
	Description    string
	Level          int
	ParentID       string // empty for a root
	Status         ItemStatus
	DeliverableURL string
	StartDate      string
	DueDate        string
	StartTime      string
	EndTime        string
	Dependencies   []string
	CreatedAt      time.Time
	CompletedAt    *time.Time
}

// IsRoot reports whether the item has no parent reference.
func (i *Item) IsRoot() bool {
	return i.ParentID == ""
}

// IsComplete reports whether the item has been completed.
func (i *Item) IsComplete() bool {
	return i.Status == ItemComplete
}

// HasAgendaSlot reports whether both agenda times are set.
func (i *Item) HasAgendaSlot() bool {
	return i.StartTime != "" && i.EndTime != ""
}

// HasSchedule reports whether both calendar dates are set.
func (i *Item) HasSchedule() bool {
	return i.StartDate != "" && i.DueDate != ""
}

// DependsOn reports whether id is among the item's dependencies.
func (i *Item) DependsOn(id string) bool {
	for _, d := range i.Dependencies {
		if d == id {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices or pointers with i.
func (i Item) Clone() Item {
	c := i
	if i.Dependencies != nil {
		c.Dependencies = append([]string(nil), i.Dependencies...)
	}
	if i.CompletedAt != nil {
		t := *i.CompletedAt
		c.CompletedAt = &t
	}
	return c
}
