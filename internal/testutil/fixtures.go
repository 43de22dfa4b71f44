package testutil

import (
	"sync/atomic"
	"time"

	"github.com/alexanderramin/missionctl/internal/domain"
	"github.com/google/uuid"
)

// fixtureClock hands out strictly increasing creation times so roots built
// in sequence sort in the order they were created.
var fixtureClock atomic.Int64

var fixtureEpoch = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func nextCreatedAt() time.Time {
	n := fixtureClock.Add(1)
	return fixtureEpoch.Add(time.Duration(n) * time.Second)
}

// Item options
type ItemOption func(*domain.Item)

func WithID(id string) ItemOption {
	return func(i *domain.Item) {
		i.ID = id
	}
}

func WithParent(p domain.Item) ItemOption {
	return func(i *domain.Item) {
		i.ParentID = p.ID
		i.Level = p.Level + 1
	}
}

func WithParentID(id string) ItemOption {
	return func(i *domain.Item) {
		i.ParentID = id
	}
}

func WithLevel(level int) ItemOption {
	return func(i *domain.Item) {
		i.Level = level
	}
}

func WithStatus(s domain.ItemStatus) ItemOption {
	return func(i *domain.Item) {
		i.Status = s
	}
}

func Complete() ItemOption {
	return WithStatus(domain.ItemComplete)
}

func WithDependencies(ids ...string) ItemOption {
	return func(i *domain.Item) {
		i.Dependencies = append([]string(nil), ids...)
	}
}

func WithDates(start, due string) ItemOption {
	return func(i *domain.Item) {
		i.StartDate = start
		i.DueDate = due
	}
}

func WithAgendaSlot(start, end string) ItemOption {
	return func(i *domain.Item) {
		i.StartTime = start
		i.EndTime = end
	}
}

func WithDescription(d string) ItemOption {
	return func(i *domain.Item) {
		i.Description = d
	}
}

func WithCreatedAt(t time.Time) ItemOption {
	return func(i *domain.Item) {
		i.CreatedAt = t
	}
}

// NewTestItem builds a pending Mission with a fresh id. Options adjust it;
// WithParent also derives the level from the parent.
func NewTestItem(title string, opts ...ItemOption) domain.Item {
	i := domain.Item{
		ID:           uuid.New().String(),
		Title:        title,
		Level:        domain.LevelMission,
		Status:       domain.ItemPending,
		Dependencies: []string{},
		CreatedAt:    nextCreatedAt(),
	}
	for _, opt := range opts {
		opt(&i)
	}
	return i
}
