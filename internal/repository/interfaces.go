package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/missionctl/internal/domain"
)

// ItemPatch names the fields of a partial update. Nil fields are left as
// they are; a non-nil Dependencies replaces the whole list.
type ItemPatch struct {
	Title          *string
	Description    *string
	Status         *domain.ItemStatus
	DeliverableURL *string
	StartDate      *string
	DueDate        *string
	StartTime      *string
	EndTime        *string
	Dependencies   *[]string
	CompletedAt    *time.Time
}

// IsEmpty reports whether the patch changes nothing.
func (p ItemPatch) IsEmpty() bool {
	return p == ItemPatch{}
}

// ItemRepo stores the items of one or more collections. Every method is
// scoped by collection path; an id from another collection is not found.
type ItemRepo interface {
	Create(ctx context.Context, collection string, item *domain.Item) error
	GetByID(ctx context.Context, collection, id string) (*domain.Item, error)
	List(ctx context.Context, collection string) ([]domain.Item, error)
	Update(ctx context.Context, collection, id string, patch ItemPatch) error
	Delete(ctx context.Context, collection, id string) error
	DeleteMany(ctx context.Context, collection string, ids []string) (int, error)
}

// VersionRepo tracks a per-collection write counter.
type VersionRepo interface {
	Bump(ctx context.Context, collection string) (int64, error)
	Get(ctx context.Context, collection string) (int64, error)
}
