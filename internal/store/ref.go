package store

import (
	"fmt"
	"time"

	"github.com/alexanderramin/missionctl/internal/domain"
	"github.com/alexanderramin/missionctl/internal/repository"
)

// CollectionRef addresses one user's item collection within an app.
type CollectionRef struct {
	AppID  string
	UserID string
}

// Path renders the document-store path of the collection.
func (r CollectionRef) Path() string {
	return fmt.Sprintf("artifacts/%s/users/%s/mission_items", r.AppID, r.UserID)
}

func (r CollectionRef) validate() error {
	if r.AppID == "" || r.UserID == "" {
		return fmt.Errorf("%w: app %q user %q", ErrInvalidRef, r.AppID, r.UserID)
	}
	return nil
}

// Fields is a partial update. Only non-nil fields are written; Dependencies
// replaces the item's whole dependency list.
type Fields struct {
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

func (f Fields) patch() repository.ItemPatch {
	return repository.ItemPatch(f)
}
