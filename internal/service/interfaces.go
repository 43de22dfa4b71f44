package service

import (
	"context"
	"time"

	"github.com/alexanderramin/missionctl/internal/domain"
	"github.com/alexanderramin/missionctl/internal/mission"
)

// MissionService holds the use cases of one signed-in user's collection.
type MissionService interface {
	// Snapshot returns the current item collection.
	Snapshot(ctx context.Context) ([]domain.Item, error)
	// Watch delivers a snapshot now and after every change until the
	// returned func is called.
	Watch(ctx context.Context, onSnapshot func([]domain.Item), onError func(error)) (stop func())
	Get(ctx context.Context, id string) (domain.Item, error)

	// Create adds a new item under parentID, or a Mission when parentID is
	// empty. The level is derived from the parent.
	Create(ctx context.Context, draft mission.Draft, parentID string) (domain.Item, error)
	// UploadDeliverable simulates uploading evidence and completes the item.
	UploadDeliverable(ctx context.Context, id string, override bool) (domain.Item, error)
	// Delete removes id. With cascade it also removes every descendant,
	// otherwise the children are left as orphans. It returns the number of
	// items removed.
	Delete(ctx context.Context, id string, cascade bool) (int, error)

	AddDependency(ctx context.Context, id, dependsOnID string) error
	RemoveDependency(ctx context.Context, id, dependsOnID string) error

	// Import stores a batch of items in one transaction. ParentID and
	// Dependencies may refer to other ids in the batch; every item gets a
	// fresh id. It returns the number of items stored.
	Import(ctx context.Context, items []domain.Item) (int, error)
}

// UploadConfig controls the simulated deliverable upload.
type UploadConfig struct {
	Delay          time.Duration
	DeliverableURL string
}
