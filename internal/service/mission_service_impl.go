package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/alexanderramin/missionctl/internal/domain"
	"github.com/alexanderramin/missionctl/internal/mission"
	"github.com/alexanderramin/missionctl/internal/store"
)

const dateLayout = "2006-01-02"

type missionService struct {
	client   store.Client
	ref      store.CollectionRef
	upload   UploadConfig
	observer UseCaseObserver
	now      func() time.Time
}

// NewMissionService binds the use cases to one user's collection.
func NewMissionService(
	client store.Client,
	ref store.CollectionRef,
	upload UploadConfig,
	observers ...UseCaseObserver,
) MissionService {
	return &missionService{
		client:   client,
		ref:      ref,
		upload:   upload,
		observer: useCaseObserverOrNoop(observers),
		now:      time.Now,
	}
}

func (s *missionService) Snapshot(ctx context.Context) ([]domain.Item, error) {
	return s.client.List(ctx, s.ref)
}

func (s *missionService) Watch(ctx context.Context, onSnapshot func([]domain.Item), onError func(error)) func() {
	return s.client.Subscribe(ctx, s.ref, onSnapshot, onError)
}

func (s *missionService) Get(ctx context.Context, id string) (domain.Item, error) {
	items, err := s.client.List(ctx, s.ref)
	if err != nil {
		return domain.Item{}, err
	}
	return findItem(items, id)
}

func (s *missionService) Create(ctx context.Context, draft mission.Draft, parentID string) (item domain.Item, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"parent_id": parentID}
	defer observe(ctx, s.observer, "create-item", startedAt, fields, &err)

	var parent *domain.Item
	if parentID != "" {
		items, err := s.client.List(ctx, s.ref)
		if err != nil {
			return domain.Item{}, err
		}
		p, err := findItem(items, parentID)
		if err != nil {
			return domain.Item{}, fmt.Errorf("parent: %w", err)
		}
		parent = &p
	}

	if draft.StartDate == "" {
		draft.StartDate = s.now().Format(dateLayout)
	}
	item, err = mission.NewItem(draft, parent)
	if err != nil {
		return domain.Item{}, err
	}
	fields["level"] = item.Level

	id, err := s.client.Create(ctx, s.ref, item)
	if err != nil {
		return domain.Item{}, err
	}
	item.ID = id
	fields["item_id"] = id
	return item, nil
}

func (s *missionService) UploadDeliverable(ctx context.Context, id string, override bool) (item domain.Item, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"item_id": id, "override": override}
	defer observe(ctx, s.observer, "upload-deliverable", startedAt, fields, &err)

	items, err := s.client.List(ctx, s.ref)
	if err != nil {
		return domain.Item{}, err
	}
	item, err = findItem(items, id)
	if err != nil {
		return domain.Item{}, err
	}
	if item.IsComplete() {
		return domain.Item{}, fmt.Errorf("%s: %w", item.Title, ErrAlreadyComplete)
	}
	if mission.IsLocked(item, items, override) {
		return domain.Item{}, fmt.Errorf("%s: %w", item.Title, ErrLocked)
	}

	if s.upload.Delay > 0 {
		timer := time.NewTimer(s.upload.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return domain.Item{}, fmt.Errorf("uploading deliverable: %w", ctx.Err())
		case <-timer.C:
		}
	}

	status := domain.ItemComplete
	url := s.upload.DeliverableURL
	completedAt := s.now().UTC()
	err = s.client.Update(ctx, s.ref, id, store.Fields{
		Status:         &status,
		DeliverableURL: &url,
		CompletedAt:    &completedAt,
	})
	if err != nil {
		return domain.Item{}, err
	}

	item.Status = status
	item.DeliverableURL = url
	item.CompletedAt = &completedAt
	return item, nil
}

func (s *missionService) Delete(ctx context.Context, id string, cascade bool) (n int, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"item_id": id, "cascade": cascade}
	defer observe(ctx, s.observer, "delete-item", startedAt, fields, &err)

	if !cascade {
		if err := s.client.Delete(ctx, s.ref, id); err != nil {
			return 0, err
		}
		fields["deleted"] = 1
		return 1, nil
	}

	items, err := s.client.List(ctx, s.ref)
	if err != nil {
		return 0, err
	}
	if _, err := findItem(items, id); err != nil {
		return 0, err
	}
	n, err = s.client.DeleteAll(ctx, s.ref, mission.Subtree(id, items))
	if err != nil {
		return 0, err
	}
	fields["deleted"] = n
	return n, nil
}

func (s *missionService) AddDependency(ctx context.Context, id, dependsOnID string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"item_id": id, "depends_on_id": dependsOnID}
	defer observe(ctx, s.observer, "add-dependency", startedAt, fields, &err)

	if id == dependsOnID {
		return ErrSelfDependency
	}
	items, err := s.client.List(ctx, s.ref)
	if err != nil {
		return err
	}
	item, err := findItem(items, id)
	if err != nil {
		return err
	}
	if _, err := findItem(items, dependsOnID); err != nil {
		return fmt.Errorf("dependency: %w", err)
	}
	if item.DependsOn(dependsOnID) {
		return nil
	}
	if mission.WouldCycle(items, id, dependsOnID) {
		return ErrDependencyCycle
	}

	deps := append(slices.Clone(item.Dependencies), dependsOnID)
	return s.client.Update(ctx, s.ref, id, store.Fields{Dependencies: &deps})
}

func (s *missionService) RemoveDependency(ctx context.Context, id, dependsOnID string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"item_id": id, "depends_on_id": dependsOnID}
	defer observe(ctx, s.observer, "remove-dependency", startedAt, fields, &err)

	items, err := s.client.List(ctx, s.ref)
	if err != nil {
		return err
	}
	item, err := findItem(items, id)
	if err != nil {
		return err
	}
	if !item.DependsOn(dependsOnID) {
		return nil
	}

	deps := slices.DeleteFunc(slices.Clone(item.Dependencies), func(d string) bool { return d == dependsOnID })
	return s.client.Update(ctx, s.ref, id, store.Fields{Dependencies: &deps})
}

func (s *missionService) Import(ctx context.Context, items []domain.Item) (n int, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"items": len(items)}
	defer observe(ctx, s.observer, "import-items", startedAt, fields, &err)

	if len(items) == 0 {
		return 0, nil
	}
	ids, err := s.client.CreateAll(ctx, s.ref, items)
	if err != nil {
		return 0, fmt.Errorf("importing items: %w", err)
	}
	fields["imported"] = len(ids)
	return len(ids), nil
}

func findItem(items []domain.Item, id string) (domain.Item, error) {
	item, ok := mission.Find(items, id)
	if !ok {
		return domain.Item{}, fmt.Errorf("item %s: %w", id, store.ErrNotFound)
	}
	return item, nil
}
