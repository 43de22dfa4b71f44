// Package store is the item store client: a per-user document collection
// with create, update, delete and change subscription. Every change to a
// collection is followed by a full snapshot to each of its subscribers.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/missionctl/internal/db"
	"github.com/alexanderramin/missionctl/internal/domain"
	"github.com/alexanderramin/missionctl/internal/repository"
	"github.com/google/uuid"
)

// Client is the document-store capability the rest of the module consumes.
type Client interface {
	// Subscribe delivers the full item list once at start and again after
	// every change to the collection. The returned func stops delivery.
	Subscribe(ctx context.Context, ref CollectionRef, onSnapshot func([]domain.Item), onError func(error)) (unsubscribe func())
	List(ctx context.Context, ref CollectionRef) ([]domain.Item, error)
	Create(ctx context.Context, ref CollectionRef, item domain.Item) (string, error)
	// CreateAll stores a batch in one transaction. See SQLiteClient.CreateAll.
	CreateAll(ctx context.Context, ref CollectionRef, items []domain.Item) ([]string, error)
	Update(ctx context.Context, ref CollectionRef, id string, fields Fields) error
	Delete(ctx context.Context, ref CollectionRef, id string) error
	// DeleteAll removes ids in one transaction, skipping ids already gone,
	// and reports how many were removed.
	DeleteAll(ctx context.Context, ref CollectionRef, ids []string) (int, error)
}

// SQLiteClient implements Client over the items tables. Each collection
// carries a version counter bumped on every write; subscribers skip
// refreshes that find the version unchanged.
type SQLiteClient struct {
	db     *sql.DB
	uow    db.UnitOfWork
	logger *slog.Logger

	now   func() time.Time
	newID func() string

	mu     sync.Mutex
	subs   map[int]*subscription
	nextID int
	closed bool
}

// Option configures a SQLiteClient.
type Option func(*SQLiteClient)

// WithLogger sets the logger used for subscription errors.
func WithLogger(l *slog.Logger) Option {
	return func(c *SQLiteClient) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock overrides the server timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *SQLiteClient) { c.now = now }
}

// WithIDGenerator overrides document id assignment.
func WithIDGenerator(gen func() string) Option {
	return func(c *SQLiteClient) { c.newID = gen }
}

// NewSQLiteClient creates a client over an opened, migrated database.
func NewSQLiteClient(database *sql.DB, opts ...Option) *SQLiteClient {
	c := &SQLiteClient{
		db:     database,
		uow:    db.NewSQLiteUnitOfWork(database),
		logger: slog.New(slog.DiscardHandler),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return uuid.New().String() },
		subs:   make(map[int]*subscription),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *SQLiteClient) List(ctx context.Context, ref CollectionRef) ([]domain.Item, error) {
	if err := ref.validate(); err != nil {
		return nil, err
	}
	items, err := repository.NewSQLiteItemRepo(c.db).List(ctx, ref.Path())
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", ref.Path(), err)
	}
	return items, nil
}

// Create stores item under a fresh id with a server creation time. Any ID
// or CreatedAt on item is ignored.
func (c *SQLiteClient) Create(ctx context.Context, ref CollectionRef, item domain.Item) (string, error) {
	if err := ref.validate(); err != nil {
		return "", err
	}
	item = item.Clone()
	item.ID = c.newID()
	item.CreatedAt = c.now()
	if item.Status == "" {
		item.Status = domain.ItemPending
	}

	err := c.write(ctx, ref, func(ctx context.Context, items repository.ItemRepo) error {
		return items.Create(ctx, ref.Path(), &item)
	})
	if err != nil {
		return "", fmt.Errorf("creating item: %w", err)
	}
	return item.ID, nil
}

// CreateAll stores items in one transaction, each under a fresh id with a
// server creation time. A ParentID or dependency that names another item of
// the batch by its incoming ID is rewritten to that item's new id; other
// references are kept as given. The new ids are returned in input order.
func (c *SQLiteClient) CreateAll(ctx context.Context, ref CollectionRef, items []domain.Item) ([]string, error) {
	if err := ref.validate(); err != nil {
		return nil, err
	}

	remap := make(map[string]string, len(items))
	batch := make([]domain.Item, len(items))
	created := c.now()
	for i, item := range items {
		batch[i] = item.Clone()
		newID := c.newID()
		if item.ID != "" {
			remap[item.ID] = newID
		}
		batch[i].ID = newID
		// Keep input order stable under the created_at sort.
		batch[i].CreatedAt = created.Add(time.Duration(i) * time.Microsecond)
		if batch[i].Status == "" {
			batch[i].Status = domain.ItemPending
		}
	}
	for i := range batch {
		if to, ok := remap[batch[i].ParentID]; ok {
			batch[i].ParentID = to
		}
		for j, dep := range batch[i].Dependencies {
			if to, ok := remap[dep]; ok {
				batch[i].Dependencies[j] = to
			}
		}
	}

	err := c.write(ctx, ref, func(ctx context.Context, repo repository.ItemRepo) error {
		for i := range batch {
			if err := repo.Create(ctx, ref.Path(), &batch[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("creating %d items: %w", len(items), err)
	}

	ids := make([]string, len(batch))
	for i := range batch {
		ids[i] = batch[i].ID
	}
	return ids, nil
}

func (c *SQLiteClient) Update(ctx context.Context, ref CollectionRef, id string, fields Fields) error {
	if err := ref.validate(); err != nil {
		return err
	}
	err := c.write(ctx, ref, func(ctx context.Context, items repository.ItemRepo) error {
		return items.Update(ctx, ref.Path(), id, fields.patch())
	})
	if err != nil {
		return fmt.Errorf("updating item %s: %w", id, err)
	}
	return nil
}

// Delete removes a single document. Children are not touched.
func (c *SQLiteClient) Delete(ctx context.Context, ref CollectionRef, id string) error {
	if err := ref.validate(); err != nil {
		return err
	}
	err := c.write(ctx, ref, func(ctx context.Context, items repository.ItemRepo) error {
		return items.Delete(ctx, ref.Path(), id)
	})
	if err != nil {
		return fmt.Errorf("deleting item %s: %w", id, err)
	}
	return nil
}

func (c *SQLiteClient) DeleteAll(ctx context.Context, ref CollectionRef, ids []string) (int, error) {
	if err := ref.validate(); err != nil {
		return 0, err
	}
	var deleted int
	err := c.write(ctx, ref, func(ctx context.Context, items repository.ItemRepo) error {
		var err error
		deleted, err = items.DeleteMany(ctx, ref.Path(), ids)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("deleting %d items: %w", len(ids), err)
	}
	return deleted, nil
}

// write runs fn and the version bump in one transaction, then wakes the
// collection's subscribers.
func (c *SQLiteClient) write(ctx context.Context, ref CollectionRef, fn func(ctx context.Context, items repository.ItemRepo) error) error {
	if c.isClosed() {
		return ErrClosed
	}
	err := c.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := fn(ctx, repository.NewSQLiteItemRepo(tx)); err != nil {
			return err
		}
		_, err := repository.NewSQLiteVersionRepo(tx).Bump(ctx, ref.Path())
		return err
	})
	if err != nil {
		return err
	}
	c.notify(ref.Path())
	return nil
}

func (c *SQLiteClient) version(ctx context.Context, path string) (int64, error) {
	return repository.NewSQLiteVersionRepo(c.db).Get(ctx, path)
}

func (c *SQLiteClient) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close stops every subscription. Later writes fail with ErrClosed.
func (c *SQLiteClient) Close() {
	c.mu.Lock()
	subs := c.subs
	c.subs = make(map[int]*subscription)
	c.closed = true
	c.mu.Unlock()

	for _, s := range subs {
		s.stop()
	}
}

var _ Client = (*SQLiteClient)(nil)
