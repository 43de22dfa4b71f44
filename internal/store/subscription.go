package store

import (
	"context"
	"sync"

	"github.com/alexanderramin/missionctl/internal/domain"
)

// subscription delivers snapshots of one collection on its own goroutine.
// Wake-ups coalesce in a one-slot channel, so a slow subscriber only ever
// sees the latest state and writers never block on it.
type subscription struct {
	path       string
	client     *SQLiteClient
	ref        CollectionRef
	onSnapshot func([]domain.Item)
	onError    func(error)

	wake     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	lastVersion int64
	delivered   bool
}

func (c *SQLiteClient) Subscribe(ctx context.Context, ref CollectionRef, onSnapshot func([]domain.Item), onError func(error)) func() {
	s := &subscription{
		path:       ref.Path(),
		client:     c,
		ref:        ref,
		onSnapshot: onSnapshot,
		onError:    onError,
		wake:       make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
	if err := ref.validate(); err != nil {
		s.fail(err)
		return func() {}
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		s.fail(ErrClosed)
		return func() {}
	}
	id := c.nextID
	c.nextID++
	c.subs[id] = s
	c.mu.Unlock()

	s.poke()
	go s.run(ctx)

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
		s.stop()
	}
}

// notify wakes every subscriber of path.
func (c *SQLiteClient) notify(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.subs {
		if s.path == path {
			s.poke()
		}
	}
}

// Refresh wakes every subscriber. Subscribers whose collection version is
// unchanged since their last snapshot deliver nothing.
func (c *SQLiteClient) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.subs {
		s.poke()
	}
}

func (s *subscription) poke() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscription) stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

func (s *subscription) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-s.wake:
			s.deliver(ctx)
		}
	}
}

func (s *subscription) deliver(ctx context.Context) {
	version, err := s.client.version(ctx, s.path)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.fail(err)
		return
	}
	if s.delivered && version == s.lastVersion {
		return
	}

	items, err := s.client.List(ctx, s.ref)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.fail(err)
		return
	}

	select {
	case <-s.done:
		return
	default:
	}
	s.lastVersion = version
	s.delivered = true
	if s.onSnapshot != nil {
		s.onSnapshot(items)
	}
}

func (s *subscription) fail(err error) {
	s.client.logger.Error("subscription failed", "collection", s.path, "error", err)
	if s.onError != nil {
		s.onError(err)
	}
}
