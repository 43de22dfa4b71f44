package cli

import (
	"context"

	"github.com/alexanderramin/missionctl/internal/domain"
	"github.com/alexanderramin/missionctl/internal/mission"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App
	Ctx context.Context

	// Latest snapshot and the tree derived from it.
	Items  []domain.Item
	Tree   mission.Tree
	Loaded bool
	Err    error

	// Session-only UI state. None of it is persisted.
	Override  bool
	Expanded  map[string]bool
	Uploading map[string]bool

	// One-line result of the last action, cleared on the next key.
	Flash string

	// Terminal dimensions
	Width  int
	Height int
}

func newSharedState(ctx context.Context, app *App) *SharedState {
	return &SharedState{
		App:       app,
		Ctx:       ctx,
		Tree:      mission.BuildTree(nil),
		Expanded:  make(map[string]bool),
		Uploading: make(map[string]bool),
	}
}

// applySnapshot replaces the snapshot and rebuilds the derived tree.
func (s *SharedState) applySnapshot(items []domain.Item) {
	s.Items = items
	s.Tree = mission.BuildTree(items)
	s.Loaded = true
	s.Err = nil
}

// find returns the snapshot entry for id.
func (s *SharedState) find(id string) (domain.Item, bool) {
	return mission.Find(s.Items, id)
}

// ContentHeight returns the available height for view content,
// accounting for header (3 lines: title, tabs, separator) and
// status bar (3 lines: separator, flash, hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 6
	if h < 1 {
		return 1
	}
	return h
}
