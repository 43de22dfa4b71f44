package store

import (
	"errors"

	"github.com/alexanderramin/missionctl/internal/repository"
)

var (
	ErrInvalidRef = errors.New("invalid collection reference")
	ErrClosed     = errors.New("store client closed")

	// ErrNotFound is returned for ids that are not in the collection.
	ErrNotFound = repository.ErrNotFound
)
