package repository

import "errors"

// ErrNotFound is returned when a lookup, update or delete names an id that
// does not exist in the collection.
var ErrNotFound = errors.New("not found")

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
