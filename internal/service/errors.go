package service

import "errors"

var (
	// ErrLocked indicates an upload on an item whose dependencies are not
	// complete.
	ErrLocked = errors.New("item is locked by incomplete dependencies")

	// ErrAlreadyComplete indicates an upload on a completed item.
	ErrAlreadyComplete = errors.New("item is already complete")

	ErrSelfDependency  = errors.New("an item cannot depend on itself")
	ErrDependencyCycle = errors.New("dependency would create a cycle")
)
