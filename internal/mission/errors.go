package mission

import "errors"

var (
	// ErrDepthExceeded indicates a child was requested below a Step.
	ErrDepthExceeded = errors.New("maximum depth reached (Level 5: Step)")

	// ErrTitleRequired indicates a blank title on creation.
	ErrTitleRequired = errors.New("title is required")

	// ErrAgendaNotAllowed indicates agenda times were supplied for an item
	// whose parent is above the Subtask level.
	ErrAgendaNotAllowed = errors.New("agenda slot is only available below a subtask")
)
