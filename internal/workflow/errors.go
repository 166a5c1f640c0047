package workflow

import "errors"

// Workflow violations. All of them reject a single operation and are
// recoverable by the caller.
var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrPostTerminal      = errors.New("post is in a terminal status")
	ErrPostNotTerminal   = errors.New("post is not in a terminal status")
	ErrInvalidDueDate    = errors.New("due date is in the past")
	ErrEmptyComment      = errors.New("comment must not be empty")
	ErrInvalidTarget     = errors.New("assignment target must be a user or department")
	ErrNothingAssigned   = errors.New("post has no assignee")
)
