package cluster

import "fmt"

// ErrNotFound reports an unknown group or image id in a mutation.
// Retrying an already-applied mutation surfaces as ErrNotFound rather than
// silently succeeding.
type ErrNotFound struct {
	Kind string // "group" or "image"
	ID   string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// ErrInvalidOperation reports a mutation whose preconditions do not hold.
// Reason names the violated precondition and the offending ids.
type ErrInvalidOperation struct {
	Op     string
	Reason string
}

func (e *ErrInvalidOperation) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Op, e.Reason)
}
