package mutate

import (
	"errors"
	"fmt"
)

// ErrNotInContainer is returned when an entity is expected in a list it is no longer part of
// (typically because the scene changed between drag start and drop).
var ErrNotInContainer = errors.New("entity is not in the expected container")

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ReadOnlyError reports an attempt to edit library-linked (or overridden) data.
type ReadOnlyError struct {
	Kind string
	ID   string
}

func (e ReadOnlyError) Error() string {
	return fmt.Sprintf("can't edit library linked %s: %s", e.Kind, e.ID)
}

// CycleError reports an edit that would make an entity its own ancestor.
type CycleError struct {
	Kind     string
	ID       string
	ParentID string
}

func (e CycleError) Error() string {
	return fmt.Sprintf("%s %s can't be placed under %s: loop in hierarchy", e.Kind, e.ID, e.ParentID)
}

type IncompatibleError struct {
	What string
}

func (e IncompatibleError) Error() string {
	return "incompatible: " + e.What
}

type Result struct {
	Changed      bool
	EventPayload map[string]any
}
