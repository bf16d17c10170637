package cli

import (
	"errors"
	"fmt"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

var errNoDrop = errors.New("nothing to drop: no draggable row at --from")

// dropCancelledError is returned by `drag` when the gesture did not end in a drop.
type dropCancelledError struct {
	reason string
}

func (e dropCancelledError) Error() string {
	if e.reason == "" {
		return "drop cancelled: no drop applies at --to"
	}
	return "drop cancelled: " + e.reason
}
