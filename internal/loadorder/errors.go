package loadorder

import (
	"errors"
	"strings"
)

// Sentinel errors returned by loadorder operations.
//
// Callers should use [errors.Is] to check error types.
var (
	// ErrNoLoadOrder indicates a plugin has no position in the load order.
	//
	// Callers that need a total function use [Snapshot.IndexOfOrLast]
	// instead, which sorts unknown plugins last.
	ErrNoLoadOrder = errors.New("loadorder: plugin has no load order")

	// ErrNotActive indicates a plugin is not in the active set.
	ErrNotActive = errors.New("loadorder: plugin is not active")

	// ErrDuplicatePlugin indicates a plugin appears more than once in a
	// proposed load order.
	ErrDuplicatePlugin = errors.New("loadorder: duplicate plugin in load order")

	// ErrReconcile indicates the game adapter failed while discovering or
	// applying a load order. The cache slot has been reset to the empty
	// snapshot; the requested change did not take effect.
	ErrReconcile = errors.New("loadorder: reconciliation failed")

	// ErrStoreCorrupt indicates the history store file is damaged.
	//
	// Recovery: delete the file. The service treats this as an empty
	// history.
	ErrStoreCorrupt = errors.New("loadorder: history store corrupted")

	// ErrStoreVersion indicates the history store was written by an
	// incompatible version.
	//
	// Recovery: delete the file. The service treats this as an empty
	// history.
	ErrStoreVersion = errors.New("loadorder: history store version mismatch")

	// ErrLockDeclined indicates the user declined the lock confirmation
	// prompt. The lock remains off.
	ErrLockDeclined = errors.New("loadorder: lock load order declined")
)

// ValidationError reports active plugins that have no position in the
// proposed load order. Construction of a [Snapshot] fails with this error
// whenever the active set is not a subset of the order.
type ValidationError struct {
	// Missing lists every active plugin absent from the order, sorted.
	Missing []string
}

func (e *ValidationError) Error() string {
	return "loadorder: active plugins with no load order: " + strings.Join(e.Missing, ", ")
}
