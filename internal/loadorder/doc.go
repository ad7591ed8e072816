// Package loadorder manages plugin load orders: a cached current state,
// a bounded undo/redo history, and a lock mode that snaps external state
// back to a memorized order.
//
// The package is built around three pieces:
//
//   - [Snapshot], an immutable value pairing a total plugin order with
//     the subset of plugins that are active.
//   - [Service], the cache controller. It owns the single current
//     Snapshot, the history, and the lock flag, and mediates every read
//     and write through a [Game] adapter.
//   - The history, a bounded sequence of timestamped Snapshots with a
//     cursor, persisted as a versioned record.
//
// # Error Handling
//
// Errors fall into two categories:
//
// Rebuild errors ([ErrStoreCorrupt], [ErrStoreVersion]): the history
// store is a cache, not a database. On either error the service logs and
// starts with an empty history.
//
// Caller errors ([ErrReconcile], [*ValidationError]): a requested change
// did not take effect. The cache slot is reset to the empty snapshot
// before the error propagates, so readers never observe a half-applied
// state.
//
// # Concurrency
//
// A Service assumes a single logical actor. It has no internal locking;
// callers must serialize access. The "lock" here is the domain feature
// (Lock Load Order), not a mutex.
package loadorder
