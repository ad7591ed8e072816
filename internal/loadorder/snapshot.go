package loadorder

import (
	"fmt"
	"hash/fnv"
	"maps"
	"math"
	"slices"
	"sort"
)

// Snapshot is an immutable load order: a total order over plugin names
// plus the subset of them that is active.
//
// All derived lookups (position in the order, position among active
// plugins) are memoized at construction, so queries are O(1). A Snapshot
// is never mutated after construction; accessors return copies.
type Snapshot struct {
	order         []string
	active        map[string]struct{}
	activeOrdered []string
	orderIndex    map[string]int
	activeIndex   map[string]int
}

// emptySnapshot is the safe sentinel stored in the cache slot whenever
// reconciliation fails. Identity-compared, never mutated.
var emptySnapshot = &Snapshot{
	active:      map[string]struct{}{},
	orderIndex:  map[string]int{},
	activeIndex: map[string]int{},
}

// NewSnapshot builds a Snapshot from a load order and the names of the
// active plugins. Duplicate names in active collapse into the set.
//
// Returns [ErrDuplicatePlugin] if order contains a name twice, and a
// [*ValidationError] listing every active plugin absent from order.
func NewSnapshot(order []string, active []string) (*Snapshot, error) {
	orderIndex := make(map[string]int, len(order))

	for i, name := range order {
		if _, dup := orderIndex[name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePlugin, name)
		}

		orderIndex[name] = i
	}

	activeSet := make(map[string]struct{}, len(active))

	var missing []string

	for _, name := range active {
		if _, known := orderIndex[name]; !known {
			missing = append(missing, name)

			continue
		}

		activeSet[name] = struct{}{}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		missing = slices.Compact(missing)

		return nil, &ValidationError{Missing: missing}
	}

	activeOrdered := make([]string, 0, len(activeSet))
	for name := range activeSet {
		activeOrdered = append(activeOrdered, name)
	}

	slices.SortFunc(activeOrdered, func(a, b string) int {
		return orderIndex[a] - orderIndex[b]
	})

	activeIndex := make(map[string]int, len(activeOrdered))
	for i, name := range activeOrdered {
		activeIndex[name] = i
	}

	return &Snapshot{
		order:         slices.Clone(order),
		active:        activeSet,
		activeOrdered: activeOrdered,
		orderIndex:    orderIndex,
		activeIndex:   activeIndex,
	}, nil
}

// Order returns a copy of the full load order.
func (s *Snapshot) Order() []string {
	return slices.Clone(s.order)
}

// Active returns a copy of the active set.
func (s *Snapshot) Active() map[string]struct{} {
	return maps.Clone(s.active)
}

// ActiveOrdered returns a copy of the active plugins in load order.
func (s *Snapshot) ActiveOrdered() []string {
	return slices.Clone(s.activeOrdered)
}

// Len returns the number of plugins in the load order.
func (s *Snapshot) Len() int {
	return len(s.order)
}

// ActiveLen returns the number of active plugins.
func (s *Snapshot) ActiveLen() int {
	return len(s.active)
}

// Empty reports whether the snapshot has no plugins and no actives.
func (s *Snapshot) Empty() bool {
	return len(s.order) == 0 && len(s.active) == 0
}

// IsActive reports whether the plugin is in the active set.
func (s *Snapshot) IsActive(name string) bool {
	_, ok := s.active[name]

	return ok
}

// IndexOf returns the plugin's position in the load order.
// Returns [ErrNoLoadOrder] if the plugin is unknown.
func (s *Snapshot) IndexOf(name string) (int, error) {
	i, ok := s.orderIndex[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNoLoadOrder, name)
	}

	return i, nil
}

// IndexOfOrLast returns the plugin's position in the load order, or
// math.MaxInt for unknown plugins. Used as a sort key that pushes
// plugins without a load order to the end.
func (s *Snapshot) IndexOfOrLast(name string) int {
	i, ok := s.orderIndex[name]
	if !ok {
		return math.MaxInt
	}

	return i
}

// ActiveIndexOf returns the plugin's position among the active plugins
// in load order. Returns [ErrNotActive] if the plugin is not active.
func (s *Snapshot) ActiveIndexOf(name string) (int, error) {
	i, ok := s.activeIndex[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotActive, name)
	}

	return i, nil
}

// Reorder returns the given plugins sorted into load order. Every name
// must have a load order position; avoiding unknown names is the
// caller's responsibility. Returns [ErrNoLoadOrder] otherwise.
func (s *Snapshot) Reorder(names []string) ([]string, error) {
	for _, name := range names {
		if _, ok := s.orderIndex[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoLoadOrder, name)
		}
	}

	out := slices.Clone(names)
	slices.SortFunc(out, func(a, b string) int {
		return s.orderIndex[a] - s.orderIndex[b]
	})

	return out, nil
}

// Equal reports whether both snapshots have the same order and the same
// active set. Derived fields never participate.
func (s *Snapshot) Equal(other *Snapshot) bool {
	if other == nil {
		return false
	}

	return slices.Equal(s.order, other.order) && maps.Equal(s.active, other.active)
}

// Hash returns a hash consistent with Equal: equal snapshots hash
// equally. Computed over the order and the active plugins only.
func (s *Snapshot) Hash() uint64 {
	h := fnv.New64a()

	for _, name := range s.order {
		_, _ = h.Write([]byte(name))
		_, _ = h.Write([]byte{0})
	}

	_, _ = h.Write([]byte{1})

	// activeOrdered is a deterministic function of (order, active), so
	// hashing it keeps Hash consistent with Equal.
	for _, name := range s.activeOrdered {
		_, _ = h.Write([]byte(name))
		_, _ = h.Write([]byte{0})
	}

	return h.Sum64()
}
