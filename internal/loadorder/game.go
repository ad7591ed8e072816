package loadorder

import "slices"

// Game is the adapter to the system of record for a specific game. It
// validates and normalizes proposed load orders; the [Service] never
// touches game files itself.
//
// Implementations own all file formats (plugins.txt and friends) and any
// retry policy. They must return internally consistent pairs: every
// returned active plugin appears in the returned order.
type Game interface {
	// Discover fills gaps by querying the underlying system. A nil order
	// or active asks the game to (re)discover that part; non-nil slices
	// are trusted as already known.
	Discover(order, active []string) ([]string, []string, error)

	// Apply writes a proposed order and active set, given the previous
	// state for diffing, and returns what was actually accepted (the
	// game may normalize the request). With dryRun set it must not
	// mutate external state, only report what would be accepted.
	Apply(order, active, prevOrder, prevActive []string, dryRun bool) ([]string, []string, error)

	// OrderChanged reports whether the external load order drifted since
	// the last Discover or Apply. Cheap; used to decide cache reuse.
	OrderChanged() bool

	// ActiveChanged is OrderChanged for the active set.
	ActiveChanged() bool

	// Swap renames a plugin across external artifacts.
	Swap(oldName, newName string) error

	// MustBeActive lists plugins the game forces active when present.
	MustBeActive() []string

	// AllowDeactivateMaster reports whether the master file may be
	// deactivated.
	AllowDeactivateMaster() bool

	// MasterName returns the game's master file name.
	MasterName() string

	// HasConflict reports a load-order conflict for the plugin.
	HasConflict(name string) bool

	// HasActiveConflict reports a conflict against the given active set.
	HasActiveConflict(name string, active map[string]struct{}) bool
}

// PassthroughGame is a Game with no system of record behind it: proposals
// are accepted as-is and discovery returns the last applied state. It
// backs the CLI and tests; real game strategies live outside this module.
type PassthroughGame struct {
	order  []string
	active []string

	master                string
	mustActive            []string
	allowDeactivateMaster bool
}

// NewPassthroughGame returns a passthrough seeded with the given state.
func NewPassthroughGame(order, active []string) *PassthroughGame {
	return &PassthroughGame{
		order:  slices.Clone(order),
		active: slices.Clone(active),
	}
}

// Seed replaces the remembered external state.
func (g *PassthroughGame) Seed(order, active []string) {
	g.order = slices.Clone(order)
	g.active = slices.Clone(active)
}

// SetMaster configures the master file policy.
func (g *PassthroughGame) SetMaster(name string, allowDeactivate bool) {
	g.master = name
	g.allowDeactivateMaster = allowDeactivate
}

// Discover returns the remembered state for whichever of order and
// active is nil. Active plugins outside the order are dropped so the
// returned pair is always consistent.
func (g *PassthroughGame) Discover(order, active []string) ([]string, []string, error) {
	if order == nil {
		order = slices.Clone(g.order)
	}

	if active == nil {
		active = slices.Clone(g.active)
	}

	return order, restrict(active, order), nil
}

// Apply accepts the proposal as-is, falling back to the previous state
// for nil parts. Unless dryRun is set, the result becomes the
// remembered state.
func (g *PassthroughGame) Apply(order, active, prevOrder, prevActive []string, dryRun bool) ([]string, []string, error) {
	if order == nil {
		order = prevOrder
	}

	if active == nil {
		active = prevActive
	}

	accepted := slices.Clone(order)
	acceptedActive := restrict(active, accepted)

	if !dryRun {
		g.order = slices.Clone(accepted)
		g.active = slices.Clone(acceptedActive)
	}

	return accepted, acceptedActive, nil
}

// OrderChanged always reports false: nothing mutates the passthrough
// state behind the service's back.
func (g *PassthroughGame) OrderChanged() bool { return false }

// ActiveChanged always reports false.
func (g *PassthroughGame) ActiveChanged() bool { return false }

// Swap renames the plugin in the remembered order and active set.
func (g *PassthroughGame) Swap(oldName, newName string) error {
	for i, name := range g.order {
		if name == oldName {
			g.order[i] = newName
		}
	}

	for i, name := range g.active {
		if name == oldName {
			g.active[i] = newName
		}
	}

	return nil
}

// MustBeActive returns the configured must-be-active plugins.
func (g *PassthroughGame) MustBeActive() []string { return slices.Clone(g.mustActive) }

// SetMustBeActive configures the must-be-active plugins.
func (g *PassthroughGame) SetMustBeActive(names []string) { g.mustActive = slices.Clone(names) }

// AllowDeactivateMaster reports the configured master policy.
func (g *PassthroughGame) AllowDeactivateMaster() bool { return g.allowDeactivateMaster }

// MasterName returns the configured master file name.
func (g *PassthroughGame) MasterName() string { return g.master }

// HasConflict always reports false; the passthrough has no timestamps
// to conflict on.
func (g *PassthroughGame) HasConflict(string) bool { return false }

// HasActiveConflict always reports false.
func (g *PassthroughGame) HasActiveConflict(string, map[string]struct{}) bool { return false }

// restrict returns the names present in order, keeping their relative
// sequence from names.
func restrict(names, order []string) []string {
	known := make(map[string]struct{}, len(order))
	for _, name := range order {
		known[name] = struct{}{}
	}

	out := make([]string, 0, len(names))

	for _, name := range names {
		if _, ok := known[name]; ok {
			out = append(out, name)
		}
	}

	return out
}
