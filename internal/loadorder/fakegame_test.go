package loadorder_test

import (
	"slices"
)

// discoverCall records which parts of a Discover call were cache-fed.
type discoverCall struct {
	orderKnown  bool
	activeKnown bool
}

// fakeGame is a scriptable Game for service tests. It remembers an
// external state, reports drift on demand, and can normalize accepted
// orders to simulate games that rewrite requests.
type fakeGame struct {
	order  []string
	active []string

	orderDrift  bool
	activeDrift bool

	discoverErr error
	applyErr    error

	// normalize rewrites a proposed (order, active) into what the game
	// accepts. Nil accepts proposals as-is.
	normalize func(order, active []string) ([]string, []string)

	// rawDiscover, when set, is returned verbatim from Discover. Used to
	// feed inconsistent pairs into the cache controller.
	rawDiscover func() ([]string, []string)

	discoverCalls []discoverCall
	applyCalls    int
	dryRunCalls   int

	mustActive      []string
	master          string
	allowDeactivate bool
}

func (g *fakeGame) Discover(order, active []string) ([]string, []string, error) {
	g.discoverCalls = append(g.discoverCalls, discoverCall{
		orderKnown:  order != nil,
		activeKnown: active != nil,
	})

	if g.discoverErr != nil {
		return nil, nil, g.discoverErr
	}

	if g.rawDiscover != nil {
		o, a := g.rawDiscover()

		return o, a, nil
	}

	if order == nil {
		order = slices.Clone(g.order)
	}

	if active == nil {
		active = slices.Clone(g.active)
	}

	return order, keepKnown(active, order), nil
}

func (g *fakeGame) Apply(order, active, prevOrder, prevActive []string, dryRun bool) ([]string, []string, error) {
	g.applyCalls++
	if dryRun {
		g.dryRunCalls++
	}

	if g.applyErr != nil {
		return nil, nil, g.applyErr
	}

	if order == nil {
		order = prevOrder
	}

	if active == nil {
		active = prevActive
	}

	if g.normalize != nil {
		order, active = g.normalize(order, active)
	}

	accepted := slices.Clone(order)
	acceptedActive := keepKnown(active, accepted)

	if !dryRun {
		g.order = slices.Clone(accepted)
		g.active = slices.Clone(acceptedActive)
		g.orderDrift = false
		g.activeDrift = false
	}

	return accepted, acceptedActive, nil
}

func (g *fakeGame) OrderChanged() bool  { return g.orderDrift }
func (g *fakeGame) ActiveChanged() bool { return g.activeDrift }

func (g *fakeGame) Swap(oldName, newName string) error {
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

func (g *fakeGame) MustBeActive() []string      { return g.mustActive }
func (g *fakeGame) AllowDeactivateMaster() bool { return g.allowDeactivate }
func (g *fakeGame) MasterName() string          { return g.master }

func (g *fakeGame) HasConflict(name string) bool {
	return name == "conflicted.esp"
}

func (g *fakeGame) HasActiveConflict(name string, active map[string]struct{}) bool {
	_, ok := active["rival.esp"]

	return ok && name != "rival.esp"
}

// drift mutates the external state behind the service's back.
func (g *fakeGame) drift(order, active []string) {
	g.order = slices.Clone(order)
	g.active = slices.Clone(active)
	g.orderDrift = true
	g.activeDrift = true
}

func keepKnown(names, order []string) []string {
	out := make([]string, 0, len(names))

	for _, name := range names {
		if slices.Contains(order, name) {
			out = append(out, name)
		}
	}

	return out
}
