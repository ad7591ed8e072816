package loadorder

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var errNoGame = errors.New("loadorder: game adapter required")

// LockStore persists the Lock Load Order flag alongside general
// settings. A nil store keeps the flag in memory only.
type LockStore interface {
	LoadLocked() (bool, error)
	SaveLocked(locked bool) error
}

// Options configure a [Service].
type Options struct {
	// Game is the adapter to the system of record. Required.
	Game Game

	// HistoryPath is the history store file. Empty disables persistence.
	HistoryPath string

	// Locks persists the lock flag. Nil keeps it in memory.
	Locks LockStore

	// KeepMax caps the persisted history. Defaults to 256.
	KeepMax int

	// Clock stamps history entries. Defaults to time.Now.
	Clock func() time.Time

	// Logf receives diagnostics. Defaults to discard.
	Logf func(format string, args ...any)
}

// DefaultKeepMax is the default cap on persisted history entries.
const DefaultKeepMax = 256

// Service is the load-order cache controller. It owns the single
// current [Snapshot], the undo/redo history, and the lock flag, and
// mediates every read and write through the [Game] adapter.
//
// Not safe for concurrent use; callers serialize access.
type Service struct {
	game    Game
	store   *historyStore
	locks   LockStore
	clock   func() time.Time
	logf    func(format string, args ...any)
	keepMax int

	cached     *Snapshot
	hist       history
	histLoaded bool
	locked     bool
	warnLocked bool
}

// New builds a Service. The cache slot starts at the empty snapshot;
// history and the persisted lock flag load lazily on first access.
func New(opts Options) (*Service, error) {
	if opts.Game == nil {
		return nil, errNoGame
	}

	s := &Service{
		game:    opts.Game,
		locks:   opts.Locks,
		clock:   opts.Clock,
		logf:    opts.Logf,
		keepMax: opts.KeepMax,
		cached:  emptySnapshot,
		hist:    newHistory(),
	}

	if opts.HistoryPath != "" {
		s.store = newHistoryStore(opts.HistoryPath)
	}

	if s.clock == nil {
		s.clock = time.Now
	}

	if s.logf == nil {
		s.logf = func(string, ...any) {}
	}

	if s.keepMax <= 0 {
		s.keepMax = DefaultKeepMax
	}

	return s, nil
}

// Current returns the cache slot as-is, without consulting the game.
// After a reconciliation failure this is the empty snapshot.
func (s *Service) Current() *Snapshot {
	return s.cached
}

// Get returns the current load order, refreshing the cache through the
// game adapter. With useCachedOrder (resp. useCachedActive) set, the
// cached order (actives) is reused instead of re-discovered, provided
// the adapter reports no external drift.
//
// When the lock is engaged and a memorized order exists, external state
// that drifted from it is forcibly rewritten back and the lock warning
// flag is set.
func (s *Service) Get(useCachedOrder, useCachedActive bool) (*Snapshot, error) {
	s.ensureLoaded()

	var saved *Snapshot

	if s.locked && s.hist.cursor >= 0 {
		mem := s.hist.current()

		// Dry run: the game may have normalized the memorized order
		// since it was recorded.
		lord, acti, err := s.game.Apply(mem.Order(), mem.ActiveOrdered(), nil, nil, true)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReconcile, err)
		}

		saved, err = NewSnapshot(lord, acti)
		if err != nil {
			return nil, err
		}
	}

	var order, active []string

	if s.cached != emptySnapshot {
		if useCachedOrder && !s.game.OrderChanged() {
			order = s.cached.Order()
		}

		if useCachedActive && !s.game.ActiveChanged() {
			active = s.cached.ActiveOrdered()
		}
	}

	if err := s.refresh(order, active, 0); err != nil {
		return nil, err
	}

	if saved != nil && !slices.Equal(s.cached.order, saved.order) {
		if _, err := s.Set(saved.Order(), saved.ActiveOrdered()); err != nil {
			return nil, err
		}

		s.warnLocked = true
	}

	return s.cached, nil
}

// Set applies a new load order and active set through the game adapter
// and makes the accepted result current. The game may normalize the
// request; the returned Snapshot reflects what was actually accepted.
//
// A nil active keeps the adapter's notion of the previous actives.
func (s *Service) Set(order, active []string) (*Snapshot, error) {
	return s.set(order, active, 0)
}

func (s *Service) set(order, active []string, indexMove int) (*Snapshot, error) {
	var prevOrder, prevActive []string

	if s.cached != emptySnapshot {
		prevOrder = s.cached.Order()
		prevActive = s.cached.ActiveOrdered()
	}

	lord, acti, err := s.game.Apply(order, active, prevOrder, prevActive, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReconcile, err)
	}

	if err := s.refresh(lord, acti, indexMove); err != nil {
		return nil, err
	}

	return s.cached, nil
}

// refresh finalizes (order, active) through the adapter, constructs the
// new Snapshot, and stores it in the cache slot. On any failure the
// slot resets to the empty snapshot before the error propagates: an
// invalid cache is worse than a visible error.
//
// indexMove is zero except during undo/redo, where it moves the history
// cursor instead of growing the history.
func (s *Service) refresh(order, active []string, indexMove int) error {
	lord, acti, err := s.game.Discover(order, active)
	if err != nil {
		s.cached = emptySnapshot
		s.logf("loadorder: cache refresh failed: %v", err)

		return fmt.Errorf("%w: %w", ErrReconcile, err)
	}

	snap, err := NewSnapshot(lord, acti)
	if err != nil {
		s.cached = emptySnapshot
		s.logf("loadorder: cache refresh failed: %v", err)

		return err
	}

	s.cached = snap
	s.updateHistory(indexMove)

	return nil
}

// updateHistory records the cache slot into the history. A genuinely
// new snapshot is inserted after the cursor; undo/redo moves the cursor
// by indexMove instead. A partial undo/redo (the landed state differs
// from the recorded one) plants a corrective entry next to the target.
func (s *Service) updateHistory(indexMove int) {
	switch {
	case s.hist.cursor < 0 || (indexMove == 0 && !s.cached.Equal(s.hist.current())):
		s.hist.record(s.clock(), s.cached)
	case indexMove != 0:
		s.hist.cursor += indexMove

		if !s.hist.current().Equal(s.cached) {
			// Plant after (redo) or before (undo) the target.
			s.hist.cursor += sign(indexMove)
			if s.hist.cursor < 0 {
				s.hist.cursor = 0
			}

			s.hist.insert(s.clock(), s.cached)
		}
	}
}

// Undo steps the history back one entry. Beyond the oldest entry it is
// a no-op returning the current snapshot.
func (s *Service) Undo() (*Snapshot, error) {
	s.ensureLoaded()

	return s.restore(-1)
}

// Redo steps the history forward one entry. Beyond the newest entry it
// is a no-op returning the current snapshot.
func (s *Service) Redo() (*Snapshot, error) {
	s.ensureLoaded()

	return s.restore(1)
}

// restore walks the history away from the cursor by step, skipping
// entries that the game normalizes into the live state (undoing to an
// indistinguishable order would be a silent no-op), until a genuinely
// different snapshot is found or the history bounds are hit.
func (s *Service) restore(step int) (*Snapshot, error) {
	move := step

	for {
		index := s.hist.cursor + move
		if index < 0 || index > len(s.hist.entries)-1 {
			return s.cached, nil
		}

		previous := s.hist.entries[index].lord

		lord, acti, err := s.game.Apply(previous.Order(), previous.ActiveOrdered(), nil, nil, true)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReconcile, err)
		}

		fixed, err := NewSnapshot(lord, acti)
		if err != nil {
			return nil, err
		}

		if fixed.Equal(s.cached) {
			move += sign(move)

			continue
		}

		return s.set(fixed.Order(), fixed.ActiveOrdered(), move)
	}
}

// SaveHistory persists the history, trimmed to the configured cap. The
// in-memory history keeps its full length.
func (s *Service) SaveHistory() error {
	if s.store == nil {
		return nil
	}

	s.ensureLoaded()

	return s.store.save(s.hist, s.keepMax)
}

// HistoryEntry is a read-only view of one memorized load order.
type HistoryEntry struct {
	At   time.Time
	Lord *Snapshot
}

// History returns the memorized load orders and the cursor position
// (-1 while empty).
func (s *Service) History() ([]HistoryEntry, int) {
	s.ensureLoaded()

	out := make([]HistoryEntry, 0, len(s.hist.entries))
	for _, e := range s.hist.entries {
		out = append(out, HistoryEntry{At: e.at, Lord: e.lord})
	}

	return out, s.hist.cursor
}

// ensureLoaded loads the persisted history and lock flag once. Both are
// caches: load failures are logged and replaced by empty state.
func (s *Service) ensureLoaded() {
	if s.histLoaded {
		return
	}

	s.histLoaded = true

	if s.store != nil {
		h, err := s.store.load()
		if err != nil {
			s.logf("loadorder: dropping saved history: %v", err)
			h = newHistory()
		}

		s.hist = h
	}

	if s.locks != nil {
		locked, err := s.locks.LoadLocked()
		if err != nil {
			s.logf("loadorder: dropping saved lock flag: %v", err)
			locked = false
		}

		s.locked = locked
	}
}

// Ordered returns the given plugins sorted into load order. Plugins
// without a load order position go last, in case-insensitive
// alphabetical order (also the tiebreak for equal positions).
func (s *Service) Ordered(names []string) []string {
	out := slices.Clone(names)

	slices.SortFunc(out, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	slices.SortStableFunc(out, func(a, b string) int {
		return cmp.Compare(s.cached.IndexOfOrLast(a), s.cached.IndexOfOrLast(b))
	})

	return out
}

// IndexOf returns the plugin's position in the cached load order.
func (s *Service) IndexOf(name string) (int, error) {
	return s.cached.IndexOf(name)
}

// IndexOfOrLast returns the plugin's cached position, or math.MaxInt
// for unknown plugins.
func (s *Service) IndexOfOrLast(name string) int {
	return s.cached.IndexOfOrLast(name)
}

// ActiveIndexOf returns the plugin's position among the cached active
// plugins.
func (s *Service) ActiveIndexOf(name string) (int, error) {
	return s.cached.ActiveIndexOf(name)
}

// IsActive reports whether the plugin is active in the cache.
func (s *Service) IsActive(name string) bool {
	return s.cached.IsActive(name)
}

// ActiveOrdered returns the cached active plugins in load order.
func (s *Service) ActiveOrdered() []string {
	return s.cached.ActiveOrdered()
}

// Swap renames a plugin across the game's external artifacts. The cache
// is not refreshed; callers follow up with [Service.Get].
func (s *Service) Swap(oldName, newName string) error {
	if err := s.game.Swap(oldName, newName); err != nil {
		return fmt.Errorf("swapping %s to %s: %w", oldName, newName, err)
	}

	return nil
}

// MustBeActiveIfPresent returns the plugins the game forces active,
// including the master file unless the game allows deactivating it.
func (s *Service) MustBeActiveIfPresent() map[string]struct{} {
	out := make(map[string]struct{})

	for _, name := range s.game.MustBeActive() {
		out[name] = struct{}{}
	}

	if !s.game.AllowDeactivateMaster() {
		if master := s.game.MasterName(); master != "" {
			out[master] = struct{}{}
		}
	}

	return out
}

// HasConflict reports a load-order conflict for the plugin.
func (s *Service) HasConflict(name string) bool {
	return s.game.HasConflict(name)
}

// HasActiveConflict reports a conflict between the plugin and the
// cached active set. Inactive plugins never conflict.
func (s *Service) HasActiveConflict(name string) bool {
	if !s.cached.IsActive(name) {
		return false
	}

	return s.game.HasActiveConflict(name, s.cached.Active())
}

// LoadSavedState returns the order and actives of the current entry in
// a saved history file, or nils when no history exists. Used to seed
// adapters that have no system of record of their own.
func LoadSavedState(path string) (order, active []string, err error) {
	h, err := newHistoryStore(path).load()
	if err != nil {
		return nil, nil, err
	}

	if h.cursor < 0 {
		return nil, nil, nil
	}

	cur := h.current()

	return cur.Order(), cur.ActiveOrdered(), nil
}

func sign(n int) int {
	if n < 0 {
		return -1
	}

	return 1
}
