package loadorder

import "time"

// entry is one memorized load order with the time it became current.
type entry struct {
	at   time.Time
	lord *Snapshot
}

// history is the bounded undo/redo sequence. cursor is -1 while empty,
// otherwise it points at the entry matching the live cache.
//
// record and insert never truncate: navigating back and then adopting a
// new order keeps the redo tail, shifted right.
type history struct {
	entries []entry
	cursor  int
}

func newHistory() history {
	return history{cursor: -1}
}

// current returns the entry at the cursor. Callers guard cursor >= 0.
func (h *history) current() *Snapshot {
	return h.entries[h.cursor].lord
}

// record advances the cursor and inserts the snapshot there.
func (h *history) record(at time.Time, lord *Snapshot) {
	h.cursor++
	h.insert(at, lord)
}

// insert places a new entry at the cursor, shifting later entries right.
func (h *history) insert(at time.Time, lord *Snapshot) {
	h.entries = append(h.entries, entry{})
	copy(h.entries[h.cursor+1:], h.entries[h.cursor:])
	h.entries[h.cursor] = entry{at: at, lord: lord}
}

// window returns at most max entries around the cursor plus the cursor's
// position within them. The split keeps as much of the redo tail as
// fits, falling back to undo depth when the tail is short and vice
// versa. Callers with len(entries) <= max get the history unchanged.
func (h *history) window(max int) ([]entry, int) {
	length := len(h.entries)
	if length <= max {
		return h.entries, h.cursor
	}

	x, y := keepMax(max, h.cursor, length)

	return h.entries[h.cursor-x : h.cursor+y], x
}

// keepMax splits a budget of max entries into x before the cursor and y
// from the cursor on, x + y == max (one less when max is odd and the
// cursor sits mid-history).
func keepMax(max, cursor, length int) (x, y int) {
	half := max / 2

	y = length - cursor
	if y <= half {
		x = max - y

		return x, y
	}

	if cursor > half {
		return half, half
	}

	return cursor, max - cursor
}
