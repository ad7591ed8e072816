package loadorder

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"time"

	"github.com/natefinch/atomic"
)

// historyRecordVersion is bumped whenever the stored layout changes.
// Old files are rejected with ErrStoreVersion and the history rebuilt
// from scratch; the store is a cache, not a database.
const historyRecordVersion = 1

// storedEntry is the on-disk form of one history entry. Only the
// ordered actives are stored; the set is rebuilt on load.
type storedEntry struct {
	At            time.Time
	Order         []string
	ActiveOrdered []string
}

// historyRecord is the versioned on-disk history.
type historyRecord struct {
	Version int
	Entries []storedEntry
	Cursor  int
}

// historyStore reads and writes the history file.
type historyStore struct {
	path string
}

func newHistoryStore(path string) *historyStore {
	return &historyStore{path: path}
}

// load reads the history from disk. A missing file is an empty history.
// Returns ErrStoreVersion for unknown versions and ErrStoreCorrupt for
// anything that does not decode into a valid record.
func (st *historyStore) load() (history, error) {
	data, err := os.ReadFile(st.path)
	if err != nil {
		if os.IsNotExist(err) {
			return newHistory(), nil
		}

		return history{}, fmt.Errorf("reading history store: %w", err)
	}

	var rec historyRecord

	decodeErr := gob.NewDecoder(bytes.NewReader(data)).Decode(&rec)
	if decodeErr != nil {
		return history{}, ErrStoreCorrupt
	}

	if rec.Version != historyRecordVersion {
		return history{}, fmt.Errorf("%w: got %d, want %d", ErrStoreVersion, rec.Version, historyRecordVersion)
	}

	if rec.Cursor < -1 || rec.Cursor > len(rec.Entries)-1 {
		return history{}, ErrStoreCorrupt
	}

	if len(rec.Entries) > 0 && rec.Cursor < 0 {
		return history{}, ErrStoreCorrupt
	}

	h := history{cursor: rec.Cursor}
	h.entries = make([]entry, 0, len(rec.Entries))

	for _, se := range rec.Entries {
		lord, snapErr := NewSnapshot(se.Order, se.ActiveOrdered)
		if snapErr != nil {
			return history{}, fmt.Errorf("%w: %w", ErrStoreCorrupt, snapErr)
		}

		h.entries = append(h.entries, entry{at: se.At, lord: lord})
	}

	return h, nil
}

// save writes at most keepMax entries around the cursor, atomically.
// The in-memory history is not trimmed; only the persisted copy is.
func (st *historyStore) save(h history, keepMax int) error {
	entries, cursor := h.window(keepMax)

	rec := historyRecord{
		Version: historyRecordVersion,
		Entries: make([]storedEntry, 0, len(entries)),
		Cursor:  cursor,
	}

	for _, e := range entries {
		rec.Entries = append(rec.Entries, storedEntry{
			At:            e.at,
			Order:         e.lord.Order(),
			ActiveOrdered: e.lord.ActiveOrdered(),
		})
	}

	var buf bytes.Buffer

	encodeErr := gob.NewEncoder(&buf).Encode(rec)
	if encodeErr != nil {
		return fmt.Errorf("encoding history store: %w", encodeErr)
	}

	writeErr := atomic.WriteFile(st.path, &buf)
	if writeErr != nil {
		return fmt.Errorf("writing history store: %w", writeErr)
	}

	return nil
}
