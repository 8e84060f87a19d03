// Package history keeps the bounded, newest-first list of past searches.
//
// The list lives in memory and is written through to a prefs.Store after
// every mutation. A failed write only flips the store into degraded mode;
// the session keeps working from memory.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/csheth/paperlens/internal/logging"
	"github.com/csheth/paperlens/internal/prefs"
)

const (
	// Key is where the serialized list is stored.
	Key = "paperlens.searchHistory"
	// MaxEntries caps the list; older entries fall off the end.
	MaxEntries = 20
	// DisplayLayout formats Entry.DisplayTime.
	DisplayLayout = "Jan 2, 2006 15:04"
)

// Entry is one remembered search.
type Entry struct {
	ID          string    `json:"id"`
	Query       string    `json:"query"`
	Source      string    `json:"source"`
	SearchType  string    `json:"searchType"`
	CreatedAt   time.Time `json:"timestamp"`
	DisplayTime string    `json:"displayTime"`
}

// Store owns the entries. It is not safe for concurrent use; the TUI
// mutates it only from its Update loop.
type Store struct {
	backend      prefs.Store
	entries      []Entry
	degraded     bool
	clearPending bool

	now   func() time.Time
	newID func() string
}

// Load reads the persisted list. Unreadable or corrupt data yields an empty
// list rather than an error.
func Load(ctx context.Context, backend prefs.Store) *Store {
	s := &Store{backend: backend, now: time.Now, newID: newID}
	if backend == nil {
		s.degraded = true
		return s
	}
	raw, err := backend.Get(ctx, Key)
	switch {
	case errors.Is(err, prefs.ErrNotFound):
		return s
	case err != nil:
		logging.Warnf("[history] load failed, continuing in memory: %v", err)
		s.degraded = true
		return s
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		logging.Warnf("[history] stored history is corrupt, starting empty: %v", err)
		return s
	}
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	s.entries = entries
	return s
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Entries returns a copy of the list, newest first.
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len reports the number of entries.
func (s *Store) Len() int { return len(s.entries) }

// Degraded reports whether persistence has failed this session.
func (s *Store) Degraded() bool { return s.degraded }

// Add records a search. Blank queries are ignored. An existing entry with
// the same query is replaced by the new one at the front.
func (s *Store) Add(ctx context.Context, query, source, searchType string) (Entry, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Entry{}, false
	}
	created := s.now()
	entry := Entry{
		ID:          s.newID(),
		Query:       query,
		Source:      source,
		SearchType:  searchType,
		CreatedAt:   created,
		DisplayTime: created.Format(DisplayLayout),
	}

	next := make([]Entry, 0, len(s.entries)+1)
	next = append(next, entry)
	for _, e := range s.entries {
		if e.Query != query {
			next = append(next, e)
		}
	}
	if len(next) > MaxEntries {
		next = next[:MaxEntries]
	}
	s.entries = next
	s.persist(ctx)
	return entry, true
}

// Delete removes the entry with id and reports whether it existed.
func (s *Store) Delete(ctx context.Context, id string) bool {
	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
			s.persist(ctx)
			return true
		}
	}
	return false
}

// RequestClear arms a clear. Nothing is removed until ConfirmClear.
func (s *Store) RequestClear() bool {
	if len(s.entries) == 0 {
		return false
	}
	s.clearPending = true
	return true
}

// ClearPending reports whether a clear awaits confirmation.
func (s *Store) ClearPending() bool { return s.clearPending }

// CancelClear disarms a pending clear.
func (s *Store) CancelClear() { s.clearPending = false }

// ConfirmClear empties the list if a clear was requested.
func (s *Store) ConfirmClear(ctx context.Context) bool {
	if !s.clearPending {
		return false
	}
	s.clearPending = false
	s.entries = nil
	s.persist(ctx)
	return true
}

// Filter returns entries whose query contains substr, ignoring case. It is
// computed from the full list each time and never persisted.
func (s *Store) Filter(substr string) []Entry {
	needle := strings.ToLower(strings.TrimSpace(substr))
	if needle == "" {
		return s.Entries()
	}
	var out []Entry
	for _, e := range s.entries {
		if strings.Contains(strings.ToLower(e.Query), needle) {
			out = append(out, e)
		}
	}
	return out
}

func (s *Store) persist(ctx context.Context) {
	if s.backend == nil {
		return
	}
	entries := s.entries
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err == nil {
		err = s.backend.Set(ctx, Key, string(data))
	}
	if err != nil {
		if !s.degraded {
			logging.Warnf("[history] persist failed, continuing in memory: %v", err)
		}
		s.degraded = true
		return
	}
	logging.Debugf("[history] persisted %d entries", len(entries))
}
