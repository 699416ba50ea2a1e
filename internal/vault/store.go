// Package vault owns the in-session collection of credential entries. The
// store is volatile: it lives for one authenticated session and is never
// written to durable storage. It is owned by the single UI goroutine, so no
// locking is needed.
package vault

import "go.uber.org/zap"

// Entry is one service/password pair held in the vault.
type Entry struct {
	// ID is unique within a session and never reused once removed.
	ID int
	// Service is the name of the service the password belongs to.
	Service string
	// Password is the stored secret, kept in memory only.
	Password string
	// Visible controls display masking only; it never alters the stored
	// value.
	Visible bool
}

// pendingDelete makes "no pending delete" and "pending delete of id"
// mutually exclusive by construction.
type pendingDelete struct {
	id  int
	set bool
}

// Store holds the ordered entry list for the active session plus at most
// one pending-delete reference. Insertion order is display order.
type Store struct {
	username string
	entries  []Entry
	pending  pendingDelete
	nextID   int
	log      *zap.Logger
}

// NewStore returns an empty store for the given session user. firstID seeds
// the monotone id counter. log may be nil.
func NewStore(username string, firstID int, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{username: username, nextID: firstID, log: log}
}

// NewSeededStore returns a store in the state a freshly opened vault
// historically starts in: one empty example entry with id 1, counter at 2.
func NewSeededStore(username string, log *zap.Logger) *Store {
	s := NewStore(username, 1, log)
	s.Add()
	return s
}

// Username returns the read-only session user the store was opened for.
func (s *Store) Username() string { return s.username }

// Add appends a fresh entry with empty fields and masking on, and returns
// its id. Add always succeeds.
func (s *Store) Add() int {
	id := s.nextID
	s.nextID++
	s.entries = append(s.entries, Entry{ID: id, Visible: false})
	return id
}

// UpdateService replaces the service name on the entry with the given id.
// An unknown id is a silent no-op; it reflects a benign race between a
// deletion and a stale update, not a defect, so it is only logged.
func (s *Store) UpdateService(id int, value string) {
	s.update(id, "service", func(e *Entry) { e.Service = value })
}

// UpdatePassword replaces the password on the entry with the given id.
// Unknown ids behave as in UpdateService.
func (s *Store) UpdatePassword(id int, value string) {
	s.update(id, "password", func(e *Entry) { e.Password = value })
}

// ToggleVisibility flips display masking on the entry with the given id
// without touching the stored password.
func (s *Store) ToggleVisibility(id int) {
	s.update(id, "visible", func(e *Entry) { e.Visible = !e.Visible })
}

// RequestDelete marks the entry with the given id for deletion without
// removing anything. The entry is only removed by ConfirmDelete. A new
// request replaces any pending one; the previous id is abandoned, not
// queued.
func (s *Store) RequestDelete(id int) {
	s.pending = pendingDelete{id: id, set: true}
}

// ConfirmDelete removes the entry named by the pending request and clears
// it. No-op when nothing is pending.
func (s *Store) ConfirmDelete() {
	if !s.pending.set {
		return
	}
	id := s.pending.id
	s.pending = pendingDelete{}
	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
	s.log.Warn("confirmed delete for missing entry", zap.Int("id", id))
}

// CancelDelete clears the pending request without removing anything. No-op
// when nothing is pending.
func (s *Store) CancelDelete() {
	s.pending = pendingDelete{}
}

// PendingDelete returns the id awaiting confirmation, if any.
func (s *Store) PendingDelete() (int, bool) {
	return s.pending.id, s.pending.set
}

// Entries returns a copy of the entry list in display order.
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of entries.
func (s *Store) Len() int { return len(s.entries) }

// Get returns the entry with the given id.
func (s *Store) Get(id int) (Entry, bool) {
	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

func (s *Store) update(id int, field string, mutate func(*Entry)) {
	for i := range s.entries {
		if s.entries[i].ID == id {
			mutate(&s.entries[i])
			return
		}
	}
	s.log.Warn("update for missing entry, ignoring",
		zap.Int("id", id), zap.String("field", field))
}
