// Package queue holds today's call plan: an insertion-ordered set of
// contacts partitioned by predicate into uncalled and called, with an
// active cursor that auto-advances as outcomes are logged.
//
// Concurrency model: the Store is the single owner of queue state.
// Mutators notify subscribers over buffered channels (update-and-notify
// contract) rather than exposing shared mutable state.
package queue

import (
	"sync"

	"github.com/veldt/callsheet/internal/apperr"
	"github.com/veldt/callsheet/internal/models"
)

// State is the per-contact position in the outcome-logging lifecycle.
type State string

const (
	// StateUncalled means no outcome has been logged since the last reset.
	StateUncalled State = "uncalled"
	// StateLogging means a persist request is in flight; the operator
	// can retry from here without re-entering data.
	StateLogging State = "logging"
	// StateLogged means an outcome and call timestamp are recorded.
	StateLogged State = "logged"
)

// EventKind tags queue change notifications.
type EventKind string

const (
	EventLoaded    EventKind = "loaded"
	EventAppended  EventKind = "appended"
	EventLogging   EventKind = "logging"
	EventLogged    EventKind = "logged"
	EventRelogged  EventKind = "relogged"
	EventExhausted EventKind = "exhausted"
)

// Event describes one queue mutation.
type Event struct {
	Kind      EventKind `json:"kind"`
	ContactID string    `json:"contact_id,omitempty"`
	ActiveID  string    `json:"active_id,omitempty"`
}

// Store owns the work-queue state for one client day.
type Store struct {
	mu       sync.Mutex
	order    []string
	contacts map[string]*models.Contact
	logging  map[string]struct{}
	activeID string

	subMu sync.Mutex
	subs  map[chan Event]struct{}
}

// NewStore creates an empty work queue.
func NewStore() *Store {
	return &Store{
		contacts: make(map[string]*models.Contact),
		logging:  make(map[string]struct{}),
		subs:     make(map[chan Event]struct{}),
	}
}

// Subscribe registers a change listener. The returned channel is
// buffered; slow consumers miss events rather than block mutators.
func (s *Store) Subscribe() chan Event {
	ch := make(chan Event, 64)
	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()
	return ch
}

// Unsubscribe removes a listener and closes its channel.
func (s *Store) Unsubscribe(ch chan Event) {
	s.subMu.Lock()
	if _, ok := s.subs[ch]; ok {
		delete(s.subs, ch)
		close(ch)
	}
	s.subMu.Unlock()
}

func (s *Store) notify(ev Event) {
	s.subMu.Lock()
	for ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.subMu.Unlock()
}

// Load replaces the queue with a fresh day plan. The active cursor
// points at the first uncalled contact.
func (s *Store) Load(contacts []models.Contact) {
	s.mu.Lock()
	s.order = s.order[:0]
	s.contacts = make(map[string]*models.Contact, len(contacts))
	s.logging = make(map[string]struct{})
	for i := range contacts {
		c := contacts[i]
		s.order = append(s.order, c.ID)
		s.contacts[c.ID] = &c
	}
	s.activeID = s.firstUncalledLocked()
	active := s.activeID
	s.mu.Unlock()
	s.notify(Event{Kind: EventLoaded, ActiveID: active})
}

// Append adds top-up contacts to the end of the queue, skipping ids
// already present. If the cursor was empty it lands on the first new
// uncalled contact.
func (s *Store) Append(contacts []models.Contact) {
	s.mu.Lock()
	for i := range contacts {
		c := contacts[i]
		if _, ok := s.contacts[c.ID]; ok {
			continue
		}
		s.order = append(s.order, c.ID)
		s.contacts[c.ID] = &c
	}
	if s.activeID == "" {
		s.activeID = s.firstUncalledLocked()
	}
	active := s.activeID
	s.mu.Unlock()
	s.notify(Event{Kind: EventAppended, ActiveID: active})
}

// Get returns a copy of the contact, or ErrNotFound.
func (s *Store) Get(id string) (models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contacts[id]
	if !ok {
		return models.Contact{}, apperr.ErrNotFound
	}
	return *c, nil
}

// Snapshot returns all contacts in queue order.
func (s *Store) Snapshot() []models.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Contact, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.contacts[id])
	}
	return out
}

// Uncalled returns the uncalled partition in queue order.
func (s *Store) Uncalled() []models.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Contact, 0, len(s.order))
	for _, id := range s.order {
		if c := s.contacts[id]; !c.Called() {
			out = append(out, *c)
		}
	}
	return out
}

// ActiveID returns the current cursor, empty when no uncalled remain.
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// ContactState reports the lifecycle state for a contact in the queue.
func (s *Store) ContactState(id string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contacts[id]
	if !ok {
		return "", apperr.ErrNotFound
	}
	if _, inflight := s.logging[id]; inflight {
		return StateLogging, nil
	}
	if c.Called() {
		return StateLogged, nil
	}
	return StateUncalled, nil
}

func (s *Store) firstUncalledLocked() string {
	for _, id := range s.order {
		if !s.contacts[id].Called() {
			return id
		}
	}
	return ""
}

// uncalledIndexLocked returns id's position within the uncalled
// partition, or -1.
func (s *Store) uncalledIndexLocked(id string) int {
	i := 0
	for _, oid := range s.order {
		c := s.contacts[oid]
		if c.Called() {
			continue
		}
		if oid == id {
			return i
		}
		i++
	}
	return -1
}
