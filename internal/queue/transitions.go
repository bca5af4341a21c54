package queue

import (
	"time"

	"github.com/veldt/callsheet/internal/apperr"
	"github.com/veldt/callsheet/internal/models"
)

// BeginLog marks a contact Logging while the persist request is in
// flight. Invalid outcomes are rejected before any request is sent.
func (s *Store) BeginLog(id string, outcome models.Outcome) error {
	if !outcome.Valid() {
		return apperr.ErrInvalidOutcome
	}
	s.mu.Lock()
	if _, ok := s.contacts[id]; !ok {
		s.mu.Unlock()
		return apperr.ErrNotFound
	}
	s.logging[id] = struct{}{}
	s.mu.Unlock()
	s.notify(Event{Kind: EventLogging, ContactID: id})
	return nil
}

// ApplyOutcome records an outcome and call timestamp, clears any
// in-flight Logging mark, and auto-advances the cursor:
//
//  1. the contact's position i within the uncalled partition is taken
//     before the write;
//  2. after removal the new active contact is uncalled[min(i, len-1)];
//  3. when no uncalled remain the cursor empties.
//
// A late response for a contact that was re-logged meanwhile simply
// overwrites whatever state exists (last write wins by contact id).
func (s *Store) ApplyOutcome(id string, outcome models.Outcome, at time.Time) error {
	if !outcome.Valid() {
		return apperr.ErrInvalidOutcome
	}
	s.mu.Lock()
	c, ok := s.contacts[id]
	if !ok {
		s.mu.Unlock()
		return apperr.ErrNotFound
	}
	oldIdx := s.uncalledIndexLocked(id)

	o := outcome
	t := at
	c.Outcome = &o
	c.CalledAt = &t
	delete(s.logging, id)

	if s.activeID == id || oldIdx >= 0 {
		s.advanceLocked(oldIdx)
	}
	active := s.activeID
	s.mu.Unlock()

	s.notify(Event{Kind: EventLogged, ContactID: id, ActiveID: active})
	if active == "" {
		s.notify(Event{Kind: EventExhausted})
	}
	return nil
}

// advanceLocked moves the cursor to the uncalled contact at the logged
// contact's old position, clamped to the new end of the partition.
func (s *Store) advanceLocked(oldIdx int) {
	var uncalled []string
	for _, id := range s.order {
		if !s.contacts[id].Called() {
			uncalled = append(uncalled, id)
		}
	}
	if len(uncalled) == 0 {
		s.activeID = ""
		return
	}
	if oldIdx < 0 {
		oldIdx = 0
	}
	if oldIdx > len(uncalled)-1 {
		oldIdx = len(uncalled) - 1
	}
	s.activeID = uncalled[oldIdx]
}

// AbortLog clears the Logging mark without recording an outcome, used
// when validation fails before the request is ever sent. Backend
// failures deliberately do NOT call this: the contact stays Logging so
// the operator can retry without re-entering data.
func (s *Store) AbortLog(id string) {
	s.mu.Lock()
	delete(s.logging, id)
	s.mu.Unlock()
}

// Relog resets a logged contact back to Uncalled, clearing outcome and
// call timestamp together. This is a user-invoked reset, not an error
// path. The contact reappears in the uncalled partition; an empty
// cursor is re-pointed at the first uncalled contact.
func (s *Store) Relog(id string) (models.Contact, error) {
	s.mu.Lock()
	c, ok := s.contacts[id]
	if !ok {
		s.mu.Unlock()
		return models.Contact{}, apperr.ErrNotFound
	}
	c.Outcome = nil
	c.CalledAt = nil
	delete(s.logging, id)
	if s.activeID == "" {
		s.activeID = s.firstUncalledLocked()
	}
	out := *c
	active := s.activeID
	s.mu.Unlock()
	s.notify(Event{Kind: EventRelogged, ContactID: id, ActiveID: active})
	return out, nil
}

// Reconcile absorbs a polled server snapshot into local state with
// last-outcome-wins-by-timestamp: a server outcome only replaces the
// local one when its call timestamp is newer, so a stale poll response
// cannot clobber an optimistic local write. Contacts mid-Logging are
// left untouched.
func (s *Store) Reconcile(server []models.Contact) {
	s.mu.Lock()
	for i := range server {
		sc := server[i]
		local, ok := s.contacts[sc.ID]
		if !ok {
			continue
		}
		if _, inflight := s.logging[sc.ID]; inflight {
			continue
		}
		// Non-outcome display fields always track the server.
		local.Name = sc.Name
		local.Address = sc.Address
		local.Phone = sc.Phone
		local.Score = sc.Score
		local.TenureYears = sc.TenureYears
		local.Occupancy = sc.Occupancy

		if sc.CalledAt == nil {
			continue
		}
		if local.CalledAt == nil || sc.CalledAt.After(*local.CalledAt) {
			local.Outcome = sc.Outcome
			local.CalledAt = sc.CalledAt
		}
	}
	if s.activeID == "" || s.contacts[s.activeID] == nil || s.contacts[s.activeID].Called() {
		s.activeID = s.firstUncalledLocked()
	}
	s.mu.Unlock()
}
