// Package memory holds in-process implementations of stores whose state is
// deliberately process-lifetime, not persisted.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ReminderMarkStore is an in-memory implementation of
// domain.ReminderMarkStore. Marks for a user reset when the day rolls over;
// losing the state on restart only risks a repeated reminder, never a missed
// one.
type ReminderMarkStore struct {
	mu        sync.Mutex
	seen      map[uuid.UUID]map[string]bool
	seenDay   map[uuid.UUID]time.Time
	lastCheck map[uuid.UUID]time.Time
}

// NewReminderMarkStore creates a new ReminderMarkStore
func NewReminderMarkStore() *ReminderMarkStore {
	return &ReminderMarkStore{
		seen:      make(map[uuid.UUID]map[string]bool),
		seenDay:   make(map[uuid.UUID]time.Time),
		lastCheck: make(map[uuid.UUID]time.Time),
	}
}

// Seen reports whether the reminder id was already surfaced on day.
func (s *ReminderMarkStore) Seen(userID uuid.UUID, day time.Time, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetIfStale(userID, day)
	return s.seen[userID][id]
}

// Mark records the reminder id as surfaced on day.
func (s *ReminderMarkStore) Mark(userID uuid.UUID, day time.Time, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetIfStale(userID, day)
	if s.seen[userID] == nil {
		s.seen[userID] = make(map[string]bool)
	}
	s.seen[userID][id] = true
}

// LastCheck returns the day the user's reminder checks last ran.
func (s *ReminderMarkStore) LastCheck(userID uuid.UUID) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastCheck[userID]
}

// SetLastCheck records the day the user's reminder checks ran.
func (s *ReminderMarkStore) SetLastCheck(userID uuid.UUID, day time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastCheck[userID] = day
}

// resetIfStale drops a user's marks when asked about a different day than the
// one they were recorded for. Must be called with the lock held.
func (s *ReminderMarkStore) resetIfStale(userID uuid.UUID, day time.Time) {
	if !s.seenDay[userID].Equal(day) {
		s.seen[userID] = make(map[string]bool)
		s.seenDay[userID] = day
	}
}
