package domain

import (
	"time"

	"github.com/google/uuid"
)

// Reminder is a notification surfaced to the user at most once per local day.
type Reminder struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ReminderMarkStore tracks which reminder ids have been surfaced on which
// day, plus the day each user's checks last ran. Keys are (user, day, id), so
// a fake clock makes the deduplication window fully testable; entries for
// past days are garbage.
type ReminderMarkStore interface {
	// Seen reports whether the reminder id was already surfaced on day.
	Seen(userID uuid.UUID, day time.Time, id string) bool
	// Mark records the reminder id as surfaced on day.
	Mark(userID uuid.UUID, day time.Time, id string)
	// LastCheck returns the day the user's reminder checks last ran, or the
	// zero time if they never ran.
	LastCheck(userID uuid.UUID) time.Time
	// SetLastCheck records the day the user's reminder checks ran.
	SetLastCheck(userID uuid.UUID, day time.Time)
}
