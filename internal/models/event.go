package models

import (
	"time"

	"github.com/google/uuid"
)

// Event is a community gathering. Attendance is an idempotent set toggle,
// same protocol as post bookmarks.
type Event struct {
	ID          string      `json:"id"` // shortuuid
	CommunityID uuid.UUID   `json:"communityId"`
	CreatorID   uuid.UUID   `json:"creatorId"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	StartsAt    time.Time   `json:"startsAt"`
	AttendeeIDs []uuid.UUID `json:"attendeeIds"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// HasAttendee reports whether userID has RSVP'd.
func (e *Event) HasAttendee(userID uuid.UUID) bool {
	for _, id := range e.AttendeeIDs {
		if id == userID {
			return true
		}
	}
	return false
}
