package attendance

import (
	"time"

	"github.com/google/uuid"
)

// CheckInInput identifies the subscription being checked into a class.
type CheckInInput struct {
	SubscriptionID uuid.UUID `json:"subscriptionId" validate:"required"`
}

// RosterEntry is one checked-in member on a session's roster.
type RosterEntry struct {
	ID              uuid.UUID `json:"id"`
	SessionID       uuid.UUID `json:"sessionId"`
	SubscriptionID  uuid.UUID `json:"subscriptionId"`
	MemberFirstName string    `json:"memberFirstName"`
	MemberLastName  string    `json:"memberLastName"`
	PlanName        string    `json:"planName"`
	CheckedInAt     time.Time `json:"checkedInAt"`
}

// HistoryEntry is one class a subscription attended.
type HistoryEntry struct {
	ID          uuid.UUID `json:"id"`
	SessionID   uuid.UUID `json:"sessionId"`
	ClassTitle  string    `json:"classTitle"`
	CoachName   string    `json:"coachName"`
	StartsAt    time.Time `json:"startsAt"`
	CheckedInAt time.Time `json:"checkedInAt"`
}

// CheckInResult reports the new roster size alongside the created record.
type CheckInResult struct {
	ID             uuid.UUID `json:"id"`
	SessionID      uuid.UUID `json:"sessionId"`
	SubscriptionID uuid.UUID `json:"subscriptionId"`
	CheckedInAt    time.Time `json:"checkedInAt"`
	RosterCount    int64     `json:"rosterCount"`
	Capacity       int       `json:"capacity"`
}
