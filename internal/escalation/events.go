package escalation

import (
	"time"

	"github.com/google/uuid"
)

// Event kinds, also used as the NATS subject suffix.
const (
	KindStrikeAdded    = "strike_added"
	KindAccountBlocked = "account_blocked"
)

// Event is a notification-worthy escalation step.
type Event interface {
	Kind() string
}

// StrikeAddedEvent is emitted when a seller receives a strike.
type StrikeAddedEvent struct {
	ID         string    `json:"id"`
	UserID     int64     `json:"user_id"`
	StrikeID   int64     `json:"strike_id"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Kind implements Event.
func (StrikeAddedEvent) Kind() string { return KindStrikeAdded }

// AccountBlockedEvent is emitted when a seller is blocked.
type AccountBlockedEvent struct {
	ID          string    `json:"id"`
	UserID      int64     `json:"user_id"`
	StrikeCount int       `json:"strike_count"`
	Reason      string    `json:"reason"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Kind implements Event.
func (AccountBlockedEvent) Kind() string { return KindAccountBlocked }

func newStrikeAdded(userID int64, strike StrikeRecord, now time.Time) StrikeAddedEvent {
	return StrikeAddedEvent{
		ID:         uuid.NewString(),
		UserID:     userID,
		StrikeID:   strike.ID,
		Reason:     strike.Reason,
		OccurredAt: now,
	}
}

func newAccountBlocked(userID int64, count int, reason string, now time.Time) AccountBlockedEvent {
	return AccountBlockedEvent{
		ID:          uuid.NewString(),
		UserID:      userID,
		StrikeCount: count,
		Reason:      reason,
		OccurredAt:  now,
	}
}
