package events

import (
	"time"
)

// Topics published by the service.
const (
	TopicSessions = "studyhub.sessions"
)

type SessionEventType string

const (
	SessionSignedIn       SessionEventType = "signed_in"
	SessionSignedOut      SessionEventType = "signed_out"
	SessionProfileUpdated SessionEventType = "profile_updated"
)

// SessionEvent is the session-change notification. It is the single
// source of truth for session state: subscribers apply events as they
// arrive, last write wins, no ordering is enforced.
type SessionEvent struct {
	ID         string           `json:"id"`
	Type       SessionEventType `json:"type"`
	SessionID  string           `json:"session_id"`
	UserID     string           `json:"user_id"`
	Email      string           `json:"email,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}
