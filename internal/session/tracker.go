package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/Tanuroy10/studyhub-service/internal/events"
)

// State is the lifecycle of a session slot.
//
//	unknown -> loading -> {authenticated, anonymous}
//
// A slot enters loading when a client shows up and the provider has not
// reported yet; exactly one transition out of loading happens per
// notification. authenticated -> anonymous on sign-out, anonymous ->
// authenticated on sign-in.
type State string

const (
	StateUnknown       State = "unknown"
	StateLoading       State = "loading"
	StateAuthenticated State = "authenticated"
	StateAnonymous     State = "anonymous"
)

type entry struct {
	state  State
	userID string
}

// Tracker holds per-session identity state. It is written both by direct
// login/signup/logout calls and by session events arriving on the bus;
// the two are not ordered relative to each other and the tracker makes no
// attempt to order them; last write wins.
type Tracker struct {
	mu      sync.RWMutex
	entries map[string]entry
	logger  *slog.Logger
}

func NewTracker(logger *slog.Logger) *Tracker {
	return &Tracker{
		entries: make(map[string]entry),
		logger:  logger,
	}
}

// Begin marks a session as loading while the provider resolves.
func (t *Tracker) Begin(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[sessionID] = entry{state: StateLoading}
}

// SetAuthenticated records a resolved identity for the session.
func (t *Tracker) SetAuthenticated(sessionID, userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[sessionID] = entry{state: StateAuthenticated, userID: userID}
}

// SetAnonymous clears the session's identity. The backing profile
// document is untouched.
func (t *Tracker) SetAnonymous(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[sessionID] = entry{state: StateAnonymous}
}

// State returns the session's current state and identity, if any.
func (t *Tracker) State(sessionID string) (State, string) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[sessionID]
	if !ok {
		return StateUnknown, ""
	}
	return e.state, e.userID
}

// Apply folds one session event into the tracker.
func (t *Tracker) Apply(event *events.SessionEvent) {
	switch event.Type {
	case events.SessionSignedIn:
		t.SetAuthenticated(event.SessionID, event.UserID)
	case events.SessionSignedOut:
		t.SetAnonymous(event.SessionID)
	case events.SessionProfileUpdated:
		// Identity fields changed but the session stays authenticated.
	default:
		t.logger.Warn("unknown session event type", "type", event.Type)
	}
}

// Run consumes session events until ctx is done. It is the subscriber
// half of the session-change notification channel.
func (t *Tracker) Run(ctx context.Context, subscriber message.Subscriber) error {
	messages, err := subscriber.Subscribe(ctx, events.TopicSessions)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			var event events.SessionEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				t.logger.Error("failed to decode session event", "error", err)
				msg.Ack()
				continue
			}
			t.Apply(&event)
			msg.Ack()
		}
	}()

	return nil
}
