package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/Tanuroy10/studyhub-service/internal/events"
)

func newTestTracker() *Tracker {
	return NewTracker(slog.New(slog.NewTextHandler(os.Stdout, nil)))
}

func TestTrackerLifecycle(t *testing.T) {
	tracker := newTestTracker()

	if state, _ := tracker.State("sess-1"); state != StateUnknown {
		t.Errorf("fresh session state = %q, want unknown", state)
	}

	tracker.Begin("sess-1")
	if state, _ := tracker.State("sess-1"); state != StateLoading {
		t.Errorf("state after Begin = %q, want loading", state)
	}

	tracker.SetAuthenticated("sess-1", "uid-alice")
	state, userID := tracker.State("sess-1")
	if state != StateAuthenticated || userID != "uid-alice" {
		t.Errorf("state = %q/%q, want authenticated/uid-alice", state, userID)
	}

	tracker.SetAnonymous("sess-1")
	state, userID = tracker.State("sess-1")
	if state != StateAnonymous {
		t.Errorf("state after sign-out = %q, want anonymous", state)
	}
	if userID != "" {
		t.Errorf("user after sign-out = %q, want empty", userID)
	}
}

func TestTrackerApply(t *testing.T) {
	tests := []struct {
		name      string
		event     *events.SessionEvent
		wantState State
		wantUser  string
	}{
		{
			name:      "signed in",
			event:     &events.SessionEvent{Type: events.SessionSignedIn, SessionID: "sess-1", UserID: "uid-alice"},
			wantState: StateAuthenticated,
			wantUser:  "uid-alice",
		},
		{
			name:      "signed out",
			event:     &events.SessionEvent{Type: events.SessionSignedOut, SessionID: "sess-1"},
			wantState: StateAnonymous,
		},
		{
			name:      "unknown event type leaves the slot alone",
			event:     &events.SessionEvent{Type: "unrecognized", SessionID: "sess-1"},
			wantState: StateUnknown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := newTestTracker()
			tracker.Apply(tt.event)
			state, userID := tracker.State("sess-1")
			if state != tt.wantState {
				t.Errorf("state = %q, want %q", state, tt.wantState)
			}
			if userID != tt.wantUser {
				t.Errorf("user = %q, want %q", userID, tt.wantUser)
			}
		})
	}
}

// Direct calls and bus events may interleave in any order; the last
// write is the one that sticks.
func TestTrackerLastWriteWins(t *testing.T) {
	tracker := newTestTracker()

	tracker.SetAuthenticated("sess-1", "uid-alice")
	tracker.Apply(&events.SessionEvent{Type: events.SessionSignedOut, SessionID: "sess-1"})
	if state, _ := tracker.State("sess-1"); state != StateAnonymous {
		t.Errorf("state = %q, want anonymous after later sign-out", state)
	}

	tracker.Apply(&events.SessionEvent{Type: events.SessionSignedIn, SessionID: "sess-1", UserID: "uid-bob"})
	state, userID := tracker.State("sess-1")
	if state != StateAuthenticated || userID != "uid-bob" {
		t.Errorf("state = %q/%q, want authenticated/uid-bob", state, userID)
	}
}

func TestTrackerRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer bus.Close()

	tracker := newTestTracker()
	if err := tracker.Run(ctx, bus); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	payload, err := json.Marshal(&events.SessionEvent{
		Type:      events.SessionSignedIn,
		SessionID: "sess-1",
		UserID:    "uid-alice",
	})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := bus.Publish(events.TopicSessions, msg); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		if state, userID := tracker.State("sess-1"); state == StateAuthenticated && userID == "uid-alice" {
			return
		}
		select {
		case <-deadline:
			state, userID := tracker.State("sess-1")
			t.Fatalf("event never applied: state=%q user=%q", state, userID)
		case <-time.After(10 * time.Millisecond):
		}
	}
}
