package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/Tanuroy10/studyhub-service/internal/events"
	"github.com/Tanuroy10/studyhub-service/internal/models"
	"github.com/Tanuroy10/studyhub-service/internal/repositories"
	"github.com/Tanuroy10/studyhub-service/internal/session"
	"github.com/Tanuroy10/studyhub-service/internal/validator"
)

const testAdminEmail = "admin@smartapp.com"

func newTestSessionService(repo *mockRepository) (SessionService, *events.MockEventPublisher, *session.Tracker) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	publisher := events.NewMockEventPublisher(logger)
	tracker := session.NewTracker(logger)
	svc := NewSessionService(repo, logger, validator.New(), publisher, tracker, testAdminEmail)
	return svc, publisher, tracker
}

func TestSessionServiceLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("identity email matches login email", func(t *testing.T) {
		repo := newMockRepository()
		repo.identity.addAccount("uid-alice", "Alice", "alice@example.com", "secret123")
		svc, _, tracker := newTestSessionService(repo)

		resp, err := svc.Login(ctx, &LoginRequest{Email: "alice@example.com", Password: "secret123"}, "sess-1")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if resp.User.Email != "alice@example.com" {
			t.Errorf("user email = %q, want %q", resp.User.Email, "alice@example.com")
		}
		if resp.Token == "" {
			t.Error("expected a session token")
		}

		state, userID := tracker.State("sess-1")
		if state != session.StateAuthenticated {
			t.Errorf("tracker state = %q, want authenticated", state)
		}
		if userID != "uid-alice" {
			t.Errorf("tracker user = %q, want uid-alice", userID)
		}
	})

	t.Run("profile document is backfilled on first login", func(t *testing.T) {
		repo := newMockRepository()
		repo.identity.addAccount("uid-bob", "Bob", "bob@example.com", "secret123")
		svc, _, _ := newTestSessionService(repo)

		resp, err := svc.Login(ctx, &LoginRequest{Email: "bob@example.com", Password: "secret123"}, "sess-1")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if resp.User.Skills == nil || resp.User.Following == nil {
			t.Error("list fields must be non-nil on a fresh document")
		}

		if _, err := repo.profile.GetByID(ctx, "uid-bob"); err != nil {
			t.Errorf("profile document was not created: %v", err)
		}
	})

	t.Run("unknown email gets fixed message", func(t *testing.T) {
		repo := newMockRepository()
		svc, _, _ := newTestSessionService(repo)

		_, err := svc.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "secret123"}, "sess-1")
		var credErr *CredentialError
		if !errors.As(err, &credErr) {
			t.Fatalf("expected CredentialError, got %v", err)
		}
		if credErr.Message != MsgUnknownAccount {
			t.Errorf("message = %q, want %q", credErr.Message, MsgUnknownAccount)
		}
	})

	t.Run("wrong password gets fixed message", func(t *testing.T) {
		repo := newMockRepository()
		repo.identity.addAccount("uid-alice", "Alice", "alice@example.com", "secret123")
		svc, _, tracker := newTestSessionService(repo)

		_, err := svc.Login(ctx, &LoginRequest{Email: "alice@example.com", Password: "wrongpass"}, "sess-1")
		var credErr *CredentialError
		if !errors.As(err, &credErr) {
			t.Fatalf("expected CredentialError, got %v", err)
		}
		if credErr.Message != MsgBadPassword {
			t.Errorf("message = %q, want %q", credErr.Message, MsgBadPassword)
		}

		if state, _ := tracker.State("sess-1"); state != session.StateAnonymous {
			t.Errorf("tracker state = %q, want anonymous after failed login", state)
		}
	})

	t.Run("provider outage gets network message", func(t *testing.T) {
		repo := newMockRepository()
		repo.identity.failWith = repositories.ErrProviderUnavailable
		svc, _, _ := newTestSessionService(repo)

		_, err := svc.Login(ctx, &LoginRequest{Email: "alice@example.com", Password: "secret123"}, "sess-1")
		var credErr *CredentialError
		if !errors.As(err, &credErr) {
			t.Fatalf("expected CredentialError, got %v", err)
		}
		if credErr.Message != MsgNetworkFailure {
			t.Errorf("message = %q, want %q", credErr.Message, MsgNetworkFailure)
		}
	})
}

func TestSessionServiceRoleDerivation(t *testing.T) {
	ctx := context.Background()

	t.Run("admin email gets admin role", func(t *testing.T) {
		repo := newMockRepository()
		svc, _, _ := newTestSessionService(repo)

		resp, err := svc.Signup(ctx, &SignupRequest{Name: "Admin", Email: testAdminEmail, Password: "secret123"}, "sess-1")
		if err != nil {
			t.Fatalf("Signup failed: %v", err)
		}
		if resp.User.Role != models.RoleAdmin {
			t.Errorf("role = %q, want admin", resp.User.Role)
		}
	})

	t.Run("any other email gets student role", func(t *testing.T) {
		repo := newMockRepository()
		svc, _, _ := newTestSessionService(repo)

		resp, err := svc.Signup(ctx, &SignupRequest{Name: "Carol", Email: "carol@example.com", Password: "secret123"}, "sess-1")
		if err != nil {
			t.Fatalf("Signup failed: %v", err)
		}
		if resp.User.Role != models.RoleStudent {
			t.Errorf("role = %q, want student", resp.User.Role)
		}
	})
}

func TestSessionServiceLogout(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	repo.identity.addAccount("uid-alice", "Alice", "alice@example.com", "secret123")
	svc, publisher, tracker := newTestSessionService(repo)

	resp, err := svc.Login(ctx, &LoginRequest{Email: "alice@example.com", Password: "secret123"}, "sess-1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := svc.Logout(ctx, resp.Token, "sess-1"); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	// No identity remains on the session
	state, userID := tracker.State("sess-1")
	if state != session.StateAnonymous {
		t.Errorf("tracker state = %q, want anonymous", state)
	}
	if userID != "" {
		t.Errorf("tracker user = %q, want empty", userID)
	}

	// The token no longer resolves
	if _, err := svc.Resolve(ctx, resp.Token); err == nil {
		t.Error("expected revoked token to fail resolution")
	}

	// The profile document survives the logout
	if _, err := repo.profile.GetByID(ctx, "uid-alice"); err != nil {
		t.Errorf("profile document must survive logout: %v", err)
	}

	// Both sign-in and sign-out events went out
	published := publisher.GetPublishedEvents()
	if len(published) != 2 {
		t.Fatalf("expected 2 events, got %d", len(published))
	}
	if published[1].Type != events.SessionSignedOut {
		t.Errorf("second event type = %q, want signed_out", published[1].Type)
	}
}

func TestSessionServiceUpdateProfile(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (SessionService, *mockRepository) {
		repo := newMockRepository()
		repo.identity.addAccount("uid-alice", "Alice", "alice@example.com", "secret123")
		svc, _, _ := newTestSessionService(repo)
		if _, err := svc.Login(ctx, &LoginRequest{Email: "alice@example.com", Password: "secret123"}, "sess-1"); err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		return svc, repo
	}

	t.Run("merged document returned immediately", func(t *testing.T) {
		svc, _ := setup(t)

		name := "Alice Cooper"
		bio := "Guitarist"
		result, err := svc.UpdateProfile(ctx, "uid-alice", &models.ProfileUpdate{Name: &name, Bio: &bio})
		if err != nil {
			t.Fatalf("UpdateProfile failed: %v", err)
		}
		if !result.LocalApplied {
			t.Error("LocalApplied must be true")
		}
		if !result.RemoteConfirmed {
			t.Error("RemoteConfirmed must be true when provider sync succeeds")
		}
		if result.User.Name != name || result.User.Bio != bio {
			t.Errorf("merged document = %q/%q, want %q/%q", result.User.Name, result.User.Bio, name, bio)
		}

		// Visible on the next read without waiting for anything
		user, err := svc.GetProfile(ctx, "uid-alice")
		if err != nil {
			t.Fatalf("GetProfile failed: %v", err)
		}
		if user.Name != name {
			t.Errorf("profile name = %q, want %q", user.Name, name)
		}
	})

	t.Run("provider sync failure still applies locally", func(t *testing.T) {
		svc, repo := setup(t)
		repo.identity.failWith = repositories.ErrProviderUnavailable

		name := "Alice Updated"
		result, err := svc.UpdateProfile(ctx, "uid-alice", &models.ProfileUpdate{Name: &name})
		if err != nil {
			t.Fatalf("UpdateProfile failed: %v", err)
		}
		if !result.LocalApplied {
			t.Error("LocalApplied must be true even when the provider is down")
		}
		if result.RemoteConfirmed {
			t.Error("RemoteConfirmed must be false when the provider sync fails")
		}
		if result.User.Name != name {
			t.Errorf("merged name = %q, want %q", result.User.Name, name)
		}
	})

	t.Run("untouched fields survive a partial update", func(t *testing.T) {
		svc, _ := setup(t)

		bio := "First bio"
		if _, err := svc.UpdateProfile(ctx, "uid-alice", &models.ProfileUpdate{Bio: &bio}); err != nil {
			t.Fatalf("UpdateProfile failed: %v", err)
		}

		name := "Renamed"
		result, err := svc.UpdateProfile(ctx, "uid-alice", &models.ProfileUpdate{Name: &name})
		if err != nil {
			t.Fatalf("UpdateProfile failed: %v", err)
		}
		if result.User.Bio != bio {
			t.Errorf("bio = %q after name-only update, want %q", result.User.Bio, bio)
		}
	})

	t.Run("unknown profile", func(t *testing.T) {
		svc, _ := setup(t)

		name := "Ghost"
		_, err := svc.UpdateProfile(ctx, "uid-ghost", &models.ProfileUpdate{Name: &name})
		if !errors.Is(err, ErrProfileNotFound) {
			t.Errorf("expected ErrProfileNotFound, got %v", err)
		}
	})
}

func TestSessionServiceSignupDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	svc, _, _ := newTestSessionService(repo)

	req := &SignupRequest{Name: "Alice", Email: "alice@example.com", Password: "secret123"}
	if _, err := svc.Signup(ctx, req, "sess-1"); err != nil {
		t.Fatalf("first Signup failed: %v", err)
	}

	_, err := svc.Signup(ctx, req, "sess-2")
	var credErr *CredentialError
	if !errors.As(err, &credErr) {
		t.Fatalf("expected CredentialError, got %v", err)
	}
	if credErr.Message != MsgAccountExists {
		t.Errorf("message = %q, want %q", credErr.Message, MsgAccountExists)
	}
}
