package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Tanuroy10/studyhub-service/internal/events"
	"github.com/Tanuroy10/studyhub-service/internal/models"
	"github.com/Tanuroy10/studyhub-service/internal/repositories"
	"github.com/Tanuroy10/studyhub-service/internal/session"
	"github.com/Tanuroy10/studyhub-service/internal/validator"
)

// sessionTTL is how long a service-issued session token stays valid.
const sessionTTL = 24 * time.Hour

type sessionService struct {
	repo       repositories.Repository
	logger     *slog.Logger
	validator  *validator.Validator
	publisher  events.EventPublisher
	tracker    *session.Tracker
	adminEmail string
}

func NewSessionService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, tracker *session.Tracker, adminEmail string) SessionService {
	return &sessionService{
		repo:       repo,
		logger:     logger,
		validator:  validator,
		publisher:  publisher,
		tracker:    tracker,
		adminEmail: adminEmail,
	}
}

// ===== CORE SESSION OPERATIONS =====

func (s *sessionService) Login(ctx context.Context, req *LoginRequest, sessionID string) (*SessionResponse, error) {
	s.logger.Info("Login requested", "email", req.Email, "session_id", sessionID)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	s.tracker.Begin(sessionID)

	identity, err := s.repo.Identity().SignInWithPassword(ctx, req.Email, req.Password)
	if err != nil {
		s.tracker.SetAnonymous(sessionID)
		s.logger.Warn("Login rejected by provider", "email", req.Email, "error", err)
		return nil, &CredentialError{Message: classifyCredentialError(err, false), cause: err}
	}

	user, err := s.ensureProfile(ctx, identity)
	if err != nil {
		s.tracker.SetAnonymous(sessionID)
		return nil, err
	}

	resp, err := s.issueSession(ctx, user)
	if err != nil {
		s.tracker.SetAnonymous(sessionID)
		return nil, err
	}

	s.tracker.SetAuthenticated(sessionID, user.ID)
	s.publish(ctx, events.SessionSignedIn, sessionID, user.ID, user.Email)

	s.logger.Info("Login succeeded", "user_id", user.ID, "role", user.Role)
	return resp, nil
}

func (s *sessionService) Signup(ctx context.Context, req *SignupRequest, sessionID string) (*SessionResponse, error) {
	s.logger.Info("Signup requested", "email", req.Email, "session_id", sessionID)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	s.tracker.Begin(sessionID)

	identity, err := s.repo.Identity().CreateAccount(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		s.tracker.SetAnonymous(sessionID)
		s.logger.Warn("Signup rejected by provider", "email", req.Email, "error", err)
		return nil, &CredentialError{Message: classifyCredentialError(err, true), cause: err}
	}

	user := s.newProfile(identity)
	if err := s.repo.Profile().Create(ctx, user); err != nil {
		// The credential exists but the document write failed. The next
		// login repairs this through ensureProfile.
		s.tracker.SetAnonymous(sessionID)
		return nil, fmt.Errorf("failed to create profile document: %w", err)
	}

	resp, err := s.issueSession(ctx, user)
	if err != nil {
		s.tracker.SetAnonymous(sessionID)
		return nil, err
	}

	s.tracker.SetAuthenticated(sessionID, user.ID)
	s.publish(ctx, events.SessionSignedIn, sessionID, user.ID, user.Email)

	s.logger.Info("Signup succeeded", "user_id", user.ID, "role", user.Role)
	return resp, nil
}

func (s *sessionService) Logout(ctx context.Context, token, sessionID string) error {
	s.logger.Info("Logout requested", "session_id", sessionID)

	var userID string
	if token != "" {
		id, err := s.repo.Session().Get(ctx, token)
		if err == nil {
			userID = id
		} else if !repositories.IsNotFoundError(err) {
			return fmt.Errorf("failed to look up session token: %w", err)
		}

		if err := s.repo.Session().Delete(ctx, token); err != nil && !repositories.IsNotFoundError(err) {
			return fmt.Errorf("failed to revoke session token: %w", err)
		}
	}

	if userID != "" {
		if err := s.repo.Identity().SignOut(ctx, userID); err != nil {
			// Local revocation already happened; provider-side cleanup is
			// best-effort.
			s.logger.Warn("Provider sign-out failed", "user_id", userID, "error", err)
		}
	}

	s.tracker.SetAnonymous(sessionID)
	s.publish(ctx, events.SessionSignedOut, sessionID, userID, "")

	s.logger.Info("Logout completed", "session_id", sessionID, "user_id", userID)
	return nil
}

func (s *sessionService) UpdateProfile(ctx context.Context, userID string, update *models.ProfileUpdate) (*ProfileUpdateResult, error) {
	s.logger.Info("Profile update requested", "user_id", userID)

	if err := s.validator.Validate(update); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if update.IsEmpty() {
		user, err := s.GetProfile(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &ProfileUpdateResult{User: user, LocalApplied: true, RemoteConfirmed: true}, nil
	}

	// Local apply first. The caller sees the merged document immediately;
	// provider sync happens after and only downgrades RemoteConfirmed.
	if err := s.repo.Profile().Merge(ctx, userID, update); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to merge profile update: %w", err)
	}

	user, err := s.repo.Profile().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load merged profile: %w", err)
	}

	result := &ProfileUpdateResult{User: user, LocalApplied: true, RemoteConfirmed: true}

	if update.Name != nil {
		if err := s.repo.Identity().UpdateDisplayName(ctx, userID, *update.Name); err != nil {
			s.logger.Warn("Provider display-name sync failed", "user_id", userID, "error", err)
			result.RemoteConfirmed = false
		}
	}

	s.publish(ctx, events.SessionProfileUpdated, "", userID, user.Email)

	s.logger.Info("Profile update applied",
		"user_id", userID,
		"remote_confirmed", result.RemoteConfirmed)
	return result, nil
}

func (s *sessionService) Resolve(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	// Service-issued session tokens first, provider JWTs second.
	userID, err := s.repo.Session().Get(ctx, token)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to look up session token: %w", err)
	}

	if userID == "" {
		identity, perr := s.repo.Identity().ParseToken(ctx, token)
		if perr != nil {
			return nil, ErrNotAuthenticated
		}
		userID = identity.ID
	}

	user, err := s.repo.Profile().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return user, nil
}

func (s *sessionService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.Profile().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return user, nil
}

// ===== HELPERS =====

// roleFor derives the role from the email. Exactly one address gets the
// admin role; everyone else is a student.
func (s *sessionService) roleFor(email string) models.UserRole {
	if email == s.adminEmail {
		return models.RoleAdmin
	}
	return models.RoleStudent
}

// newProfile builds a fresh profile document for a provider identity.
// List fields start empty, never null.
func (s *sessionService) newProfile(identity *repositories.ProviderIdentity) *models.User {
	return &models.User{
		ID:           identity.ID,
		Name:         identity.Name,
		Email:        identity.Email,
		Role:         s.roleFor(identity.Email),
		Skills:       datatypes.NewJSONSlice([]string{}),
		Achievements: datatypes.NewJSONSlice([]string{}),
		Following:    datatypes.NewJSONSlice([]string{}),
		Followers:    datatypes.NewJSONSlice([]string{}),
	}
}

// ensureProfile loads the profile document for an identity, creating it
// when the credential exists but the document does not.
func (s *sessionService) ensureProfile(ctx context.Context, identity *repositories.ProviderIdentity) (*models.User, error) {
	user, err := s.repo.Profile().GetByID(ctx, identity.ID)
	if err == nil {
		return user, nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	user = s.newProfile(identity)
	if err := s.repo.Profile().Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create profile document: %w", err)
	}

	s.logger.Info("Profile document backfilled on login", "user_id", identity.ID)
	return user, nil
}

func (s *sessionService) issueSession(ctx context.Context, user *models.User) (*SessionResponse, error) {
	token := uuid.New().String()
	if err := s.repo.Session().Create(ctx, token, user.ID, sessionTTL); err != nil {
		return nil, fmt.Errorf("failed to store session token: %w", err)
	}

	return &SessionResponse{
		User:      user,
		Token:     token,
		ExpiresAt: time.Now().Add(sessionTTL),
	}, nil
}

// publish emits a session event. Failures are logged, never surfaced.
func (s *sessionService) publish(ctx context.Context, eventType events.SessionEventType, sessionID, userID, email string) {
	event := &events.SessionEvent{
		Type:       eventType,
		SessionID:  sessionID,
		UserID:     userID,
		Email:      email,
		OccurredAt: time.Now(),
	}
	if err := s.publisher.PublishSessionEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish session event", "type", eventType, "error", err)
	}
}
