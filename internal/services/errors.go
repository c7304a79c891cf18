package services

import (
	"errors"
	"fmt"

	"github.com/Tanuroy10/studyhub-service/internal/repositories"
)

var (
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrAttemptNotFound  = errors.New("attempt not found")
	ErrPostNotFound     = errors.New("post not found")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrResumeNotFound   = errors.New("resume draft not found")

	ErrAttemptNotActive        = errors.New("attempt is not active")
	ErrAttemptTimeExpired      = errors.New("attempt time has expired")
	ErrAttemptAlreadySubmitted = errors.New("attempt already submitted")

	ErrAnswerCountMismatch = errors.New("answer count does not match question count")

	ErrNotAuthenticated = errors.New("not authenticated")
)

// PermissionError reports an operation attempted on a resource the user
// may not touch.
type PermissionError struct {
	UserID   string
	Resource string
	ID       any
	Action   string
	Reason   string
}

func NewPermissionError(userID string, id any, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		Resource: resource,
		ID:       id,
		Action:   action,
		Reason:   reason,
	}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s cannot %s %s %v: %s", e.UserID, e.Action, e.Resource, e.ID, e.Reason)
}

// IsPermissionError reports whether err is a permission failure.
func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

// User-facing credential messages, one fixed string per provider error
// kind. These are the only error details that cross the session
// boundary.
const (
	MsgLoginFailed    = "Login failed. Please try again."
	MsgSignupFailed   = "Signup failed. Please try again."
	MsgUnknownAccount = "No account found with this email address."
	MsgBadPassword    = "Incorrect password."
	MsgInvalidEmail   = "Invalid email address."
	MsgRateLimited    = "Too many failed attempts. Please try again later."
	MsgNetworkFailure = "Network error. Please check your connection."
	MsgAccountExists  = "An account with this email already exists."
	MsgWeakPassword   = "Password should be at least 6 characters."
)

// classifyCredentialError maps a provider error onto the fixed
// user-facing message for the given flow.
func classifyCredentialError(err error, signup bool) string {
	switch {
	case errors.Is(err, repositories.ErrAccountNotFound):
		return MsgUnknownAccount
	case errors.Is(err, repositories.ErrBadCredentials):
		return MsgBadPassword
	case errors.Is(err, repositories.ErrInvalidEmail):
		return MsgInvalidEmail
	case errors.Is(err, repositories.ErrRateLimited):
		return MsgRateLimited
	case errors.Is(err, repositories.ErrProviderUnavailable):
		return MsgNetworkFailure
	case errors.Is(err, repositories.ErrAccountExists):
		return MsgAccountExists
	case errors.Is(err, repositories.ErrWeakPassword):
		return MsgWeakPassword
	default:
		if signup {
			return MsgSignupFailed
		}
		return MsgLoginFailed
	}
}
