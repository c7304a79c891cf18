package repositories

import (
	"context"
	"errors"
)

// ErrNotFound is returned by all repositories when the requested record
// does not exist.
var ErrNotFound = errors.New("record not found")

// Provider error kinds. The identity adapter maps raw provider failures
// onto these so the session service can classify them without knowing the
// provider.
var (
	ErrBadCredentials      = errors.New("bad credentials")
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountExists       = errors.New("account already exists")
	ErrInvalidEmail        = errors.New("invalid email")
	ErrWeakPassword        = errors.New("weak password")
	ErrRateLimited         = errors.New("rate limited")
	ErrProviderUnavailable = errors.New("identity provider unavailable")
)

// IsNotFoundError reports whether err means "no such record".
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Repository aggregates all sub-repositories behind one handle.
type Repository interface {
	Profile() ProfileRepository
	Quiz() QuizRepository
	Question() QuestionRepository
	Attempt() AttemptRepository
	Post() PostRepository
	Resume() ResumeRepository
	Session() SessionRepository

	// Identity is the external provider boundary, not a data store.
	Identity() IdentityProvider

	// WithTransaction runs fn with a Repository bound to one database
	// transaction. Identity, Resume and Session are unaffected.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}

// RepositoryManager owns repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
