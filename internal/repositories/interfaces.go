package repositories

import (
	"context"
	"time"

	"github.com/Tanuroy10/studyhub-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type QuizFilters struct {
	Subject    *string                 `json:"subject"`
	Difficulty *models.DifficultyLevel `json:"difficulty"`
	Limit      int                     `json:"limit"`
	Offset     int                     `json:"offset"`
	SortBy     string                  `json:"sort_by"`    // "created_at", "title", "subject"
	SortOrder  string                  `json:"sort_order"` // "asc", "desc"
}

type QuestionFilters struct {
	Subject    *string                 `json:"subject"`
	Difficulty *models.DifficultyLevel `json:"difficulty"`
	QuizID     *uint                   `json:"quiz_id"`
	CreatedBy  *string                 `json:"created_by"`
	Query      string                  `json:"query"`
	Limit      int                     `json:"limit"`
	Offset     int                     `json:"offset"`
}

type AttemptFilters struct {
	StudentID *string               `json:"student_id"`
	QuizID    *uint                 `json:"quiz_id"`
	Status    *models.AttemptStatus `json:"status"`
	DateFrom  *time.Time            `json:"date_from"`
	DateTo    *time.Time            `json:"date_to"`
	Limit     int                   `json:"limit"`
	Offset    int                   `json:"offset"`
}

type PostFilters struct {
	Type     *models.PostType `json:"type"`
	AuthorID *string          `json:"author_id"`
	Query    string           `json:"query"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
}

type UserFilters struct {
	Role   *models.UserRole `json:"role"`
	Query  string           `json:"query"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// ===== IDENTITY PROVIDER BOUNDARY =====

// ProviderIdentity is the slice of identity the external provider is
// authoritative for.
type ProviderIdentity struct {
	ID            string
	Name          string
	Email         string
	EmailVerified bool
}

// IdentityProvider abstracts the external identity service. It is
// authoritative for credential validity and session lifetime; profile
// documents live in the ProfileRepository.
type IdentityProvider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*ProviderIdentity, error)
	CreateAccount(ctx context.Context, name, email, password string) (*ProviderIdentity, error)
	SignOut(ctx context.Context, userID string) error
	UpdateDisplayName(ctx context.Context, userID, name string) error

	// ParseToken validates a provider-issued bearer token and returns the
	// identity it carries.
	ParseToken(ctx context.Context, token string) (*ProviderIdentity, error)
}

// ===== DOCUMENT STORE BOUNDARY =====

// ProfileRepository owns the profile documents keyed by the provider's
// opaque user id.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, user *models.User) error

	// Merge applies a partial field set to the document. Unset fields are
	// left untouched.
	Merge(ctx context.Context, id string, update *models.ProfileUpdate) error

	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
}

// ===== DOMAIN REPOSITORIES =====

type QuizRepository interface {
	Create(ctx context.Context, quiz *models.Quiz) error
	GetByID(ctx context.Context, id uint) (*models.Quiz, error)
	GetByIDWithQuestions(ctx context.Context, id uint) (*models.Quiz, error)
	List(ctx context.Context, filters QuizFilters) ([]*models.Quiz, int64, error)
	Count(ctx context.Context) (int64, error)
}

type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters QuestionFilters) ([]*models.Question, int64, error)
	GetByQuiz(ctx context.Context, quizID uint) ([]*models.Question, error)
}

type AttemptRepository interface {
	Create(ctx context.Context, attempt *models.QuizAttempt) error
	GetByID(ctx context.Context, id uint) (*models.QuizAttempt, error)
	GetActive(ctx context.Context, studentID string, quizID uint) (*models.QuizAttempt, error)
	Update(ctx context.Context, attempt *models.QuizAttempt) error
	ListByStudent(ctx context.Context, studentID string, filters AttemptFilters) ([]*models.QuizAttempt, int64, error)
	StatsByStudent(ctx context.Context, studentID string) (*models.StudentStats, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters PostFilters) ([]*models.Post, int64, error)
}

// ===== DRAFT / SESSION STORES =====

// ResumeRepository persists resume drafts, one snapshot per student.
type ResumeRepository interface {
	Save(ctx context.Context, userID string, data *models.ResumeData) error
	Load(ctx context.Context, userID string) (*models.ResumeData, error)
	Delete(ctx context.Context, userID string) error
}

// SessionRepository stores service-issued session tokens.
type SessionRepository interface {
	Create(ctx context.Context, token, userID string, ttl time.Duration) error
	Get(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}
