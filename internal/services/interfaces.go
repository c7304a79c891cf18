package services

import (
	"context"
	"time"

	"github.com/Tanuroy10/studyhub-service/internal/models"
	"github.com/Tanuroy10/studyhub-service/internal/repositories"
	"github.com/Tanuroy10/studyhub-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type LoginRequest = validator.LoginRequest
type SignupRequest = validator.SignupRequest
type CreateQuestionRequest = validator.QuestionCreateRequest
type UpdateQuestionRequest = validator.QuestionUpdateRequest
type CreatePostRequest = validator.PostCreateRequest
type StartAttemptRequest = validator.StartAttemptRequest
type SubmitAnswerRequest = validator.SubmitAnswerRequest
type SubmitAttemptRequest = validator.SubmitAttemptRequest
type SaveResumeRequest = validator.ResumeSaveRequest
type RunCodeRequest = validator.RunCodeRequest

// SessionResponse is what login/signup hand back: the resolved identity,
// its profile document and a service-issued session token.
type SessionResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// CredentialError carries the fixed user-facing message for a failed
// login or signup. The underlying provider error stays server-side.
type CredentialError struct {
	Message string `json:"message"`
	cause   error
}

func (e *CredentialError) Error() string { return e.Message }

func (e *CredentialError) Unwrap() error { return e.cause }

// ProfileUpdateResult distinguishes the optimistic local apply from the
// remote confirmation. LocalApplied is true whenever the merged document
// is returned; RemoteConfirmed is false when the provider-side name sync
// did not complete and will be retried out of band.
type ProfileUpdateResult struct {
	User            *models.User `json:"user"`
	LocalApplied    bool         `json:"local_applied"`
	RemoteConfirmed bool         `json:"remote_confirmed"`
}

type QuizResponse struct {
	*models.Quiz
	QuestionCount int `json:"question_count"`
}

type QuizListResponse struct {
	Quizzes []*QuizResponse `json:"quizzes"`
	Total   int64           `json:"total"`
}

// AttemptResponse is an attempt plus the derived presentation flags.
type AttemptResponse struct {
	*models.QuizAttempt
	CanSubmit     bool `json:"can_submit"`
	TimeRemaining int  `json:"time_remaining"` // seconds, 0 once ended
}

// AttemptResult is the score screen payload for a finished attempt.
type AttemptResult struct {
	AttemptID    uint   `json:"attempt_id"`
	QuizID       uint   `json:"quiz_id"`
	QuizTitle    string `json:"quiz_title"`
	CorrectCount int    `json:"correct_count"`
	TotalCount   int    `json:"total_count"`
	Score        int    `json:"score"`
	TimeSpent    int    `json:"time_spent"`
	EndReason    string `json:"end_reason"`
}

type PostResponse struct {
	*models.Post
	Liked bool `json:"liked"` // whether the requesting user liked it
}

type FeedResponse struct {
	Posts []*PostResponse `json:"posts"`
	Total int64           `json:"total"`
}

type QuestionListResponse struct {
	Questions []*models.Question `json:"questions"`
	Total     int64              `json:"total"`
}

// AdminUserResponse is one row of the admin user table.
type AdminUserResponse struct {
	*models.User
	Stats *models.StudentStats `json:"stats"`
}

type AdminUserListResponse struct {
	Users []*AdminUserResponse `json:"users"`
	Total int64                `json:"total"`
}

// RunResult is the simulated execution transcript. No user code is ever
// evaluated; Output is derived from static inspection only.
type RunResult struct {
	Language   string   `json:"language"`
	Output     []string `json:"output"`
	Simulated  bool     `json:"simulated"`
	DurationMs int      `json:"duration_ms"`
}

// DashboardResponse backs the student home view.
type DashboardResponse struct {
	Stats          *models.StudentStats `json:"stats"`
	RecentAttempts []*AttemptResponse   `json:"recent_attempts"`
	RecentPosts    []*PostResponse      `json:"recent_posts"`
	Quizzes        []*QuizResponse      `json:"quizzes"`
}

// ===== SERVICE INTERFACES =====

// SessionService bridges the identity provider and the profile document
// store. It is the only component that talks to both.
type SessionService interface {
	Login(ctx context.Context, req *LoginRequest, sessionID string) (*SessionResponse, error)
	Signup(ctx context.Context, req *SignupRequest, sessionID string) (*SessionResponse, error)
	Logout(ctx context.Context, token, sessionID string) error

	// UpdateProfile merges the partial update into the profile document and
	// syncs the display name to the provider. The merged document comes back
	// even when the provider sync fails.
	UpdateProfile(ctx context.Context, userID string, update *models.ProfileUpdate) (*ProfileUpdateResult, error)

	// Resolve maps a bearer credential (provider JWT or service session
	// token) back to the profile document.
	Resolve(ctx context.Context, token string) (*models.User, error)

	GetProfile(ctx context.Context, userID string) (*models.User, error)
}

type QuizService interface {
	List(ctx context.Context, filters repositories.QuizFilters) (*QuizListResponse, error)
	GetByID(ctx context.Context, id uint) (*QuizResponse, error)
	GetWithQuestions(ctx context.Context, id uint) (*models.Quiz, error)
}

type AttemptService interface {
	Start(ctx context.Context, req *StartAttemptRequest, studentID string) (*AttemptResponse, error)
	SubmitAnswer(ctx context.Context, attemptID uint, req *SubmitAnswerRequest, studentID string) error
	Submit(ctx context.Context, req *SubmitAttemptRequest, studentID string) (*AttemptResult, error)

	// HandleTimeout finalizes an expired attempt with the answers recorded
	// so far. It is idempotent: an attempt already ended is left untouched.
	HandleTimeout(ctx context.Context, attemptID uint) (*AttemptResult, error)

	GetByID(ctx context.Context, id uint, studentID string) (*AttemptResponse, error)
	GetResult(ctx context.Context, id uint, studentID string) (*AttemptResult, error)
	ListByStudent(ctx context.Context, studentID string, filters repositories.AttemptFilters) ([]*AttemptResponse, int64, error)
}

type FeedService interface {
	List(ctx context.Context, filters repositories.PostFilters, viewerID string) (*FeedResponse, error)
	Create(ctx context.Context, req *CreatePostRequest, authorID string) (*PostResponse, error)
	Delete(ctx context.Context, postID uint, userID string) error

	// ToggleLike likes an unliked post and unlikes a liked one.
	ToggleLike(ctx context.Context, postID uint, userID string) (*PostResponse, error)

	Follow(ctx context.Context, followerID, followeeID string) error
	Unfollow(ctx context.Context, followerID, followeeID string) error
}

type ResumeService interface {
	Save(ctx context.Context, userID string, req *SaveResumeRequest) (*models.ResumeData, error)
	Load(ctx context.Context, userID string) (*models.ResumeData, error)
	Delete(ctx context.Context, userID string) error
}

// AdminService is the question bank and user management surface. Every
// method requires the caller to hold the admin role; handlers enforce
// that before calling in, and creator stamping happens here.
type AdminService interface {
	CreateQuestion(ctx context.Context, req *CreateQuestionRequest, creatorID string) (*models.Question, error)
	UpdateQuestion(ctx context.Context, id uint, req *UpdateQuestionRequest, userID string) (*models.Question, error)
	DeleteQuestion(ctx context.Context, id uint, userID string) error
	ListQuestions(ctx context.Context, filters repositories.QuestionFilters) (*QuestionListResponse, error)

	ListUsers(ctx context.Context, filters repositories.UserFilters) (*AdminUserListResponse, error)

	// ExportQuestions writes the filtered question bank as an xlsx workbook.
	ExportQuestions(ctx context.Context, filters repositories.QuestionFilters) ([]byte, error)

	// ImportQuestions reads questions from an xlsx workbook produced by
	// ExportQuestions (or hand-built to the same layout).
	ImportQuestions(ctx context.Context, data []byte, creatorID string) (int, error)
}

// RunnerService produces simulated execution transcripts. User-submitted
// text is never evaluated, compiled or interpreted.
type RunnerService interface {
	Run(ctx context.Context, req *RunCodeRequest) (*RunResult, error)
}

type DashboardService interface {
	GetStudentDashboard(ctx context.Context, studentID string) (*DashboardResponse, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Session() SessionService
	Quiz() QuizService
	Attempt() AttemptService
	Feed() FeedService
	Resume() ResumeService
	Admin() AdminService
	Runner() RunnerService
	Dashboard() DashboardService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
