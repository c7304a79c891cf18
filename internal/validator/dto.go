package validator

import (
	"github.com/Tanuroy10/studyhub-service/internal/models"
)

// LoginRequest carries the credential pair for a password sign-in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// SignupRequest creates a provider credential plus a profile document.
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// QuestionCreateRequest is the admin panel's add-question form.
type QuestionCreateRequest struct {
	Subject      string                 `json:"subject" validate:"required,min=1,max=100"`
	Text         string                 `json:"question" validate:"required,min=1,max=2000"`
	Options      []string               `json:"options" validate:"required,min=2,max=6,dive,required,max=500"`
	CorrectIndex int                    `json:"correct_answer" validate:"min=0"`
	Difficulty   models.DifficultyLevel `json:"difficulty" validate:"required,difficulty_level"`
	Explanation  string                 `json:"explanation" validate:"max=1000"`
	QuizID       *uint                  `json:"quiz_id"`
}

// QuestionUpdateRequest edits an existing question; nil fields stay.
type QuestionUpdateRequest struct {
	Subject      *string                 `json:"subject" validate:"omitempty,min=1,max=100"`
	Text         *string                 `json:"question" validate:"omitempty,min=1,max=2000"`
	Options      []string                `json:"options" validate:"omitempty,min=2,max=6,dive,required,max=500"`
	CorrectIndex *int                    `json:"correct_answer" validate:"omitempty,min=0"`
	Difficulty   *models.DifficultyLevel `json:"difficulty" validate:"omitempty,difficulty_level"`
	Explanation  *string                 `json:"explanation" validate:"omitempty,max=1000"`
}

// PostCreateRequest publishes a feed entry. Empty content is rejected
// here rather than surfaced as a feed error.
type PostCreateRequest struct {
	Content string          `json:"content" validate:"required,min=1,max=2000"`
	Type    models.PostType `json:"type" validate:"required,post_type"`
}

// StartAttemptRequest begins a quiz attempt.
type StartAttemptRequest struct {
	QuizID uint `json:"quiz_id" validate:"required"`
}

// SubmitAnswerRequest records one selection. Selected of -1 clears the
// answer back to "no selection".
type SubmitAnswerRequest struct {
	QuestionIndex int `json:"question_index" validate:"min=0"`
	Selected      int `json:"selected" validate:"min=-1"`
}

// SubmitAttemptRequest finalizes an attempt with the full answer array.
type SubmitAttemptRequest struct {
	AttemptID uint  `json:"attempt_id" validate:"required"`
	Answers   []int `json:"answers" validate:"required,dive,min=-1"`
	TimeSpent *int  `json:"time_spent" validate:"omitempty,min=0"`
}

// ResumeSaveRequest stores the complete resume draft snapshot.
type ResumeSaveRequest struct {
	Resume   models.ResumeData `json:"resume" validate:"required"`
	Template string            `json:"template" validate:"omitempty,oneof=modern classic minimal"`
}

// RunCodeRequest asks the runner for a simulated execution.
type RunCodeRequest struct {
	Language string `json:"language" validate:"required,oneof=javascript python java cpp html css"`
	Code     string `json:"code" validate:"required,max=20000"`
}
