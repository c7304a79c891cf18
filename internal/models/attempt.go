package models

import (
	"time"

	"gorm.io/datatypes"
)

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptCompleted  AttemptStatus = "completed"
	AttemptTimedOut   AttemptStatus = "timed_out"
)

const (
	AttemptEndReasonSubmitted = "submitted"
	AttemptEndReasonTimeout   = "time_out"
)

// QuizAttempt tracks one student's run through a quiz. Answers holds one
// selected option index per question, with NoSelection for unanswered
// questions.
type QuizAttempt struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	QuizID    uint          `json:"quiz_id" gorm:"not null;index"`
	StudentID string        `json:"student_id" gorm:"not null;index;size:255"`
	Status    AttemptStatus `json:"status" gorm:"default:in_progress;index"`

	// Timing
	StartedAt   time.Time  `json:"started_at"`
	Deadline    time.Time  `json:"deadline"` // StartedAt + quiz duration
	CompletedAt *time.Time `json:"completed_at"`
	TimeSpent   int        `json:"time_spent"` // seconds

	// Answers, parallel to the quiz's ordered questions
	Answers datatypes.JSONSlice[int] `json:"answers" gorm:"type:jsonb"`

	// Scoring, filled on submit
	CorrectCount int    `json:"correct_count"`
	TotalCount   int    `json:"total_count"`
	Score        int    `json:"score"` // percentage, 0-100
	EndReason    string `json:"end_reason" gorm:"size:50"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Quiz    Quiz `json:"quiz" gorm:"foreignKey:QuizID"`
	Student User `json:"-" gorm:"foreignKey:StudentID"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// Expired reports whether the attempt has run out of time.
func (a *QuizAttempt) Expired(now time.Time) bool {
	return now.After(a.Deadline)
}

// StudentStats backs the home view cards and the admin user table.
type StudentStats struct {
	TestsCompleted int     `json:"tests_completed"`
	AverageScore   float64 `json:"average_score"`
	TimeSpent      int     `json:"time_spent"` // seconds across all attempts
}
