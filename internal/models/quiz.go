package models

import (
	"time"

	"gorm.io/datatypes"
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

// Quiz is a timed multiple-choice test presented to students.
type Quiz struct {
	ID       uint            `json:"id" gorm:"primaryKey"`
	Title    string          `json:"title" gorm:"not null;size:200"`
	Subject  string          `json:"subject" gorm:"not null;index;size:100"`
	Duration int             `json:"duration" gorm:"not null"` // minutes
	Difficulty DifficultyLevel `json:"difficulty" gorm:"default:easy;index"`

	CreatedBy string    `json:"created_by" gorm:"index;size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// NoSelection marks an unanswered question. It never matches a correct
// option index.
const NoSelection = -1

// Question is a single multiple-choice question. CorrectIndex points into
// Options.
type Question struct {
	ID     uint  `json:"id" gorm:"primaryKey"`
	QuizID *uint `json:"quiz_id" gorm:"index"` // nil while only in the admin bank

	Subject      string                      `json:"subject" gorm:"not null;index;size:100"`
	Text         string                      `json:"question" gorm:"type:text;not null"`
	Options      datatypes.JSONSlice[string] `json:"options" gorm:"type:jsonb"`
	CorrectIndex int                         `json:"correct_answer" gorm:"not null"`
	Difficulty   DifficultyLevel             `json:"difficulty" gorm:"default:easy;index"`
	Explanation  string                      `json:"explanation" gorm:"type:text"`

	Order     int       `json:"order" gorm:"default:0"`
	CreatedBy string    `json:"created_by" gorm:"index;size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}
