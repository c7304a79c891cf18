package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleAdmin   UserRole = "admin"
)

// User is the profile document backing an authenticated identity. The
// identity provider owns credentials and session lifetime; this record owns
// everything else and persists across logouts.
type User struct {
	ID    string   `json:"id" gorm:"primaryKey;size:255"`
	Name  string   `json:"name" gorm:"not null;size:100"`
	Email string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Role  UserRole `json:"role" gorm:"not null;default:student;size:20"`

	AvatarURL *string `json:"avatar_url" gorm:"size:500"`
	Bio       string  `json:"bio" gorm:"type:text"`

	// List fields default to empty and are never null once the document
	// exists.
	Skills       datatypes.JSONSlice[string] `json:"skills" gorm:"type:jsonb"`
	Achievements datatypes.JSONSlice[string] `json:"achievements" gorm:"type:jsonb"`
	Following    datatypes.JSONSlice[string] `json:"following" gorm:"type:jsonb"`
	Followers    datatypes.JSONSlice[string] `json:"followers" gorm:"type:jsonb"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// ProfileUpdate carries a partial field set for a merge-style profile
// update. Nil fields are left untouched.
type ProfileUpdate struct {
	Name         *string  `json:"name" validate:"omitempty,min=1,max=100"`
	Bio          *string  `json:"bio" validate:"omitempty,max=2000"`
	AvatarURL    *string  `json:"avatar_url" validate:"omitempty,max=500"`
	Skills       []string `json:"skills" validate:"omitempty,max=50,dive,min=1,max=100"`
	Achievements []string `json:"achievements" validate:"omitempty,max=50,dive,min=1,max=200"`
	Following    []string `json:"following"`
	Followers    []string `json:"followers"`
}

// IsEmpty reports whether the update carries no fields at all.
func (p *ProfileUpdate) IsEmpty() bool {
	return p.Name == nil && p.Bio == nil && p.AvatarURL == nil &&
		p.Skills == nil && p.Achievements == nil &&
		p.Following == nil && p.Followers == nil
}
