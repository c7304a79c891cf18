package models

import (
	"time"

	"gorm.io/datatypes"
)

type PostType string

const (
	PostAchievement PostType = "achievement"
	PostQuestion    PostType = "question"
	PostDiscussion  PostType = "discussion"
)

// Post is a community feed entry.
type Post struct {
	ID       uint     `json:"id" gorm:"primaryKey"`
	AuthorID string   `json:"author_id" gorm:"not null;index;size:255"`
	Content  string   `json:"content" gorm:"type:text;not null"`
	Type     PostType `json:"type" gorm:"default:discussion;index"`

	// LikedBy tracks which users liked the post; Likes is kept in sync so
	// the feed can render counts without unpacking the list.
	Likes   int                         `json:"likes" gorm:"default:0"`
	LikedBy datatypes.JSONSlice[string] `json:"-" gorm:"type:jsonb"`

	Comments int `json:"comments" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Author User `json:"author" gorm:"foreignKey:AuthorID"`
}

func (Post) TableName() string {
	return "posts"
}

// LikedByUser reports whether the given user already liked the post.
func (p *Post) LikedByUser(userID string) bool {
	for _, id := range p.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}
