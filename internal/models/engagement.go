package models

import (
	"gorm.io/gorm"
)

// Post and Reel carry just enough state for the like/comment flows whose
// counter mutations must commit atomically with their notification rows.
// Content CRUD belongs to the surrounding platform.
type Post struct {
	gorm.Model
	AuthorID      uint    `gorm:"index;not null" json:"authorId"`
	Caption       string  `json:"caption"`
	MediaURL      *string `json:"mediaUrl"`
	LikesCount    int     `gorm:"default:0" json:"likesCount"`
	CommentsCount int     `gorm:"default:0" json:"commentsCount"`
}

type Reel struct {
	gorm.Model
	AuthorID      uint    `gorm:"index;not null" json:"authorId"`
	Caption       string  `json:"caption"`
	VideoURL      *string `json:"videoUrl"`
	LikesCount    int     `gorm:"default:0" json:"likesCount"`
	CommentsCount int     `gorm:"default:0" json:"commentsCount"`
}

// Like is one user's like on a post or reel, at most one per target.
type Like struct {
	gorm.Model
	UserID     uint   `gorm:"not null;uniqueIndex:idx_like_once" json:"userId"`
	TargetType string `gorm:"not null;uniqueIndex:idx_like_once" json:"targetType"`
	TargetID   uint   `gorm:"not null;uniqueIndex:idx_like_once" json:"targetId"`
}

type Comment struct {
	gorm.Model
	UserID     uint   `gorm:"index;not null" json:"userId"`
	User       *User  `json:"user,omitempty"`
	TargetType string `gorm:"index;not null" json:"targetType"`
	TargetID   uint   `gorm:"index;not null" json:"targetId"`
	Content    string `gorm:"not null" json:"content"`
}

// LikeResult reports the outcome of a like toggle.
type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}
