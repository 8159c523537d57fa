package models

import (
	"time"

	"gorm.io/gorm"
)

// ConversationMember maps users to conversations.
type ConversationMember struct {
	gorm.Model
	ConversationID uint      `gorm:"index" json:"conversationId"`
	UserID         uint      `gorm:"index" json:"userId"`
	JoinedAt       time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"joinedAt"`
}
