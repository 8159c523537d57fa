package models

import (
	"time"

	"gorm.io/gorm"
)

// Message belongs to exactly one conversation and is always sent by one of
// its participants. The seen set lives in message_seens, append-only and
// at-most-once per user.
type Message struct {
	gorm.Model
	ConversationID uint          `gorm:"index;not null" json:"conversationId"`
	Conversation   Conversation  `json:"-"`
	SenderID       uint          `gorm:"not null" json:"senderId"`
	Sender         *User         `json:"sender"`
	Body           string        `json:"body"`
	Kind           string        `gorm:"not null;default:text" json:"kind"`
	Attachments    Attachments   `gorm:"type:jsonb" json:"attachments"`
	Seen           []MessageSeen `gorm:"foreignKey:MessageID" json:"-"`
}

func (message *Message) ToMessageResponse() *MessageResponse {
	var sender *UserResponse
	if message.Sender != nil {
		sender = message.Sender.ToUserResponse()
	}
	seenBy := make([]uint, 0, len(message.Seen))
	for _, seen := range message.Seen {
		seenBy = append(seenBy, seen.UserID)
	}
	return &MessageResponse{
		ID:             message.ID,
		ConversationID: message.ConversationID,
		SenderID:       message.SenderID,
		Sender:         sender,
		Body:           message.Body,
		Kind:           message.Kind,
		Attachments:    message.Attachments,
		SeenBy:         seenBy,
		CreatedAt:      message.CreatedAt,
	}
}

// Preview is the short human-readable form used for push notifications
// and notification rows.
func (message *Message) Preview() string {
	if message.Body != "" {
		return message.Body
	}
	switch message.Kind {
	case "image":
		return "Sent a photo"
	case "video":
		return "Sent a video"
	case "audio":
		return "Sent a voice message"
	default:
		return "Sent an attachment"
	}
}

// MessageSeen records that a user has seen a message. The composite unique
// index keeps the set at-most-once per user; rows are never updated.
type MessageSeen struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	MessageID uint      `gorm:"not null;uniqueIndex:idx_message_seen_once" json:"messageId"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_message_seen_once" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
