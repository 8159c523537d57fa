package models

import "time"

type MessageResponse struct {
	ID             uint          `json:"id"`
	ConversationID uint          `json:"conversationId"`
	SenderID       uint          `json:"senderId"`
	Sender         *UserResponse `json:"sender,omitempty"`
	Body           string        `json:"body,omitempty"`
	Kind           string        `json:"kind"`
	Attachments    []Attachment  `json:"attachments,omitempty"`
	SeenBy         []uint        `json:"seenBy"`
	CreatedAt      time.Time     `json:"createdAt"`
}

type MessageListResponse struct {
	Messages []*MessageResponse `json:"messages"`
	Page     int                `json:"page"`
	Size     int                `json:"size"`
	Total    int64              `json:"total"`
}
