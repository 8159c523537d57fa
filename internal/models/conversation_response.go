package models

import "time"

type ConversationResponse struct {
	ID          uint             `json:"id"`
	IsGroup     bool             `json:"isGroup"`
	Members     []*UserResponse  `json:"members"`
	LastMessage *MessageResponse `json:"lastMessage,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// ConversationSummary is one entry of a user's conversation list: the
// conversation plus its unread count for that user. When duplicate records
// exist for the same pair the summary aggregates over the whole group.
type ConversationSummary struct {
	ID          uint             `json:"id"`
	IsGroup     bool             `json:"isGroup"`
	Members     []*UserResponse  `json:"members"`
	LastMessage *MessageResponse `json:"lastMessage,omitempty"`
	Unread      int64            `json:"unread"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type ConversationListResponse struct {
	Conversations []ConversationSummary `json:"conversations"`
	Total         int                   `json:"total"`
}
