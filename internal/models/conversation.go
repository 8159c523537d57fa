package models

import (
	"gorm.io/gorm"
)

// Conversation is a durable two-party message thread. Racing requests may
// create more than one conversation for the same pair; the deduplicator
// merges them later, so no uniqueness constraint is enforced here.
type Conversation struct {
	gorm.Model
	IsGroup       bool      `gorm:"default:false" json:"isGroup"`
	LastMessageID *uint     `json:"lastMessageId"`
	Members       []User    `gorm:"many2many:conversation_members;" json:"-"`
	Messages      []Message `json:"-"`
}

func (conversation *Conversation) ToConversationResponse(lastMessage *Message) ConversationResponse {
	members := []*UserResponse{}
	for _, member := range conversation.Members {
		member := member
		members = append(members, member.ToUserResponse())
	}
	var last *MessageResponse
	if lastMessage != nil {
		last = lastMessage.ToMessageResponse()
	}
	return ConversationResponse{
		ID:          conversation.ID,
		IsGroup:     conversation.IsGroup,
		Members:     members,
		LastMessage: last,
		CreatedAt:   conversation.CreatedAt,
		UpdatedAt:   conversation.UpdatedAt,
	}
}

// MemberIDs returns the ids of the preloaded members.
func (conversation *Conversation) MemberIDs() []uint {
	ids := make([]uint, 0, len(conversation.Members))
	for _, member := range conversation.Members {
		ids = append(ids, member.ID)
	}
	return ids
}

// HasMember reports whether the given user is one of the preloaded members.
func (conversation *Conversation) HasMember(userID uint) bool {
	for _, member := range conversation.Members {
		if member.ID == userID {
			return true
		}
	}
	return false
}
