package socket

import (
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/errs"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models"
)

// LivePayload is implemented by every outbound event payload. Each event
// name carries exactly one variant with a fixed field set; the fan-out
// boundary validates before sending.
type LivePayload interface {
	Validate() error
}

// NewMessagePayload rides the message:new event.
type NewMessagePayload struct {
	ConversationID uint                    `json:"conversationId"`
	Message        *models.MessageResponse `json:"message"`
}

func (p NewMessagePayload) Validate() error {
	if p.ConversationID == 0 || p.Message == nil {
		return errs.ErrMissingFields
	}
	return nil
}

// TypingPayload rides chat:typing and chat:stopTyping.
type TypingPayload struct {
	ConversationID uint `json:"conversationId"`
	UserID         uint `json:"userId"`
}

func (p TypingPayload) Validate() error {
	if p.ConversationID == 0 || p.UserID == 0 {
		return errs.ErrMissingFields
	}
	return nil
}

// CallIncomingPayload rides call:incoming. CorrelationID also travels in
// the paired remote push so clients can collapse the two.
type CallIncomingPayload struct {
	FromUserID     uint    `json:"fromUserId"`
	ConversationID uint    `json:"conversationId"`
	IsVideo        bool    `json:"isVideo"`
	CallerName     string  `json:"callerName"`
	CallerAvatar   *string `json:"callerAvatar"`
	CorrelationID  string  `json:"correlationId"`
	Timestamp      int64   `json:"timestamp"`
}

func (p CallIncomingPayload) Validate() error {
	if p.FromUserID == 0 || p.ConversationID == 0 || p.CorrelationID == "" || p.Timestamp == 0 {
		return errs.ErrMissingFields
	}
	return nil
}

// CallAcceptedPayload rides call:accepted, delivered to the caller only.
type CallAcceptedPayload struct {
	FromUserID uint  `json:"fromUserId"`
	Timestamp  int64 `json:"timestamp"`
}

func (p CallAcceptedPayload) Validate() error {
	if p.FromUserID == 0 || p.Timestamp == 0 {
		return errs.ErrMissingFields
	}
	return nil
}

// CallEndedPayload rides call:ended and its legacy alias call:end.
type CallEndedPayload struct {
	FromUserID    uint   `json:"fromUserId"`
	CorrelationID string `json:"correlationId"`
	Timestamp     int64  `json:"timestamp"`
}

func (p CallEndedPayload) Validate() error {
	if p.FromUserID == 0 || p.CorrelationID == "" || p.Timestamp == 0 {
		return errs.ErrMissingFields
	}
	return nil
}

// NotificationPayload rides the *_notification events that mirror a
// freshly written ledger row.
type NotificationPayload struct {
	Notification *models.NotificationResponse `json:"notification"`
}

func (p NotificationPayload) Validate() error {
	if p.Notification == nil || p.Notification.Kind == "" {
		return errs.ErrMissingFields
	}
	return nil
}

// Client -> server payloads.

type SendTypingPayload struct {
	ConversationID uint `json:"conversationId"`
}

type CallInitiatePayload struct {
	CalleeID       uint   `json:"calleeId"`
	ConversationID *uint  `json:"conversationId"`
	Kind           string `json:"kind"`
}

type CallAcceptPayload struct {
	CallerID uint `json:"callerId"`
}

type CallEndPayload struct {
	OtherUserID uint `json:"otherUserId"`
}
