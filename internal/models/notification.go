package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Notification is one row of the notification ledger: a durable record of
// a cross-user event. It is written atomically with the domain mutation
// that produced it and mutated afterwards only to flip the read flag.
type Notification struct {
	gorm.Model
	RecipientID uint     `gorm:"index;not null" json:"recipientId"`
	ActorID     *uint    `json:"fromUserId"`
	Kind        string   `gorm:"not null" json:"kind"`
	Title       string   `gorm:"not null" json:"title"`
	Body        string   `gorm:"not null" json:"body"`
	EntityID    *uint    `json:"entityId"`
	Metadata    Metadata `gorm:"type:jsonb" json:"metadata"`
	Read        bool     `gorm:"default:false;index" json:"read"`
}

func (notification *Notification) ToNotificationResponse() *NotificationResponse {
	return &NotificationResponse{
		ID:          notification.ID,
		RecipientID: notification.RecipientID,
		FromUserID:  notification.ActorID,
		Kind:        notification.Kind,
		Title:       notification.Title,
		Body:        notification.Body,
		EntityID:    notification.EntityID,
		Metadata:    notification.Metadata,
		Read:        notification.Read,
		CreatedAt:   notification.CreatedAt,
	}
}

// Metadata is the free-form payload attached to a notification.
//
// To satisfy postgres jsonb data type
type Metadata map[string]interface{}

func (m *Metadata) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	case nil:
		*m = nil
		return nil
	default:
		return fmt.Errorf("unsupported type %T for metadata", value)
	}
}

func (m Metadata) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return json.Marshal(m)
}

type NotificationResponse struct {
	ID          uint      `json:"id"`
	RecipientID uint      `json:"recipientId"`
	FromUserID  *uint     `json:"fromUserId,omitempty"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	EntityID    *uint     `json:"entityId,omitempty"`
	Metadata    Metadata  `json:"metadata,omitempty"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"createdAt"`
}

type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Page          int                     `json:"page"`
	Size          int                     `json:"size"`
	Total         int64                   `json:"total"`
}
