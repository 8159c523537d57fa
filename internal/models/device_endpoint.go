package models

import (
	"gorm.io/gorm"
)

// DeviceEndpoint is a registered remote-push address for one user on one
// device. Endpoints per user per platform are capped; the oldest is
// deactivated when the cap is exceeded, and endpoints whose deliveries
// fail permanently are deactivated by the push worker.
type DeviceEndpoint struct {
	gorm.Model
	UserID   uint   `gorm:"index;not null" json:"userId"`
	Token    string `gorm:"uniqueIndex;not null" json:"token"`
	Platform string `gorm:"not null" json:"platform"`
	Active   bool   `gorm:"default:true" json:"active"`
}
