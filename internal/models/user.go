package models

import (
	"fmt"

	"gorm.io/gorm"
)

// User is the minimal identity record the interaction subsystem needs:
// display name, avatar and the role consulted by the conversation
// pairing policy. Account management lives in the surrounding platform.
type User struct {
	gorm.Model
	FirstName string  `gorm:"not null" json:"firstName"`
	LastName  string  `gorm:"not null" json:"lastName"`
	Avatar    *string `json:"avatar"`
	Role      string  `gorm:"not null;default:patient" json:"role"`
}

func (user *User) FullName() string {
	return fmt.Sprintf("%s %s", user.FirstName, user.LastName)
}

func (user *User) ToUserResponse() *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Avatar:    user.Avatar,
		Role:      user.Role,
	}
}
