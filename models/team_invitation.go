package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/erwinjames/taskmanagement/constants"
)

// TeamInvitation invites an email address onto an admin's team. Invitations
// expire; an expired invitation can no longer be accepted.
type TeamInvitation struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	AdminID   uint       `gorm:"index;not null" json:"admin_id"`
	Admin     *User      `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
	Email     string     `gorm:"size:255;index;not null" json:"email"`
	UserID    *uint      `json:"user_id"`
	Status    string     `gorm:"size:20;default:'pending'" json:"status"`
	Token     string     `gorm:"size:64;uniqueIndex" json:"token"`
	ExpiresAt *time.Time `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func NewInvitationToken() string {
	return uuid.NewString()
}

func (i *TeamInvitation) IsExpired() bool {
	return i.ExpiresAt != nil && i.ExpiresAt.Before(time.Now())
}

func (i *TeamInvitation) IsPending() bool {
	return i.Status == constants.InvitationStatusPending && !i.IsExpired()
}
