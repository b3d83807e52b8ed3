package models

import (
	"time"

	"github.com/erwinjames/taskmanagement/constants"
)

// AdminAssignmentRequest is a member's request to join a specific admin's
// team. The target admin approves or rejects it.
type AdminAssignmentRequest struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"index;not null" json:"user_id"`
	User             *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	RequestedAdminID uint      `gorm:"index;not null" json:"requested_admin_id"`
	RequestedAdmin   *User     `gorm:"foreignKey:RequestedAdminID" json:"requested_admin,omitempty"`
	Status           string    `gorm:"size:20;default:'pending'" json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (r *AdminAssignmentRequest) IsPending() bool {
	return r.Status == constants.AssignmentStatusPending
}
