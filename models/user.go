package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/erwinjames/taskmanagement/constants"
)

// User is the root of the team hierarchy: members carry the id of their
// admin, admins carry none. The hierarchy is one level deep.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	Email        string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password     string         `gorm:"size:255" json:"-"`
	Role         string         `gorm:"size:20;default:'member'" json:"role"`
	AdminID      *uint          `gorm:"index" json:"admin_id"`
	Admin        *User          `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
	TeamMembers  []User         `gorm:"foreignKey:AdminID" json:"team_members,omitempty"`
	Department   string         `gorm:"size:100" json:"department"`
	Status       string         `gorm:"size:20;default:'active'" json:"status"`
	Skills       datatypes.JSON `json:"skills"`
	LastActiveAt *time.Time     `json:"last_active_at"`
	Tasks        []Task         `gorm:"foreignKey:UserID" json:"tasks,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == constants.RoleAdmin
}
