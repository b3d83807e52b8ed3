package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Project struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"size:255;not null" json:"name"`
	Description  string          `gorm:"type:text" json:"description"`
	Status       string          `gorm:"size:20;default:'active'" json:"status"`
	Priority     string          `gorm:"size:10;default:'medium'" json:"priority"`
	StartDate    *time.Time      `json:"start_date"`
	EndDate      *time.Time      `json:"end_date"`
	Budget       *float64        `json:"budget"`
	CreatedByID  uint            `gorm:"index" json:"created_by_id"`
	Owner        *User           `gorm:"foreignKey:CreatedByID" json:"owner,omitempty"`
	Members      []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	Tasks        []Task          `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
	ArchiveNotes string          `gorm:"type:text" json:"archive_notes"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}

func (p *Project) ActivityType() string { return "Project" }

func (p *Project) ActivityID() uint { return p.ID }

func (p *Project) ActivityIdentifier() string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("#%d", p.ID)
}

func (p *Project) ActivitySnapshot() map[string]any {
	return map[string]any{
		"name":          p.Name,
		"description":   p.Description,
		"status":        p.Status,
		"priority":      p.Priority,
		"start_date":    formatTime(p.StartDate),
		"end_date":      formatTime(p.EndDate),
		"budget":        derefFloat(p.Budget),
		"archive_notes": p.ArchiveNotes,
	}
}

// ProjectMember links a user to a project with a per-project role and a
// starred flag.
type ProjectMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"uniqueIndex:idx_project_user;not null" json:"project_id"`
	UserID    uint      `gorm:"uniqueIndex:idx_project_user;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role      string    `gorm:"size:20;default:'member'" json:"role"`
	IsStarred bool      `gorm:"default:false" json:"is_starred"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProjectMember) TableName() string { return "project_members" }

func derefFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
