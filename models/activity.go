package models

import (
	"time"

	"gorm.io/datatypes"
)

// Activity is one immutable audit row. Rows are only ever inserted; nothing
// in the application updates or deletes them.
type Activity struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      *uint          `gorm:"index" json:"user_id"`
	User        *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action      string         `gorm:"size:20;not null" json:"action"`
	SubjectType string         `gorm:"size:50;index:idx_activity_subject" json:"subject_type"`
	SubjectID   uint           `gorm:"index:idx_activity_subject" json:"subject_id"`
	Description string         `gorm:"size:500" json:"description"`
	Properties  datatypes.JSON `json:"properties"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (Activity) TableName() string { return "activities" }
