package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/erwinjames/taskmanagement/constants"
)

// Task is a unit of work. A task whose ParentID is set is a subtask of that
// parent and counts toward the parent's derived status.
type Task struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Status       string         `gorm:"size:20;default:'pending';index" json:"status"`
	Priority     string         `gorm:"size:10;default:'medium'" json:"priority"`
	DueDate      *time.Time     `json:"due_date"`
	UserID       uint           `gorm:"index" json:"user_id"`
	User         *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedByID  uint           `json:"created_by_id"`
	ProjectID    *uint          `gorm:"index" json:"project_id"`
	Project      *Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	ParentID     *uint          `gorm:"index" json:"parent_id"`
	Subtasks     []Task         `gorm:"foreignKey:ParentID" json:"subtasks,omitempty"`
	Dependencies []Task         `gorm:"many2many:task_dependencies;joinForeignKey:TaskID;joinReferences:DependencyID" json:"dependencies,omitempty"`
	SortOrder    int            `gorm:"default:0" json:"order"`
	ArchiveNotes string         `gorm:"type:text" json:"archive_notes"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (t *Task) IsSubtask() bool {
	return t.ParentID != nil
}

func (t *Task) IsCompleted() bool {
	return t.Status == constants.TaskStatusCompleted
}

// ActivityType implements services.AuditSubject.
func (t *Task) ActivityType() string { return "Task" }

func (t *Task) ActivityID() uint { return t.ID }

func (t *Task) ActivityIdentifier() string {
	if t.Title != "" {
		return t.Title
	}
	return fmt.Sprintf("#%d", t.ID)
}

// ActivitySnapshot flattens the loggable fields so the activity recorder can
// diff two snapshots field by field.
func (t *Task) ActivitySnapshot() map[string]any {
	return map[string]any{
		"title":         t.Title,
		"description":   t.Description,
		"status":        t.Status,
		"priority":      t.Priority,
		"due_date":      formatTime(t.DueDate),
		"user_id":       t.UserID,
		"project_id":    derefID(t.ProjectID),
		"parent_id":     derefID(t.ParentID),
		"order":         t.SortOrder,
		"archive_notes": t.ArchiveNotes,
	}
}

// TaskDependency is one edge of the dependency graph: TaskID cannot be
// completed while DependencyID (the prerequisite) is not completed.
// Only the direct self-loop is rejected; transitive cycles are representable.
type TaskDependency struct {
	TaskID       uint      `gorm:"primaryKey" json:"task_id"`
	DependencyID uint      `gorm:"primaryKey" json:"dependency_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func (TaskDependency) TableName() string { return "task_dependencies" }

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func derefID(id *uint) any {
	if id == nil {
		return nil
	}
	return *id
}
