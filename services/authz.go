package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/erwinjames/taskmanagement/models"
)

// canManageTask reports whether the actor may view or mutate the task:
// admins, the task's owner and its creator.
func canManageTask(actor *models.User, task *models.Task) bool {
	return actor.IsAdmin() || task.UserID == actor.ID || task.CreatedByID == actor.ID
}

// canManageProject mirrors the project policy: owner or admin.
func canManageProject(actor *models.User, project *models.Project) bool {
	return actor.IsAdmin() || project.CreatedByID == actor.ID
}

// findTask loads a task by id, translating gorm's not-found error.
func findTask(tx *gorm.DB, id uint) (*models.Task, error) {
	var task models.Task
	if err := tx.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

func findProject(tx *gorm.DB, id uint) (*models.Project, error) {
	var project models.Project
	if err := tx.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}
