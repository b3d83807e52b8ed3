package services

import (
	"gorm.io/gorm"

	"github.com/erwinjames/taskmanagement/constants"
	"github.com/erwinjames/taskmanagement/models"
)

// DependencyService maintains the task dependency graph. Edges are direct
// only: there is no transitive cycle detection, so an A→B→A cycle is
// representable (both tasks just stay blocked). Only the same-id self loop
// is rejected.
type DependencyService struct {
	DB *gorm.DB

	// Tasks is set after construction. Edge changes alter the dependent's
	// blocked state, so its derived status is recomputed in the same
	// transaction.
	Tasks *TaskService
}

// IsBlocked reports whether the task has at least one prerequisite that is
// not completed. One join query over the direct edges; soft-deleted
// prerequisites do not block.
func (s *DependencyService) IsBlocked(tx *gorm.DB, taskID uint) (bool, error) {
	var n int64
	err := tx.Model(&models.Task{}).
		Joins("JOIN task_dependencies td ON td.dependency_id = tasks.id").
		Where("td.task_id = ? AND tasks.status <> ?", taskID, constants.TaskStatusCompleted).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// EnsureCompletable is the single blocked-task predicate shared by every
// write path that can set a task to completed: manual status changes, bulk
// updates, kanban reorders and the status reconciler.
func (s *DependencyService) EnsureCompletable(tx *gorm.DB, taskID uint, newStatus string) error {
	if newStatus != constants.TaskStatusCompleted {
		return nil
	}
	blocked, err := s.IsBlocked(tx, taskID)
	if err != nil {
		return err
	}
	if blocked {
		return ErrBlockedByDependency
	}
	return nil
}

// Add inserts a dependency edge. Inserting an edge that already exists is a
// no-op, not an error.
func (s *DependencyService) Add(actor *models.User, taskID, prerequisiteID uint) error {
	if taskID == prerequisiteID {
		return ErrInvalidDependency
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		task, err := findTask(tx, taskID)
		if err != nil {
			return err
		}
		if _, err := findTask(tx, prerequisiteID); err != nil {
			return err
		}
		if !canManageTask(actor, task) {
			return ErrUnauthorized
		}

		edge := models.TaskDependency{TaskID: taskID, DependencyID: prerequisiteID}
		err = tx.Where(models.TaskDependency{TaskID: taskID, DependencyID: prerequisiteID}).
			FirstOrCreate(&edge).Error
		if err != nil {
			return err
		}
		return s.Tasks.reconcile(tx, actor, taskID)
	})
}

// Remove deletes a dependency edge. Removing an edge that does not exist is
// a no-op.
func (s *DependencyService) Remove(actor *models.User, taskID, prerequisiteID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		task, err := findTask(tx, taskID)
		if err != nil {
			return err
		}
		if !canManageTask(actor, task) {
			return ErrUnauthorized
		}

		err = tx.Where("task_id = ? AND dependency_id = ?", taskID, prerequisiteID).
			Delete(&models.TaskDependency{}).Error
		if err != nil {
			return err
		}
		return s.Tasks.reconcile(tx, actor, taskID)
	})
}

// removeEdgesFor hard-deletes every edge touching the task, in both
// directions. Called when a task is deleted: edges cascade rather than
// orphan.
func removeEdgesFor(tx *gorm.DB, taskID uint) error {
	return tx.Where("task_id = ? OR dependency_id = ?", taskID, taskID).
		Delete(&models.TaskDependency{}).Error
}
