package services

import (
	"gorm.io/gorm"

	"github.com/erwinjames/taskmanagement/constants"
	"github.com/erwinjames/taskmanagement/models"
)

// SetStatus is the manual status path: a human sets the status directly
// instead of it being derived from subtasks. Completing a blocked task is
// refused with ErrBlockedByDependency.
func (s *TaskService) SetStatus(actor *models.User, taskID uint, status string) (*models.Task, error) {
	if !constants.ValidTaskStatus(status) {
		return nil, ErrInvalidStatus
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		task, err := findTask(tx, taskID)
		if err != nil {
			return err
		}
		if !canManageTask(actor, task) {
			return ErrUnauthorized
		}
		if err := s.Deps.EnsureCompletable(tx, taskID, status); err != nil {
			return err
		}
		if task.Status == status {
			return nil
		}

		before := task.ActivitySnapshot()
		task.Status = status
		if err := tx.Model(task).Update("status", status).Error; err != nil {
			return err
		}
		s.Activity.Updated(tx, &actor.ID, before, task)

		if task.ParentID != nil {
			if err := s.reconcile(tx, actor, *task.ParentID); err != nil {
				return err
			}
		}
		return s.reconcileDependents(tx, actor, taskID)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(actor, taskID)
}

// reconcile recomputes a parent task's status from its subtasks' completion
// and its blocked state:
//
//	no subtasks        -> leave status alone (manual control)
//	none completed     -> pending
//	all completed      -> completed, unless blocked, then in_progress
//	some completed     -> in_progress
//
// Reads and the write share the caller's transaction so concurrent subtask
// toggles serialize on the datastore. The write goes through the logged
// update path like any other change.
func (s *TaskService) reconcile(tx *gorm.DB, actor *models.User, parentID uint) error {
	parent, err := findTask(tx, parentID)
	if err != nil {
		if err == ErrNotFound {
			return nil
		}
		return err
	}

	var total, done int64
	if err := tx.Model(&models.Task{}).Where("parent_id = ?", parentID).Count(&total).Error; err != nil {
		return err
	}
	if total == 0 {
		return nil
	}
	if err := tx.Model(&models.Task{}).
		Where("parent_id = ? AND status = ?", parentID, constants.TaskStatusCompleted).
		Count(&done).Error; err != nil {
		return err
	}

	var target string
	switch {
	case done == 0:
		target = constants.TaskStatusPending
	case done == total:
		blocked, err := s.Deps.IsBlocked(tx, parentID)
		if err != nil {
			return err
		}
		if blocked {
			target = constants.TaskStatusInProgress
		} else {
			target = constants.TaskStatusCompleted
		}
	default:
		target = constants.TaskStatusInProgress
	}

	if target == parent.Status {
		return nil
	}

	before := parent.ActivitySnapshot()
	parent.Status = target
	if err := tx.Model(parent).Update("status", target).Error; err != nil {
		return err
	}
	s.Activity.Updated(tx, &actor.ID, before, parent)
	return nil
}

// reconcileDependents recomputes every task that lists the given task as a
// prerequisite, since its blocked state may just have changed. One level
// only: reconcile itself does not cascade further, which keeps dependency
// cycles (which are representable) from looping.
func (s *TaskService) reconcileDependents(tx *gorm.DB, actor *models.User, prerequisiteID uint) error {
	var ids []uint
	err := tx.Model(&models.TaskDependency{}).
		Where("dependency_id = ?", prerequisiteID).
		Pluck("task_id", &ids).Error
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.reconcile(tx, actor, id); err != nil {
			return err
		}
	}
	return nil
}
