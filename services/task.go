package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/erwinjames/taskmanagement/constants"
	"github.com/erwinjames/taskmanagement/models"
)

// TaskService owns every task mutation. Controllers never write task rows
// directly; each operation here takes the acting user explicitly, runs in
// one transaction and records activity through the same path.
type TaskService struct {
	DB       *gorm.DB
	Deps     *DependencyService
	Activity ActivityRecorder
}

type TaskInput struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	AssignedTo  *uint      `json:"assigned_to"`
	ProjectID   *uint      `json:"project_id"`
	Subtasks    []string   `json:"subtasks"`
}

type TaskUpdateInput struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	UserID      *uint      `json:"user_id"`
}

func (s *TaskService) Create(actor *models.User, in TaskInput) (*models.Task, error) {
	if in.Status == "" {
		in.Status = constants.TaskStatusPending
	}
	if in.Priority == "" {
		in.Priority = constants.PriorityMedium
	}
	if !constants.ValidTaskStatus(in.Status) {
		return nil, ErrInvalidStatus
	}
	if !constants.ValidPriority(in.Priority) {
		return nil, ErrInvalidPriority
	}

	ownerID := actor.ID
	if in.AssignedTo != nil && *in.AssignedTo != actor.ID {
		if !actor.IsAdmin() {
			return nil, ErrUnauthorized
		}
		ownerID = *in.AssignedTo
	}

	task := models.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		UserID:      ownerID,
		CreatedByID: actor.ID,
		ProjectID:   in.ProjectID,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		s.Activity.Created(tx, &actor.ID, &task)

		for _, title := range in.Subtasks {
			sub := models.Task{
				Title:       title,
				Status:      constants.TaskStatusPending,
				Priority:    task.Priority,
				UserID:      ownerID,
				CreatedByID: actor.ID,
				ParentID:    &task.ID,
			}
			if err := tx.Create(&sub).Error; err != nil {
				return err
			}
			s.Activity.Created(tx, &actor.ID, &sub)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(actor, task.ID)
}

func (s *TaskService) Get(actor *models.User, id uint) (*models.Task, error) {
	var task models.Task
	err := s.DB.Preload("User").Preload("Subtasks").Preload("Dependencies").
		First(&task, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !canManageTask(actor, &task) {
		return nil, ErrUnauthorized
	}
	return &task, nil
}

func (s *TaskService) Update(actor *models.User, id uint, in TaskUpdateInput) (*models.Task, error) {
	if !constants.ValidTaskStatus(in.Status) {
		return nil, ErrInvalidStatus
	}
	if !constants.ValidPriority(in.Priority) {
		return nil, ErrInvalidPriority
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		task, err := findTask(tx, id)
		if err != nil {
			return err
		}
		if !canManageTask(actor, task) {
			return ErrUnauthorized
		}
		if err := s.Deps.EnsureCompletable(tx, id, in.Status); err != nil {
			return err
		}

		before := task.ActivitySnapshot()
		statusChanged := task.Status != in.Status

		task.Title = in.Title
		task.Description = in.Description
		task.Status = in.Status
		task.Priority = in.Priority
		task.DueDate = in.DueDate
		if in.UserID != nil {
			if *in.UserID != task.UserID && !actor.IsAdmin() {
				return ErrUnauthorized
			}
			task.UserID = *in.UserID
		}

		if err := tx.Save(task).Error; err != nil {
			return err
		}
		s.Activity.Updated(tx, &actor.ID, before, task)

		// A status change on a subtask changes its completion flag, so the
		// parent's derived status has to be recomputed. Any dependents of
		// this task may also have gained or lost their blocker.
		if statusChanged {
			if task.ParentID != nil {
				if err := s.reconcile(tx, actor, *task.ParentID); err != nil {
					return err
				}
			}
			return s.reconcileDependents(tx, actor, task.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(actor, id)
}

// Delete soft-deletes the task. Dependency edges in both directions are
// hard-deleted and subtasks are soft-deleted in the same transaction.
func (s *TaskService) Delete(actor *models.User, id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		task, err := findTask(tx, id)
		if err != nil {
			return err
		}
		if !canManageTask(actor, task) {
			return ErrUnauthorized
		}
		return s.deleteTask(tx, actor, task)
	})
}

func (s *TaskService) deleteTask(tx *gorm.DB, actor *models.User, task *models.Task) error {
	// Tasks that depended on this one lose a prerequisite when the edges
	// cascade, so their status is recomputed afterwards.
	var subtaskIDs []uint
	err := tx.Model(&models.Task{}).
		Where("parent_id = ?", task.ID).
		Pluck("id", &subtaskIDs).Error
	if err != nil {
		return err
	}

	removed := append([]uint{task.ID}, subtaskIDs...)
	var dependents []uint
	err = tx.Model(&models.TaskDependency{}).
		Where("dependency_id IN ?", removed).
		Pluck("task_id", &dependents).Error
	if err != nil {
		return err
	}

	// Subtasks go down with the task, so their edges cascade too; a restored
	// task comes back without dependency links.
	for _, id := range removed {
		if err := removeEdgesFor(tx, id); err != nil {
			return err
		}
	}
	if err := tx.Where("parent_id = ?", task.ID).Delete(&models.Task{}).Error; err != nil {
		return err
	}
	if err := tx.Delete(task).Error; err != nil {
		return err
	}
	s.Activity.Deleted(tx, &actor.ID, task)

	if task.ParentID != nil {
		if err := s.reconcile(tx, actor, *task.ParentID); err != nil {
			return err
		}
	}
	for _, id := range dependents {
		if err := s.reconcile(tx, actor, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *TaskService) AddSubtask(actor *models.User, taskID uint, title string) (*models.Task, error) {
	var sub models.Task
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		parent, err := findTask(tx, taskID)
		if err != nil {
			return err
		}
		if parent.IsSubtask() {
			return ErrNestedSubtask
		}
		if !canManageTask(actor, parent) {
			return ErrUnauthorized
		}

		sub = models.Task{
			Title:       title,
			Status:      constants.TaskStatusPending,
			Priority:    parent.Priority,
			UserID:      parent.UserID,
			CreatedByID: actor.ID,
			ParentID:    &parent.ID,
		}
		if err := tx.Create(&sub).Error; err != nil {
			return err
		}
		s.Activity.Created(tx, &actor.ID, &sub)

		return s.reconcile(tx, actor, parent.ID)
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ToggleSubtask flips a subtask's completion flag and returns the parent
// with its recomputed status. Completing a subtask that itself has
// incomplete prerequisites is refused like any other completion.
func (s *TaskService) ToggleSubtask(actor *models.User, subtaskID uint, completed bool) (*models.Task, error) {
	var parentID uint
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		sub, err := findTask(tx, subtaskID)
		if err != nil {
			return err
		}
		if !sub.IsSubtask() {
			return ErrNotFound
		}
		if !canManageTask(actor, sub) {
			return ErrUnauthorized
		}
		parentID = *sub.ParentID

		target := constants.TaskStatusPending
		if completed {
			target = constants.TaskStatusCompleted
		}
		if sub.Status == target {
			return s.reconcile(tx, actor, parentID)
		}
		if err := s.Deps.EnsureCompletable(tx, sub.ID, target); err != nil {
			return err
		}

		before := sub.ActivitySnapshot()
		sub.Status = target
		if err := tx.Model(sub).Update("status", target).Error; err != nil {
			return err
		}
		s.Activity.Updated(tx, &actor.ID, before, sub)

		if err := s.reconcile(tx, actor, parentID); err != nil {
			return err
		}
		return s.reconcileDependents(tx, actor, sub.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(actor, parentID)
}

func (s *TaskService) DeleteSubtask(actor *models.User, subtaskID uint) (*models.Task, error) {
	var parentID uint
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		sub, err := findTask(tx, subtaskID)
		if err != nil {
			return err
		}
		if !sub.IsSubtask() {
			return ErrNotFound
		}
		if !canManageTask(actor, sub) {
			return ErrUnauthorized
		}
		parentID = *sub.ParentID
		return s.deleteTask(tx, actor, sub)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(actor, parentID)
}

type BulkResult struct {
	Updated []uint `json:"updated"`
	Skipped []uint `json:"skipped"`
}

// BulkUpdateStatus applies the status to each task independently. A task
// that fails the blocked check or that the actor may not modify is skipped
// silently; partial success is the expected outcome.
func (s *TaskService) BulkUpdateStatus(actor *models.User, ids []uint, status string) (*BulkResult, error) {
	if !constants.ValidTaskStatus(status) {
		return nil, ErrInvalidStatus
	}

	result := &BulkResult{Updated: []uint{}, Skipped: []uint{}}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			task, err := findTask(tx, id)
			if err != nil {
				if err == ErrNotFound {
					result.Skipped = append(result.Skipped, id)
					continue
				}
				return err
			}
			if !canManageTask(actor, task) {
				result.Skipped = append(result.Skipped, id)
				continue
			}
			if err := s.Deps.EnsureCompletable(tx, id, status); err != nil {
				if err == ErrBlockedByDependency {
					result.Skipped = append(result.Skipped, id)
					continue
				}
				return err
			}

			if task.Status != status {
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
				if err := s.reconcileDependents(tx, actor, task.ID); err != nil {
					return err
				}
			}
			result.Updated = append(result.Updated, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// BulkDelete soft-deletes each task the actor may delete, skipping the rest.
func (s *TaskService) BulkDelete(actor *models.User, ids []uint) (*BulkResult, error) {
	result := &BulkResult{Updated: []uint{}, Skipped: []uint{}}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			task, err := findTask(tx, id)
			if err != nil {
				if err == ErrNotFound {
					result.Skipped = append(result.Skipped, id)
					continue
				}
				return err
			}
			if !canManageTask(actor, task) {
				result.Skipped = append(result.Skipped, id)
				continue
			}
			if err := s.deleteTask(tx, actor, task); err != nil {
				return err
			}
			result.Updated = append(result.Updated, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type ReorderItem struct {
	ID     uint   `json:"id" binding:"required"`
	Order  int    `json:"order"`
	Status string `json:"status" binding:"required"`
}

// Reorder persists kanban drag positions. Only the actor's own tasks move;
// dragging a blocked task into the completed column is skipped silently.
func (s *TaskService) Reorder(actor *models.User, items []ReorderItem) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			if !constants.ValidTaskStatus(item.Status) {
				continue
			}
			task, err := findTask(tx, item.ID)
			if err != nil {
				if err == ErrNotFound {
					continue
				}
				return err
			}
			if task.UserID != actor.ID {
				continue
			}
			if err := s.Deps.EnsureCompletable(tx, task.ID, item.Status); err != nil {
				if err == ErrBlockedByDependency {
					continue
				}
				return err
			}

			statusChanged := task.Status != item.Status
			before := task.ActivitySnapshot()
			task.SortOrder = item.Order
			task.Status = item.Status
			if err := tx.Model(task).Updates(map[string]any{
				"sort_order": item.Order,
				"status":     item.Status,
			}).Error; err != nil {
				return err
			}
			s.Activity.Updated(tx, &actor.ID, before, task)
			if statusChanged {
				if task.ParentID != nil {
					if err := s.reconcile(tx, actor, *task.ParentID); err != nil {
						return err
					}
				}
				if err := s.reconcileDependents(tx, actor, task.ID); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
