package services

import (
	"gorm.io/gorm"

	"github.com/erwinjames/taskmanagement/models"
)

const archivePageSize = 10

// ArchiveService lists and restores soft-deleted tasks and projects.
type ArchiveService struct {
	DB *gorm.DB
}

type ArchiveFilter struct {
	Search    string
	Sort      string
	Direction string
	Page      int
}

func (f ArchiveFilter) apply(query *gorm.DB, searchColumns ...string) *gorm.DB {
	if f.Search != "" {
		like := "%" + f.Search + "%"
		clause := ""
		args := make([]any, 0, len(searchColumns))
		for i, col := range searchColumns {
			if i > 0 {
				clause += " OR "
			}
			clause += col + " LIKE ?"
			args = append(args, like)
		}
		query = query.Where(clause, args...)
	}

	sort := f.Sort
	if sort == "" {
		sort = "deleted_at"
	}
	direction := "DESC"
	if f.Direction == "asc" {
		direction = "ASC"
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	return query.Order(sort + " " + direction).
		Limit(archivePageSize).
		Offset((page - 1) * archivePageSize)
}

func (s *ArchiveService) Tasks(f ArchiveFilter) ([]models.Task, int64, error) {
	var total int64
	err := s.DB.Unscoped().Model(&models.Task{}).
		Where("deleted_at IS NOT NULL").
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	query := s.DB.Unscoped().Preload("User").Preload("Project").
		Where("deleted_at IS NOT NULL")

	var tasks []models.Task
	if err := f.apply(query, "title", "description").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (s *ArchiveService) Projects(f ArchiveFilter) ([]models.Project, int64, error) {
	var total int64
	err := s.DB.Unscoped().Model(&models.Project{}).
		Where("deleted_at IS NOT NULL").
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	query := s.DB.Unscoped().Preload("Owner").
		Where("deleted_at IS NOT NULL")

	var projects []models.Project
	if err := f.apply(query, "name", "description").Find(&projects).Error; err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

// RestoreTasks clears the deletion flag on the given tasks and their
// subtasks. Non-admins can only restore tasks they own or created.
func (s *ArchiveService) RestoreTasks(actor *models.User, ids []uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		query := tx.Unscoped().Model(&models.Task{}).Where("id IN ?", ids)
		if !actor.IsAdmin() {
			query = query.Where("user_id = ? OR created_by_id = ?", actor.ID, actor.ID)
		}
		if err := query.Update("deleted_at", nil).Error; err != nil {
			return err
		}
		return tx.Unscoped().Model(&models.Task{}).
			Where("parent_id IN ?", ids).
			Update("deleted_at", nil).Error
	})
}

func (s *ArchiveService) RestoreProjects(actor *models.User, ids []uint) error {
	query := s.DB.Unscoped().Model(&models.Project{}).Where("id IN ?", ids)
	if !actor.IsAdmin() {
		query = query.Where("created_by_id = ?", actor.ID)
	}
	return query.Update("deleted_at", nil).Error
}
