package services

import (
	"gorm.io/gorm"

	"github.com/erwinjames/taskmanagement/constants"
	"github.com/erwinjames/taskmanagement/models"
)

// TeamService answers visibility questions over the one-level admin→member
// hierarchy. Pure queries, recomputed on every call.
type TeamService struct {
	DB *gorm.DB
}

type TeamFilter struct {
	Search     string
	Role       string
	Department string
	Status     string
	SortBy     string
	SortOrder  string
}

// VisibleTeam returns the users the given user can see on the team page.
// Admins see their members plus themselves; members see users sharing their
// admin plus the admin itself. A member with no admin sees only themselves.
func (s *TeamService) VisibleTeam(user *models.User, f TeamFilter) ([]models.User, error) {
	query := s.DB.Model(&models.User{})

	if user.IsAdmin() {
		query = query.Where("admin_id = ? OR id = ?", user.ID, user.ID)
	} else if user.AdminID != nil {
		query = query.Where("admin_id = ? OR id = ?", *user.AdminID, *user.AdminID)
	} else {
		query = query.Where("id = ?", user.ID)
	}

	if f.Search != "" {
		like := "%" + f.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ? OR department LIKE ?", like, like, like)
	}
	if f.Role != "" {
		query = query.Where("role = ?", f.Role)
	}
	if f.Department != "" {
		query = query.Where("department = ?", f.Department)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}

	order := "ASC"
	if f.SortOrder == "desc" {
		order = "DESC"
	}
	switch f.SortBy {
	case "tasks":
		query = query.Order("(SELECT COUNT(*) FROM tasks WHERE tasks.user_id = users.id AND tasks.deleted_at IS NULL) " + order)
	case "activity":
		query = query.Order("last_active_at " + order)
	case "joined":
		query = query.Order("created_at " + order)
	default:
		query = query.Order("name " + order)
	}

	var members []models.User
	if err := query.Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// VisibleTasks lists the tasks a user sees on the task board. Admins see
// tasks they assigned to other users, deliberately excluding their own;
// members see their own tasks. Subtasks ride along via preload rather than
// appearing as rows.
func (s *TeamService) VisibleTasks(user *models.User) ([]models.Task, error) {
	query := s.DB.Preload("User").Preload("Subtasks").Preload("Dependencies").
		Where("parent_id IS NULL")

	if user.IsAdmin() {
		query = query.Where("user_id <> ?", user.ID)
	} else {
		query = query.Where("user_id = ?", user.ID)
	}

	var tasks []models.Task
	err := query.Order("sort_order ASC, created_at DESC").Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

type TaskStatistics struct {
	Total      int64 `json:"total"`
	Completed  int64 `json:"completed"`
	InProgress int64 `json:"in_progress"`
	Pending    int64 `json:"pending"`
}

func (s *TeamService) TaskStatistics(userID uint) (*TaskStatistics, error) {
	stats := &TaskStatistics{}
	base := func() *gorm.DB {
		return s.DB.Model(&models.Task{}).Where("user_id = ?", userID)
	}

	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", constants.TaskStatusCompleted).Count(&stats.Completed).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", constants.TaskStatusInProgress).Count(&stats.InProgress).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", constants.TaskStatusPending).Count(&stats.Pending).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// Departments lists the distinct non-empty departments, for the team page
// filter dropdown.
func (s *TeamService) Departments() ([]string, error) {
	var departments []string
	err := s.DB.Model(&models.User{}).
		Where("department <> ''").
		Distinct().
		Pluck("department", &departments).Error
	return departments, err
}
