package services

import (
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/erwinjames/taskmanagement/constants"
	"github.com/erwinjames/taskmanagement/models"
)

// DashboardService aggregates the read-only numbers shown on the landing
// page. Admins get an org-wide view, members their own.
type DashboardService struct {
	DB *gorm.DB
}

type UserPerformance struct {
	Name           string `json:"name"`
	CompletedTasks int64  `json:"completed_tasks"`
}

type AdminStats struct {
	TotalTasks      int64             `json:"total_tasks"`
	TasksByStatus   map[string]int64  `json:"tasks_by_status"`
	OverdueTasks    int64             `json:"overdue_tasks"`
	RecentTasks     []models.Task     `json:"recent_tasks"`
	UserPerformance []UserPerformance `json:"user_performance"`
}

type MemberStats struct {
	TotalTasks     int64            `json:"total_tasks"`
	TasksByStatus  map[string]int64 `json:"tasks_by_status"`
	DueToday       []models.Task    `json:"due_today"`
	Upcoming       []models.Task    `json:"upcoming_deadlines"`
	CompletionRate int              `json:"completion_rate"`
}

func (s *DashboardService) AdminStats() (*AdminStats, error) {
	stats := &AdminStats{TasksByStatus: map[string]int64{}}

	if err := s.DB.Model(&models.Task{}).Count(&stats.TotalTasks).Error; err != nil {
		return nil, err
	}
	for _, status := range []string{
		constants.TaskStatusPending,
		constants.TaskStatusInProgress,
		constants.TaskStatusCompleted,
	} {
		var n int64
		if err := s.DB.Model(&models.Task{}).Where("status = ?", status).Count(&n).Error; err != nil {
			return nil, err
		}
		stats.TasksByStatus[status] = n
	}

	err := s.DB.Model(&models.Task{}).
		Where("due_date < ? AND status <> ?", time.Now(), constants.TaskStatusCompleted).
		Count(&stats.OverdueTasks).Error
	if err != nil {
		return nil, err
	}

	err = s.DB.Preload("User").Order("created_at DESC").Limit(5).
		Find(&stats.RecentTasks).Error
	if err != nil {
		return nil, err
	}

	var users []models.User
	if err := s.DB.Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		var n int64
		err := s.DB.Model(&models.Task{}).
			Where("user_id = ? AND status = ?", u.ID, constants.TaskStatusCompleted).
			Count(&n).Error
		if err != nil {
			return nil, err
		}
		stats.UserPerformance = append(stats.UserPerformance, UserPerformance{
			Name:           u.Name,
			CompletedTasks: n,
		})
	}
	return stats, nil
}

func (s *DashboardService) MemberStats(user *models.User) (*MemberStats, error) {
	stats := &MemberStats{TasksByStatus: map[string]int64{}}
	own := func() *gorm.DB {
		return s.DB.Model(&models.Task{}).Where("user_id = ?", user.ID)
	}

	if err := own().Count(&stats.TotalTasks).Error; err != nil {
		return nil, err
	}
	var completed int64
	for _, status := range []string{
		constants.TaskStatusPending,
		constants.TaskStatusInProgress,
		constants.TaskStatusCompleted,
	} {
		var n int64
		if err := own().Where("status = ?", status).Count(&n).Error; err != nil {
			return nil, err
		}
		stats.TasksByStatus[status] = n
		if status == constants.TaskStatusCompleted {
			completed = n
		}
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	err := own().
		Where("due_date >= ? AND due_date < ? AND status <> ?", startOfDay, endOfDay, constants.TaskStatusCompleted).
		Find(&stats.DueToday).Error
	if err != nil {
		return nil, err
	}

	err = own().
		Where("due_date BETWEEN ? AND ? AND status <> ?", now, now.AddDate(0, 0, 7), constants.TaskStatusCompleted).
		Order("due_date ASC").
		Find(&stats.Upcoming).Error
	if err != nil {
		return nil, err
	}

	if stats.TotalTasks > 0 {
		stats.CompletionRate = int(math.Round(float64(completed) / float64(stats.TotalTasks) * 100))
	}
	return stats, nil
}
