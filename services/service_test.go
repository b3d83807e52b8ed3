package services

import (
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/erwinjames/taskmanagement/constants"
	"github.com/erwinjames/taskmanagement/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("underlying db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
		&models.TaskDependency{},
		&models.Activity{},
		&models.TeamInvitation{},
		&models.AdminAssignmentRequest{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTaskService(db *gorm.DB) (*TaskService, *DependencyService) {
	deps := &DependencyService{DB: db}
	tasks := &TaskService{DB: db, Deps: deps}
	deps.Tasks = tasks
	return tasks, deps
}

func seedUser(t *testing.T, db *gorm.DB, name, role string, adminID *uint) *models.User {
	t.Helper()

	email := strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com"
	user := &models.User{
		Name:    name,
		Email:   email,
		Role:    role,
		AdminID: adminID,
		Status:  constants.PresenceActive,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}
	return user
}

func seedTask(t *testing.T, db *gorm.DB, owner *models.User, title, status string) *models.Task {
	t.Helper()

	task := &models.Task{
		Title:       title,
		Status:      status,
		Priority:    constants.PriorityMedium,
		UserID:      owner.ID,
		CreatedByID: owner.ID,
	}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("seed task %s: %v", title, err)
	}
	return task
}

func seedSubtask(t *testing.T, db *gorm.DB, parent *models.Task, title, status string) *models.Task {
	t.Helper()

	sub := &models.Task{
		Title:       title,
		Status:      status,
		Priority:    parent.Priority,
		UserID:      parent.UserID,
		CreatedByID: parent.CreatedByID,
		ParentID:    &parent.ID,
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("seed subtask %s: %v", title, err)
	}
	return sub
}

func taskStatus(t *testing.T, db *gorm.DB, id uint) string {
	t.Helper()

	var task models.Task
	if err := db.First(&task, id).Error; err != nil {
		t.Fatalf("reload task %d: %v", id, err)
	}
	return task.Status
}

func countActivities(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var n int64
	if err := db.Model(&models.Activity{}).Count(&n).Error; err != nil {
		t.Fatalf("count activities: %v", err)
	}
	return n
}
