package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/erwinjames/taskmanagement/middleware"
	"github.com/erwinjames/taskmanagement/models"
	"github.com/erwinjames/taskmanagement/services"
)

type TaskController struct {
	DB           *gorm.DB
	Tasks        *services.TaskService
	Dependencies *services.DependencyService
	Team         *services.TeamService
}

func (tc *TaskController) ListTasks(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	tasks, err := tc.Team.VisibleTasks(actor)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"tasks": tasks}
	if actor.IsAdmin() {
		var users []models.User
		if err := tc.DB.Find(&users).Error; err != nil {
			respondError(c, err)
			return
		}
		resp["users"] = users
	}
	c.JSON(http.StatusOK, resp)
}

func (tc *TaskController) CreateTask(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var in services.TaskInput
	if err := c.BindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := tc.Tasks.Create(actor, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (tc *TaskController) GetTask(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	task, err := tc.Tasks.Get(actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (tc *TaskController) UpdateTask(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var in services.TaskUpdateInput
	if err := c.BindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := tc.Tasks.Update(actor, id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (tc *TaskController) DeleteTask(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := tc.Tasks.Delete(actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

type statusInput struct {
	Status string `json:"status" binding:"required"`
}

func (tc *TaskController) SetTaskStatus(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var in statusInput
	if err := c.BindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := tc.Tasks.SetStatus(actor, id, in.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

type reorderInput struct {
	Items []services.ReorderItem `json:"items" binding:"required"`
}

func (tc *TaskController) Reorder(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var in reorderInput
	if err := c.BindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := tc.Tasks.Reorder(actor, in.Items); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reordered"})
}

type bulkInput struct {
	IDs    []uint `json:"ids" binding:"required"`
	Action string `json:"action" binding:"required"`
	Value  string `json:"value"`
}

// BulkAction applies update_status or delete to many tasks. Items that fail
// the per-task checks come back in "skipped"; the rest proceed.
func (tc *TaskController) BulkAction(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var in bulkInput
	if err := c.BindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		result *services.BulkResult
		err    error
	)
	switch in.Action {
	case "update_status":
		result, err = tc.Tasks.BulkUpdateStatus(actor, in.IDs, in.Value)
	case "delete":
		result, err = tc.Tasks.BulkDelete(actor, in.IDs)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type subtaskInput struct {
	Title string `json:"title" binding:"required"`
}

func (tc *TaskController) AddSubtask(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var in subtaskInput
	if err := c.BindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := tc.Tasks.AddSubtask(actor, id, in.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

type toggleSubtaskInput struct {
	IsCompleted *bool `json:"is_completed" binding:"required"`
}

// ToggleSubtask flips a subtask's completion flag and returns the parent
// task with its recomputed status.
func (tc *TaskController) ToggleSubtask(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var in toggleSubtaskInput
	if err := c.BindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	parent, err := tc.Tasks.ToggleSubtask(actor, id, *in.IsCompleted)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, parent)
}

func (tc *TaskController) DeleteSubtask(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	parent, err := tc.Tasks.DeleteSubtask(actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, parent)
}

type dependencyInput struct {
	DependencyID uint `json:"dependency_id" binding:"required"`
}

func (tc *TaskController) AddDependency(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var in dependencyInput
	if err := c.BindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := tc.Dependencies.Add(actor, id, in.DependencyID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dependency added"})
}

func (tc *TaskController) RemoveDependency(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	depID, ok := paramID(c, "dependencyID")
	if !ok {
		return
	}

	if err := tc.Dependencies.Remove(actor, id, depID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dependency removed"})
}
