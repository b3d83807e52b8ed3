package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/erwinjames/taskmanagement/middleware"
	"github.com/erwinjames/taskmanagement/services"
)

type ArchiveController struct {
	Archive *services.ArchiveService
}

func (ac *ArchiveController) Index(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	filter := services.ArchiveFilter{
		Search:    c.Query("search"),
		Sort:      c.DefaultQuery("sort", "deleted_at"),
		Direction: c.DefaultQuery("direction", "desc"),
		Page:      page,
	}

	tab := c.DefaultQuery("tab", "tasks")
	if tab == "projects" {
		projects, total, err := ac.Archive.Projects(filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": projects, "total": total, "tab": tab})
		return
	}

	tasks, total, err := ac.Archive.Tasks(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": tasks, "total": total, "tab": tab})
}

type restoreInput struct {
	IDs  []uint `json:"ids" binding:"required"`
	Type string `json:"type"`
}

func (ac *ArchiveController) Restore(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var in restoreInput
	if err := c.BindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var err error
	if in.Type == "projects" {
		err = ac.Archive.RestoreProjects(actor, in.IDs)
	} else {
		err = ac.Archive.RestoreTasks(actor, in.IDs)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Items restored"})
}
