package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/erwinjames/taskmanagement/middleware"
	"github.com/erwinjames/taskmanagement/services"
)

type ProjectController struct {
	Projects *services.ProjectService
}

func (pc *ProjectController) ListProjects(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	projects, err := pc.Projects.List(actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (pc *ProjectController) CreateProject(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var in services.ProjectInput
	if err := c.BindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := pc.Projects.Create(actor, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (pc *ProjectController) GetProject(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	project, err := pc.Projects.Get(actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (pc *ProjectController) UpdateProject(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var in services.ProjectInput
	if err := c.BindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := pc.Projects.Update(actor, id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (pc *ProjectController) DeleteProject(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := pc.Projects.Delete(actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

type memberInput struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role"`
}

func (pc *ProjectController) AddMember(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var in memberInput
	if err := c.BindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := pc.Projects.AddMember(actor, id, in.UserID, in.Role); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member added"})
}

func (pc *ProjectController) RemoveMember(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := paramID(c, "userID")
	if !ok {
		return
	}

	if err := pc.Projects.RemoveMember(actor, id, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}

func (pc *ProjectController) ToggleStar(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := pc.Projects.ToggleStar(actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Star toggled"})
}
