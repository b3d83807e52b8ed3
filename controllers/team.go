package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/erwinjames/taskmanagement/middleware"
	"github.com/erwinjames/taskmanagement/models"
	"github.com/erwinjames/taskmanagement/services"
)

type TeamController struct {
	Team        *services.TeamService
	Invitations *services.InvitationService
	Assignments *services.AssignmentService
}

type teamMemberView struct {
	models.User
	TaskStatistics *services.TaskStatistics `json:"task_statistics"`
}

// ListTeam renders the team page data: the visible member set with per-user
// task statistics, plus filter metadata.
func (tc *TeamController) ListTeam(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	filter := services.TeamFilter{
		Search:     c.Query("search"),
		Role:       c.Query("role"),
		Department: c.Query("department"),
		Status:     c.Query("status"),
		SortBy:     c.DefaultQuery("sort_by", "name"),
		SortOrder:  c.DefaultQuery("sort_order", "asc"),
	}

	members, err := tc.Team.VisibleTeam(actor, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]teamMemberView, 0, len(members))
	for _, m := range members {
		stats, err := tc.Team.TaskStatistics(m.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		views = append(views, teamMemberView{User: m, TaskStatistics: stats})
	}

	departments, err := tc.Team.Departments()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"members":     views,
		"departments": departments,
		"filters":     filter,
	})
}

func (tc *TeamController) ListInvitations(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	invitations, err := tc.Invitations.ListForUser(actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invitations)
}

type inviteInput struct {
	Email      string `json:"email" binding:"required,email"`
	Name       string `json:"name"`
	CreateUser bool   `json:"create_user"`
}

func (tc *TeamController) Invite(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var in inviteInput
	if err := c.BindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invitation, err := tc.Invitations.Invite(actor, in.Email, in.Name, in.CreateUser)
	if err != nil {
		respondError(c, err)
		return
	}
	if invitation == nil {
		c.JSON(http.StatusOK, gin.H{"message": "User created"})
		return
	}
	c.JSON(http.StatusOK, invitation)
}

func (tc *TeamController) AcceptInvitation(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := tc.Invitations.Accept(actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "You have joined the team"})
}

func (tc *TeamController) RejectInvitation(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := tc.Invitations.Reject(actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invitation rejected"})
}

func (tc *TeamController) ListAssignmentRequests(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	requests, err := tc.Assignments.PendingForAdmin(actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

type assignmentInput struct {
	RequestedAdminID uint `json:"requested_admin_id" binding:"required"`
}

func (tc *TeamController) RequestAssignment(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var in assignmentInput
	if err := c.BindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := tc.Assignments.Request(actor, in.RequestedAdminID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

func (tc *TeamController) ApproveAssignment(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := tc.Assignments.Approve(actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Assignment request approved"})
}

func (tc *TeamController) RejectAssignment(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := tc.Assignments.Reject(actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Assignment request rejected"})
}
