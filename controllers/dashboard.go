package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/erwinjames/taskmanagement/middleware"
	"github.com/erwinjames/taskmanagement/services"
)

type DashboardController struct {
	Dashboard *services.DashboardService
}

func (dc *DashboardController) Index(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	if actor.IsAdmin() {
		stats, err := dc.Dashboard.AdminStats()
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"stats": stats, "is_admin": true})
		return
	}

	stats, err := dc.Dashboard.MemberStats(actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats, "is_admin": false})
}
