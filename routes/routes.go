package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/erwinjames/taskmanagement/controllers"
	"github.com/erwinjames/taskmanagement/middleware"
	"github.com/erwinjames/taskmanagement/services"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	deps := &services.DependencyService{DB: db}
	tasks := &services.TaskService{DB: db, Deps: deps}
	deps.Tasks = tasks
	team := &services.TeamService{DB: db}

	taskController := controllers.TaskController{DB: db, Tasks: tasks, Dependencies: deps, Team: team}
	projectController := controllers.ProjectController{Projects: &services.ProjectService{DB: db}}
	teamController := controllers.TeamController{
		Team:        team,
		Invitations: &services.InvitationService{DB: db},
		Assignments: &services.AssignmentService{DB: db},
	}
	activityController := controllers.ActivityController{Activities: &services.ActivityService{DB: db}}
	dashboardController := controllers.DashboardController{Dashboard: &services.DashboardService{DB: db}}
	archiveController := controllers.ArchiveController{Archive: &services.ArchiveService{DB: db}}
	authController := controllers.AuthController{DB: db}

	r.POST("/auth/register", authController.Register)
	r.POST("/auth/login", authController.Login)

	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(db), middleware.TouchLastActive(db))
	{
		auth.GET("/tasks", taskController.ListTasks)
		auth.POST("/tasks", taskController.CreateTask)
		auth.POST("/tasks/reorder", taskController.Reorder)
		auth.POST("/tasks/bulk", taskController.BulkAction)
		auth.GET("/tasks/:id", taskController.GetTask)
		auth.PUT("/tasks/:id", taskController.UpdateTask)
		auth.DELETE("/tasks/:id", taskController.DeleteTask)
		auth.PATCH("/tasks/:id/status", taskController.SetTaskStatus)

		auth.POST("/tasks/:id/subtasks", taskController.AddSubtask)
		auth.PUT("/subtasks/:id", taskController.ToggleSubtask)
		auth.DELETE("/subtasks/:id", taskController.DeleteSubtask)

		auth.POST("/tasks/:id/dependencies", taskController.AddDependency)
		auth.DELETE("/tasks/:id/dependencies/:dependencyID", taskController.RemoveDependency)

		auth.GET("/projects", projectController.ListProjects)
		auth.POST("/projects", projectController.CreateProject)
		auth.GET("/projects/:id", projectController.GetProject)
		auth.PUT("/projects/:id", projectController.UpdateProject)
		auth.DELETE("/projects/:id", projectController.DeleteProject)
		auth.POST("/projects/:id/members", projectController.AddMember)
		auth.DELETE("/projects/:id/members/:userID", projectController.RemoveMember)
		auth.POST("/projects/:id/star", projectController.ToggleStar)

		auth.GET("/team", teamController.ListTeam)
		auth.GET("/team/invitations", teamController.ListInvitations)
		auth.POST("/team/invitations/:id/accept", teamController.AcceptInvitation)
		auth.POST("/team/invitations/:id/reject", teamController.RejectInvitation)
		auth.POST("/team/assignment-requests", teamController.RequestAssignment)

		auth.GET("/activities", activityController.ListActivities)
		auth.GET("/dashboard", dashboardController.Index)

		auth.GET("/archive", archiveController.Index)
		auth.POST("/archive/restore", archiveController.Restore)

		admin := auth.Group("/")
		admin.Use(middleware.RoleMiddleware("admin"))
		{
			admin.POST("/team/invitations", teamController.Invite)
			admin.GET("/team/assignment-requests", teamController.ListAssignmentRequests)
			admin.POST("/team/assignment-requests/:id/approve", teamController.ApproveAssignment)
			admin.POST("/team/assignment-requests/:id/reject", teamController.RejectAssignment)
		}
	}

	return r
}
