package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-habit-api/internal/middleware"
	"github.com/yukikurage/task-habit-api/internal/services"
	"gorm.io/gorm"
)

// Dependencies are the services the HTTP layer is built on.
type Dependencies struct {
	DB         *gorm.DB
	Auth       *services.AuthService
	Tasks      *services.TaskService
	Habits     *services.HabitService
	Workspaces *services.WorkspaceService
}

// RegisterRoutes mounts /health and the /api tree on r. Session middleware,
// when used, must be installed on r before calling this.
func RegisterRoutes(r *gin.Engine, deps Dependencies) {
	healthHandler := NewHealthHandler(deps.DB)
	authHandler := NewAuthHandler(deps.Auth)
	taskHandler := NewTaskHandler(deps.Tasks)
	habitHandler := NewHabitHandler(deps.Habits)
	workspaceHandler := NewWorkspaceHandler(deps.Workspaces)

	requireAuth := middleware.RequireAuth(deps.Auth)
	taskAccess := middleware.RequireTaskAccess(deps.Tasks)
	habitOwner := middleware.RequireHabitOwner(deps.Habits)
	workspaceAccess := middleware.RequireWorkspaceAccess(deps.Workspaces)
	workspaceManager := middleware.RequireWorkspaceManager()

	r.GET("/health", healthHandler.Check)

	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
			auth.DELETE("/me", requireAuth, authHandler.DeleteCurrentUser)
			auth.POST("/me/deactivate", requireAuth, authHandler.DeactivateCurrentUser)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/generate", taskHandler.GenerateTasks)
			tasks.GET("/:id", taskAccess, taskHandler.GetTask)
			tasks.PATCH("/:id", taskAccess, taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskAccess, taskHandler.DeleteTask)
		}

		// Habit routes (protected, owner only)
		habits := api.Group("/habits")
		habits.Use(requireAuth)
		{
			habits.GET("", habitHandler.ListHabits)
			habits.POST("", habitHandler.CreateHabit)
			habits.GET("/:id", habitOwner, habitHandler.GetHabit)
			habits.PATCH("/:id", habitOwner, habitHandler.UpdateHabit)
			habits.DELETE("/:id", habitOwner, habitHandler.DeleteHabit)
			habits.GET("/:id/completions", habitOwner, habitHandler.ListCompletions)
			habits.POST("/:id/completions", habitOwner, habitHandler.RecordCompletion)
			habits.DELETE("/:id/completions/:date", habitOwner, habitHandler.DeleteCompletion)
		}

		// Workspace routes (protected)
		workspaces := api.Group("/workspaces")
		workspaces.Use(requireAuth)
		{
			workspaces.POST("", workspaceHandler.CreateWorkspace)
			workspaces.GET("", workspaceHandler.ListWorkspaces)
			workspaces.POST("/invites/accept", workspaceHandler.AcceptInvite)
			workspaces.GET("/:id", workspaceAccess, workspaceHandler.GetWorkspace)
			workspaces.GET("/:id/members", workspaceAccess, workspaceHandler.ListMembers)
			workspaces.POST("/:id/members", workspaceAccess, workspaceManager, workspaceHandler.AddMember)
			workspaces.DELETE("/:id/members/:user_id", workspaceAccess, workspaceHandler.RemoveMember)
			workspaces.GET("/:id/invites", workspaceAccess, workspaceManager, workspaceHandler.ListInvites)
			workspaces.POST("/:id/invites", workspaceAccess, workspaceManager, workspaceHandler.CreateInvite)
		}
	}
}
