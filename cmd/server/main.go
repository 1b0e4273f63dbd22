package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-habit-api/internal/auth"
	"github.com/yukikurage/task-habit-api/internal/config"
	"github.com/yukikurage/task-habit-api/internal/database"
	"github.com/yukikurage/task-habit-api/internal/handlers"
	"github.com/yukikurage/task-habit-api/internal/middleware"
	"github.com/yukikurage/task-habit-api/internal/repository"
	"github.com/yukikurage/task-habit-api/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	tokens, err := auth.NewTokenIssuer(cfg)
	if err != nil {
		log.Fatalf("Failed to configure tokens: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	habitRepo := repository.NewHabitRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)

	// Task suggestions are only available with an OpenAI key
	var generator services.TaskGenerator
	if cfg.OpenAIAPIKey != "" {
		generator = services.NewAIService(cfg.OpenAIAPIKey)
	} else {
		log.Println("OPENAI_API_KEY not set, task generation disabled")
	}

	deps := handlers.Dependencies{
		DB:         db,
		Auth:       services.NewAuthService(userRepo, tokens),
		Tasks:      services.NewTaskService(taskRepo, userRepo, workspaceRepo, generator),
		Habits:     services.NewHabitService(habitRepo, userRepo),
		Workspaces: services.NewWorkspaceService(workspaceRepo, userRepo),
	}

	// Initialize Gin router
	r := gin.Default()
	r.Use(middleware.RequestID())

	sessionMiddleware, err := middleware.Sessions(cfg)
	if err != nil {
		log.Fatalf("Failed to set up sessions: %v", err)
	}
	r.Use(sessionMiddleware)

	handlers.RegisterRoutes(r, deps)

	// Start server
	addr := ":" + cfg.Port
	log.Printf("Server starting on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
