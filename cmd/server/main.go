package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/avolkov/task-manager-api/internal/bootstrap"
	"github.com/avolkov/task-manager-api/internal/config"
	"github.com/avolkov/task-manager-api/internal/database"
	"github.com/avolkov/task-manager-api/internal/handlers"
	"github.com/avolkov/task-manager-api/internal/middleware"
	"github.com/avolkov/task-manager-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed roles and the initial administrator
	if err := bootstrap.Run(db, cfg); err != nil {
		log.Fatalf("Failed to bootstrap: %v", err)
	}

	// Initialize services
	authService := services.NewAuthService(db, cfg)
	taskService := services.NewTaskService(db)
	groupService := services.NewGroupService(db)
	statsService := services.NewStatisticsService(db, cfg.AdminOnlyMessage)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	groupHandler := handlers.NewGroupHandler(groupService)
	statsHandler := handlers.NewStatisticsHandler(statsService)

	// Initialize Gin router
	r := gin.Default()

	requireAuth := middleware.RequireAuth([]byte(cfg.JWTSecret))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task Manager API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public, permissive CORS)
		auth := api.Group("/auth")
		auth.Use(cors.Default())
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.List)
			tasks.POST("", taskHandler.Create)
			tasks.GET("/without-group", taskHandler.ListWithoutGroup)
			tasks.GET("/:id", taskHandler.Get)
			tasks.PUT("/:id", taskHandler.Update)
			tasks.DELETE("/:id", taskHandler.Delete)
			tasks.PUT("/:id/group/:groupId", taskHandler.AssignGroup)
			tasks.DELETE("/:id/group", taskHandler.ClearGroup)
		}

		// Group routes (protected)
		groups := api.Group("/groups")
		groups.Use(requireAuth)
		{
			groups.POST("", groupHandler.Create)
			groups.GET("", groupHandler.List)
			groups.GET("/:id", groupHandler.Get)
			groups.GET("/:id/with-tasks", groupHandler.GetWithTasks)
			groups.GET("/:id/tasks", groupHandler.ListTasks)
			groups.PUT("/:id", groupHandler.Update)
			groups.DELETE("/:id", groupHandler.Delete)
			groups.POST("/:id/tasks/:taskId", groupHandler.AttachTask)
			groups.DELETE("/:id/tasks/:taskId", groupHandler.DetachTask)
		}

		// Statistics routes (protected; admin checks live in the service)
		stats := api.Group("/statistics")
		stats.Use(requireAuth)
		{
			stats.GET("", statsHandler.General)
			stats.GET("/dashboard", statsHandler.Dashboard)
			stats.GET("/groups", statsHandler.Groups)
			stats.GET("/users", statsHandler.Users)
			stats.GET("/top-groups", statsHandler.TopGroups)
			stats.GET("/top-users", statsHandler.TopUsers)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
