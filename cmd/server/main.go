package main

import (
	"form_forge_app_go/config"
	"form_forge_app_go/db"
	"form_forge_app_go/handlers"
	"form_forge_app_go/middleware"
	"form_forge_app_go/models"
	"form_forge_app_go/services"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Form{},
		&models.Question{},
		&models.FieldOption{},
		&models.FormSubmission{},
		&models.Answer{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Wire the generation pipeline
	handlers.Generator = services.NewFormGenerator(db.DB, services.NewOpenAIClient(cfg), cfg.OpenAITimeout)
	if cfg.OpenAIAPIKey == "" {
		log.Println("[WARNING] OPENAI_API_KEY not set; form generation will be unavailable")
	}

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Public routes (no authentication required)
	e.POST("/api/register", handlers.RegisterHandler)
	e.POST("/api/login", handlers.LoginHandler)
	e.POST("/api/logout", handlers.LogoutHandler)

	// Respondent routes: session resolved when present, anonymous allowed
	public := e.Group("/api/forms")
	public.Use(middleware.OptionalAuth())
	{
		public.GET("/:id", handlers.GetFormHandler)
		public.POST("/:id/submissions", handlers.SubmitFormHandler)
	}

	// Protected routes (authentication required)
	protected := e.Group("/api")
	protected.Use(middleware.RequireAuth())
	{
		protected.GET("/me", handlers.GetCurrentUserHandler)

		protected.POST("/forms/generate", handlers.GenerateFormHandler)
		protected.POST("/forms", handlers.CreateFormHandler)
		protected.GET("/forms", handlers.GetFormsHandler)
		protected.PUT("/forms/:id", handlers.UpdateFormHandler)
		protected.DELETE("/forms/:id", handlers.DeleteFormHandler)
		protected.PATCH("/forms/:id/publish", handlers.PublishFormHandler)
		protected.GET("/forms/:id/results", handlers.GetFormResultsHandler)
	}

	// Start background cleanup job (runs every hour)
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if err := services.CleanupExpiredSessions(db.DB); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			}
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
