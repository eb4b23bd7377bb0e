package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/oneiro-app/oneiro/pkg/oneiro/auth"
	"github.com/oneiro-app/oneiro/pkg/oneiro/database"
	"github.com/oneiro-app/oneiro/pkg/oneiro/dreamlogs"
	"github.com/oneiro-app/oneiro/pkg/oneiro/logging"
	"github.com/oneiro-app/oneiro/pkg/oneiro/models"
	"github.com/oneiro-app/oneiro/pkg/oneiro/tags"
)

// @title Oneiro API
// @version 1.0
// @description A personal dream journal: authenticated users record dream logs and organize them with tags.

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token. Format: "Bearer {token}"

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	logging.Setup()

	dbPath := os.Getenv("ONEIRO_DB_PATH")
	if dbPath == "" {
		dbPath = "oneiro.db"
	}

	if err := database.Connect(dbPath); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := models.AutoMigrate(database.GetDB()); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	log.Info().Str("db", dbPath).Msg("database migrations completed")

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(logging.RequestLogger(), gin.Recovery())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		authHandler := auth.NewHandler(database.GetDB())
		authHandler.RegisterRoutes(api.Group("/auth"))

		// Dream log routes (protected)
		dreamLogsHandler := dreamlogs.NewHandler(database.GetDB())
		dreamLogsHandler.RegisterRoutes(api.Group("", auth.AuthMiddleware()))

		// Tag routes (protected)
		tagsHandler := tags.NewHandler(database.GetDB())
		tagsHandler.RegisterRoutes(api.Group("", auth.AuthMiddleware()))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Info().Str("port", port).Msg("starting oneiro server")
	if err := r.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
