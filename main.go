package main

import (
	"os"

	"ChipBook/config"
	_ "ChipBook/config/swagger"
	"ChipBook/middleware"
	"ChipBook/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

// @title ChipBook API
// @version 1.0
// @description Gin-Gonic server for the ChipBook poker finance tracker
// @BasePath /
func main() {
	godotenv.Load()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.Info("setting up server...")

	if os.Getenv("PROD") == "true" {
		gin.SetMode(gin.ReleaseMode)
		log.SetFormatter(&log.JSONFormatter{})
	}

	gormDB, err := config.ConnectGORM()
	if err != nil {
		log.WithError(err).Fatal("error connecting to PostgreSQL")
	}

	if os.Getenv("MIGRATE_POSTGRES") == "true" {
		log.Info("migrating database...")
		if err := config.MigrateDatabase(gormDB); err != nil {
			log.WithError(err).Fatal("database migration failed")
		}
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.WithError(err).Fatal("error reading GORM PostgreSQL instance")
	}
	defer sqlDB.Close()

	cache, err := config.ConnectRedis()
	if err != nil {
		log.WithError(err).Fatal("error connecting to Redis")
	}
	if cache != nil {
		defer cache.Close()
	}

	r := gin.Default()

	middleware.SetUpMiddleware(r)
	routes.SetupRoutes(r, gormDB, cache)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.WithField("port", port).Info("server started")
	if err := r.Run(":" + port); err != nil {
		log.WithError(err).Fatal("error starting server")
	}
}
