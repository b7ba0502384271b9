package main

import (
	"dashboard/src/config"
	"dashboard/src/database"
	"dashboard/src/utils"
	"log"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("./settings", os.Getenv("ENV"))
	if err != nil {
		log.Fatalf("Error loading config for environment: %v", err)
	}
	logger := utils.NewLoggerFromLevel(cfg.Logging.Level, cfg.Logging.File)

	db, err := database.SetupDB(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if cfg.Databases.SQL.Driver == database.DriverPostgres {
		err = database.Migrate(db)
	} else {
		err = database.AutoMigrate(db)
	}
	if err != nil {
		logger.Fatalf("Failed to apply migrations: %v", err)
	}

	logger.Info("Database migration completed successfully")
}
