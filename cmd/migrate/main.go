package main

import (
	"github.com/sirupsen/logrus"

	"github.com/recipedium/backend/config"
	"github.com/recipedium/backend/internal/database"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	db, err := database.New(cfg, logger)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		logger.Fatalf("migrate database: %v", err)
	}

	logger.Info("migrations applied")
}
