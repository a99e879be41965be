package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/recipedium/backend/config"
	"github.com/recipedium/backend/internal/database"
	"github.com/recipedium/backend/internal/server"
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

	// Redis is optional: rate limiting is skipped when it is unreachable.
	var redisClient *redis.Client
	if client, err := database.NewRedisClient(cfg, logger); err != nil {
		logger.WithError(err).Warn("redis unavailable, rate limiting disabled")
	} else {
		redisClient = client
	}

	// S3 is optional too: without it the image upload endpoint reports the
	// capability as unconfigured.
	var s3Config *config.S3Config
	if cfg.Storage.Bucket != "" {
		s3Config, err = config.NewS3Config(context.Background(), cfg)
		if err != nil {
			logger.WithError(err).Warn("s3 unavailable, image upload disabled")
			s3Config = nil
		}
	}

	srv := server.New(cfg, db, logger, redisClient, s3Config)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatalf("server error: %v", err)
		}
	case sig := <-quit:
		logger.Infof("received signal: %v", sig)
	}

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("server shutdown error: %v", err)
	}
	logger.Info("server stopped")
}
