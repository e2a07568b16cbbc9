package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/EgieSugina/wb-ln-server/pkg/lightnovel/api"
	"github.com/EgieSugina/wb-ln-server/pkg/lightnovel/config"
)

type EnvConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	DatabaseType string `env:"DATABASE_TYPE" env-default:"memory"`
	DatabaseURL  string `env:"DATABASE_URL" env-default:""`

	StorageType   string `env:"STORAGE_TYPE" env-default:"memory"`
	Bucket        string `env:"STORAGE_BUCKET" env-default:"light-novel-images"`
	PublicBaseURL string `env:"STORAGE_PUBLIC_BASE_URL" env-default:"https://storage.googleapis.com"`

	S3Region          string `env:"AWS_S3_REGION" env-default:"us-east-1"`
	S3Endpoint        string `env:"AWS_S3_ENDPOINT" env-default:""`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" env-default:""`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" env-default:""`
	S3UsePathStyle    bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"false"`

	GCSCredentialsFile string `env:"GCS_CREDENTIALS_FILE" env-default:""`
}

func (e EnvConfig) toServerConfig() config.Option {
	return func(c *config.ServerConfig) error {
		c.Port = e.Port
		c.Environment = e.Environment
		c.DatabaseType = e.DatabaseType
		c.DatabaseURL = e.DatabaseURL
		c.StorageType = e.StorageType
		c.Bucket = e.Bucket
		c.PublicBaseURL = e.PublicBaseURL
		c.S3Region = e.S3Region
		c.S3Endpoint = e.S3Endpoint
		c.S3AccessKeyID = e.S3AccessKeyID
		c.S3SecretAccessKey = e.S3SecretAccessKey
		c.S3UsePathStyle = e.S3UsePathStyle
		c.GCSCredentialsFile = e.GCSCredentialsFile
		return nil
	}
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	var env EnvConfig
	if err := cleanenv.ReadEnv(&env); err != nil {
		logger.Error("Failed to read environment", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load(env.toServerConfig())
	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	svc, store, err := cfg.BuildService(ctx, logger)
	if err != nil {
		logger.Error("Failed to build service", "error", err)
		os.Exit(1)
	}

	router := api.NewRouter(svc, store, cfg.Bucket, cfg.PublicBaseURL)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Server starting",
			"port", cfg.Port,
			"environment", cfg.Environment,
			"database", cfg.DatabaseType,
			"storage", cfg.StorageType)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("Server exiting")
}
