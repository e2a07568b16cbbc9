package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/EgieSugina/wb-ln-server/pkg/lightnovel"
	repomemory "github.com/EgieSugina/wb-ln-server/pkg/lightnovel/repo/memory"
	repopg "github.com/EgieSugina/wb-ln-server/pkg/lightnovel/repo/postgres"
	gcsstorage "github.com/EgieSugina/wb-ln-server/pkg/lightnovel/storage/gcs"
	memorystorage "github.com/EgieSugina/wb-ln-server/pkg/lightnovel/storage/memory"
	s3storage "github.com/EgieSugina/wb-ln-server/pkg/lightnovel/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of
// library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:          "8080",
		Environment:   "development",
		DatabaseType:  "memory",
		StorageType:   "memory",
		Bucket:        "light-novel-images",
		PublicBaseURL: "https://storage.googleapis.com",
	}
}

// ServerConfig represents server configuration for the catalog service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"

	// Storage configuration
	StorageType   string // "memory", "s3", "gcs"
	Bucket        string
	PublicBaseURL string // base of the public path-style URL handed to clients

	// S3 / MinIO options
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3UsePathStyle    bool

	// GCS options
	GCSCredentialsFile string
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}
	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}
	switch c.StorageType {
	case "memory", "s3", "gcs":
	default:
		return fmt.Errorf("unsupported storage type: %s", c.StorageType)
	}
	if c.Bucket == "" {
		return errors.New("bucket is required")
	}
	return nil
}

// BuildService creates a Service instance from the server configuration.
func (c *ServerConfig) BuildService(ctx context.Context, logger *slog.Logger) (lightnovel.Service, lightnovel.BlobStore, error) {
	repo, err := c.BuildRepository(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build repository: %w", err)
	}

	store, err := c.BuildBlobStore(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build blob store: %w", err)
	}

	svc, err := lightnovel.New(
		lightnovel.WithRepository(repo),
		lightnovel.WithArchiver(lightnovel.NewArchiver(store, c.Bucket, logger)),
		lightnovel.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, err
	}
	return svc, store, nil
}

// BuildRepository creates a Repository based on the configuration
func (c *ServerConfig) BuildRepository(ctx context.Context) (lightnovel.Repository, error) {
	switch c.DatabaseType {
	case "memory":
		return repomemory.New(), nil
	case "postgres":
		cfg, err := pgxpool.ParseConfig(c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
		}
		pool, err := pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}
		return repopg.NewWithPool(pool), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// BuildBlobStore creates a BlobStore based on the configuration
func (c *ServerConfig) BuildBlobStore(ctx context.Context) (lightnovel.BlobStore, error) {
	switch c.StorageType {
	case "memory":
		return memorystorage.New(), nil
	case "s3":
		return s3storage.New(s3storage.Config{
			Region:          c.S3Region,
			Bucket:          c.Bucket,
			AccessKeyID:     c.S3AccessKeyID,
			SecretAccessKey: c.S3SecretAccessKey,
			Endpoint:        c.S3Endpoint,
			UsePathStyle:    c.S3UsePathStyle,
		})
	case "gcs":
		return gcsstorage.New(ctx, gcsstorage.Config{
			Bucket:          c.Bucket,
			CredentialsFile: c.GCSCredentialsFile,
		})
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", c.StorageType)
	}
}
