package config_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgieSugina/wb-ln-server/pkg/lightnovel/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "memory", cfg.DatabaseType)
	assert.Equal(t, "memory", cfg.StorageType)
	assert.Equal(t, "light-novel-images", cfg.Bucket)
	assert.NotEmpty(t, cfg.PublicBaseURL)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name   string
		option config.Option
	}{
		{
			name: "unknown database type",
			option: func(c *config.ServerConfig) error {
				c.DatabaseType = "mysql"
				return nil
			},
		},
		{
			name: "postgres without url",
			option: func(c *config.ServerConfig) error {
				c.DatabaseType = "postgres"
				return nil
			},
		},
		{
			name: "unknown storage type",
			option: func(c *config.ServerConfig) error {
				c.StorageType = "ftp"
				return nil
			},
		},
		{
			name: "empty bucket",
			option: func(c *config.ServerConfig) error {
				c.Bucket = ""
				return nil
			},
		},
		{
			name: "empty port",
			option: func(c *config.ServerConfig) error {
				c.Port = ""
				return nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(tt.option)
			assert.Error(t, err)
		})
	}
}

func TestBuildServiceWithMemoryBackends(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	svc, store, err := cfg.BuildService(context.Background(), slog.Default())
	require.NoError(t, err)
	assert.NotNil(t, svc)
	assert.NotNil(t, store)
}
