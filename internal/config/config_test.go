package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultUploadDir, cfg.UploadDir)
	assert.Equal(t, DefaultCreatedDir, cfg.CreatedDir)
	assert.Equal(t, DefaultFilledDir, cfg.FilledDir)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, int64(DefaultMaxFileSize), cfg.MaxFileSize)
}

func TestValidate_CreatesMissingDirectories(t *testing.T) {
	tempDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.UploadDir = filepath.Join(tempDir, "uploads")
	cfg.CreatedDir = filepath.Join(tempDir, "uploads", "created")
	cfg.FilledDir = filepath.Join(tempDir, "uploads", "filled")

	require.NoError(t, cfg.Validate())

	for _, dir := range []string{cfg.UploadDir, cfg.CreatedDir, cfg.FilledDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestValidate_Errors(t *testing.T) {
	tempDir := t.TempDir()

	newValid := func() *Config {
		cfg := DefaultConfig()
		cfg.UploadDir = filepath.Join(tempDir, "u")
		cfg.CreatedDir = filepath.Join(tempDir, "c")
		cfg.FilledDir = filepath.Join(tempDir, "f")
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{
			name:   "empty directory",
			mutate: func(c *Config) { c.CreatedDir = "" },
			errMsg: "artifact directory cannot be empty",
		},
		{
			name:   "zero max file size",
			mutate: func(c *Config) { c.MaxFileSize = 0 },
			errMsg: "maximum file size must be positive",
		},
		{
			name:   "negative max file size",
			mutate: func(c *Config) { c.MaxFileSize = -1 },
			errMsg: "maximum file size must be positive",
		},
		{
			name:   "bad log level",
			mutate: func(c *Config) { c.LogLevel = "loud" },
			errMsg: "invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newValid()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestIsDebug(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.IsDebug())

	cfg.LogLevel = "debug"
	assert.True(t, cfg.IsDebug())
}

func TestString(t *testing.T) {
	cfg := DefaultConfig()
	s := cfg.String()

	assert.Contains(t, s, cfg.UploadDir)
	assert.Contains(t, s, cfg.LogLevel)
}
