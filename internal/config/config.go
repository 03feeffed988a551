// Package config loads the surface-pipeline configuration from flags and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Default values
	DefaultUploadDir   = "uploads"
	DefaultCreatedDir  = "uploads/created"
	DefaultFilledDir   = "uploads/filled"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the form-surface pipeline.
type Config struct {
	// Artifact directories
	UploadDir  string
	CreatedDir string
	FilledDir  string

	// Application configuration
	Version     string
	LogLevel    string
	MaxFileSize int64 // Maximum base/surface document size in bytes
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		UploadDir:   DefaultUploadDir,
		CreatedDir:  DefaultCreatedDir,
		FilledDir:   DefaultFilledDir,
		Version:     "1.0.0",
		LogLevel:    DefaultLogLevel,
		MaxFileSize: DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand artifact paths
	for _, dir := range []*string{&cfg.UploadDir, &cfg.CreatedDir, &cfg.FilledDir} {
		if *dir != "" {
			if expanded, err := filepath.Abs(*dir); err == nil {
				*dir = expanded
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults.
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("FORM_SURFACE")
	viper.AutomaticEnv()

	viper.SetDefault("uploaddir", cfg.UploadDir)
	viper.SetDefault("createddir", cfg.CreatedDir)
	viper.SetDefault("filleddir", cfg.FilledDir)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags.
func defineCommandLineFlags(cfg *Config) {
	pflag.String("uploaddir", cfg.UploadDir, "Directory holding uploaded base documents")
	pflag.String("createddir", cfg.CreatedDir, "Directory for generated surface documents")
	pflag.String("filleddir", cfg.FilledDir, "Directory for filled documents")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum document size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration.
func bindFlagsToViper() {
	_ = viper.BindPFlag("uploaddir", pflag.Lookup("uploaddir"))
	_ = viper.BindPFlag("createddir", pflag.Lookup("createddir"))
	_ = viper.BindPFlag("filleddir", pflag.Lookup("filleddir"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
}

// setupUsageMessage configures the custom usage message.
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nformsurface - generate, fill and inspect fillable surface documents\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  FORM_SURFACE_UPLOADDIR   Upload directory\n")
		fmt.Fprintf(os.Stderr, "  FORM_SURFACE_CREATEDDIR  Surface artifact directory\n")
		fmt.Fprintf(os.Stderr, "  FORM_SURFACE_FILLEDDIR   Filled artifact directory\n")
		fmt.Fprintf(os.Stderr, "  FORM_SURFACE_LOGLEVEL    Log level\n")
		fmt.Fprintf(os.Stderr, "  FORM_SURFACE_MAXFILESIZE Maximum file size\n")
	}
}

// populateConfigFromViper fills the config struct with values from viper.
func populateConfigFromViper(cfg *Config) {
	cfg.UploadDir = viper.GetString("uploaddir")
	cfg.CreatedDir = viper.GetString("createddir")
	cfg.FilledDir = viper.GetString("filleddir")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid, creating missing artifact
// directories.
func (c *Config) Validate() error {
	for _, dir := range []string{c.UploadDir, c.CreatedDir, c.FilledDir} {
		if dir == "" {
			return errors.New("artifact directory cannot be empty")
		}
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, DefaultDirPerm); err != nil {
				return fmt.Errorf("cannot create directory %s: %w", dir, err)
			}
		} else if err != nil {
			return fmt.Errorf("cannot access directory %s: %w", dir, err)
		}
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}
	return nil
}

// IsDebug returns true if debug logging is enabled.
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("Config{UploadDir: %s, CreatedDir: %s, FilledDir: %s, LogLevel: %s, MaxFileSize: %d}",
		c.UploadDir, c.CreatedDir, c.FilledDir, c.LogLevel, c.MaxFileSize)
}
