// Package security confines artifact paths to the configured upload
// directories so schema or fill payloads cannot steer reads or writes
// elsewhere on the filesystem.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator checks paths against one configured root directory.
type PathValidator struct {
	configuredDirectory string
}

// NewPathValidator creates a validator for the given directory. The
// directory does not have to exist yet; artifact directories are created
// lazily at startup.
func NewPathValidator(configuredDirectory string) (*PathValidator, error) {
	if configuredDirectory == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}
	return &PathValidator{configuredDirectory: configuredDirectory}, nil
}

// ConfiguredDirectory returns the validator's root.
func (v *PathValidator) ConfiguredDirectory() string {
	return v.configuredDirectory
}

// ValidatePath checks that path resolves inside the configured directory.
func (v *PathValidator) ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	// Skip validation until the configured directory exists.
	if _, err := os.Stat(v.configuredDirectory); os.IsNotExist(err) {
		return nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	within, err := v.isWithin(absPath)
	if err != nil {
		return fmt.Errorf("path validation failed: %w", err)
	}
	if !within {
		return fmt.Errorf("path is outside configured directory: %s", path)
	}
	return nil
}

// NormalizePath resolves path relative to the configured directory and
// validates the result.
func (v *PathValidator) NormalizePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(v.configuredDirectory, path)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	if err := v.ValidatePath(absPath); err != nil {
		return "", err
	}
	return absPath, nil
}

// isWithin checks both the literal and symlink-resolved forms of the path
// against the literal and resolved forms of the configured directory.
func (v *PathValidator) isWithin(absPath string) (bool, error) {
	absDir, err := filepath.Abs(v.configuredDirectory)
	if err != nil {
		return false, fmt.Errorf("failed to resolve configured directory: %w", err)
	}

	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(absDir)

	realPath := cleanPath
	if info, err := os.Lstat(cleanPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if resolved, err := filepath.EvalSymlinks(cleanPath); err == nil {
			realPath = resolved
		}
	}
	realDir := cleanDir
	if resolved, err := filepath.EvalSymlinks(cleanDir); err == nil {
		realDir = resolved
	}

	inside := func(p, dir string) bool {
		return p == dir || strings.HasPrefix(p, dir+string(filepath.Separator))
	}
	pathOk := inside(cleanPath, cleanDir) || inside(cleanPath, realDir)
	realPathOk := inside(realPath, cleanDir) || inside(realPath, realDir)
	return pathOk && realPathOk, nil
}
