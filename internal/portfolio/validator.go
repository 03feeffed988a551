package portfolio

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// BaseValidator checks that an uploaded file is usable as a base document:
// a readable, size-bounded PDF whose pages can be introspected.
type BaseValidator struct {
	maxFileSize int64
}

// NewBaseValidator creates a validator with the given size limit.
func NewBaseValidator(maxFileSize int64) *BaseValidator {
	return &BaseValidator{maxFileSize: maxFileSize}
}

// ValidateFile runs the full check. Validation findings land in the result
// message; only processing failures return an error.
func (v *BaseValidator) ValidateFile(req ValidateBaseRequest) (*ValidateBaseResult, error) {
	result := &ValidateBaseResult{Path: req.Path}

	if err := v.validate(req.Path); err != nil {
		result.Message = err.Error()
		return result, nil
	}
	result.Valid = true
	return result, nil
}

// IsValidBase performs a quick boolean check.
func (v *BaseValidator) IsValidBase(path string) bool {
	return v.validate(path) == nil
}

func (v *BaseValidator) validate(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", path)
	}
	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", path)
	}
	if fileInfo.Size() > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)", fileInfo.Size(), v.maxFileSize)
	}

	f, _, err := pdf.Open(path)
	if err != nil {
		return fmt.Errorf("invalid PDF file: %w", err)
	}
	defer f.Close()

	return nil
}
