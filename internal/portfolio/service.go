// Package portfolio orchestrates the surface-document pipeline: base
// document validation, surface generation, form filling, metadata
// extraction and diagnostics, with artifact naming and path confinement
// handled in one place. Directories are injected at construction; there is
// no process-wide instance.
package portfolio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ADJG6183/Form-Modernization/internal/diagnostics"
	"github.com/ADJG6183/Form-Modernization/internal/fields"
	"github.com/ADJG6183/Form-Modernization/internal/fill"
	"github.com/ADJG6183/Form-Modernization/internal/pdferr"
	"github.com/ADJG6183/Form-Modernization/internal/security"
	"github.com/ADJG6183/Form-Modernization/internal/surface"
)

// Directory permissions for lazily created artifact directories.
const dirPerm = 0o750

// Dirs names the three artifact directories: uploaded base documents,
// generated surfaces, and filled records.
type Dirs struct {
	Upload  string
	Created string
	Filled  string
}

// Service is the request-scoped entry point for every portfolio operation.
// Each operation runs synchronously to completion; callers serialize
// producers per artifact.
type Service struct {
	dirs          Dirs
	generator     *surface.Generator
	filler        *fill.Filler
	diagnostics   *diagnostics.Diagnostics
	baseValidator *BaseValidator
	pathValidator *security.PathValidator
}

// NewService creates a service rooted at the given directories, creating
// them when missing.
func NewService(dirs Dirs, maxFileSize int64, verbose bool) (*Service, error) {
	for _, dir := range []string{dirs.Upload, dirs.Created, dirs.Filled} {
		if dir == "" {
			return nil, fmt.Errorf("artifact directory cannot be empty")
		}
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return nil, fmt.Errorf("failed to create artifact directory %s: %w", dir, err)
		}
	}

	pathValidator, err := security.NewPathValidator(dirs.Upload)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	generator := surface.NewGenerator(verbose)
	filler := fill.NewFiller(verbose)

	return &Service{
		dirs:          dirs,
		generator:     generator,
		filler:        filler,
		diagnostics:   diagnostics.New(generator, filler),
		baseValidator: NewBaseValidator(maxFileSize),
		pathValidator: pathValidator,
	}, nil
}

// CreateSurface generates the surface artifact for the request and returns
// its path. With no explicit output path the artifact lands in the created
// directory under a fresh UUID name.
func (s *Service) CreateSurface(req SurfaceCreateRequest) (*SurfaceCreateResult, error) {
	if req.BasePath == "" {
		return nil, pdferr.Inputf("create_surface", "", "base path cannot be empty")
	}

	outPath := req.OutputPath
	if outPath == "" {
		outPath = filepath.Join(s.dirs.Created, uuid.New().String()+".pdf")
	}

	warnings, err := s.generator.CreateSurface(req.BasePath, req.Schema, outPath)
	if err != nil {
		return nil, err
	}

	return &SurfaceCreateResult{
		Path:       outPath,
		FieldCount: len(req.Schema.DedupeKeepLast()),
		Warnings:   warnings,
	}, nil
}

// FillSurface writes the request values into a copy of the surface
// document and returns the filled artifact's path.
func (s *Service) FillSurface(req SurfaceFillRequest) (*SurfaceFillResult, error) {
	if req.SurfacePath == "" {
		return nil, pdferr.Inputf("fill_surface", "", "surface path cannot be empty")
	}

	outPath := req.OutputPath
	if outPath == "" {
		outPath = filepath.Join(s.dirs.Filled, "filled_"+uuid.New().String()+".pdf")
	}

	if err := s.filler.FillSurface(req.SurfacePath, req.Values, outPath); err != nil {
		return nil, err
	}
	return &SurfaceFillResult{Path: outPath}, nil
}

// ExtractMetadata computes the structural snapshot for a document. Parse
// failures are embedded in the result for diagnostic use rather than
// returned as an operation error.
func (s *Service) ExtractMetadata(req MetadataRequest) *MetadataResult {
	result := &MetadataResult{Path: req.Path}
	meta, err := s.generator.ExtractMetadata(req.Path)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Metadata = meta
	return result
}

// ValidateBase checks a candidate base document.
func (s *Service) ValidateBase(req ValidateBaseRequest) (*ValidateBaseResult, error) {
	if err := s.pathValidator.ValidatePath(req.Path); err != nil {
		return nil, pdferr.Input("validate_base", req.Path, err)
	}
	return s.baseValidator.ValidateFile(req)
}

// ValidatePortfolio runs the structural portfolio checks.
func (s *Service) ValidatePortfolio(data *diagnostics.PortfolioData, basePath, surfacePath string) *diagnostics.PortfolioReport {
	return s.diagnostics.ValidatePortfolio(data, basePath, surfacePath)
}

// TestFormFilling runs the timed fill probe against a surface document.
func (s *Service) TestFormFilling(surfacePath string, sample fill.Values) *diagnostics.FillTestReport {
	return s.diagnostics.TestFormFilling(surfacePath, sample)
}

// DecodeSchema parses a schema save payload, collecting missing-geometry
// findings into one input error.
func (s *Service) DecodeSchema(payload []byte) (fields.Schema, error) {
	schema, err := fields.DecodeSchema(payload)
	if err != nil {
		return schema, pdferr.Input("decode_schema", "", err)
	}
	return schema, nil
}

// Dirs returns the configured artifact directories.
func (s *Service) Dirs() Dirs {
	return s.dirs
}
