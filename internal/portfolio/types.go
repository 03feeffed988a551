package portfolio

import (
	"github.com/ADJG6183/Form-Modernization/internal/fields"
	"github.com/ADJG6183/Form-Modernization/internal/fill"
	"github.com/ADJG6183/Form-Modernization/internal/surface"
)

// SurfaceCreateRequest asks for a surface artifact generated from a base
// document and a field schema. OutputPath is optional; when empty the
// service names the artifact inside its created directory.
type SurfaceCreateRequest struct {
	BasePath   string        `json:"base_path"`
	Schema     fields.Schema `json:"schema"`
	OutputPath string        `json:"output_path,omitempty"`
}

// SurfaceCreateResult reports where the surface artifact was written.
type SurfaceCreateResult struct {
	Path       string   `json:"path"`
	FieldCount int      `json:"field_count"`
	Warnings   []string `json:"warnings,omitempty"`
}

// SurfaceFillRequest asks for a filled artifact derived from a surface
// document and a field-value map.
type SurfaceFillRequest struct {
	SurfacePath string      `json:"surface_path"`
	Values      fill.Values `json:"values"`
	OutputPath  string      `json:"output_path,omitempty"`
}

// SurfaceFillResult reports where the filled artifact was written.
type SurfaceFillResult struct {
	Path string `json:"path"`
}

// MetadataRequest asks for a structural snapshot of a document.
type MetadataRequest struct {
	Path string `json:"path"`
}

// MetadataResult wraps the extracted snapshot. When extraction fails the
// error message is embedded so callers can persist the diagnostic.
type MetadataResult struct {
	Path     string                     `json:"path"`
	Metadata *surface.PortfolioMetadata `json:"metadata,omitempty"`
	Error    string                     `json:"error,omitempty"`
}

// ValidateBaseRequest asks whether a file is usable as a base document.
type ValidateBaseRequest struct {
	Path string `json:"path"`
}

// ValidateBaseResult reports base-document validation.
type ValidateBaseResult struct {
	Path    string `json:"path"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}
