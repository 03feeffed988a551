// Package diagnostics provides structural checks on portfolio payloads and
// produced artifacts, plus an end-to-end form-filling probe with timing.
package diagnostics

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ADJG6183/Form-Modernization/internal/acro"
	"github.com/ADJG6183/Form-Modernization/internal/fields"
	"github.com/ADJG6183/Form-Modernization/internal/fill"
	"github.com/ADJG6183/Form-Modernization/internal/surface"
)

// PortfolioData is the wire payload describing a portfolio: the base and
// surface file identifiers plus the field schema. Identifiers stay untyped
// so validation can report non-integer values instead of failing to decode.
type PortfolioData struct {
	SurfaceFileID any           `json:"surface_file_id"`
	BaseFileID    any           `json:"base_file_id"`
	Name          string        `json:"name"`
	Fields        fields.Schema `json:"fields"`
}

// FileCheck reports the structural state of one artifact file.
type FileCheck struct {
	Exists      bool                `json:"exists"`
	ValidPDF    bool                `json:"valid_pdf"`
	Pages       int                 `json:"pages,omitempty"`
	HasFields   bool                `json:"has_fields"`
	FieldCounts *surface.FieldCount `json:"field_counts,omitempty"`
	TotalFields int                 `json:"total_fields,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// InvalidPosition records a field placed at negative coordinates.
type InvalidPosition struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// FieldChecks summarizes the schema-level findings.
type FieldChecks struct {
	Count            int               `json:"count"`
	ByType           map[string]int    `json:"by_type"`
	DuplicateNames   []string          `json:"duplicate_names"`
	InvalidPositions []InvalidPosition `json:"invalid_positions"`
}

// PortfolioReport collects every validation finding. Errors are fatal for
// the portfolio; warnings are advisory and accompany a valid result.
type PortfolioReport struct {
	Timestamp   string                `json:"timestamp"`
	Valid       bool                  `json:"valid"`
	Errors      []string              `json:"errors"`
	Warnings    []string              `json:"warnings"`
	Info        []string              `json:"info"`
	FileChecks  map[string]*FileCheck `json:"file_checks"`
	FieldChecks *FieldChecks          `json:"field_checks,omitempty"`
}

// Performance carries fill-cycle timing figures.
type Performance struct {
	FillTimeSeconds float64 `json:"fill_time_seconds"`
	FieldsPerSecond float64 `json:"fields_per_second"`
}

// FillTestReport is the outcome of one test fill cycle.
type FillTestReport struct {
	Timestamp   string      `json:"timestamp"`
	Success     bool        `json:"success"`
	Errors      []string    `json:"errors"`
	Warnings    []string    `json:"warnings"`
	Info        []string    `json:"info"`
	FilledFile  string      `json:"filled_file,omitempty"`
	Performance Performance `json:"performance"`
}

// Diagnostics runs validation and fill probes against portfolio artifacts.
type Diagnostics struct {
	generator *surface.Generator
	filler    *fill.Filler
}

// New creates a diagnostics runner on explicit, injected components.
func New(generator *surface.Generator, filler *fill.Filler) *Diagnostics {
	return &Diagnostics{generator: generator, filler: filler}
}

// ValidatePortfolio checks the payload structure, the field schema, and,
// when paths are supplied, the base and surface files themselves.
func (d *Diagnostics) ValidatePortfolio(data *PortfolioData, basePath, surfacePath string) *PortfolioReport {
	report := &PortfolioReport{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Valid:      true,
		Errors:     []string{},
		Warnings:   []string{},
		Info:       []string{},
		FileChecks: map[string]*FileCheck{},
	}

	report.Errors = append(report.Errors, validateStructure(data)...)

	res := fields.Validate(data.Fields)
	report.Errors = append(report.Errors, res.Errors...)
	report.Warnings = append(report.Warnings, res.Warnings...)

	if basePath != "" {
		report.FileChecks["base_file"] = d.checkBaseFile(basePath, report)
	}
	if surfacePath != "" {
		report.FileChecks["surface_file"] = d.checkSurfaceFile(surfacePath, len(data.Fields), report)
	}
	if len(data.Fields) > 0 {
		report.FieldChecks = fieldChecks(data.Fields, report)
	}

	report.Valid = len(report.Errors) == 0
	return report
}

// validateStructure checks required top-level keys and identifier types.
func validateStructure(data *PortfolioData) []string {
	var errs []string
	if data.Name == "" {
		errs = append(errs, "missing required field: name")
	}
	for key, id := range map[string]any{
		"surface_file_id": data.SurfaceFileID,
		"base_file_id":    data.BaseFileID,
	} {
		if id == nil {
			errs = append(errs, fmt.Sprintf("missing required field: %s", key))
		} else if !isInteger(id) {
			errs = append(errs, fmt.Sprintf("%s must be an integer", key))
		}
	}
	sort.Strings(errs)
	return errs
}

// isInteger accepts native integers and whole JSON numbers, which decode
// as float64.
func isInteger(v any) bool {
	switch n := v.(type) {
	case int, int32, int64:
		return true
	case float64:
		return n == math.Trunc(n) && !math.IsInf(n, 0)
	default:
		return false
	}
}

func (d *Diagnostics) checkBaseFile(path string, report *PortfolioReport) *FileCheck {
	check := &FileCheck{}
	if _, err := os.Stat(path); err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("base file not found: %s", path))
		return check
	}
	check.Exists = true

	meta, err := d.generator.ExtractMetadata(path)
	if err != nil {
		check.Error = err.Error()
		report.Errors = append(report.Errors, fmt.Sprintf("base file is not a valid PDF: %v", err))
		return check
	}
	check.ValidPDF = true
	check.Pages = meta.Pages
	check.HasFields = meta.HasForm
	if meta.HasForm {
		report.Warnings = append(report.Warnings, "base PDF already contains form fields")
	}
	return check
}

func (d *Diagnostics) checkSurfaceFile(path string, expectedFields int, report *PortfolioReport) *FileCheck {
	check := &FileCheck{}
	if _, err := os.Stat(path); err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("surface file not found: %s", path))
		return check
	}
	check.Exists = true

	meta, err := d.generator.ExtractMetadata(path)
	if err != nil {
		check.Error = err.Error()
		report.Errors = append(report.Errors, fmt.Sprintf("surface file is not a valid PDF: %v", err))
		return check
	}
	check.ValidPDF = true
	check.Pages = meta.Pages
	check.HasFields = meta.HasForm
	check.FieldCounts = &meta.FieldCount
	check.TotalFields = meta.TotalFields

	if !meta.HasForm {
		report.Errors = append(report.Errors, "surface PDF has no form fields")
		return check
	}
	if expectedFields > 0 && expectedFields != meta.TotalFields {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("field count mismatch: expected %d, found %d", expectedFields, meta.TotalFields))
	}
	return check
}

// fieldChecks tallies the schema by type and records duplicates and
// negative positions.
func fieldChecks(schema fields.Schema, report *PortfolioReport) *FieldChecks {
	checks := &FieldChecks{
		Count:            len(schema),
		ByType:           map[string]int{},
		DuplicateNames:   []string{},
		InvalidPositions: []InvalidPosition{},
	}

	seen := map[string]bool{}
	dupes := map[string]bool{}
	for _, spec := range schema {
		checks.ByType[string(spec.Type)]++
		if seen[spec.Name] {
			dupes[spec.Name] = true
		}
		seen[spec.Name] = true

		if spec.X < 0 || spec.Y < 0 {
			checks.InvalidPositions = append(checks.InvalidPositions,
				InvalidPosition{Name: spec.Name, X: spec.X, Y: spec.Y})
		}
	}
	for name := range dupes {
		checks.DuplicateNames = append(checks.DuplicateNames, name)
	}
	sort.Strings(checks.DuplicateNames)

	if len(dupes) > 0 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("found %d duplicate field names", len(dupes)))
	}
	return checks
}

// TestFormFilling runs a full fill cycle against the surface document. With
// no sample values it synthesizes one representative value per discovered
// widget, then verifies how many requested fields ended up with a non-empty
// value entry and reports throughput.
func (d *Diagnostics) TestFormFilling(surfacePath string, sample fill.Values) *FillTestReport {
	report := &FillTestReport{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Errors:    []string{},
		Warnings:  []string{},
		Info:      []string{},
	}

	if _, err := os.Stat(surfacePath); err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("surface file not found: %s", surfacePath))
		return report
	}

	ctx, err := acro.ReadContextFile(surfacePath)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("surface file is not a valid PDF: %v", err))
		return report
	}
	formFields, err := acro.Fields(ctx)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("failed to scan forms layer: %v", err))
		return report
	}
	if len(formFields) == 0 {
		report.Errors = append(report.Errors, "no form fields found in the PDF")
		return report
	}

	if sample == nil {
		sample = synthesizeValues(formFields)
	}

	outPath := filepath.Join(filepath.Dir(surfacePath),
		fmt.Sprintf("test_filled_%s.pdf", time.Now().Format("20060102150405")))

	start := time.Now()
	if err := d.filler.FillSurface(surfacePath, sample, outPath); err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("error testing form filling: %v", err))
		return report
	}
	elapsed := time.Since(start).Seconds()

	filled, err := countFilled(outPath, sample)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("failed to verify filled document: %v", err))
		return report
	}

	report.Info = append(report.Info, fmt.Sprintf("filled %d out of %d fields", filled, len(sample)))
	if filled < len(sample) {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("not all fields were filled: %d/%d", filled, len(sample)))
	}

	report.Success = true
	report.FilledFile = outPath
	report.Performance = Performance{FillTimeSeconds: elapsed}
	if elapsed > 0 {
		report.Performance.FieldsPerSecond = float64(len(sample)) / elapsed
	}
	return report
}

// synthesizeValues builds one representative value per widget: a fixed
// string for text-backed widgets, a truthy on-state for buttons.
func synthesizeValues(formFields []acro.Field) fill.Values {
	values := make(fill.Values, len(formFields))
	for _, f := range formFields {
		switch f.Kind {
		case acro.KindCheckbox:
			values[f.Name] = true
		case acro.KindRadio:
			values[f.Name] = "Yes"
		default:
			values[f.Name] = fmt.Sprintf("Test value for %s", f.Name)
		}
	}
	return values
}

// countFilled reopens the filled document and counts the requested fields
// whose value entry is non-empty.
func countFilled(path string, sample fill.Values) (int, error) {
	ctx, err := acro.ReadContextFile(path)
	if err != nil {
		return 0, err
	}
	byName, err := acro.FieldsByName(ctx)
	if err != nil {
		return 0, err
	}

	filled := 0
	for name := range sample {
		field, ok := byName[name]
		if !ok {
			continue
		}
		if v := acro.ValueString(ctx, field); v != "" && v != "Off" {
			filled++
		}
	}
	return filled, nil
}
