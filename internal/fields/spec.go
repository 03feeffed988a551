// Package fields holds the normalized, page-relative layout model for form
// widgets consumed by surface generation and validation.
package fields

// Type identifies the kind of widget a field spec describes.
type Type string

const (
	TypeText      Type = "text"
	TypeCheckbox  Type = "checkbox"
	TypeRadio     Type = "radio"
	TypeSignature Type = "signature"
	// TypeDate is semantically a text field with a format hint.
	TypeDate Type = "date"
)

// KnownTypes lists every publishable field type. Date is part of the
// unified enum and valid at both the designer and portfolio level.
var KnownTypes = []Type{TypeText, TypeCheckbox, TypeRadio, TypeSignature, TypeDate}

// IsKnown reports whether t is one of the fixed field types.
func (t Type) IsKnown() bool {
	for _, k := range KnownTypes {
		if t == k {
			return true
		}
	}
	return false
}

// Default geometry applied to wire payloads that omit optional fields.
const (
	DefaultWidth    = 100.0
	DefaultHeight   = 20.0
	DefaultPage     = 0
	DefaultFontSize = 10.0
)

// Spec describes one form widget in top-left-origin page coordinates
// (unit: points). Page indices are 0-based and must reference an existing
// page of the base document at generation time.
type Spec struct {
	Name         string  `json:"name"`
	Type         Type    `json:"type"`
	Page         int     `json:"page"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	DefaultValue string  `json:"default_value,omitempty"`
	FontSize     float64 `json:"font_size,omitempty"`
	FontName     string  `json:"font_name,omitempty"`
	TextColor    string  `json:"text_color,omitempty"`
	Format       string  `json:"format,omitempty"`
	ReadOnly     bool    `json:"read_only,omitempty"`
	Required     bool    `json:"required,omitempty"`
}

// Label returns the caption drawn above the widget. Date fields carry
// their format hint so the filler knows the expected shape.
func (s Spec) Label() string {
	if s.Type == TypeDate && s.Format != "" {
		return s.Name + " (" + s.Format + ")"
	}
	return s.Name
}

// Schema is the ordered field set owned by one base document version.
// A save replaces the full set atomically; it is never partially patched.
type Schema []Spec

// DedupeKeepLast returns the schema with duplicate names resolved by
// keeping the last spec per name, preserving the order of last occurrence.
// This is the documented duplicate policy: validation reports duplicates
// as a warning, generation resolves them deterministically.
func (s Schema) DedupeKeepLast() Schema {
	last := make(map[string]int, len(s))
	for i, spec := range s {
		last[spec.Name] = i
	}
	out := make(Schema, 0, len(last))
	for i, spec := range s {
		if last[spec.Name] == i {
			out = append(out, spec)
		}
	}
	return out
}

// ForPage returns the specs placed on the given 0-based page, in order.
func (s Schema) ForPage(page int) Schema {
	var out Schema
	for _, spec := range s {
		if spec.Page == page {
			out = append(out, spec)
		}
	}
	return out
}

// MaxPage returns the highest page index referenced, or -1 for an empty
// schema.
func (s Schema) MaxPage() int {
	maxPage := -1
	for _, spec := range s {
		if spec.Page > maxPage {
			maxPage = spec.Page
		}
	}
	return maxPage
}
