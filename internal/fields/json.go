package fields

import (
	"encoding/json"
	"fmt"
	"strings"
)

// wireSpec mirrors the JSON shape consumed from a form-schema save call.
// Pointers distinguish absent optional values from zero values so defaults
// can be applied and missing required geometry reported.
type wireSpec struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Page         *int     `json:"page"`
	X            *float64 `json:"x"`
	Y            *float64 `json:"y"`
	Width        *float64 `json:"width"`
	Height       *float64 `json:"height"`
	DefaultValue string   `json:"default_value"`
	FontSize     *float64 `json:"font_size"`
	FontName     string   `json:"font_name"`
	TextColor    string   `json:"text_color"`
	Format       string   `json:"format"`
	ReadOnly     *bool    `json:"read_only"`
	Required     *bool    `json:"required"`
}

// DecodeSchema parses a JSON array of field specs, applying the documented
// defaults (width=100, height=20, page=0, read_only=false, required=false).
// Missing x or y coordinates are collected across the whole payload and
// returned as a single error rather than failing on the first field.
func DecodeSchema(data []byte) (Schema, error) {
	var wire []wireSpec
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("malformed schema payload: %w", err)
	}

	schema := make(Schema, 0, len(wire))
	var missing []string
	for i, w := range wire {
		ident := w.Name
		if ident == "" {
			ident = fmt.Sprintf("at index %d", i)
		}
		if w.X == nil {
			missing = append(missing, fmt.Sprintf("field %s: x", ident))
		}
		if w.Y == nil {
			missing = append(missing, fmt.Sprintf("field %s: y", ident))
		}

		spec := Spec{
			Name:         w.Name,
			Type:         Type(w.Type),
			Page:         DefaultPage,
			Width:        DefaultWidth,
			Height:       DefaultHeight,
			DefaultValue: w.DefaultValue,
			FontName:     w.FontName,
			TextColor:    w.TextColor,
			Format:       w.Format,
		}
		if w.X != nil {
			spec.X = *w.X
		}
		if w.Y != nil {
			spec.Y = *w.Y
		}
		if w.Width != nil {
			spec.Width = *w.Width
		}
		if w.Height != nil {
			spec.Height = *w.Height
		}
		if w.Page != nil {
			spec.Page = *w.Page
		}
		if w.FontSize != nil {
			spec.FontSize = *w.FontSize
		}
		if w.ReadOnly != nil {
			spec.ReadOnly = *w.ReadOnly
		}
		if w.Required != nil {
			spec.Required = *w.Required
		}
		schema = append(schema, spec)
	}

	if len(missing) > 0 {
		return schema, fmt.Errorf("missing required geometry: %s", strings.Join(missing, "; "))
	}
	return schema, nil
}
