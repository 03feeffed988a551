package surface

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/ADJG6183/Form-Modernization/internal/acro"
	"github.com/ADJG6183/Form-Modernization/internal/fields"
)

// Field flag bits (/Ff), per the forms layer conventions.
const (
	flagReadOnly = 1 << 0
	flagRequired = 1 << 1
)

// widgetDict builds the merged field/widget annotation dictionary for one
// spec. pageRef backlinks the widget to its page; pageHeight drives the
// top-left to bottom-left coordinate transform.
func widgetDict(spec fields.Spec, pageRef types.IndirectRef, pageHeight float64) (types.Dict, error) {
	y := pageHeight - spec.Y - spec.Height

	d := types.Dict{
		"Type":    types.Name("Annot"),
		"Subtype": types.Name("Widget"),
		"T":       acro.TextString(spec.Name),
		"F":       types.Integer(4), // print
		"P":       pageRef,
	}

	var flags int
	if spec.ReadOnly {
		flags |= flagReadOnly
	}
	if spec.Required {
		flags |= flagRequired
	}

	switch spec.Type {
	case fields.TypeText, fields.TypeDate:
		d["Rect"] = types.NewNumberArray(spec.X, y, spec.X+spec.Width, y+spec.Height)
		d["FT"] = types.Name("Tx")
		d["DA"] = types.StringLiteral(textAppearance(spec))
		d["MK"] = types.Dict{
			"BC": types.NewNumberArray(0, 0, 0),
			"BG": types.NewNumberArray(1, 1, 1),
		}
		d["BS"] = types.Dict{"W": types.Integer(1)}
		if spec.DefaultValue != "" {
			d["V"] = acro.TextString(spec.DefaultValue)
			d["DV"] = acro.TextString(spec.DefaultValue)
		}

	case fields.TypeSignature:
		// Placeholder signature capture: a borderless text widget over the
		// custom-drawn dashed box, not a cryptographic signature field.
		d["Rect"] = types.NewNumberArray(spec.X, y, spec.X+spec.Width, y+spec.Height)
		d["FT"] = types.Name("Tx")
		d["DA"] = types.StringLiteral(textAppearance(spec))
		d["BS"] = types.Dict{"W": types.Integer(0)}

	case fields.TypeCheckbox, fields.TypeRadio:
		// The widget occupies the centered half of the drawn outline.
		d["Rect"] = types.NewNumberArray(
			spec.X+spec.Width/4, y+spec.Height/4,
			spec.X+3*spec.Width/4, y+3*spec.Height/4,
		)
		d["FT"] = types.Name("Btn")
		d["V"] = types.Name("Off")
		d["AS"] = types.Name("Off")
		d["MK"] = types.Dict{
			"BC": types.NewNumberArray(0, 0, 0),
			"BG": types.NewNumberArray(1, 1, 1),
			"CA": types.StringLiteral("4"), // ZapfDingbats check glyph
		}
		if spec.Type == fields.TypeRadio {
			flags |= acro.FlagRadio
		}

	default:
		return nil, fmt.Errorf("no widget builder for field type %q", spec.Type)
	}

	if flags != 0 {
		d["Ff"] = types.Integer(flags)
	}
	return d, nil
}

// textAppearance renders the default appearance string for text-backed
// widgets, honoring the per-field font size when given.
func textAppearance(spec fields.Spec) string {
	size := spec.FontSize
	if size <= 0 {
		size = fields.DefaultFontSize
	}
	return fmt.Sprintf("/%s %.1f Tf 0 g", overlayFont, size)
}

// helveticaDict is the single embedded base font shared by the overlay
// labels, the widget appearance strings and the AcroForm default resources.
func helveticaDict() types.Dict {
	return types.Dict{
		"Type":     types.Name("Font"),
		"Subtype":  types.Name("Type1"),
		"BaseFont": types.Name("Helvetica"),
		"Encoding": types.Name("WinAnsiEncoding"),
	}
}
