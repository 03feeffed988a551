package surface

import (
	"bytes"
	"fmt"

	"github.com/ADJG6183/Form-Modernization/internal/acro"
	"github.com/ADJG6183/Form-Modernization/internal/fields"
)

// overlayFont is the resource name the overlay decoration and widget
// appearance strings resolve against. Helvetica is the fixed base font.
const (
	overlayFont     = "Helv"
	labelFontSize   = 8.0
	labelYOffset    = 10.0
	labelXOffset    = 2.0
	signatureInset  = 10.0
	signatureBaseAt = 0.25
)

// overlayOps renders the decoration for every field on one page into a raw
// content stream: borders, labels, the signature baseline. The interactive
// widgets themselves are annotations, built separately.
//
// Field coordinates use a top-left origin; the page content space has a
// bottom-left origin, so each rectangle sits at pageHeight - y - height.
func overlayOps(specs fields.Schema, pageHeight float64) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("0 0 0 RG 1 w\n")

	for _, spec := range specs {
		y := pageHeight - spec.Y - spec.Height
		switch spec.Type {
		case fields.TypeText, fields.TypeDate, fields.TypeCheckbox, fields.TypeRadio:
			drawBox(&buf, spec.X, y, spec.Width, spec.Height)
		case fields.TypeSignature:
			drawSignatureBox(&buf, spec.X, y, spec.Width, spec.Height)
		default:
			return nil, fmt.Errorf("no draw routine for field type %q", spec.Type)
		}
		drawLabel(&buf, spec.Label(), spec.X, y, spec.Height)
	}

	return buf.Bytes(), nil
}

// drawBox strokes the field outline.
func drawBox(buf *bytes.Buffer, x, y, w, h float64) {
	fmt.Fprintf(buf, "%.2f %.2f %.2f %.2f re S\n", x, y, w, h)
}

// drawSignatureBox strokes a dashed outline and the signature baseline at
// a quarter of the field height.
func drawSignatureBox(buf *bytes.Buffer, x, y, w, h float64) {
	fmt.Fprintf(buf, "[3 3] 0 d\n%.2f %.2f %.2f %.2f re S\n[] 0 d\n", x, y, w, h)
	lineY := y + h*signatureBaseAt
	fmt.Fprintf(buf, "%.2f %.2f m %.2f %.2f l S\n", x+signatureInset, lineY, x+w-signatureInset, lineY)
}

// drawLabel paints the field caption just above the outline.
func drawLabel(buf *bytes.Buffer, label string, x, y, h float64) {
	fmt.Fprintf(buf, "BT /%s %.1f Tf 1 0 0 1 %.2f %.2f Tm (%s) Tj ET\n",
		overlayFont, labelFontSize, x+labelXOffset, y+h+labelYOffset, acro.EscapeString(label))
}
