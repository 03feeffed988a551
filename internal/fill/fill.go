// Package fill writes per-field values into a surface document's forms
// layer, producing a filled artifact. The source document's file is never
// mutated; each fill parses a fresh copy, so a still-open surface handle
// cannot observe the mutation.
package fill

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/ADJG6183/Form-Modernization/internal/acro"
	"github.com/ADJG6183/Form-Modernization/internal/pdferr"
)

// Values maps field name to the value to store: string for text-backed
// widgets, bool or an on-state token for buttons.
type Values map[string]any

// Filler mutates widget values in surface documents.
type Filler struct {
	verbose bool
}

// NewFiller creates a fill engine.
func NewFiller(verbose bool) *Filler {
	return &Filler{verbose: verbose}
}

// FillSurface writes values into the widgets of the surface document and
// stores the result at outPath. A surface without a forms layer is copied
// verbatim (no-op, not an error). Names in values with no matching widget
// are silently ignored, tolerating client-side form drift. Everything else
// either fully succeeds or fails without leaving a partial artifact.
func (f *Filler) FillSurface(surfacePath string, values Values, outPath string) error {
	const op = "fill_surface"

	ctx, err := acro.ReadContextFile(surfacePath)
	if err != nil {
		return pdferr.Input(op, surfacePath, err)
	}

	formDict, err := acro.FormDict(ctx)
	if err != nil {
		return pdferr.Fill(op, "", err)
	}
	if formDict == nil {
		if f.verbose {
			log.Printf("%s: no forms layer in %s, copying verbatim", op, surfacePath)
		}
		return copyVerbatim(surfacePath, outPath)
	}

	byName, err := acro.FieldsByName(ctx)
	if err != nil {
		return pdferr.Fill(op, "", err)
	}

	applied := 0
	for name, value := range values {
		field, ok := byName[name]
		if !ok {
			continue
		}
		if err := applyValue(ctx, field, value); err != nil {
			return pdferr.Fill(op, name, err)
		}
		applied++
	}

	if err := writeAtomic(ctx, outPath); err != nil {
		return pdferr.Fill(op, "", err)
	}
	if f.verbose {
		log.Printf("%s: applied %d of %d values to %s", op, applied, len(values), outPath)
	}
	return nil
}

// applyValue mutates one widget. Button widgets take the on-state token in
// both the value and appearance-state entries so the rendered check or dot
// reflects the stored value. Text-backed widgets take the coerced string and
// lose any cached appearance stream so viewers regenerate the glyphs.
func applyValue(ctx *model.Context, field acro.Field, value any) error {
	switch field.Kind {
	case acro.KindCheckbox, acro.KindRadio:
		token := onStateToken(value)
		field.Dict["V"] = types.Name(token)
		field.Dict["AS"] = types.Name(token)
	default:
		field.Dict["V"] = acro.TextString(coerceString(value))
		delete(field.Dict, "AP")
	}
	return nil
}

// onStateToken normalizes a button value: true selects the conventional
// "Yes" state, false or a missing value the "Off" state, and any other
// value is used verbatim as the named on-state, which supports multi-option
// radio groups.
func onStateToken(value any) string {
	switch v := value.(type) {
	case bool:
		if v {
			return "Yes"
		}
		return "Off"
	case nil:
		return "Off"
	case string:
		if v == "" {
			return "Off"
		}
		return v
	default:
		return coerceString(v)
	}
}

// coerceString renders any supplied value as field text.
func coerceString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// copyVerbatim duplicates the surface bytes unchanged.
func copyVerbatim(srcPath, dstPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return pdferr.Input("fill_surface", srcPath, err)
	}
	defer src.Close()

	tmp := dstPath + ".tmp"
	dst, err := os.Create(tmp)
	if err != nil {
		return pdferr.Fill("fill_surface", "", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(tmp)
		return pdferr.Fill("fill_surface", "", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(tmp)
		return pdferr.Fill("fill_surface", "", err)
	}
	if err := os.Rename(tmp, dstPath); err != nil {
		os.Remove(tmp)
		return pdferr.Fill("fill_surface", "", err)
	}
	return nil
}

// writeAtomic writes the mutated context next to the target and renames it
// into place so a failure never leaves a half-written filled document.
func writeAtomic(ctx *model.Context, outPath string) error {
	tmp := outPath + ".tmp"
	if err := api.WriteContextFile(ctx, tmp); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := os.Rename(tmp, outPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to finalize document: %w", err)
	}
	return nil
}
