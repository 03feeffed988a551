package surface

import (
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/ADJG6183/Form-Modernization/internal/acro"
	"github.com/ADJG6183/Form-Modernization/internal/pdferr"
)

// FieldCount tallies the forms layer by widget kind.
type FieldCount struct {
	Text      int `json:"text"`
	Checkbox  int `json:"checkbox"`
	Radio     int `json:"radio"`
	Signature int `json:"signature"`
	Other     int `json:"other"`
}

// Total sums the per-kind tallies.
func (c FieldCount) Total() int {
	return c.Text + c.Checkbox + c.Radio + c.Signature + c.Other
}

// PortfolioMetadata is the structural snapshot extracted from a document.
// It is recomputed on demand, never cached; callers may persist their own
// snapshot.
type PortfolioMetadata struct {
	Pages       int               `json:"pages"`
	HasForm     bool              `json:"has_form"`
	FieldCount  FieldCount        `json:"field_count"`
	TotalFields int               `json:"total_fields"`
	ExtractedAt string            `json:"extracted_at"`
	Info        map[string]string `json:"info,omitempty"`
}

// ExtractMetadata reads document-level properties plus a full scan of the
// interactive-forms layer. The input is never mutated. A malformed document
// yields an input error carrying the parse message; diagnostics embed it in
// their report instead of aborting.
func (g *Generator) ExtractMetadata(path string) (*PortfolioMetadata, error) {
	const op = "extract_metadata"

	ctx, err := acro.ReadContextFile(path)
	if err != nil {
		return nil, pdferr.Input(op, path, err)
	}

	formFields, err := acro.Fields(ctx)
	if err != nil {
		return nil, pdferr.Input(op, path, err)
	}

	var count FieldCount
	for _, f := range formFields {
		switch f.Kind {
		case acro.KindText:
			count.Text++
		case acro.KindCheckbox:
			count.Checkbox++
		case acro.KindRadio:
			count.Radio++
		case acro.KindSignature:
			count.Signature++
		default:
			count.Other++
		}
	}

	return &PortfolioMetadata{
		Pages:       ctx.PageCount,
		HasForm:     count.Total() > 0,
		FieldCount:  count,
		TotalFields: count.Total(),
		ExtractedAt: time.Now().UTC().Format(time.RFC3339),
		Info:        documentInfo(ctx),
	}, nil
}

// documentInfo copies the descriptive entries of the document info
// dictionary, best effort.
func documentInfo(ctx *model.Context) map[string]string {
	if ctx.Info == nil {
		return nil
	}
	infoDict, err := ctx.DereferenceDict(*ctx.Info)
	if err != nil || infoDict == nil {
		return nil
	}

	info := make(map[string]string)
	for _, key := range []string{"Title", "Author", "Subject", "Creator", "Producer", "Keywords"} {
		obj, found := infoDict.Find(key)
		if !found {
			continue
		}
		if s, err := ctx.DereferenceStringOrHexLiteral(obj, model.V10, nil); err == nil && s != "" {
			info[key] = s
		}
	}
	if len(info) == 0 {
		return nil
	}
	return info
}
