// Package surface generates fillable surface documents: an interactive
// forms layer synthesized from a field schema and merged page-by-page onto
// an arbitrary base document. It also extracts structural metadata from
// produced (or any other) documents.
package surface

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/ADJG6183/Form-Modernization/internal/acro"
	"github.com/ADJG6183/Form-Modernization/internal/fields"
	"github.com/ADJG6183/Form-Modernization/internal/pdferr"
)

// Generator builds surface documents. It carries no directory state;
// callers pass explicit input and output paths, which keeps test instances
// isolated and leaves artifact naming to the owning service.
type Generator struct {
	verbose bool
}

// NewGenerator creates a surface generator.
func NewGenerator(verbose bool) *Generator {
	return &Generator{verbose: verbose}
}

// CreateSurface merges one widget per field spec onto the base document and
// writes the result to outPath, returning the schema's validation warnings.
// The write is atomic: on any failure no partial artifact remains.
//
// Duplicate field names are resolved by keeping the last spec per name. A
// spec referencing a page beyond the base document's last page fails the
// whole operation with a generation error naming the field.
func (g *Generator) CreateSurface(basePath string, schema fields.Schema, outPath string) ([]string, error) {
	const op = "create_surface"

	res := fields.Validate(schema)
	if !res.Valid() {
		return nil, pdferr.Inputf(op, basePath, "invalid schema: %s", strings.Join(res.Errors, "; "))
	}
	if g.verbose && len(res.Warnings) > 0 {
		log.Printf("%s: schema warnings: %s", op, strings.Join(res.Warnings, "; "))
	}

	ctx, err := acro.ReadContextFile(basePath)
	if err != nil {
		return nil, pdferr.Input(op, basePath, err)
	}

	for _, spec := range schema {
		if spec.Page >= ctx.PageCount {
			return nil, pdferr.Generationf(op, spec.Name,
				"page %d is beyond the base document's last page (%d pages)", spec.Page, ctx.PageCount)
		}
	}
	schema = schema.DedupeKeepLast()

	dims, err := ctx.PageDims()
	if err != nil {
		return nil, pdferr.Generation(op, "", fmt.Errorf("failed to read page dimensions: %w", err))
	}
	pages, err := collectPages(ctx)
	if err != nil {
		return nil, pdferr.Generation(op, "", err)
	}
	if len(pages) != ctx.PageCount || len(dims) != ctx.PageCount {
		return nil, pdferr.Generationf(op, "", "page tree walk found %d pages, expected %d", len(pages), ctx.PageCount)
	}

	fontRef, err := ctx.IndRefForNewObject(helveticaDict())
	if err != nil {
		return nil, pdferr.Generation(op, "", fmt.Errorf("failed to register overlay font: %w", err))
	}
	qRef, err := newContentStream(ctx, []byte("q\n"))
	if err != nil {
		return nil, pdferr.Generation(op, "", err)
	}

	var fieldRefs types.Array
	for p, pg := range pages {
		specs := schema.ForPage(p)
		if len(specs) == 0 {
			// Trailing and interior pages without fields pass through.
			continue
		}
		pageHeight := dims[p].Height

		ops, err := overlayOps(specs, pageHeight)
		if err != nil {
			return nil, pdferr.Generation(op, specs[0].Name, err)
		}
		overlayRef, err := newContentStream(ctx, append([]byte("Q\n"), ops...))
		if err != nil {
			return nil, pdferr.Generation(op, "", err)
		}
		if err := appendPageContent(ctx, pg, *qRef, *overlayRef); err != nil {
			return nil, pdferr.Generation(op, "", err)
		}
		if err := ensurePageFont(ctx, pg, overlayFont, *fontRef); err != nil {
			return nil, pdferr.Generation(op, "", err)
		}

		var widgets []types.IndirectRef
		for _, spec := range specs {
			wd, err := widgetDict(spec, pg.ref, pageHeight)
			if err != nil {
				return nil, pdferr.Generation(op, spec.Name, err)
			}
			ref, err := ctx.IndRefForNewObject(wd)
			if err != nil {
				return nil, pdferr.Generation(op, spec.Name, fmt.Errorf("failed to register widget: %w", err))
			}
			widgets = append(widgets, *ref)
			fieldRefs = append(fieldRefs, *ref)
		}
		if err := appendPageAnnots(ctx, pg, widgets); err != nil {
			return nil, pdferr.Generation(op, "", err)
		}
	}

	if err := attachAcroForm(ctx, fieldRefs, *fontRef); err != nil {
		return nil, pdferr.Generation(op, "", err)
	}

	if err := writeAtomic(ctx, outPath); err != nil {
		return nil, pdferr.Generation(op, "", err)
	}
	if g.verbose {
		log.Printf("%s: wrote %s with %d widgets", op, outPath, len(fieldRefs))
	}
	return res.Warnings, nil
}

// newContentStream registers buf as an encoded content stream object.
func newContentStream(ctx *model.Context, buf []byte) (*types.IndirectRef, error) {
	sd, err := ctx.NewStreamDictForBuf(buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create content stream: %w", err)
	}
	if err := sd.Encode(); err != nil {
		return nil, fmt.Errorf("failed to encode content stream: %w", err)
	}
	ref, err := ctx.IndRefForNewObject(*sd)
	if err != nil {
		return nil, fmt.Errorf("failed to register content stream: %w", err)
	}
	return ref, nil
}

// attachAcroForm installs the document-level forms dictionary listing every
// generated widget. A forms layer already present on the base document is
// superseded; diagnostics warn about that case up front.
func attachAcroForm(ctx *model.Context, fieldRefs types.Array, fontRef types.IndirectRef) error {
	acroForm := types.Dict{
		"Fields":          fieldRefs,
		"NeedAppearances": types.Boolean(true),
		"DA":              types.StringLiteral(fmt.Sprintf("/%s 0 Tf 0 g", overlayFont)),
		"DR":              types.Dict{"Font": types.Dict{overlayFont: fontRef}},
	}
	acroRef, err := ctx.IndRefForNewObject(acroForm)
	if err != nil {
		return fmt.Errorf("failed to register AcroForm: %w", err)
	}

	rootDict, err := ctx.Catalog()
	if err != nil {
		return fmt.Errorf("failed to get catalog: %w", err)
	}
	rootDict["AcroForm"] = *acroRef
	return nil
}

// writeAtomic writes the context to a sibling temp file and renames it into
// place, so a failed write never leaves a half-written artifact. Artifact
// paths have a single producer, so the fixed temp suffix cannot collide.
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
