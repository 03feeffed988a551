package surface

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// page is one leaf of the document's page tree together with the resource
// dictionary it inherits from its ancestors (nil when none is inherited).
type page struct {
	dict      types.Dict
	ref       types.IndirectRef
	inherited types.Dict
}

// collectPages walks the page tree in document order. Widget annotations
// and overlay content are attached per leaf page dict, so the walk keeps
// the indirect reference of every leaf.
func collectPages(ctx *model.Context) ([]page, error) {
	rootDict, err := ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	pagesObj, found := rootDict.Find("Pages")
	if !found {
		return nil, fmt.Errorf("document has no page tree")
	}
	pagesRef, ok := pagesObj.(types.IndirectRef)
	if !ok {
		return nil, fmt.Errorf("page tree root is not an indirect reference")
	}

	var pages []page
	if err := appendTreeNode(ctx, pagesRef, nil, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// appendTreeNode descends one page-tree node, threading inherited
// resources down to the leaves.
func appendTreeNode(ctx *model.Context, ref types.IndirectRef, inherited types.Dict, pages *[]page) error {
	dict, err := ctx.DereferenceDict(ref)
	if err != nil {
		return fmt.Errorf("failed to dereference page tree node: %w", err)
	}
	if dict == nil {
		return fmt.Errorf("page tree node %s is empty", ref)
	}

	if resObj, found := dict.Find("Resources"); found {
		if resDict, err := ctx.DereferenceDict(resObj); err == nil && resDict != nil {
			inherited = resDict
		}
	}

	nodeType := ""
	if typeObj, found := dict.Find("Type"); found {
		if name, err := ctx.DereferenceName(typeObj, model.V10, nil); err == nil {
			nodeType = string(name)
		}
	}

	if nodeType == "Page" {
		*pages = append(*pages, page{dict: dict, ref: ref, inherited: inherited})
		return nil
	}

	kidsObj, found := dict.Find("Kids")
	if !found {
		return fmt.Errorf("page tree node %s has no kids", ref)
	}
	kids, err := ctx.DereferenceArray(kidsObj)
	if err != nil {
		return fmt.Errorf("failed to dereference kids array: %w", err)
	}
	for _, kid := range kids {
		kidRef, ok := kid.(types.IndirectRef)
		if !ok {
			return fmt.Errorf("page tree kid is not an indirect reference")
		}
		if err := appendTreeNode(ctx, kidRef, inherited, pages); err != nil {
			return err
		}
	}
	return nil
}

// appendPageContent places contentRef after the page's existing content,
// preceded by qRef so the base document's graphics state cannot leak into
// the overlay.
func appendPageContent(ctx *model.Context, pg page, qRef, contentRef types.IndirectRef) error {
	var existing types.Array
	if contentsObj, found := pg.dict.Find("Contents"); found {
		switch obj := contentsObj.(type) {
		case types.IndirectRef:
			deref, err := ctx.Dereference(obj)
			if err != nil {
				return fmt.Errorf("failed to dereference page contents: %w", err)
			}
			if arr, ok := deref.(types.Array); ok {
				existing = arr
			} else {
				existing = types.Array{obj}
			}
		case types.Array:
			existing = obj
		default:
			return fmt.Errorf("unsupported page contents type %T", contentsObj)
		}
	}

	merged := make(types.Array, 0, len(existing)+2)
	merged = append(merged, qRef)
	merged = append(merged, existing...)
	merged = append(merged, contentRef)
	pg.dict["Contents"] = merged
	return nil
}

// appendPageAnnots adds widget references to the page's annotation array,
// preserving any annotations the base document already carries.
func appendPageAnnots(ctx *model.Context, pg page, widgets []types.IndirectRef) error {
	if len(widgets) == 0 {
		return nil
	}

	var existing types.Array
	if annotsObj, found := pg.dict.Find("Annots"); found {
		arr, err := ctx.DereferenceArray(annotsObj)
		if err != nil {
			return fmt.Errorf("failed to dereference annotations: %w", err)
		}
		existing = arr
	}

	merged := make(types.Array, 0, len(existing)+len(widgets))
	merged = append(merged, existing...)
	for _, ref := range widgets {
		merged = append(merged, ref)
	}
	pg.dict["Annots"] = merged
	return nil
}

// ensurePageFont makes fontName resolvable from the page's resource
// dictionary. Pages relying on inherited resources get a shallow clone so
// the addition cannot affect sibling pages.
func ensurePageFont(ctx *model.Context, pg page, fontName string, fontRef types.IndirectRef) error {
	var resources types.Dict

	if resObj, found := pg.dict.Find("Resources"); found {
		resDict, err := ctx.DereferenceDict(resObj)
		if err != nil || resDict == nil {
			return fmt.Errorf("failed to dereference page resources: %w", err)
		}
		resources = resDict
	} else if pg.inherited != nil {
		resources = types.Dict{}
		for k, v := range pg.inherited {
			resources[k] = v
		}
		pg.dict["Resources"] = resources
	} else {
		resources = types.Dict{}
		pg.dict["Resources"] = resources
	}

	if fontObj, found := resources.Find("Font"); found {
		fontDict, err := ctx.DereferenceDict(fontObj)
		if err != nil || fontDict == nil {
			return fmt.Errorf("failed to dereference font resources: %w", err)
		}
		if _, ok := fontObj.(types.IndirectRef); !ok {
			// Inline font dict cloned from an ancestor must not be shared.
			clone := types.Dict{}
			for k, v := range fontDict {
				clone[k] = v
			}
			fontDict = clone
			resources["Font"] = fontDict
		}
		fontDict[fontName] = fontRef
		return nil
	}

	resources["Font"] = types.Dict{fontName: fontRef}
	return nil
}
