package surface

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/ADJG6183/Form-Modernization/internal/acro"
	"github.com/ADJG6183/Form-Modernization/internal/fields"
	"github.com/ADJG6183/Form-Modernization/internal/pdferr"
	"github.com/ADJG6183/Form-Modernization/internal/pdftest"
)

func letterSchema() fields.Schema {
	return fields.Schema{
		{Name: "full_name", Type: fields.TypeText, Page: 0, X: 72, Y: 100, Width: 200, Height: 18},
		{Name: "agree", Type: fields.TypeCheckbox, Page: 0, X: 72, Y: 150, Width: 15, Height: 15},
	}
}

func TestCreateSurface_TextAndCheckbox(t *testing.T) {
	base := pdftest.WriteBase(t, 1)
	out := filepath.Join(t.TempDir(), "surface.pdf")

	g := NewGenerator(false)
	warnings, err := g.CreateSurface(base, letterSchema(), out)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	meta, err := g.ExtractMetadata(out)
	require.NoError(t, err)

	assert.Equal(t, 1, meta.Pages)
	assert.True(t, meta.HasForm)
	assert.Equal(t, 1, meta.FieldCount.Text)
	assert.Equal(t, 1, meta.FieldCount.Checkbox)
	assert.Equal(t, 2, meta.TotalFields)
	assert.NotEmpty(t, meta.ExtractedAt)
}

func TestCreateSurface_WidgetNamesAndKinds(t *testing.T) {
	base := pdftest.WriteBase(t, 1)
	out := filepath.Join(t.TempDir(), "surface.pdf")

	schema := fields.Schema{
		{Name: "full_name", Type: fields.TypeText, X: 72, Y: 100, Width: 200, Height: 18},
		{Name: "agree", Type: fields.TypeCheckbox, X: 72, Y: 150, Width: 15, Height: 15},
		{Name: "gender", Type: fields.TypeRadio, X: 72, Y: 200, Width: 15, Height: 15},
		{Name: "signed", Type: fields.TypeSignature, X: 72, Y: 250, Width: 200, Height: 40},
		{Name: "dob", Type: fields.TypeDate, X: 72, Y: 320, Width: 100, Height: 18, Format: "MM/DD/YYYY"},
	}

	g := NewGenerator(false)
	_, err := g.CreateSurface(base, schema, out)
	require.NoError(t, err)

	ctx, err := acro.ReadContextFile(out)
	require.NoError(t, err)

	byName, err := acro.FieldsByName(ctx)
	require.NoError(t, err)
	require.Len(t, byName, 5)

	assert.Equal(t, acro.KindText, byName["full_name"].Kind)
	assert.Equal(t, acro.KindCheckbox, byName["agree"].Kind)
	assert.Equal(t, acro.KindRadio, byName["gender"].Kind)
	// Signature placeholders are text-backed widgets, not Sig fields.
	assert.Equal(t, acro.KindText, byName["signed"].Kind)
	assert.Equal(t, acro.KindText, byName["dob"].Kind)

	// Buttons start in the off state.
	assert.Equal(t, "Off", acro.ValueString(ctx, byName["agree"]))
	assert.Equal(t, "Off", acro.ValueString(ctx, byName["gender"]))
}

func TestCreateSurface_UnicodeFieldNameAndDefault(t *testing.T) {
	base := pdftest.WriteBase(t, 1)
	out := filepath.Join(t.TempDir(), "surface.pdf")

	schema := fields.Schema{
		{
			Name: "名前", Type: fields.TypeText, X: 72, Y: 100, Width: 200, Height: 18,
			DefaultValue: "山田 花子",
		},
	}

	g := NewGenerator(false)
	_, err := g.CreateSurface(base, schema, out)
	require.NoError(t, err)

	ctx, err := acro.ReadContextFile(out)
	require.NoError(t, err)
	byName, err := acro.FieldsByName(ctx)
	require.NoError(t, err)

	field, ok := byName["名前"]
	require.True(t, ok, "non-ASCII field name must survive the round trip")
	assert.Equal(t, "山田 花子", acro.ValueString(ctx, field))
}

func TestCreateSurface_UsesActualPageHeight(t *testing.T) {
	base := pdftest.WriteBaseSized(t, 1, 400, 500)
	out := filepath.Join(t.TempDir(), "surface.pdf")

	schema := fields.Schema{
		{Name: "full_name", Type: fields.TypeText, X: 72, Y: 100, Width: 200, Height: 18},
	}

	g := NewGenerator(false)
	_, err := g.CreateSurface(base, schema, out)
	require.NoError(t, err)

	ctx, err := acro.ReadContextFile(out)
	require.NoError(t, err)
	byName, err := acro.FieldsByName(ctx)
	require.NoError(t, err)

	rectObj, found := byName["full_name"].Dict.Find("Rect")
	require.True(t, found)
	rect, err := ctx.DereferenceArray(rectObj)
	require.NoError(t, err)
	require.Len(t, rect, 4)

	// 500pt page: y flips to 500 - 100 - 18 = 382, not the Letter-based 674.
	assert.Equal(t, 72.0, numValue(t, rect[0]))
	assert.Equal(t, 382.0, numValue(t, rect[1]))
	assert.Equal(t, 272.0, numValue(t, rect[2]))
	assert.Equal(t, 400.0, numValue(t, rect[3]))
}

func numValue(t *testing.T, o types.Object) float64 {
	t.Helper()
	switch v := o.(type) {
	case types.Integer:
		return float64(v)
	case types.Float:
		return float64(v)
	default:
		t.Fatalf("object %v (%T) is not numeric", o, o)
		return 0
	}
}

func TestCreateSurface_PageOutOfRange(t *testing.T) {
	base := pdftest.WriteBase(t, 1)
	out := filepath.Join(t.TempDir(), "surface.pdf")

	schema := fields.Schema{
		{Name: "late", Type: fields.TypeText, Page: 3, X: 10, Y: 10, Width: 100, Height: 20},
	}

	_, err := NewGenerator(false).CreateSurface(base, schema, out)
	require.Error(t, err)
	assert.True(t, pdferr.IsGeneration(err))
	assert.Contains(t, err.Error(), "late")

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no partial artifact may remain")
}

func TestCreateSurface_InvalidSchema(t *testing.T) {
	base := pdftest.WriteBase(t, 1)
	out := filepath.Join(t.TempDir(), "surface.pdf")

	schema := fields.Schema{
		{Name: "flat", Type: fields.TypeText, X: 10, Y: 10, Width: 0, Height: 20},
	}

	_, err := NewGenerator(false).CreateSurface(base, schema, out)
	require.Error(t, err)
	assert.True(t, pdferr.IsInput(err))
	assert.Contains(t, err.Error(), "width must be greater than 0")
}

func TestCreateSurface_MissingBase(t *testing.T) {
	out := filepath.Join(t.TempDir(), "surface.pdf")

	_, err := NewGenerator(false).CreateSurface("/non/existent/base.pdf", letterSchema(), out)
	require.Error(t, err)
	assert.True(t, pdferr.IsInput(err))
}

func TestCreateSurface_DuplicateNamesKeepLast(t *testing.T) {
	base := pdftest.WriteBase(t, 1)
	out := filepath.Join(t.TempDir(), "surface.pdf")

	schema := fields.Schema{
		{Name: "dup", Type: fields.TypeText, X: 10, Y: 10, Width: 100, Height: 20},
		{Name: "dup", Type: fields.TypeCheckbox, X: 10, Y: 50, Width: 15, Height: 15},
	}

	g := NewGenerator(false)
	warnings, err := g.CreateSurface(base, schema, out)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "duplicate field names: dup")

	meta, err := g.ExtractMetadata(out)
	require.NoError(t, err)
	assert.Equal(t, 1, meta.TotalFields, "duplicates collapse to one widget")
	assert.Equal(t, 1, meta.FieldCount.Checkbox, "last spec per name wins")
	assert.Equal(t, 0, meta.FieldCount.Text)
}

func TestCreateSurface_PreservesPageCount(t *testing.T) {
	base := pdftest.WriteBase(t, 3)
	out := filepath.Join(t.TempDir(), "surface.pdf")

	schema := fields.Schema{
		{Name: "mid", Type: fields.TypeText, Page: 1, X: 10, Y: 10, Width: 100, Height: 20},
	}

	g := NewGenerator(false)
	_, err := g.CreateSurface(base, schema, out)
	require.NoError(t, err)

	meta, err := g.ExtractMetadata(out)
	require.NoError(t, err)
	assert.Equal(t, 3, meta.Pages, "pages without fields pass through")
	assert.Equal(t, 1, meta.TotalFields)
}

func TestExtractMetadata_NoFormsLayer(t *testing.T) {
	base := pdftest.WriteBase(t, 2)

	meta, err := NewGenerator(false).ExtractMetadata(base)
	require.NoError(t, err)
	assert.Equal(t, 2, meta.Pages)
	assert.False(t, meta.HasForm)
	assert.Equal(t, 0, meta.TotalFields)
}

func TestExtractMetadata_Idempotent(t *testing.T) {
	base := pdftest.WriteBase(t, 1)
	out := filepath.Join(t.TempDir(), "surface.pdf")

	g := NewGenerator(false)
	_, err := g.CreateSurface(base, letterSchema(), out)
	require.NoError(t, err)

	first, err := g.ExtractMetadata(out)
	require.NoError(t, err)
	second, err := g.ExtractMetadata(out)
	require.NoError(t, err)

	assert.Equal(t, first.Pages, second.Pages)
	assert.Equal(t, first.FieldCount, second.FieldCount)
	assert.Equal(t, first.TotalFields, second.TotalFields)
}

func TestExtractMetadata_MissingFile(t *testing.T) {
	_, err := NewGenerator(false).ExtractMetadata("/non/existent/file.pdf")
	require.Error(t, err)
	assert.True(t, pdferr.IsInput(err))
}

func TestOverlayOps_CoordinateTransform(t *testing.T) {
	schema := fields.Schema{
		{Name: "full_name", Type: fields.TypeText, X: 72, Y: 100, Width: 200, Height: 18},
	}

	ops, err := overlayOps(schema, 792)
	require.NoError(t, err)

	// y flips from a 100pt top inset to 792 - 100 - 18 = 674 above the bottom.
	assert.Contains(t, string(ops), "72.00 674.00 200.00 18.00 re S")
	assert.Contains(t, string(ops), "(full_name) Tj")
}

func TestOverlayOps_SignatureBaseline(t *testing.T) {
	schema := fields.Schema{
		{Name: "signed", Type: fields.TypeSignature, X: 100, Y: 600, Width: 200, Height: 40},
	}

	ops, err := overlayOps(schema, 792)
	require.NoError(t, err)

	s := string(ops)
	assert.Contains(t, s, "[3 3] 0 d", "dashed outline")
	assert.Contains(t, s, "[] 0 d", "dash pattern reset")
	// Baseline at a quarter of the height: y = 792-600-40+10 = 162.
	assert.Contains(t, s, "110.00 162.00 m 290.00 162.00 l S")
}

func TestWidgetDict_Checkbox(t *testing.T) {
	spec := fields.Spec{Name: "agree", Type: fields.TypeCheckbox, X: 72, Y: 150, Width: 16, Height: 16}

	d, err := widgetDict(spec, fakePageRef(), 792)
	require.NoError(t, err)

	assert.Equal(t, types.Name("Btn"), d["FT"])
	assert.Equal(t, types.Name("Off"), d["V"])
	assert.Equal(t, types.Name("Off"), d["AS"])
	_, hasFlags := d["Ff"]
	assert.False(t, hasFlags, "plain checkbox carries no field flags")
}

func TestWidgetDict_RadioFlag(t *testing.T) {
	spec := fields.Spec{Name: "gender", Type: fields.TypeRadio, X: 72, Y: 150, Width: 16, Height: 16}

	d, err := widgetDict(spec, fakePageRef(), 792)
	require.NoError(t, err)

	flags, ok := d["Ff"].(types.Integer)
	require.True(t, ok)
	assert.NotZero(t, int(flags)&acro.FlagRadio)
}

func TestWidgetDict_ReadOnlyRequired(t *testing.T) {
	spec := fields.Spec{
		Name: "id", Type: fields.TypeText, X: 1, Y: 1, Width: 10, Height: 10,
		ReadOnly: true, Required: true,
	}

	d, err := widgetDict(spec, fakePageRef(), 792)
	require.NoError(t, err)

	flags, ok := d["Ff"].(types.Integer)
	require.True(t, ok)
	assert.NotZero(t, int(flags)&flagReadOnly)
	assert.NotZero(t, int(flags)&flagRequired)
}

func TestWidgetDict_DefaultValue(t *testing.T) {
	spec := fields.Spec{
		Name: "city", Type: fields.TypeText, X: 1, Y: 1, Width: 10, Height: 10,
		DefaultValue: "Detroit",
	}

	d, err := widgetDict(spec, fakePageRef(), 792)
	require.NoError(t, err)
	assert.Equal(t, "Detroit", d["V"].(types.StringLiteral).Value())
	assert.Equal(t, "Detroit", d["DV"].(types.StringLiteral).Value())
}

func TestTextAppearance(t *testing.T) {
	assert.Equal(t, "/Helv 10.0 Tf 0 g",
		textAppearance(fields.Spec{Type: fields.TypeText}))
	assert.Equal(t, "/Helv 14.0 Tf 0 g",
		textAppearance(fields.Spec{Type: fields.TypeText, FontSize: 14}))
}

func fakePageRef() types.IndirectRef {
	return *types.NewIndirectRef(3, 0)
}
