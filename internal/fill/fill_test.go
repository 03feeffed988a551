package fill

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ADJG6183/Form-Modernization/internal/acro"
	"github.com/ADJG6183/Form-Modernization/internal/fields"
	"github.com/ADJG6183/Form-Modernization/internal/pdferr"
	"github.com/ADJG6183/Form-Modernization/internal/pdftest"
	"github.com/ADJG6183/Form-Modernization/internal/surface"
)

// makeSurface generates a one-page surface with a text field and a
// checkbox, the smallest document the fill paths care about.
func makeSurface(t *testing.T) string {
	t.Helper()
	base := pdftest.WriteBase(t, 1)
	out := filepath.Join(t.TempDir(), "surface.pdf")

	schema := fields.Schema{
		{Name: "full_name", Type: fields.TypeText, X: 72, Y: 100, Width: 200, Height: 18},
		{Name: "agree", Type: fields.TypeCheckbox, X: 72, Y: 150, Width: 15, Height: 15},
	}
	_, err := surface.NewGenerator(false).CreateSurface(base, schema, out)
	require.NoError(t, err)
	return out
}

func TestFillSurface_RoundTrip(t *testing.T) {
	surfacePath := makeSurface(t)
	out := filepath.Join(t.TempDir(), "filled.pdf")

	values := Values{"full_name": "Jane Doe", "agree": true}
	require.NoError(t, NewFiller(false).FillSurface(surfacePath, values, out))

	ctx, err := acro.ReadContextFile(out)
	require.NoError(t, err)
	byName, err := acro.FieldsByName(ctx)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", acro.ValueString(ctx, byName["full_name"]))
	assert.Equal(t, "Yes", acro.ValueString(ctx, byName["agree"]))
}

func TestFillSurface_UnicodeRoundTrip(t *testing.T) {
	surfacePath := makeSurface(t)
	out := filepath.Join(t.TempDir(), "filled.pdf")

	// Latin-1 runes survive literal escaping; anything beyond needs the
	// UTF-16 text-string form, so both appear in one value.
	const value = "café 日本"
	require.NoError(t, NewFiller(false).FillSurface(surfacePath, Values{"full_name": value}, out))

	ctx, err := acro.ReadContextFile(out)
	require.NoError(t, err)
	byName, err := acro.FieldsByName(ctx)
	require.NoError(t, err)
	assert.Equal(t, value, acro.ValueString(ctx, byName["full_name"]))
}

func TestFillSurface_SourceUnchanged(t *testing.T) {
	surfacePath := makeSurface(t)
	before, err := os.ReadFile(surfacePath)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "filled.pdf")
	require.NoError(t, NewFiller(false).FillSurface(surfacePath, Values{"full_name": "x"}, out))

	after, err := os.ReadFile(surfacePath)
	require.NoError(t, err)
	assert.Equal(t, before, after, "fill never mutates the source document")
}

func TestFillSurface_UncheckedCheckbox(t *testing.T) {
	surfacePath := makeSurface(t)
	out := filepath.Join(t.TempDir(), "filled.pdf")

	require.NoError(t, NewFiller(false).FillSurface(surfacePath, Values{"agree": false}, out))

	ctx, err := acro.ReadContextFile(out)
	require.NoError(t, err)
	byName, err := acro.FieldsByName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Off", acro.ValueString(ctx, byName["agree"]))
}

func TestFillSurface_UnknownNamesIgnored(t *testing.T) {
	surfacePath := makeSurface(t)
	out := filepath.Join(t.TempDir(), "filled.pdf")

	values := Values{"full_name": "Jane Doe", "no_such_field": "whatever"}
	require.NoError(t, NewFiller(false).FillSurface(surfacePath, values, out))

	ctx, err := acro.ReadContextFile(out)
	require.NoError(t, err)
	byName, err := acro.FieldsByName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", acro.ValueString(ctx, byName["full_name"]))
}

func TestFillSurface_NoFormsLayerCopiesVerbatim(t *testing.T) {
	base := pdftest.WriteBase(t, 1)
	out := filepath.Join(t.TempDir(), "filled.pdf")

	require.NoError(t, NewFiller(false).FillSurface(base, Values{"anything": "x"}, out))

	src, err := os.ReadFile(base)
	require.NoError(t, err)
	dst, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, src, dst, "documents without widgets pass through byte for byte")
}

func TestFillSurface_MissingInput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "filled.pdf")

	err := NewFiller(false).FillSurface("/non/existent/surface.pdf", Values{}, out)
	require.Error(t, err)
	assert.True(t, pdferr.IsInput(err))
}

func TestOnStateToken(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "true", value: true, want: "Yes"},
		{name: "false", value: false, want: "Off"},
		{name: "nil", value: nil, want: "Off"},
		{name: "empty string", value: "", want: "Off"},
		{name: "custom on-state", value: "Option2", want: "Option2"},
		{name: "numeric", value: 1, want: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, onStateToken(tt.value))
		})
	}
}

func TestCoerceString(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "string", value: "abc", want: "abc"},
		{name: "bool", value: true, want: "true"},
		{name: "int", value: 42, want: "42"},
		{name: "int64", value: int64(-7), want: "-7"},
		{name: "float", value: 3.5, want: "3.5"},
		{name: "nil", value: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, coerceString(tt.value))
		})
	}
}
