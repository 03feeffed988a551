// Package acro walks the interactive-forms layer (AcroForm) of a parsed PDF
// and classifies its widgets. It never mutates the documents it inspects.
package acro

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"unicode/utf16"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Kind classifies a widget by its declared field-type tag.
type Kind string

const (
	KindText      Kind = "text"
	KindCheckbox  Kind = "checkbox"
	KindRadio     Kind = "radio"
	KindSignature Kind = "signature"
	KindOther     Kind = "other"
)

// Radio button flag: bit 16 of /Ff.
const FlagRadio = 1 << 15

// Field is one named widget discovered in the forms layer. Dict is the
// live field dictionary from the context; callers that mutate it own the
// context and are responsible for writing it back out.
type Field struct {
	Name string
	Kind Kind
	Dict types.Dict
}

// ReadContextFile parses a PDF into a pdfcpu context using relaxed
// validation, the mode used throughout for arbitrary uploaded documents.
func ReadContextFile(path string) (*model.Context, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF file: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to ensure page count: %w", err)
	}
	return ctx, nil
}

// FormDict returns the document's AcroForm dictionary, or nil when the
// document carries no forms layer.
func FormDict(ctx *model.Context) (types.Dict, error) {
	rootDict, err := ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	acroFormObj, found := rootDict.Find("AcroForm")
	if !found {
		return nil, nil
	}
	acroFormDict, err := ctx.DereferenceDict(acroFormObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference AcroForm: %w", err)
	}
	return acroFormDict, nil
}

// Fields enumerates every field in the forms layer in declaration order.
// Documents without an AcroForm yield an empty slice.
func Fields(ctx *model.Context) ([]Field, error) {
	acroFormDict, err := FormDict(ctx)
	if err != nil {
		return nil, err
	}
	if acroFormDict == nil {
		return nil, nil
	}

	fieldsObj, found := acroFormDict.Find("Fields")
	if !found {
		return nil, nil
	}
	fieldsArray, err := ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference Fields array: %w", err)
	}

	var fields []Field
	for i, fieldRef := range fieldsArray {
		fieldDict, err := ctx.DereferenceDict(fieldRef)
		if err != nil || fieldDict == nil {
			continue
		}

		name := ""
		if nameObj, found := fieldDict.Find("T"); found {
			if s, err := ctx.DereferenceStringOrHexLiteral(nameObj, model.V10, nil); err == nil {
				name = s
			}
		}
		if name == "" {
			name = fmt.Sprintf("field_%d", i)
		}

		fields = append(fields, Field{
			Name: name,
			Kind: fieldKind(ctx, fieldDict),
			Dict: fieldDict,
		})
	}
	return fields, nil
}

// FieldsByName returns a name-indexed view of the forms layer. Duplicate
// names resolve to the last declared field (keep-last policy).
func FieldsByName(ctx *model.Context) (map[string]Field, error) {
	fields, err := Fields(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]Field, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}
	return byName, nil
}

// fieldKind classifies by the /FT tag, checking the parent chain for
// inherited tags, and for buttons inspects the radio flag bit of /Ff.
func fieldKind(ctx *model.Context, fieldDict types.Dict) Kind {
	ftObj, found := fieldDict.Find("FT")
	if !found {
		if parentObj, found := fieldDict.Find("Parent"); found {
			if parentDict, err := ctx.DereferenceDict(parentObj); err == nil && parentDict != nil {
				return fieldKind(ctx, parentDict)
			}
		}
		return KindOther
	}

	ftName, err := ctx.DereferenceName(ftObj, model.V10, nil)
	if err != nil {
		return KindOther
	}

	switch ftName {
	case "Tx":
		return KindText
	case "Btn":
		if flagsObj, found := fieldDict.Find("Ff"); found {
			if flags, err := ctx.DereferenceInteger(flagsObj); err == nil && flags != nil {
				if (*flags & FlagRadio) != 0 {
					return KindRadio
				}
			}
		}
		return KindCheckbox
	case "Sig":
		return KindSignature
	default:
		return KindOther
	}
}

// ValueString renders a field's /V entry as text: string literals verbatim,
// name objects (button on-states) as the bare token. Empty when unset.
func ValueString(ctx *model.Context, f Field) string {
	valueObj, found := f.Dict.Find("V")
	if !found {
		return ""
	}
	if s, err := ctx.DereferenceStringOrHexLiteral(valueObj, model.V10, nil); err == nil {
		return s
	}
	if n, err := ctx.DereferenceName(valueObj, model.V10, nil); err == nil {
		return string(n)
	}
	return ""
}

// TextString renders s as a PDF text-string object: a plain escaped literal
// when every rune fits Latin-1, otherwise a UTF-16BE hex literal with BOM so
// the value survives the write/read round trip losslessly.
func TextString(s string) types.Object {
	for _, r := range s {
		if r > 0xFF {
			return types.HexLiteral(hex.EncodeToString(utf16BEBytes(s)))
		}
	}
	return types.StringLiteral(EscapeString(s))
}

// utf16BEBytes encodes s as big-endian UTF-16 prefixed with the byte order
// mark.
func utf16BEBytes(s string) []byte {
	codes := utf16.Encode([]rune(s))
	buf := make([]byte, 0, 2+2*len(codes))
	buf = append(buf, 0xFE, 0xFF)
	for _, c := range codes {
		buf = append(buf, byte(c>>8), byte(c))
	}
	return buf
}

// EscapeString escapes a value for embedding in a PDF literal string.
// Octal escapes cover the Latin-1 range only; anything above 0xFF is
// substituted, so callers needing lossless storage go through TextString.
func EscapeString(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '(':
			b.WriteString(`\(`)
		case ')':
			b.WriteString(`\)`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			switch {
			case r > 0xFF:
				b.WriteByte('?')
			case r > 127:
				fmt.Fprintf(&b, `\%03o`, r)
			default:
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
