package fields

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Result collects every rule violation found in a schema. Errors are fatal
// and block generation; warnings are advisory only.
type Result struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Valid reports whether the schema may proceed to generation.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Validate applies the layout rules in order, collecting all violations
// instead of short-circuiting:
//
//  1. non-empty name, type drawn from the fixed enum
//  2. numeric geometry; negative x or y is a warning, zero or negative
//     width/height an error
//  3. page must be a non-negative integer
//  4. duplicate names reported once as a warning listing every duplicate
func Validate(schema Schema) Result {
	var res Result

	seen := make(map[string]int)
	for i, spec := range schema {
		ident := spec.Name
		if ident == "" {
			ident = fmt.Sprintf("at index %d", i)
		}

		if spec.Name == "" {
			res.errorf("field %s: missing required property: name", ident)
		} else {
			seen[spec.Name]++
		}

		if spec.Type == "" {
			res.errorf("field %s: missing required property: type", ident)
		} else if !spec.Type.IsKnown() {
			res.errorf("field %s: invalid type: %s", ident, spec.Type)
		}

		for coord, v := range map[string]float64{
			"x": spec.X, "y": spec.Y, "width": spec.Width, "height": spec.Height,
		} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				res.errorf("field %s: %s must be a number", ident, coord)
			}
		}
		if spec.X < 0 || spec.Y < 0 {
			res.warnf("field %s: invalid position: (%g, %g)", ident, spec.X, spec.Y)
		}
		if spec.Width <= 0 {
			res.errorf("field %s: width must be greater than 0", ident)
		}
		if spec.Height <= 0 {
			res.errorf("field %s: height must be greater than 0", ident)
		}

		if spec.Page < 0 {
			res.errorf("field %s: page must be a non-negative integer", ident)
		}
	}

	var dupes []string
	for name, count := range seen {
		if count > 1 {
			dupes = append(dupes, name)
		}
	}
	if len(dupes) > 0 {
		sort.Strings(dupes)
		res.warnf("duplicate field names: %s", strings.Join(dupes, ", "))
	}

	return res
}
