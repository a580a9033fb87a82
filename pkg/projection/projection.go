// Package projection copies a caller-selected subset of an entity's fields
// into a response value. Each field is declared once with a copy function;
// there is no reflection.
package projection

import (
	"strings"

	"github.com/curo-bpm/curo/pkg/cerr"
)

type Field[S, D any] struct {
	Name string
	Copy func(dst *D, src *S)
}

type Schema[S, D any] struct {
	fields []Field[S, D]
	known  map[string]struct{}
}

func NewSchema[S, D any](fields ...Field[S, D]) *Schema[S, D] {
	known := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		known[f.Name] = struct{}{}
	}
	return &Schema[S, D]{fields: fields, known: known}
}

// Names returns the declared field names in declaration order.
func (s *Schema[S, D]) Names() []string {
	names := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		names = append(names, f.Name)
	}
	return names
}

// Mask is a set of selected field names. An empty mask selects every field.
type Mask map[string]struct{}

func (m Mask) Has(name string) bool {
	if len(m) == 0 {
		return true
	}
	_, ok := m[name]
	return ok
}

// Parse builds a mask from query values that may be repeated, comma
// separated, or both. Unknown names are reported as violations of param.
func (s *Schema[S, D]) Parse(param string, values []string) (Mask, error) {
	mask := Mask{}
	var verr *cerr.Error
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if _, ok := s.known[name]; !ok {
				if verr == nil {
					verr = cerr.NewValidationError("unknown attributes")
				}
				verr.AddViolation(cerr.NewFieldViolation(param, name, "one of "+strings.Join(s.Names(), ", ")))
				continue
			}
			mask[name] = struct{}{}
		}
	}
	if verr != nil {
		return nil, verr
	}
	return mask, nil
}

func (s *Schema[S, D]) Project(src *S, mask Mask) *D {
	var dst D
	for _, f := range s.fields {
		if mask.Has(f.Name) {
			f.Copy(&dst, src)
		}
	}
	return &dst
}

// NonZero returns a pointer to v, or nil when v is the zero value. Engine
// nulls arrive as zero values and stay absent after projection.
func NonZero[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}

// Value returns a pointer to v even when it is the zero value.
func Value[T any](v T) *T {
	return &v
}
