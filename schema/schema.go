package schema

import (
	"fmt"

	"github.com/structlab/crepr/errs"
	"github.com/structlab/crepr/format"
)

// Field describes one struct field by name and kind.
//
// TypeName names the nested struct for KindStruct fields and is empty for
// primitives. Count gives the fixed array length; 0 and 1 both mean a
// scalar field.
type Field struct {
	Name     string
	Kind     format.Kind
	TypeName string
	Count    uint32
}

// Elements returns the number of array elements the field occupies, which
// is 1 for scalars.
func (f Field) Elements() uint64 {
	if f.Count > 1 {
		return uint64(f.Count)
	}

	return 1
}

// IsArray reports whether the field is a fixed-size array.
func (f Field) IsArray() bool {
	return f.Count > 1
}

// Validate checks a single field definition.
func (f Field) Validate() error {
	if f.Name == "" {
		return errs.ErrInvalidFieldName
	}

	if !f.Kind.IsValid() {
		return fmt.Errorf("%w: field %q kind %d", errs.ErrInvalidFieldKind, f.Name, f.Kind)
	}

	if f.Kind == format.KindStruct && f.TypeName == "" {
		return fmt.Errorf("%w: field %q", errs.ErrMissingTypeName, f.Name)
	}

	return nil
}

// Struct is a named, ordered field list. It carries no resolved offsets;
// resolve it through a Registry or LayoutOf to obtain a StructLayout.
type Struct struct {
	Name   string
	Fields []Field
}

// Validate checks the struct name, every field, and field name uniqueness.
func (s *Struct) Validate() error {
	if s.Name == "" {
		return errs.ErrInvalidStructName
	}

	seen := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("struct %q: %w", s.Name, err)
		}

		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("%w: struct %q field %q", errs.ErrDuplicateFieldName, s.Name, f.Name)
		}
		seen[f.Name] = struct{}{}
	}

	return nil
}
