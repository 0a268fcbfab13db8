package schema

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/structlab/crepr/errs"
	"github.com/structlab/crepr/format"
	"github.com/structlab/crepr/internal/hash"
	"github.com/structlab/crepr/layout"
)

// FieldLayout is one resolved field: the original description plus its
// computed offset, total size in bytes (including array repetition) and
// alignment.
type FieldLayout struct {
	Name     string
	Kind     format.Kind
	TypeName string
	Count    uint32
	Offset   uint64
	Size     uint64
	Align    uint64
}

// StructLayout is a fully resolved struct: every field placed, total size
// padded to the struct alignment.
type StructLayout struct {
	Name   string
	Fields []FieldLayout
	Size   uint64
	Align  uint64
}

// Offset returns the byte offset of the named field.
//
// Returns:
//   - uint64: offset from the start of the struct
//   - error: ErrFieldNotFound when no field has that name
func (l *StructLayout) Offset(name string) (uint64, error) {
	if f, ok := l.Field(name); ok {
		return f.Offset, nil
	}

	return 0, fmt.Errorf("%w: %s.%s", errs.ErrFieldNotFound, l.Name, name)
}

// Field returns the named field layout. Structs have few fields, so lookup
// is a linear scan.
func (l *StructLayout) Field(name string) (FieldLayout, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}

	return FieldLayout{}, false
}

// Equal reports whether two layouts have the same name, fields, size and
// alignment.
func (l *StructLayout) Equal(o *StructLayout) bool {
	if l == nil || o == nil {
		return l == o
	}

	return l.Name == o.Name && l.Size == o.Size && l.Align == o.Align &&
		slices.Equal(l.Fields, o.Fields)
}

// Fingerprint returns the xxHash64 of the canonical layout description.
// Two layouts fingerprint alike exactly when Equal reports true.
func (l *StructLayout) Fingerprint() uint64 {
	var sb strings.Builder
	sb.WriteString(l.Name)
	for _, f := range l.Fields {
		fmt.Fprintf(&sb, "|%s:%d:%s:%d:%d:%d:%d",
			f.Name, f.Kind, f.TypeName, f.Count, f.Offset, f.Size, f.Align)
	}
	fmt.Fprintf(&sb, "|%d:%d", l.Size, l.Align)

	return hash.ID(sb.String())
}

func (l *StructLayout) String() string {
	return fmt.Sprintf("%s{fields:%d size:%d align:%d}", l.Name, len(l.Fields), l.Size, l.Align)
}

// LayoutOf resolves a struct without a registry. Every field must be a
// primitive; struct-kind fields need a Registry to resolve against and
// return ErrStructNotFound here.
func LayoutOf(s *Struct) (*StructLayout, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	fields := make([]layout.Field, len(s.Fields))
	resolved := make([]FieldLayout, len(s.Fields))

	for i, f := range s.Fields {
		if f.Kind == format.KindStruct {
			return nil, fmt.Errorf("%w: field %s.%s references %q without a registry",
				errs.ErrStructNotFound, s.Name, f.Name, f.TypeName)
		}

		lf, err := primitiveField(s.Name, f)
		if err != nil {
			return nil, err
		}

		fields[i] = layout.Field{Size: lf.Size, Align: lf.Align}
		resolved[i] = lf
	}

	return assemble(s.Name, fields, resolved)
}

// primitiveField resolves a primitive field's total size and alignment,
// applying the array count.
func primitiveField(structName string, f Field) (FieldLayout, error) {
	elemSize := f.Kind.Size()
	align := f.Kind.Align()

	size, err := arraySize(elemSize, f.Elements())
	if err != nil {
		return FieldLayout{}, fmt.Errorf("field %s.%s: %w", structName, f.Name, err)
	}

	return FieldLayout{
		Name:     f.Name,
		Kind:     f.Kind,
		TypeName: f.TypeName,
		Count:    f.Count,
		Size:     size,
		Align:    align,
	}, nil
}

// arraySize multiplies element size by count, rejecting uint64 overflow.
func arraySize(elemSize, count uint64) (uint64, error) {
	if elemSize != 0 && count > math.MaxUint64/elemSize {
		return 0, fmt.Errorf("%w: %d elements of %d bytes", errs.ErrLayoutOverflow, count, elemSize)
	}

	return elemSize * count, nil
}

// assemble runs the layout pass over resolved fields and fills in offsets.
func assemble(name string, fields []layout.Field, resolved []FieldLayout) (*StructLayout, error) {
	result, err := layout.Compute(fields)
	if err != nil {
		return nil, fmt.Errorf("struct %q: %w", name, err)
	}

	for i := range resolved {
		resolved[i].Offset = result.At(i)
	}

	return &StructLayout{
		Name:   name,
		Fields: resolved,
		Size:   result.Size(),
		Align:  result.Align(),
	}, nil
}
