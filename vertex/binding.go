package vertex

import (
	"fmt"
	"math"

	"github.com/structlab/crepr/errs"
	"github.com/structlab/crepr/schema"
)

// InputRate selects per-vertex or per-instance attribute advancement.
// Values match VkVertexInputRate.
type InputRate uint32

const (
	InputRateVertex   InputRate = 0
	InputRateInstance InputRate = 1
)

func (r InputRate) String() string {
	switch r {
	case InputRateVertex:
		return "vertex"
	case InputRateInstance:
		return "instance"
	default:
		return fmt.Sprintf("InputRate(%d)", uint32(r))
	}
}

// Attribute describes one shader input: where it binds (Location), what it
// reads (Format) and from where in the vertex (Offset). Name carries the
// source field name for debugging and shader reflection checks.
type Attribute struct {
	Location uint32
	Name     string
	Format   Format
	Offset   uint32
}

// Binding describes one vertex buffer binding: the stride between
// consecutive vertices and the attributes read from each.
type Binding struct {
	Binding    uint32
	Stride     uint32
	InputRate  InputRate
	Attributes []Attribute
}

// BindingFor converts a struct layout into a vertex input binding. Each
// field becomes one attribute with its layout offset; locations are assigned
// in field order, with formats wider than 16 bytes consuming two locations
// as Vulkan requires. Stride is the padded struct size, so consecutive
// array elements of the struct type are consecutive vertices.
//
// The input rate defaults to per-vertex; callers flip it for instance data.
//
// Returns:
//   - Binding: the populated binding description
//   - error: errs.ErrNilStructLayout, errs.ErrUnsupportedFormat for fields
//     with no attribute format, or errs.ErrLayoutOverflow for layouts past
//     the 32-bit stride and offset range
func BindingFor(l *schema.StructLayout, binding uint32) (Binding, error) {
	if l == nil {
		return Binding{}, errs.ErrNilStructLayout
	}

	if l.Size > math.MaxUint32 {
		return Binding{}, fmt.Errorf("%w: struct %s needs a 32-bit stride", errs.ErrLayoutOverflow, l.Name)
	}

	attrs := make([]Attribute, 0, len(l.Fields))
	location := uint32(0)

	for _, f := range l.Fields {
		ft, err := FormatFor(f.Kind, f.Count)
		if err != nil {
			return Binding{}, fmt.Errorf("field %s.%s: %w", l.Name, f.Name, err)
		}

		attrs = append(attrs, Attribute{
			Location: location,
			Name:     f.Name,
			Format:   ft,
			Offset:   uint32(f.Offset), //nolint: gosec // bounded by l.Size check above
		})

		location++
		if ft.Size() > 16 {
			location++
		}
	}

	return Binding{
		Binding:    binding,
		Stride:     uint32(l.Size), //nolint: gosec // checked above
		InputRate:  InputRateVertex,
		Attributes: attrs,
	}, nil
}
