package bind

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/structlab/crepr/errs"
	"github.com/structlab/crepr/format"
	"github.com/structlab/crepr/schema"
)

// TagName is the struct tag key read by Describe. Supported forms:
//
//	Field int32 `crepr:"wire_name"` // rename the field in the layout
//	Field int32 `crepr:"-"`         // exclude the field from the layout
//
// Excluding a field means the described layout no longer matches the Go
// struct's in-memory layout; offsets then describe the reduced struct.
const TagName = "crepr"

// cache memoizes described struct types. Describing is pure, so concurrent
// duplicate work is harmless and the first stored result wins.
var cache sync.Map // reflect.Type -> *schema.StructLayout

// Describe returns the C-compatible layout of v's struct type.
//
// v may be a struct value or a pointer to one. The layout covers primitive
// fields, fixed-size arrays and nested structs; fields whose types have no
// C-compatible layout (pointers, slices, maps, strings, interfaces, channels,
// funcs, and the platform-width int, uint and uintptr) are rejected.
//
// Returns:
//   - *schema.StructLayout: Resolved layout, shared and immutable
//   - error: ErrNotStruct or ErrUnsupportedType with the offending field path
func Describe(v any) (*schema.StructLayout, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: nil value", errs.ErrNotStruct)
	}

	return DescribeType(reflect.TypeOf(v))
}

// DescribeType returns the C-compatible layout of the given struct type.
// Pointer types are dereferenced once, so both T and *T describe T.
func DescribeType(t reflect.Type) (*schema.StructLayout, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil type", errs.ErrNotStruct)
	}

	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is a %s", errs.ErrNotStruct, t, t.Kind())
	}

	if cached, ok := cache.Load(t); ok {
		return cached.(*schema.StructLayout), nil
	}

	d := &describer{
		reg:   schema.NewRegistry(),
		types: make(map[string]reflect.Type),
	}

	if err := d.register(t, t.String()); err != nil {
		return nil, err
	}

	sl, err := d.reg.Layout(t.Name())
	if err != nil {
		return nil, err
	}

	cache.Store(t, sl)

	return sl, nil
}

// describer walks a struct type and registers it, with every struct type it
// references, into a private registry that does the layout math.
type describer struct {
	reg   *schema.Registry
	types map[string]reflect.Type // registered short name -> Go type
}

// register converts t into a schema struct and registers it. Referenced
// struct types are registered first, depth first. at names the field that
// led here, for error messages.
func (d *describer) register(t reflect.Type, at string) error {
	name := t.Name()
	if name == "" {
		return fmt.Errorf("%w: anonymous struct type at %s", errs.ErrUnsupportedType, at)
	}

	if seen, ok := d.types[name]; ok {
		if seen != t {
			// reflect names are unqualified, so two packages can both
			// declare e.g. "Point" with different layouts
			return fmt.Errorf("%w: %s and %s both use short name %q",
				errs.ErrStructAlreadyRegistered, seen.String(), t.String(), name)
		}

		return nil
	}
	d.types[name] = t

	def := &schema.Struct{
		Name:   name,
		Fields: make([]schema.Field, 0, t.NumField()),
	}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)

		fieldName, skip := fieldName(sf)
		if skip {
			continue
		}

		at := name + "." + sf.Name

		elem, count, err := flattenArrays(sf.Type, at)
		if err != nil {
			return err
		}

		field := schema.Field{Name: fieldName, Count: count}

		if elem.Kind() == reflect.Struct {
			if err := d.register(elem, at); err != nil {
				return err
			}

			field.Kind = format.KindStruct
			field.TypeName = elem.Name()
		} else {
			field.Kind = kindOf(elem.Kind())
			if field.Kind == format.KindInvalid {
				return fmt.Errorf("%w: field %s has Go type %s",
					errs.ErrUnsupportedType, at, sf.Type)
			}
		}

		def.Fields = append(def.Fields, field)
	}

	return d.reg.Register(def)
}

// flattenArrays peels fixed-size array layers off t and returns the element
// type with the total element count. Multi-dimensional arrays flatten to a
// single count since the layout only depends on element size and alignment.
func flattenArrays(t reflect.Type, at string) (reflect.Type, uint32, error) {
	total := uint64(1)

	for t.Kind() == reflect.Array {
		n := uint64(t.Len())
		if n == 0 {
			return nil, 0, fmt.Errorf("%w: field %s is a zero-length array", errs.ErrUnsupportedType, at)
		}

		total *= n
		if total > math.MaxUint32 {
			return nil, 0, fmt.Errorf("%w: field %s has %d elements, maximum is %d",
				errs.ErrUnsupportedType, at, total, uint32(math.MaxUint32))
		}

		t = t.Elem()
	}

	if total == 1 {
		// Scalar fields keep count zero so described layouts match
		// hand-written schema definitions.
		return t, 0, nil
	}

	return t, uint32(total), nil
}

// fieldName resolves the wire name of a struct field from its tag.
func fieldName(sf reflect.StructField) (string, bool) {
	tag, ok := sf.Tag.Lookup(TagName)
	if !ok {
		return sf.Name, false
	}

	name, _, _ := strings.Cut(tag, ",")
	switch name {
	case "-":
		return "", true
	case "":
		return sf.Name, false
	default:
		return name, false
	}
}

// kindOf maps a Go primitive kind to its layout kind. Platform-width
// integers return KindInvalid since their size differs across targets.
func kindOf(k reflect.Kind) format.Kind {
	switch k {
	case reflect.Bool:
		return format.KindBool
	case reflect.Uint8:
		return format.KindU8
	case reflect.Uint16:
		return format.KindU16
	case reflect.Uint32:
		return format.KindU32
	case reflect.Uint64:
		return format.KindU64
	case reflect.Int8:
		return format.KindI8
	case reflect.Int16:
		return format.KindI16
	case reflect.Int32:
		return format.KindI32
	case reflect.Int64:
		return format.KindI64
	case reflect.Float32:
		return format.KindF32
	case reflect.Float64:
		return format.KindF64
	default:
		return format.KindInvalid
	}
}
