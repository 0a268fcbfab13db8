package schema

import (
	"fmt"
	"sync"

	"github.com/structlab/crepr/errs"
	"github.com/structlab/crepr/format"
	"github.com/structlab/crepr/layout"
)

// Registry holds a set of named structs that may reference each other and
// caches their resolved layouts. All methods are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	structs map[string]*Struct
	order   []string
	layouts map[string]*StructLayout
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		structs: make(map[string]*Struct),
		layouts: make(map[string]*StructLayout),
	}
}

// Register validates and adds a struct definition.
//
// Returns:
//   - error: validation errors from Struct.Validate, or
//     ErrStructAlreadyRegistered for a duplicate name
func (r *Registry) Register(s *Struct) error {
	if err := s.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.structs[s.Name]; exists {
		return fmt.Errorf("%w: %q", errs.ErrStructAlreadyRegistered, s.Name)
	}

	r.structs[s.Name] = s
	r.order = append(r.order, s.Name)

	return nil
}

// Lookup returns the registered struct definition by name.
func (r *Registry) Lookup(name string) (*Struct, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.structs[name]

	return s, ok
}

// Names returns the registered struct names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)

	return out
}

// Len returns the number of registered structs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.structs)
}

// Layout resolves the named struct into a StructLayout, computing nested
// struct layouts as needed. Results are memoized; the second lookup of a
// name is a map hit.
//
// Returns:
//   - *StructLayout: the resolved layout, shared by later calls
//   - error: ErrStructNotFound for unknown names, ErrTypeCycle for
//     self-referential schemas, or layout computation errors
func (r *Registry) Layout(name string) (*StructLayout, error) {
	r.mu.RLock()
	if l, ok := r.layouts[name]; ok {
		r.mu.RUnlock()
		return l, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.resolveLocked(name, make(map[string]bool))
}

// MustLayout is Layout for init-time tables; it panics on error.
func (r *Registry) MustLayout(name string) *StructLayout {
	l, err := r.Layout(name)
	if err != nil {
		panic(err)
	}

	return l
}

// resolveLocked computes the layout of name, recursing into struct fields.
// visiting tracks the DFS ancestor chain for cycle detection. Caller holds
// the write lock.
func (r *Registry) resolveLocked(name string, visiting map[string]bool) (*StructLayout, error) {
	if l, ok := r.layouts[name]; ok {
		return l, nil
	}

	if visiting[name] {
		return nil, fmt.Errorf("%w: %q", errs.ErrTypeCycle, name)
	}

	s, ok := r.structs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrStructNotFound, name)
	}

	visiting[name] = true
	defer delete(visiting, name)

	fields := make([]layout.Field, len(s.Fields))
	resolved := make([]FieldLayout, len(s.Fields))

	for i, f := range s.Fields {
		var (
			lf  FieldLayout
			err error
		)

		if f.Kind == format.KindStruct {
			lf, err = r.structField(s.Name, f, visiting)
		} else {
			lf, err = primitiveField(s.Name, f)
		}
		if err != nil {
			return nil, err
		}

		fields[i] = layout.Field{Size: lf.Size, Align: lf.Align}
		resolved[i] = lf
	}

	l, err := assemble(s.Name, fields, resolved)
	if err != nil {
		return nil, err
	}

	r.layouts[name] = l

	return l, nil
}

// structField resolves a nested struct field. Per C rules the field size is
// the nested struct's padded size times the array count, and the field
// alignment is the nested struct's alignment.
func (r *Registry) structField(structName string, f Field, visiting map[string]bool) (FieldLayout, error) {
	nested, err := r.resolveLocked(f.TypeName, visiting)
	if err != nil {
		return FieldLayout{}, fmt.Errorf("field %s.%s: %w", structName, f.Name, err)
	}

	size, err := arraySize(nested.Size, f.Elements())
	if err != nil {
		return FieldLayout{}, fmt.Errorf("field %s.%s: %w", structName, f.Name, err)
	}

	return FieldLayout{
		Name:     f.Name,
		Kind:     f.Kind,
		TypeName: f.TypeName,
		Count:    f.Count,
		Size:     size,
		Align:    nested.Align,
	}, nil
}
