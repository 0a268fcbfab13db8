// Package schema defines named struct descriptions and resolves them into
// concrete layouts.
//
// A Struct lists fields by name, kind and optional array count. A Registry
// holds a set of structs that may reference each other by name; resolving a
// struct walks its fields depth-first, computes nested layouts first, and
// feeds the resulting (size, alignment) pairs through the layout package.
// Resolved layouts are memoized per registry, so repeated lookups are cheap.
//
//	reg := schema.NewRegistry()
//	_ = reg.Register(&schema.Struct{
//	    Name: "PacketHeader",
//	    Fields: []schema.Field{
//	        {Name: "Version", Kind: format.KindU8},
//	        {Name: "Flags", Kind: format.KindU16},
//	        {Name: "PayloadLen", Kind: format.KindU32},
//	        {Name: "Timestamp", Kind: format.KindU64},
//	    },
//	})
//
//	l, err := reg.Layout("PacketHeader")
//	off, err := l.Offset("PayloadLen") // 4
//
// Nested struct fields follow C rules: the field's size and alignment are
// the nested struct's total size and alignment, and fixed-size arrays
// multiply the element size without changing alignment. Cyclic references
// are rejected, as are duplicate registrations and unknown names.
//
// The wire descriptor, code generation and reflection packages all consume
// StructLayout values produced here; this package is the single source of
// truth for what a named layout contains.
package schema
