// Package bind derives C-compatible struct layouts from Go types using
// reflection.
//
// # Overview
//
// Describe inspects a Go struct type and produces the same StructLayout that
// a hand-written schema definition would:
//
//	type Header struct {
//		Flag  uint8
//		Value uint32
//		Count uint16
//	}
//
//	sl, err := bind.Describe(Header{})
//	// sl.Offset("Value") == 4, sl.Size == 12
//
// Offsets follow standard C layout rules, which match the Go compiler's own
// layout for every supported field type on 64-bit targets, so a described
// layout can be used to address the bytes of the live Go value.
//
// # Supported Types
//
// Fields may be fixed-size primitives (bool, uint8 through uint64, int8
// through int64, float32, float64), fixed-size arrays of supported types,
// and named structs of supported types. Multi-dimensional arrays flatten
// into a single element count.
//
// Types without a portable C-compatible layout are rejected with
// errs.ErrUnsupportedType: pointers, slices, maps, strings, channels, funcs,
// interfaces, complex numbers, and the platform-width int, uint and uintptr.
//
// # Struct Tags
//
// The "crepr" tag renames or excludes fields:
//
//	type Packet struct {
//		ID      uint64  `crepr:"packet_id"` // renamed in the layout
//		scratch *buffer `crepr:"-"`         // excluded from the layout
//	}
//
// Excluding a field gives up offset parity with the Go struct; the layout
// then describes the reduced field list.
//
// # Caching
//
// Layouts are cached per reflect.Type. Repeated Describe calls for the same
// type return the same shared *schema.StructLayout, so results must be
// treated as immutable.
package bind
