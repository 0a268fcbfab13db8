// Package crepr computes C-compatible struct layouts: field offsets, padded
// sizes and alignments, resolved at build or run time without cgo.
//
// The layout rules are the standard C ones: each field sits at the next
// offset aligned to its type, the struct is padded to a multiple of its
// widest field alignment, and nested structs contribute their padded size.
// The same rules drive three front ends that share one calculator, so their
// answers never drift: hand-written schema definitions, reflection over Go
// types, and generated constant files.
//
// # Core Features
//
//   - Deterministic offset calculation with power-of-two validation and
//     uint64 overflow detection
//   - Named struct registries with nested struct resolution and cycle
//     detection
//   - Reflection binding with per-type caching, verified against the Go
//     compiler's own layout
//   - Binary descriptor bundles (xxHash64-indexed, optional Zstd/S2/LZ4
//     compression) for shipping layouts to other processes and tools
//   - Vertex input descriptors for handing layouts to Vulkan-style GPU APIs
//   - go:generate support through the creprgen command
//
// # Basic Usage
//
// Describing a Go struct:
//
//	type Packet struct {
//	    Flag  uint8
//	    Value uint32
//	    Count uint16
//	}
//
//	sl, _ := crepr.Describe(Packet{})
//	fmt.Println(sl.Size)            // 12
//	off, _ := sl.Offset("Value")    // 4
//
// Defining layouts without Go types, e.g. for a format owned by another
// system:
//
//	reg := schema.NewRegistry()
//	reg.Register(&schema.Struct{
//	    Name: "Header",
//	    Fields: []schema.Field{
//	        {Name: "magic", Kind: format.KindU32},
//	        {Name: "count", Kind: format.KindU16},
//	    },
//	})
//	sl, _ := reg.Layout("Header")
//
// Shipping layouts as a descriptor bundle:
//
//	enc, _ := crepr.NewEncoder(descriptor.WithCompression(format.CompressionZstd))
//	enc.Add(sl)
//	bundle, _ := enc.Finish()
//
//	desc, _ := crepr.Decode(bundle)
//	sl, _ = desc.Layout("Header")
//
// # Package Structure
//
// This package provides top-level wrappers for the common paths. The
// subpackages expose the full control surface:
//
//   - layout: the offset calculator (sizes and alignments in, offsets out)
//   - format: field kinds and compression types
//   - schema: named struct definitions, registries and resolved layouts
//   - bind: reflection from Go types to layouts
//   - gen, cmd/creprgen: constant file generation
//   - section, descriptor: the binary bundle format
//   - vertex: GPU vertex input descriptors
package crepr

import (
	"github.com/structlab/crepr/bind"
	"github.com/structlab/crepr/descriptor"
	"github.com/structlab/crepr/internal/hash"
	"github.com/structlab/crepr/schema"
	"github.com/structlab/crepr/vertex"
)

// Describe returns the C-compatible layout of v's struct type, which may be
// a struct value or a pointer to one. Results are cached per type and
// shared; treat them as immutable.
//
// Returns:
//   - *schema.StructLayout: the resolved layout
//   - error: errs.ErrNotStruct or errs.ErrUnsupportedType
//
// Example:
//
//	sl, err := crepr.Describe(Packet{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(sl.Size, sl.Align)
func Describe(v any) (*schema.StructLayout, error) {
	return bind.Describe(v)
}

// OffsetOf returns the byte offset of a field in v's struct type, the
// layout-rule counterpart of unsafe.Offsetof.
//
// Parameters:
//   - v: a struct value or pointer to one
//   - field: the field name, after crepr tag renames
//
// Returns:
//   - uint64: offset from the start of the struct
//   - error: describe errors, or errs.ErrFieldNotFound
func OffsetOf(v any, field string) (uint64, error) {
	sl, err := bind.Describe(v)
	if err != nil {
		return 0, err
	}

	return sl.Offset(field)
}

// SizeOf returns the padded byte size of v's struct type.
func SizeOf(v any) (uint64, error) {
	sl, err := bind.Describe(v)
	if err != nil {
		return 0, err
	}

	return sl.Size, nil
}

// AlignOf returns the alignment of v's struct type.
func AlignOf(v any) (uint64, error) {
	sl, err := bind.Describe(v)
	if err != nil {
		return 0, err
	}

	return sl.Align, nil
}

// NewEncoder creates a descriptor bundle encoder.
//
// Parameters:
//   - opts: optional configuration (see descriptor.Option)
//
// Returns:
//   - *descriptor.Encoder: the created encoder
//   - error: an error if the configuration is invalid
//
// Available options:
//   - descriptor.WithLittleEndian() / descriptor.WithBigEndian()
//   - descriptor.WithCompression(format.CompressionNone|Zstd|S2|LZ4)
//   - descriptor.WithCreatedAt(time.Time) for reproducible bundles
//
// Example:
//
//	enc, err := crepr.NewEncoder()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	enc.Add(layoutA)
//	enc.Add(layoutB)
//	bundle, err := enc.Finish()
func NewEncoder(opts ...descriptor.Option) (*descriptor.Encoder, error) {
	return descriptor.NewEncoder(opts...)
}

// Decode parses and verifies a descriptor bundle in one step: header and
// index validation, checksum check, decompression, and offset
// recomputation for every struct.
//
// Parameters:
//   - data: a complete bundle produced by an Encoder
//
// Returns:
//   - *descriptor.Descriptor: decoded layouts with name and hash lookup
//   - error: validation errors, errs.ErrChecksumMismatch, or
//     errs.ErrOffsetMismatch when stored offsets disagree with recomputation
//
// Example:
//
//	desc, err := crepr.Decode(bundle)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sl, err := desc.Layout("Vertex")
func Decode(data []byte) (*descriptor.Descriptor, error) {
	dec, err := descriptor.NewDecoder(data)
	if err != nil {
		return nil, err
	}

	return dec.Decode()
}

// StructID returns the xxHash64 identifier of a struct name, as used by
// descriptor bundle indexes and Descriptor.LookupHash.
//
// Use this to precompute IDs for frequently looked-up structs:
//
//	vertexID := crepr.StructID("Vertex")
//	sl, err := desc.LookupHash(vertexID)
func StructID(name string) uint64 {
	return hash.ID(name)
}

// VertexBinding describes v's struct type and converts it into a vertex
// input binding in one step.
//
// Parameters:
//   - v: a struct value or pointer to one
//   - binding: the vertex buffer binding index
//
// Returns:
//   - vertex.Binding: stride, input rate and per-field attributes
//   - error: describe errors, or errs.ErrUnsupportedFormat for fields with
//     no attribute format
//
// Example:
//
//	type Vertex struct {
//	    Position [3]float32
//	    UV       [2]float32
//	}
//
//	b, err := crepr.VertexBinding(Vertex{}, 0)
//	// b.Stride == 20, b.Attributes[1].Offset == 12
func VertexBinding(v any, binding uint32) (vertex.Binding, error) {
	sl, err := bind.Describe(v)
	if err != nil {
		return vertex.Binding{}, err
	}

	return vertex.BindingFor(sl, binding)
}
