// Package descriptor provides encoding and decoding of struct layout bundles.
//
// A descriptor bundle is a compact binary container for resolved struct
// layouts: every field's offset, size and alignment, ready to be shipped to
// another process, cached on disk, or checked against a peer's view of the
// same structs. Bundles are self-describing and independent of the Go types
// they were derived from.
//
// # Core Types
//
// **Encoder**: Creates bundles from resolved layouts
//   - Add appends one schema.StructLayout at a time
//   - Finish assembles the header, index and compressed schema payload
//
// **Decoder**: Reads bundles back
//   - NewDecoder validates the header and section bounds
//   - Decode verifies the checksum and every stored field offset
//
// **Descriptor**: The decoded, queryable result
//   - Lookup by struct name or by xxHash64 name hash
//   - Structs returns all layouts in bundle order
//
// # Encoding Workflow
//
//	reg := schema.NewRegistry()
//	_ = reg.Register(schema.Struct{
//	    Name: "PacketHeader",
//	    Fields: []schema.Field{
//	        {Name: "Version", Kind: format.KindU8},
//	        {Name: "PayloadLen", Kind: format.KindU32},
//	    },
//	})
//
//	encoder, err := descriptor.NewEncoder(
//	    descriptor.WithCompression(format.CompressionZstd),
//	)
//	if err != nil {
//	    return err
//	}
//
//	if err := encoder.Add(reg.MustLayout("PacketHeader")); err != nil {
//	    return err
//	}
//
//	bundle, err := encoder.Finish()
//
// # Decoding Workflow
//
//	decoder, err := descriptor.NewDecoder(bundle)
//	if err != nil {
//	    return err
//	}
//
//	desc, err := decoder.Decode()
//	if err != nil {
//	    return err
//	}
//
//	if sl, ok := desc.Lookup("PacketHeader"); ok {
//	    offset, _ := sl.Offset("PayloadLen")
//	    _ = offset
//	}
//
// # Integrity Guarantees
//
// Decode rejects bundles rather than trusting them:
//
//   - The schema payload checksum must match the header (ErrChecksumMismatch)
//   - Every index entry must point inside the payload (ErrInvalidSchemaPayload)
//   - Every stored field offset, struct size and alignment must agree with
//     recomputation from the stored sizes and alignments (ErrOffsetMismatch)
//
// The offset recomputation means a bundle produced by a different
// implementation of the layout rules, or corrupted in transit in a way the
// checksum happens to miss, is caught before any caller reads a wrong offset.
//
// # Hash Collisions
//
// Struct names are indexed by xxHash64. If two names in one bundle collide,
// the encoder marks the bundle and LookupHash returns ErrHashCollision for
// the ambiguous hash; Lookup by name is always exact.
package descriptor
