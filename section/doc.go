// Package section defines the low-level binary structures and constants for the descriptor format.
//
// This package provides the foundational types and constants that define the physical layout
// of descriptor bundles. It handles binary serialization/deserialization of headers, flags, and
// index entries, ensuring consistent byte-level representation across platforms.
//
// # Overview
//
// The section package defines three main categories of types:
//
//  1. Header: Fixed-size bundle metadata (Header)
//  2. Flag: Packed bitfields for endianness/compression configuration (Flag)
//  3. Index Entry: Fixed-size struct record descriptors (IndexEntry)
//
// These types form the structural foundation of the binary format, providing:
//   - Fixed-size layouts for O(1) random access
//   - Efficient binary serialization with minimal overhead
//   - Platform-independent byte representation
//   - Bitfield packing for compact storage
//
// # Bundle Structure
//
// A descriptor bundle consists of fixed-size sections followed by a variable-size payload:
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Header (32 bytes, fixed)                                │
//	│  - Flag (4 bytes): endianness, compression, options     │
//	│  - StructCount (4 bytes)                                │
//	│  - Offsets (12 bytes): index, payload, payload length   │
//	│  - SchemaChecksum (4 bytes)                             │
//	│  - CreatedAt (8 bytes)                                  │
//	├─────────────────────────────────────────────────────────┤
//	│ Index (N × 16 bytes, fixed per entry)                   │
//	│  - One entry per struct layout                          │
//	│  - NameHash, offset, length                             │
//	├─────────────────────────────────────────────────────────┤
//	│ Schema Payload (variable)                               │
//	│  - Struct and field records, optionally compressed      │
//	│  - Records carry struct names for collision resolution  │
//	└─────────────────────────────────────────────────────────┘
//
// # Header Format
//
// Header (32 bytes):
//
//	Bytes  | Field          | Type   | Description
//	-------|----------------|--------|----------------------------------
//	0-3    | Flag           | uint32 | Endianness, compression, options
//	4-7    | StructCount    | uint32 | Number of struct layouts in bundle
//	8-11   | IndexOffset    | uint32 | Byte offset to index section
//	12-15  | PayloadOffset  | uint32 | Byte offset to schema payload
//	16-19  | PayloadLength  | uint32 | Stored schema payload length
//	20-23  | SchemaChecksum | uint32 | Checksum of uncompressed payload
//	24-31  | CreatedAt      | int64  | Unix timestamp in microseconds
//
// # Flag Format
//
// Flags are packed into 4 bytes (32 bits):
//
//	Byte 0-1 (Options, 16 bits):
//	  Bit 0: Endianness (0=little-endian, 1=big-endian)
//	  Bit 1: Hash collision (0=hash lookup safe, 1=match by name)
//	  Bits 2-3: Reserved (must be 0)
//	  Bits 4-15: Magic number (0xCD10 for descriptor v1)
//
//	Byte 2 (CompressionType, 8 bits):
//	  Schema payload compression (0x1=None, 0x2=Zstd, 0x3=S2, 0x4=LZ4)
//
//	Byte 3 (Reserved, 8 bits):
//	  Must be 0.
//
// Example flag usage:
//
//	flag := section.NewFlag()
//	flag.SetCompression(format.CompressionZstd)
//	flag.WithBigEndian()
//
//	if flag.HasCollision() {
//	    // Hash lookups are ambiguous, match records by name
//	}
//
// # Index Entry Format
//
// IndexEntry (16 bytes):
//
//	Bytes  | Field    | Type   | Description
//	-------|----------|--------|----------------------------------------
//	0-7    | NameHash | uint64 | xxHash64 of the struct name
//	8-11   | Offset   | uint32 | Record offset in uncompressed payload
//	12-15  | Length   | uint32 | Record length in uncompressed payload
//
// The Options field of the header is always stored little-endian so readers
// can determine the byte order of the remaining fields before decoding them.
package section
