package section

import "math"

const (
	// Bit masks for the packed Options field
	EndiannessMask   = 0x0001 // Mask for endianness bit (bit 0)
	CollisionMask    = 0x0002 // Mask for hash collision bit (bit 1)
	ReservedBitsMask = 0x000C // Mask for reserved bits (bits 2-3)
	MagicNumberMask  = 0xFFF0 // Mask for magic number (bits 4-15)

	// Magic number (bits 4-15)
	MagicDescriptorV1Opt = 0xCD10 // Version 1 magic number for the descriptor format.
)

// offsets and section sizes in the descriptor bundle
const (
	HeaderSize        = 32             // fixed header size in bytes
	IndexEntrySize    = 16             // fixed index entry size in bytes
	IndexOffsetOffset = HeaderSize     // byte offset where the index section starts
	MaxStructCount    = math.MaxUint16 // maximum number of struct layouts per descriptor
	MaxPayloadOffset  = math.MaxUint32 // maximum offset value into the schema payload
)
