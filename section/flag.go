package section

import (
	"github.com/structlab/crepr/endian"
	"github.com/structlab/crepr/errs"
	"github.com/structlab/crepr/format"
)

// Flag represents the packed option fields in the descriptor header.
type Flag struct {
	// Options is a packed field for various options.
	// Bit 0 is endianness flag, 0 means little-endian, 1 means big-endian.
	// Bit 1 is hash collision flag, set when two struct names in the bundle
	// share the same xxHash64 value so readers must match by name instead.
	// Bit 2-3 are reserved for future use, must be set to 0.
	// Bit 4-15 are magic number to identify the descriptor format:
	//   - 0xCD10 (0b1100_1101_0001_0000): Descriptor format v1
	Options uint16

	// CompressionType is an enum indicating the compression applied to the
	// schema payload section.
	CompressionType uint8

	// Reserved must be zero. It pads the flag block to 4 bytes and leaves
	// room for future per-bundle options.
	Reserved uint8
}

// NewFlag creates a new Flag with default settings: little-endian byte order,
// no collision marker and an uncompressed schema payload.
func NewFlag() Flag {
	flag := Flag{
		Options:         MagicDescriptorV1Opt,
		CompressionType: uint8(format.CompressionNone),
	}
	flag.WithLittleEndian()

	return flag
}

// IsLittleEndian returns whether the descriptor data is little-endian.
func (f Flag) IsLittleEndian() bool {
	return (f.Options & EndiannessMask) == 0
}

// IsBigEndian returns whether the descriptor data is big-endian.
func (f Flag) IsBigEndian() bool {
	return (f.Options & EndiannessMask) != 0
}

// WithLittleEndian sets little-endian byte order.
func (f *Flag) WithLittleEndian() {
	f.Options &= ^uint16(EndiannessMask)
}

// WithBigEndian sets big-endian byte order.
func (f *Flag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// HasCollision returns whether a hash collision was detected between struct
// names in the bundle. When set, hash-based lookups are ambiguous and readers
// must match struct records by name.
func (f Flag) HasCollision() bool {
	return (f.Options & CollisionMask) != 0
}

// MarkCollision sets the hash collision flag.
func (f *Flag) MarkCollision() {
	f.Options |= CollisionMask
}

// Compression returns the compression type applied to the schema payload.
func (f Flag) Compression() format.CompressionType {
	return format.CompressionType(f.CompressionType)
}

// SetCompression sets the compression type for the schema payload.
func (f *Flag) SetCompression(compression format.CompressionType) {
	f.CompressionType = uint8(compression)
}

// GetMagicNumber returns the magic number from the Options field.
func (f Flag) GetMagicNumber() uint16 {
	return f.Options & MagicNumberMask
}

// IsValidMagicNumber checks if the magic number is valid.
func (f Flag) IsValidMagicNumber() bool {
	return f.GetMagicNumber() == MagicDescriptorV1Opt
}

// IsValidCompression checks if the compression type is valid.
func (f Flag) IsValidCompression() bool {
	return format.CompressionType(f.CompressionType).IsValid()
}

// Validate checks if the flag block contains valid values.
func (f Flag) Validate() error {
	if !f.IsValidMagicNumber() {
		return errs.ErrInvalidMagicNumber
	}

	if f.Options&ReservedBitsMask != 0 || f.Reserved != 0 {
		return errs.ErrInvalidHeaderFlags
	}

	if !f.IsValidCompression() {
		return errs.ErrInvalidCompressionType
	}

	return nil
}

// GetEndianEngine returns the appropriate endian engine based on the flag.
func (f Flag) GetEndianEngine() endian.EndianEngine {
	if f.IsLittleEndian() {
		return endian.GetLittleEndianEngine()
	}

	return endian.GetBigEndianEngine()
}
