package section

import (
	"time"
	"unsafe"

	"github.com/structlab/crepr/errs"
)

// Header represents the fixed-size header section at the start of a descriptor bundle.
type Header struct {
	// Flag is a packed field for various flags and magic number.
	Flag Flag // byte offset 0-3

	// StructCount is the number of struct layouts stored in the bundle, max to 65535.
	StructCount uint32 // byte offset 4-7
	// IndexOffset is the byte offset to the start of the struct index section.
	IndexOffset uint32 // byte offset 8-11
	// PayloadOffset is the byte offset to the start of the schema payload section.
	// It records the offset after the index section.
	PayloadOffset uint32 // byte offset 12-15
	// PayloadLength is the byte length of the schema payload section as stored,
	// after compression when compression is enabled.
	PayloadLength uint32 // byte offset 16-19
	// SchemaChecksum is the checksum of the uncompressed schema payload.
	SchemaChecksum uint32 // byte offset 20-23

	// CreatedAt is the creation time of the descriptor. The unix timestamp in microseconds.
	CreatedAt int64 // byte offset 24-31
}

// NewHeader creates a new Header with the given creation time.
// The struct count, payload offsets and checksum will be set when the encoder finishes.
func NewHeader(createdAt time.Time) *Header {
	return &Header{
		Flag:          NewFlag(),
		IndexOffset:   IndexOffsetOffset,
		PayloadOffset: 0, // Will be calculated in Finish()
		StructCount:   0, // Will be set in Finish()
		CreatedAt:     createdAt.UnixMicro(),
	}
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing header (must be exactly 32 bytes)
//
// Returns:
//   - error: ErrInvalidHeaderSize if data is not 32 bytes, or flag validation errors
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	// Parse options first to determine endianness (always little-endian for Options field itself)
	h.Flag.Options = uint16(data[0]) | (uint16(data[1]) << 8)
	h.Flag.CompressionType = data[2]
	h.Flag.Reserved = data[3]

	engine := h.Flag.GetEndianEngine()

	h.StructCount = engine.Uint32(data[4:8])
	h.IndexOffset = engine.Uint32(data[8:12])
	h.PayloadOffset = engine.Uint32(data[12:16])
	h.PayloadLength = engine.Uint32(data[16:20])
	h.SchemaChecksum = engine.Uint32(data[20:24])

	// Use unsafe pointer conversion to interpret bytes as signed int64
	createdAtUint := engine.Uint64(data[24:32])
	h.CreatedAt = *(*int64)(unsafe.Pointer(&createdAtUint))

	return h.Flag.Validate()
}

// Bytes serializes the Header into a byte slice.
func (h *Header) Bytes() []byte {
	b := make([]byte, HeaderSize)

	engine := h.Flag.GetEndianEngine()

	engine.PutUint16(b[0:2], h.Flag.Options)
	b[2] = h.Flag.CompressionType
	b[3] = h.Flag.Reserved
	engine.PutUint32(b[4:8], h.StructCount)
	engine.PutUint32(b[8:12], h.IndexOffset)
	engine.PutUint32(b[12:16], h.PayloadOffset)
	engine.PutUint32(b[16:20], h.PayloadLength)
	engine.PutUint32(b[20:24], h.SchemaChecksum)
	// Use bitwise conversion to avoid overflow warning - timestamps are stored as-is in binary
	engine.PutUint64(b[24:32], *(*uint64)(unsafe.Pointer(&h.CreatedAt)))

	return b
}

// CreatedAtTime returns the creation time as a time.Time object.
//
// Returns:
//   - time.Time: Creation time converted from microseconds since Unix epoch
func (h *Header) CreatedAtTime() time.Time {
	return time.UnixMicro(h.CreatedAt)
}

// ParseHeader parses a Header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing header (must be at least 32 bytes)
//
// Returns:
//   - Header: Parsed header struct
//   - error: ErrInvalidHeaderSize or flag validation errors
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, errs.ErrInvalidHeaderSize
	}

	h := Header{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return Header{}, err
	}

	return h, nil
}
