package section

import (
	"bytes"

	"github.com/structlab/crepr/endian"
	"github.com/structlab/crepr/errs"
)

// IndexEntry records the location of a single struct record in the schema
// payload section. It is a fixed size of 16 bytes so readers can binary-search
// or scan the index without decoding the payload.
//
// Offsets are absolute byte positions into the uncompressed schema payload,
// not into the bundle itself. The payload section may be compressed on disk;
// entries refer to positions after decompression.
type IndexEntry struct {
	// NameHash is the xxHash64 hash of the struct name string.
	//
	// Offset: 0, Size: 8 bytes
	NameHash uint64

	// Offset is the absolute byte offset of the struct record within the
	// uncompressed schema payload.
	//
	// Offset: 8, Size: 4 bytes
	Offset uint32

	// Length is the byte length of the struct record within the uncompressed
	// schema payload.
	//
	// Offset: 12, Size: 4 bytes
	Length uint32
}

// NewIndexEntry creates a new IndexEntry with the specified name hash.
//
// Offset and length are initialized to zero and should be set by the encoder.
//
// Parameters:
//   - nameHash: xxHash64 hash of the struct name
//
// Returns:
//   - IndexEntry: New index entry with zero offset and length
func NewIndexEntry(nameHash uint64) IndexEntry {
	return IndexEntry{
		NameHash: nameHash,
		Offset:   0,
		Length:   0,
	}
}

// Bytes returns the index entry as a byte slice using the specified endian engine.
//
// Parameters:
//   - engine: Endian engine for byte order
//
// Returns:
//   - []byte: 16-byte index entry with all fields encoded
func (e *IndexEntry) Bytes(engine endian.EndianEngine) []byte {
	var b [IndexEntrySize]byte // stack allocation, it's faster than heap allocation
	engine.PutUint64(b[0:8], e.NameHash)
	engine.PutUint32(b[8:12], e.Offset)
	engine.PutUint32(b[12:16], e.Length)

	return b[:]
}

// WriteTo writes the index entry to a buffer using the specified endian engine.
//
// Parameters:
//   - buf: Buffer to write to (will grow if needed)
//   - engine: Endian engine for byte order
func (e *IndexEntry) WriteTo(buf *bytes.Buffer, engine endian.EndianEngine) {
	buf.Grow(IndexEntrySize)

	start := buf.Len()
	var b [IndexEntrySize]byte
	buf.Write(b[:])

	// Write directly to the allocated space
	data := buf.Bytes()[start : start+IndexEntrySize]
	engine.PutUint64(data[0:8], e.NameHash)
	engine.PutUint32(data[8:12], e.Offset)
	engine.PutUint32(data[12:16], e.Length)
}

// WriteToSlice writes to a pre-allocated slice and returns the next position.
//
// This is the most efficient method when writing multiple entries sequentially.
//
// Parameters:
//   - data: Pre-allocated byte slice (must have space for 16 bytes at offset)
//   - offset: Starting position in data slice
//   - engine: Endian engine for byte order
//
// Returns:
//   - int: Next write position (offset + 16)
func (e *IndexEntry) WriteToSlice(data []byte, offset int, engine endian.EndianEngine) int {
	engine.PutUint64(data[offset:offset+8], e.NameHash)
	engine.PutUint32(data[offset+8:offset+12], e.Offset)
	engine.PutUint32(data[offset+12:offset+16], e.Length)

	return offset + IndexEntrySize
}

// End returns the byte offset just past this struct record in the
// uncompressed schema payload.
func (e IndexEntry) End() uint32 {
	return e.Offset + e.Length
}

// ParseIndexEntry parses an IndexEntry from a byte slice.
//
// Parameters:
//   - data: Byte slice containing index entry (must be at least 16 bytes)
//   - engine: Endian engine for byte order
//
// Returns:
//   - IndexEntry: Parsed index entry
//   - error: ErrInvalidIndexEntrySize if data is too short
func ParseIndexEntry(data []byte, engine endian.EndianEngine) (IndexEntry, error) {
	if len(data) < IndexEntrySize {
		return IndexEntry{}, errs.ErrInvalidIndexEntrySize
	}

	return IndexEntry{
		NameHash: engine.Uint64(data[0:8]),
		Offset:   engine.Uint32(data[8:12]),
		Length:   engine.Uint32(data[12:16]),
	}, nil
}
