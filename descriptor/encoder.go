package descriptor

import (
	"fmt"
	"math"

	"github.com/structlab/crepr/compress"
	"github.com/structlab/crepr/errs"
	"github.com/structlab/crepr/internal/collision"
	"github.com/structlab/crepr/internal/hash"
	"github.com/structlab/crepr/internal/options"
	"github.com/structlab/crepr/internal/pool"
	"github.com/structlab/crepr/schema"
	"github.com/structlab/crepr/section"
)

// Encoder encodes resolved struct layouts into the binary descriptor format.
//
// Layouts are added one at a time with Add and the finished bundle is
// assembled by Finish. Struct names are hashed with xxHash64 for the index;
// when two names collide the bundle is marked so readers fall back to
// matching records by name.
//
// Note: The Encoder is NOT thread-safe. Each encoder instance should be used by a single goroutine at a time.
//
// Note: The Encoder is NOT reusable. After calling Finish, a new encoder must be created for further encoding.
type Encoder struct {
	*EncoderConfig

	payload *pool.ByteBuffer
	scratch []byte
	tracker *collision.Tracker
}

// NewEncoder creates a new Encoder configured by the given options.
//
// Parameters:
//   - opts: Optional configuration (endianness, compression, creation time)
//
// Returns:
//   - *Encoder: New encoder instance ready for Add calls
//   - error: Option application errors or invalid compression type
func NewEncoder(opts ...Option) (*Encoder, error) {
	config := NewEncoderConfig()

	if err := options.Apply(config, opts...); err != nil {
		return nil, err
	}

	codec, err := compress.CreateCodec(config.header.Flag.Compression(), "schema payload")
	if err != nil {
		return nil, err
	}
	config.codec = codec

	return &Encoder{
		EncoderConfig: config,
		payload:       pool.GetDescriptorBuffer(),
		tracker:       collision.NewTracker(),
	}, nil
}

// cloneHeader returns a copy of the configured header so Finish can fill in
// the computed fields without mutating the original.
func (e *Encoder) cloneHeader() *section.Header {
	clone := *e.header

	return &clone
}

// Add appends one resolved struct layout to the bundle.
//
// The layout is serialized immediately, so later mutations of sl do not
// affect the bundle. Layouts are stored in Add order.
//
// Parameters:
//   - sl: Resolved struct layout, typically from a schema.Registry or bind.Describe
//
// Returns:
//   - error: ErrNilStructLayout, ErrStructCountExceeded, ErrInvalidStructName,
//     ErrStructAlreadyAdded, ErrPayloadSizeExceeded, or record encoding errors
func (e *Encoder) Add(sl *schema.StructLayout) error {
	if sl == nil {
		return errs.ErrNilStructLayout
	}

	if len(e.entries) >= section.MaxStructCount {
		return fmt.Errorf("%w: maximum %d structs per bundle", errs.ErrStructCountExceeded, section.MaxStructCount)
	}

	record, err := appendRecord(e.scratch[:0], sl, e.engine)
	if err != nil {
		return err
	}
	e.scratch = record[:0]

	nameHash := hash.ID(sl.Name)
	if err := e.tracker.TrackStruct(sl.Name, nameHash); err != nil {
		return err
	}

	start := e.payload.Len()
	if uint64(start)+uint64(len(record)) > math.MaxUint32 {
		return fmt.Errorf("%w: adding struct %q grows the payload past %d bytes",
			errs.ErrPayloadSizeExceeded, sl.Name, math.MaxUint32)
	}

	e.entries = append(e.entries, section.IndexEntry{
		NameHash: nameHash,
		Offset:   uint32(start),       //nolint: gosec
		Length:   uint32(len(record)), //nolint: gosec
	})

	if _, err := e.payload.Write(record); err != nil {
		return err
	}

	return nil
}

// Count returns the number of struct layouts added so far.
func (e *Encoder) Count() int {
	return len(e.entries)
}

// Finish assembles and returns the encoded descriptor bundle.
//
// The schema payload is checksummed, compressed with the configured codec
// and laid out after the header and index sections. The returned slice is
// newly allocated and owned by the caller.
//
// Returns:
//   - []byte: Complete descriptor bundle
//   - error: ErrNoStructAdded, compression errors, or ErrPayloadSizeExceeded
func (e *Encoder) Finish() ([]byte, error) {
	// Return the payload buffer to the pool on all paths
	defer func() {
		if e.payload != nil {
			pool.PutDescriptorBuffer(e.payload)
			e.payload = nil
		}
	}()

	if len(e.entries) == 0 {
		return nil, errs.ErrNoStructAdded
	}

	// Clone header to keep the configured header immutable.
	// All computed fields are set on the clone.
	finalHeader := e.cloneHeader()

	if e.tracker.HasCollision() {
		finalHeader.Flag.MarkCollision()
	}

	finalHeader.StructCount = uint32(len(e.entries)) //nolint: gosec

	schemaPayload := e.payload.Bytes()
	finalHeader.SchemaChecksum = hash.Checksum32(schemaPayload)

	compressed, err := e.codec.Compress(schemaPayload)
	if err != nil {
		return nil, fmt.Errorf("failed to compress schema payload: %w", err)
	}

	if uint64(len(compressed)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: compressed payload is %d bytes", errs.ErrPayloadSizeExceeded, len(compressed))
	}

	indexSize := section.IndexEntrySize * len(e.entries)
	finalHeader.PayloadOffset = finalHeader.IndexOffset + uint32(indexSize) //nolint: gosec
	finalHeader.PayloadLength = uint32(len(compressed))                     //nolint: gosec

	// Allocate exact-size buffer for the final bundle.
	// No need for a pooled buffer since we return this directly to caller.
	bundleSize := section.HeaderSize + indexSize + len(compressed)
	bundle := make([]byte, bundleSize)
	offset := 0

	// Copy cloned header with all computed fields
	offset += copy(bundle[offset:], finalHeader.Bytes())

	// Write index entries
	for i := range e.entries {
		offset = e.entries[i].WriteToSlice(bundle, offset, e.engine)
	}

	// Copy compressed schema payload
	copy(bundle[offset:], compressed)

	return bundle, nil
}
