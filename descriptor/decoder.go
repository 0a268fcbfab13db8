package descriptor

import (
	"fmt"

	"github.com/structlab/crepr/compress"
	"github.com/structlab/crepr/endian"
	"github.com/structlab/crepr/errs"
	"github.com/structlab/crepr/internal/hash"
	"github.com/structlab/crepr/layout"
	"github.com/structlab/crepr/schema"
	"github.com/structlab/crepr/section"
)

// Decoder decodes an encoded descriptor bundle and reconstructs a Descriptor.
//
// Note: The Decoder is NOT thread-safe. Each decoder instance should be used by a single goroutine at a time.
//
// Note: The Decoder is NOT reusable. After calling Decode, a new decoder must be created for further decoding.
type Decoder struct {
	data   []byte
	engine endian.EndianEngine
	header *section.Header
}

// NewDecoder creates a new Decoder for the given encoded data.
//
// The decoder validates the header and section bounds but does not
// decompress the schema payload until Decode() is called.
//
// Parameters:
//   - data: Encoded bundle byte slice (must contain valid header)
//
// Returns:
//   - *Decoder: New decoder instance ready for decoding
//   - error: Header parsing error or invalid section bounds
func NewDecoder(data []byte) (*Decoder, error) {
	decoder := &Decoder{
		data: data,
	}

	if err := decoder.parseHeader(); err != nil {
		return nil, err
	}

	return decoder, nil
}

// parseHeader parses the header and validates the section bounds against the
// data length.
func (d *Decoder) parseHeader() error {
	header, err := section.ParseHeader(d.data)
	if err != nil {
		return err
	}

	d.header = &header
	d.engine = header.Flag.GetEndianEngine()

	if header.StructCount == 0 || header.StructCount > section.MaxStructCount {
		return fmt.Errorf("%w: header claims %d structs", errs.ErrInvalidSchemaCount, header.StructCount)
	}

	if header.IndexOffset < section.HeaderSize {
		return fmt.Errorf("%w: index offset %d overlaps the header", errs.ErrInvalidSchemaPayload, header.IndexOffset)
	}

	indexEnd := uint64(header.IndexOffset) + uint64(header.StructCount)*section.IndexEntrySize
	if uint64(header.PayloadOffset) < indexEnd {
		return fmt.Errorf("%w: payload offset %d overlaps the index section ending at %d",
			errs.ErrInvalidSchemaPayload, header.PayloadOffset, indexEnd)
	}

	payloadEnd := uint64(header.PayloadOffset) + uint64(header.PayloadLength)
	if payloadEnd > uint64(len(d.data)) {
		return fmt.Errorf("%w: payload section ends at %d but data is %d bytes",
			errs.ErrInvalidSchemaPayload, payloadEnd, len(d.data))
	}

	return nil
}

// Decode decodes the bundle into a Descriptor.
//
// This method decompresses the schema payload, verifies its checksum, parses
// the index and struct records, and recomputes every field offset from the
// stored sizes and alignments. A bundle whose stored offsets disagree with
// recomputation is rejected rather than trusted.
//
// Returns:
//   - *Descriptor: Decoded bundle with all struct layouts resolved
//   - error: Decompression errors, ErrChecksumMismatch, ErrInvalidSchemaPayload,
//     ErrOffsetMismatch, or index parsing errors
func (d *Decoder) Decode() (*Descriptor, error) {
	codec, err := compress.GetCodec(d.header.Flag.Compression())
	if err != nil {
		return nil, err
	}

	stored := d.data[d.header.PayloadOffset : d.header.PayloadOffset+d.header.PayloadLength]
	payload, err := codec.Decompress(stored)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress schema payload: %w", err)
	}

	if sum := hash.Checksum32(payload); sum != d.header.SchemaChecksum {
		return nil, fmt.Errorf("%w: computed 0x%08X, header has 0x%08X",
			errs.ErrChecksumMismatch, sum, d.header.SchemaChecksum)
	}

	count := int(d.header.StructCount)
	desc := &Descriptor{
		header:  *d.header,
		structs: make([]*schema.StructLayout, 0, count),
		byName:  make(map[string]int, count),
		byHash:  make(map[uint64][]int, count),
	}

	for i := 0; i < count; i++ {
		entryOffset := int(d.header.IndexOffset) + i*section.IndexEntrySize
		entry, err := section.ParseIndexEntry(d.data[entryOffset:], d.engine)
		if err != nil {
			return nil, err
		}

		if uint64(entry.Offset)+uint64(entry.Length) > uint64(len(payload)) {
			return nil, fmt.Errorf("%w: index entry %d points past the payload (offset %d, length %d, payload %d bytes)",
				errs.ErrInvalidSchemaPayload, i, entry.Offset, entry.Length, len(payload))
		}

		sl, err := parseRecord(payload[entry.Offset:entry.End()], d.engine)
		if err != nil {
			return nil, err
		}

		if nameHash := hash.ID(sl.Name); nameHash != entry.NameHash {
			return nil, fmt.Errorf("%w: index entry %d hash 0x%016X disagrees with struct name %q",
				errs.ErrInvalidSchemaPayload, i, entry.NameHash, sl.Name)
		}

		if err := verifyLayout(sl); err != nil {
			return nil, err
		}

		if _, exists := desc.byName[sl.Name]; exists {
			return nil, fmt.Errorf("%w: struct %q appears twice", errs.ErrInvalidSchemaPayload, sl.Name)
		}

		desc.structs = append(desc.structs, sl)
		desc.byName[sl.Name] = i
		desc.byHash[entry.NameHash] = append(desc.byHash[entry.NameHash], i)
	}

	return desc, nil
}

// verifyLayout recomputes the field offsets of sl from its stored sizes and
// alignments and rejects any disagreement with the stored values.
func verifyLayout(sl *schema.StructLayout) error {
	fields := make([]layout.Field, len(sl.Fields))
	for i := range sl.Fields {
		fields[i] = layout.Field{Size: sl.Fields[i].Size, Align: sl.Fields[i].Align}
	}

	result, err := layout.Compute(fields)
	if err != nil {
		return fmt.Errorf("struct %q: %w", sl.Name, err)
	}

	for i := range sl.Fields {
		if got := result.At(i); got != sl.Fields[i].Offset {
			return fmt.Errorf("%w: struct %q field %q stored at %d, layout places it at %d",
				errs.ErrOffsetMismatch, sl.Name, sl.Fields[i].Name, sl.Fields[i].Offset, got)
		}
	}

	if result.Size() != sl.Size {
		return fmt.Errorf("%w: struct %q stored size %d, layout computes %d",
			errs.ErrOffsetMismatch, sl.Name, sl.Size, result.Size())
	}

	if result.Align() != sl.Align {
		return fmt.Errorf("%w: struct %q stored alignment %d, layout computes %d",
			errs.ErrOffsetMismatch, sl.Name, sl.Align, result.Align())
	}

	return nil
}
