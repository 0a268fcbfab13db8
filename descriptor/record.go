package descriptor

import (
	"fmt"
	"math"

	"github.com/structlab/crepr/endian"
	"github.com/structlab/crepr/errs"
	"github.com/structlab/crepr/format"
	"github.com/structlab/crepr/schema"
)

// Struct record wire format, all integers in the bundle byte order:
//
//	[NameLen: uint16][Name: UTF-8]
//	[Size: uint64][Align: uint32][FieldCount: uint16]
//	FieldCount × field record
//
// Field record:
//
//	[NameLen: uint16][Name: UTF-8]
//	[Kind: uint8][Count: uint32]
//	[Offset: uint64][Size: uint64][Align: uint32]
//	[TypeNameLen: uint16][TypeName: UTF-8]
//
// TypeName is empty for primitive fields and names the referenced struct for
// KindStruct fields. Counts of 0 and 1 both mean a scalar field.

// appendRecord appends the wire record for a resolved struct layout to dst
// and returns the extended slice.
func appendRecord(dst []byte, sl *schema.StructLayout, engine endian.EndianEngine) ([]byte, error) {
	if len(sl.Name) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: struct name exceeds maximum length %d bytes", errs.ErrInvalidStructName, math.MaxUint16)
	}

	if len(sl.Fields) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: struct %q has %d fields, maximum is %d",
			errs.ErrInvalidSchemaPayload, sl.Name, len(sl.Fields), math.MaxUint16)
	}

	if sl.Align > math.MaxUint32 {
		return nil, fmt.Errorf("%w: struct %q alignment %d exceeds uint32",
			errs.ErrInvalidSchemaPayload, sl.Name, sl.Align)
	}

	dst = engine.AppendUint16(dst, uint16(len(sl.Name))) //nolint: gosec
	dst = append(dst, sl.Name...)
	dst = engine.AppendUint64(dst, sl.Size)
	dst = engine.AppendUint32(dst, uint32(sl.Align))       //nolint: gosec
	dst = engine.AppendUint16(dst, uint16(len(sl.Fields))) //nolint: gosec

	for i := range sl.Fields {
		f := &sl.Fields[i]

		if len(f.Name) > math.MaxUint16 {
			return nil, fmt.Errorf("%w: field name exceeds maximum length %d bytes", errs.ErrInvalidFieldName, math.MaxUint16)
		}

		if len(f.TypeName) > math.MaxUint16 {
			return nil, fmt.Errorf("%w: field %s.%s type name exceeds maximum length %d bytes",
				errs.ErrInvalidSchemaPayload, sl.Name, f.Name, math.MaxUint16)
		}

		if f.Align > math.MaxUint32 {
			return nil, fmt.Errorf("%w: field %s.%s alignment %d exceeds uint32",
				errs.ErrInvalidSchemaPayload, sl.Name, f.Name, f.Align)
		}

		dst = engine.AppendUint16(dst, uint16(len(f.Name))) //nolint: gosec
		dst = append(dst, f.Name...)
		dst = append(dst, uint8(f.Kind))
		dst = engine.AppendUint32(dst, f.Count)
		dst = engine.AppendUint64(dst, f.Offset)
		dst = engine.AppendUint64(dst, f.Size)
		dst = engine.AppendUint32(dst, uint32(f.Align))         //nolint: gosec
		dst = engine.AppendUint16(dst, uint16(len(f.TypeName))) //nolint: gosec
		dst = append(dst, f.TypeName...)
	}

	return dst, nil
}

// parseRecord parses one struct record from data. The slice must contain
// exactly one record; trailing bytes are rejected so a corrupted index entry
// length cannot go unnoticed.
func parseRecord(data []byte, engine endian.EndianEngine) (*schema.StructLayout, error) {
	offset := 0

	name, offset, err := parseName(data, offset, engine, "struct name")
	if err != nil {
		return nil, err
	}

	if len(data) < offset+14 {
		return nil, fmt.Errorf("%w: cannot read struct %q size and field count (need 14 bytes at offset %d, have %d total)",
			errs.ErrInvalidSchemaPayload, name, offset, len(data))
	}

	sl := &schema.StructLayout{
		Name:  name,
		Size:  engine.Uint64(data[offset : offset+8]),
		Align: uint64(engine.Uint32(data[offset+8 : offset+12])),
	}
	fieldCount := int(engine.Uint16(data[offset+12 : offset+14]))
	offset += 14

	sl.Fields = make([]schema.FieldLayout, fieldCount)
	for i := 0; i < fieldCount; i++ {
		offset, err = parseFieldRecord(data, offset, engine, &sl.Fields[i])
		if err != nil {
			return nil, fmt.Errorf("struct %q field %d: %w", name, i, err)
		}
	}

	if offset != len(data) {
		return nil, fmt.Errorf("%w: struct %q record has %d trailing bytes",
			errs.ErrInvalidSchemaPayload, name, len(data)-offset)
	}

	return sl, nil
}

// parseFieldRecord parses one field record into out and returns the next
// read position.
func parseFieldRecord(data []byte, offset int, engine endian.EndianEngine, out *schema.FieldLayout) (int, error) {
	name, offset, err := parseName(data, offset, engine, "field name")
	if err != nil {
		return 0, err
	}

	if len(data) < offset+25 {
		return 0, fmt.Errorf("%w: cannot read field %q record (need 25 bytes at offset %d, have %d total)",
			errs.ErrInvalidSchemaPayload, name, offset, len(data))
	}

	kind := format.Kind(data[offset])
	if !kind.IsValid() {
		return 0, fmt.Errorf("%w: field %q kind 0x%02X", errs.ErrInvalidFieldKind, name, uint8(kind))
	}

	out.Name = name
	out.Kind = kind
	out.Count = engine.Uint32(data[offset+1 : offset+5])
	out.Offset = engine.Uint64(data[offset+5 : offset+13])
	out.Size = engine.Uint64(data[offset+13 : offset+21])
	out.Align = uint64(engine.Uint32(data[offset+21 : offset+25]))
	offset += 25

	out.TypeName, offset, err = parseName(data, offset, engine, "type name")
	if err != nil {
		return 0, err
	}

	if kind == format.KindStruct && out.TypeName == "" {
		return 0, fmt.Errorf("%w: field %q", errs.ErrMissingTypeName, name)
	}

	return offset, nil
}

// parseName reads one length-prefixed string and returns it with the next
// read position.
func parseName(data []byte, offset int, engine endian.EndianEngine, what string) (string, int, error) {
	if len(data) < offset+2 {
		return "", 0, fmt.Errorf("%w: cannot read %s length (need 2 bytes at offset %d, have %d total)",
			errs.ErrInvalidSchemaPayload, what, offset, len(data))
	}

	nameLen := int(engine.Uint16(data[offset:]))
	offset += 2

	if len(data) < offset+nameLen {
		return "", 0, fmt.Errorf("%w: cannot read %s (need %d bytes at offset %d, have %d total)",
			errs.ErrInvalidSchemaPayload, what, nameLen, offset, len(data))
	}

	// Convert bytes to string (creates a copy)
	name := string(data[offset : offset+nameLen])

	return name, offset + nameLen, nil
}
