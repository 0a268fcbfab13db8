// Package errs defines sentinel errors shared across the crepr library.
//
// Callers match these with errors.Is; call sites wrap them with fmt.Errorf
// and %w to attach context.
package errs

import "errors"

// Layout calculation errors.
var (
	// ErrInvalidAlignment indicates a field alignment that is zero or not a
	// power of two. Alignments come from type descriptions, so this is a
	// configuration error, not a data error.
	ErrInvalidAlignment = errors.New("alignment must be a power of two")

	// ErrLayoutOverflow indicates the layout cursor overflowed uint64 while
	// aligning or advancing past a field.
	ErrLayoutOverflow = errors.New("layout size overflows uint64")
)

// Schema definition and resolution errors.
var (
	// ErrInvalidStructName indicates an empty struct name.
	ErrInvalidStructName = errors.New("invalid struct name")

	// ErrInvalidFieldName indicates an empty field name.
	ErrInvalidFieldName = errors.New("invalid field name")

	// ErrDuplicateFieldName indicates two fields of one struct share a name.
	ErrDuplicateFieldName = errors.New("duplicate field name")

	// ErrInvalidFieldKind indicates a field kind outside the known set.
	ErrInvalidFieldKind = errors.New("invalid field kind")

	// ErrMissingTypeName indicates a struct-kind field without a type name.
	ErrMissingTypeName = errors.New("struct field requires a type name")

	// ErrStructAlreadyRegistered indicates a duplicate struct name in a registry.
	ErrStructAlreadyRegistered = errors.New("struct already registered")

	// ErrStructNotFound indicates a reference to a struct name that is not
	// registered.
	ErrStructNotFound = errors.New("struct not found")

	// ErrTypeCycle indicates a struct that contains itself, directly or
	// through other structs.
	ErrTypeCycle = errors.New("struct reference cycle")

	// ErrFieldNotFound indicates an offset lookup for a field name the
	// layout does not contain.
	ErrFieldNotFound = errors.New("field not found")
)

// Reflection binding errors.
var (
	// ErrNotStruct indicates a value whose underlying type is not a struct.
	ErrNotStruct = errors.New("value is not a struct")

	// ErrUnsupportedType indicates a Go type with no C-compatible layout,
	// such as a pointer, slice, map, string, or platform-width integer.
	ErrUnsupportedType = errors.New("unsupported field type")
)

// Descriptor bundle errors.
var (
	// ErrInvalidHeaderSize indicates a header slice shorter than HeaderSize.
	ErrInvalidHeaderSize = errors.New("invalid header size")

	// ErrInvalidHeaderFlags indicates a header flag word that fails validation.
	ErrInvalidHeaderFlags = errors.New("invalid header flags")

	// ErrInvalidMagicNumber indicates a flag word without the descriptor magic.
	ErrInvalidMagicNumber = errors.New("invalid magic number")

	// ErrInvalidCompressionType indicates an unknown compression type byte.
	ErrInvalidCompressionType = errors.New("invalid compression type")

	// ErrInvalidIndexEntrySize indicates an index entry slice shorter than
	// IndexEntrySize.
	ErrInvalidIndexEntrySize = errors.New("invalid index entry size")

	// ErrInvalidSchemaCount indicates a header struct count that disagrees
	// with the index section.
	ErrInvalidSchemaCount = errors.New("invalid schema count")

	// ErrInvalidSchemaPayload indicates a truncated or malformed schema
	// payload record.
	ErrInvalidSchemaPayload = errors.New("invalid schema payload")

	// ErrChecksumMismatch indicates the schema payload checksum does not
	// match the header.
	ErrChecksumMismatch = errors.New("schema payload checksum mismatch")

	// ErrOffsetMismatch indicates stored field offsets that disagree with
	// recomputation from the stored sizes and alignments.
	ErrOffsetMismatch = errors.New("stored offsets disagree with layout")

	// ErrHashCollision indicates two distinct struct names hashing to the
	// same identifier where the format cannot represent both.
	ErrHashCollision = errors.New("struct name hash collision")

	// ErrNilStructLayout indicates Add was called with a nil layout.
	ErrNilStructLayout = errors.New("nil struct layout")

	// ErrStructAlreadyAdded indicates Add was called twice with one name.
	ErrStructAlreadyAdded = errors.New("struct already added")

	// ErrNoStructAdded indicates Finish was called on an empty encoder.
	ErrNoStructAdded = errors.New("no struct added")

	// ErrStructCountExceeded indicates more structs than the bundle format
	// can index.
	ErrStructCountExceeded = errors.New("struct count exceeded")

	// ErrPayloadSizeExceeded indicates a schema payload too large for the
	// 32-bit offsets in the header and index.
	ErrPayloadSizeExceeded = errors.New("schema payload size exceeded")
)

// Vertex descriptor errors.
var (
	// ErrUnsupportedFormat indicates a field shape with no vertex attribute
	// format, such as a nested struct or a vector wider than four lanes.
	ErrUnsupportedFormat = errors.New("no vertex format for field")
)

// Code generation errors.
var (
	// ErrInvalidIdentifier indicates a package, prefix, or generated constant
	// name that is not a valid Go identifier.
	ErrInvalidIdentifier = errors.New("not a valid Go identifier")

	// ErrDuplicateConstName indicates two fields whose generated constant
	// names collide.
	ErrDuplicateConstName = errors.New("duplicate generated constant name")

	// ErrNoStructSelected indicates a generate call with nothing to emit.
	ErrNoStructSelected = errors.New("no structs selected for generation")
)
