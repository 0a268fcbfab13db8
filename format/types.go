package format

type (
	Kind            uint8
	CompressionType uint8
)

const (
	KindInvalid Kind = 0x0 // KindInvalid represents an unknown field kind.
	KindU8      Kind = 0x1 // KindU8 represents an unsigned 8-bit integer.
	KindU16     Kind = 0x2 // KindU16 represents an unsigned 16-bit integer.
	KindU32     Kind = 0x3 // KindU32 represents an unsigned 32-bit integer.
	KindU64     Kind = 0x4 // KindU64 represents an unsigned 64-bit integer.
	KindI8      Kind = 0x5 // KindI8 represents a signed 8-bit integer.
	KindI16     Kind = 0x6 // KindI16 represents a signed 16-bit integer.
	KindI32     Kind = 0x7 // KindI32 represents a signed 32-bit integer.
	KindI64     Kind = 0x8 // KindI64 represents a signed 64-bit integer.
	KindF32     Kind = 0x9 // KindF32 represents a 32-bit IEEE 754 float.
	KindF64     Kind = 0xA // KindF64 represents a 64-bit IEEE 754 float.
	KindBool    Kind = 0xB // KindBool represents a single-byte boolean.
	KindStruct  Kind = 0xC // KindStruct represents a nested named struct.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// Size returns the byte size of a primitive kind, or 0 for KindStruct and
// KindInvalid whose sizes come from their own layouts.
func (k Kind) Size() uint64 {
	switch k {
	case KindU8, KindI8, KindBool:
		return 1
	case KindU16, KindI16:
		return 2
	case KindU32, KindI32, KindF32:
		return 4
	case KindU64, KindI64, KindF64:
		return 8
	default:
		return 0
	}
}

// Align returns the natural C alignment of a primitive kind, which equals
// its size on the common 64-bit ABIs this library targets. It returns 0 for
// KindStruct and KindInvalid.
func (k Kind) Align() uint64 {
	return k.Size()
}

// IsPrimitive reports whether the kind has a fixed size of its own.
func (k Kind) IsPrimitive() bool {
	return k >= KindU8 && k <= KindBool
}

// IsValid reports whether the kind is one of the defined field kinds.
func (k Kind) IsValid() bool {
	return k >= KindU8 && k <= KindStruct
}

func (k Kind) String() string {
	switch k {
	case KindU8:
		return "uint8"
	case KindU16:
		return "uint16"
	case KindU32:
		return "uint32"
	case KindU64:
		return "uint64"
	case KindI8:
		return "int8"
	case KindI16:
		return "int16"
	case KindI32:
		return "int32"
	case KindI64:
		return "int64"
	case KindF32:
		return "float32"
	case KindF64:
		return "float64"
	case KindBool:
		return "bool"
	case KindStruct:
		return "struct"
	default:
		return "invalid"
	}
}

// KindFromGoType maps a Go primitive type name to its kind. It returns
// KindInvalid for names with no C-compatible layout, including the
// platform-width int, uint and uintptr.
func KindFromGoType(name string) Kind {
	switch name {
	case "uint8", "byte":
		return KindU8
	case "uint16":
		return KindU16
	case "uint32":
		return KindU32
	case "uint64":
		return KindU64
	case "int8":
		return KindI8
	case "int16":
		return KindI16
	case "int32", "rune":
		return KindI32
	case "int64":
		return KindI64
	case "float32":
		return KindF32
	case "float64":
		return KindF64
	case "bool":
		return KindBool
	default:
		return KindInvalid
	}
}

// IsValid reports whether the compression type is one of the defined codecs.
func (c CompressionType) IsValid() bool {
	return c >= CompressionNone && c <= CompressionLZ4
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
