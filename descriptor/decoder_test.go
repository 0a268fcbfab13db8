package descriptor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/structlab/crepr/errs"
	"github.com/structlab/crepr/format"
	"github.com/structlab/crepr/internal/hash"
	"github.com/structlab/crepr/schema"
	"github.com/structlab/crepr/section"
)

func decodeBundle(t *testing.T, bundle []byte) *Descriptor {
	t.Helper()

	decoder, err := NewDecoder(bundle)
	require.NoError(t, err)

	desc, err := decoder.Decode()
	require.NoError(t, err)

	return desc
}

// ==============================================================================
// Decoder Tests
// ==============================================================================

func TestNewDecoder(t *testing.T) {
	t.Run("valid bundle", func(t *testing.T) {
		bundle := createTestBundle(t)

		decoder, err := NewDecoder(bundle)

		require.NoError(t, err)
		require.NotNil(t, decoder)
	})

	t.Run("truncated header", func(t *testing.T) {
		_, err := NewDecoder(make([]byte, section.HeaderSize-1))

		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
	})

	t.Run("invalid magic number", func(t *testing.T) {
		bundle := createTestBundle(t)
		bundle[0] = 0x00
		bundle[1] = 0x00

		_, err := NewDecoder(bundle)

		require.ErrorIs(t, err, errs.ErrInvalidMagicNumber)
	})

	t.Run("invalid compression byte", func(t *testing.T) {
		bundle := createTestBundle(t)
		bundle[2] = 0x7E

		_, err := NewDecoder(bundle)

		require.ErrorIs(t, err, errs.ErrInvalidCompressionType)
	})

	t.Run("zero struct count", func(t *testing.T) {
		bundle := createTestBundle(t)
		patchHeaderU32(t, bundle, 4, 0)

		_, err := NewDecoder(bundle)

		require.ErrorIs(t, err, errs.ErrInvalidSchemaCount)
	})

	t.Run("struct count beyond limit", func(t *testing.T) {
		bundle := createTestBundle(t)
		patchHeaderU32(t, bundle, 4, section.MaxStructCount+1)

		_, err := NewDecoder(bundle)

		require.ErrorIs(t, err, errs.ErrInvalidSchemaCount)
	})

	t.Run("payload overlaps index", func(t *testing.T) {
		bundle := createTestBundle(t)
		patchHeaderU32(t, bundle, 12, section.HeaderSize)

		_, err := NewDecoder(bundle)

		require.ErrorIs(t, err, errs.ErrInvalidSchemaPayload)
	})

	t.Run("payload runs past data", func(t *testing.T) {
		bundle := createTestBundle(t)
		patchHeaderU32(t, bundle, 16, uint32(len(bundle)))

		_, err := NewDecoder(bundle)

		require.ErrorIs(t, err, errs.ErrInvalidSchemaPayload)
	})
}

// patchHeaderU32 overwrites a little-endian header field at the given byte
// offset. Test bundles are little-endian unless stated otherwise.
func patchHeaderU32(t *testing.T, bundle []byte, offset int, value uint32) {
	t.Helper()

	require.GreaterOrEqual(t, len(bundle), offset+4)
	bundle[offset] = byte(value)
	bundle[offset+1] = byte(value >> 8)
	bundle[offset+2] = byte(value >> 16)
	bundle[offset+3] = byte(value >> 24)
}

func TestDecoder_Decode(t *testing.T) {
	t.Run("checksum mismatch on payload corruption", func(t *testing.T) {
		bundle := createTestBundle(t)
		bundle[len(bundle)-1] ^= 0xFF

		decoder, err := NewDecoder(bundle)
		require.NoError(t, err)

		_, err = decoder.Decode()

		require.ErrorIs(t, err, errs.ErrChecksumMismatch)
	})

	t.Run("checksum mismatch on header corruption", func(t *testing.T) {
		bundle := createTestBundle(t)
		patchHeaderU32(t, bundle, 20, 0x12345678)

		decoder, err := NewDecoder(bundle)
		require.NoError(t, err)

		_, err = decoder.Decode()

		require.ErrorIs(t, err, errs.ErrChecksumMismatch)
	})

	t.Run("index hash disagrees with record name", func(t *testing.T) {
		bundle := createTestBundle(t)
		// First index entry hash lives at bytes 32-39
		bundle[section.HeaderSize] ^= 0xFF

		decoder, err := NewDecoder(bundle)
		require.NoError(t, err)

		_, err = decoder.Decode()

		require.ErrorIs(t, err, errs.ErrInvalidSchemaPayload)
	})

	t.Run("index entry points past payload", func(t *testing.T) {
		bundle := createTestBundle(t)
		// First index entry length lives at bytes 44-47
		patchHeaderU32(t, bundle, section.HeaderSize+12, 0xFFFFFF)

		decoder, err := NewDecoder(bundle)
		require.NoError(t, err)

		_, err = decoder.Decode()

		require.ErrorIs(t, err, errs.ErrInvalidSchemaPayload)
	})

	t.Run("truncated compressed payload", func(t *testing.T) {
		full := createTestBundle(t, WithCompression(format.CompressionZstd))
		header, err := section.ParseHeader(full)
		require.NoError(t, err)

		cut := uint32(10)
		require.Greater(t, header.PayloadLength, cut)
		bundle := full[:uint32(len(full))-cut]
		patchHeaderU32(t, bundle, 16, header.PayloadLength-cut)

		decoder, err := NewDecoder(bundle)
		require.NoError(t, err)

		_, err = decoder.Decode()

		require.Error(t, err)
	})
}

func TestDecoder_Decode_OffsetVerification(t *testing.T) {
	// The encoder serializes layouts as given; the decoder is the one that
	// recomputes and rejects. Feed it layouts with bad stored values.
	encode := func(t *testing.T, sl *schema.StructLayout) []byte {
		t.Helper()

		encoder, err := NewEncoder()
		require.NoError(t, err)
		require.NoError(t, encoder.Add(sl))

		bundle, err := encoder.Finish()
		require.NoError(t, err)

		return bundle
	}

	goodLayout := func(t *testing.T) *schema.StructLayout {
		t.Helper()

		sl, err := schema.LayoutOf(&schema.Struct{
			Name: "Sample",
			Fields: []schema.Field{
				{Name: "A", Kind: format.KindU8},
				{Name: "B", Kind: format.KindU32},
			},
		})
		require.NoError(t, err)

		return sl
	}

	t.Run("wrong field offset", func(t *testing.T) {
		sl := goodLayout(t)
		sl.Fields[1].Offset = 2 // must be 4

		decoder, err := NewDecoder(encode(t, sl))
		require.NoError(t, err)

		_, err = decoder.Decode()

		require.ErrorIs(t, err, errs.ErrOffsetMismatch)
	})

	t.Run("wrong struct size", func(t *testing.T) {
		sl := goodLayout(t)
		sl.Size = 12 // must be 8

		decoder, err := NewDecoder(encode(t, sl))
		require.NoError(t, err)

		_, err = decoder.Decode()

		require.ErrorIs(t, err, errs.ErrOffsetMismatch)
	})

	t.Run("wrong struct alignment", func(t *testing.T) {
		sl := goodLayout(t)
		sl.Align = 8 // must be 4

		decoder, err := NewDecoder(encode(t, sl))
		require.NoError(t, err)

		_, err = decoder.Decode()

		require.ErrorIs(t, err, errs.ErrOffsetMismatch)
	})

	t.Run("stored alignment not a power of two", func(t *testing.T) {
		sl := goodLayout(t)
		sl.Fields[1].Align = 3

		decoder, err := NewDecoder(encode(t, sl))
		require.NoError(t, err)

		_, err = decoder.Decode()

		require.ErrorIs(t, err, errs.ErrInvalidAlignment)
	})
}

// ==============================================================================
// Round Trip Tests
// ==============================================================================

func TestRoundTrip(t *testing.T) {
	reg := registryFixture(t)

	testCases := []struct {
		name string
		opts []Option
	}{
		{name: "default"},
		{name: "big endian", opts: []Option{WithBigEndian()}},
		{name: "zstd", opts: []Option{WithCompression(format.CompressionZstd)}},
		{name: "s2", opts: []Option{WithCompression(format.CompressionS2)}},
		{name: "lz4", opts: []Option{WithCompression(format.CompressionLZ4)}},
		{name: "big endian zstd", opts: []Option{WithBigEndian(), WithCompression(format.CompressionZstd)}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bundle := createTestBundle(t, tc.opts...)
			desc := decodeBundle(t, bundle)

			require.Equal(t, reg.Len(), desc.StructCount())

			for i, name := range reg.Names() {
				want := reg.MustLayout(name)

				got, ok := desc.Lookup(name)
				require.True(t, ok)
				require.Equal(t, want.Name, got.Name)
				require.Equal(t, want.Size, got.Size)
				require.Equal(t, want.Align, got.Align)
				require.Equal(t, want.Fields, got.Fields)

				// Bundle order matches Add order
				require.Same(t, got, desc.Structs()[i])
			}
		})
	}
}

func TestRoundTrip_EmptyStruct(t *testing.T) {
	sl, err := schema.LayoutOf(&schema.Struct{Name: "Empty"})
	require.NoError(t, err)

	encoder, err := NewEncoder()
	require.NoError(t, err)
	require.NoError(t, encoder.Add(sl))

	bundle, err := encoder.Finish()
	require.NoError(t, err)

	desc := decodeBundle(t, bundle)
	got, ok := desc.Lookup("Empty")
	require.True(t, ok)
	require.Equal(t, uint64(0), got.Size)
	require.Equal(t, uint64(1), got.Align)
	require.Empty(t, got.Fields)
}

func TestRoundTrip_CreatedAt(t *testing.T) {
	createdAt := time.Date(2025, 7, 4, 8, 30, 0, 0, time.UTC)
	bundle := createTestBundle(t, WithCreatedAt(createdAt))

	desc := decodeBundle(t, bundle)

	require.Equal(t, createdAt, desc.CreatedAt())
}

// ==============================================================================
// Descriptor Tests
// ==============================================================================

func TestDescriptor_Lookup(t *testing.T) {
	desc := decodeBundle(t, createTestBundle(t))

	sl, ok := desc.Lookup("Vertex")
	require.True(t, ok)
	require.Equal(t, "Vertex", sl.Name)

	offset, err := sl.Offset("BoneIndex")
	require.NoError(t, err)
	require.Equal(t, uint64(20), offset)

	_, ok = desc.Lookup("Unknown")
	require.False(t, ok)
}

func TestDescriptor_Layout(t *testing.T) {
	desc := decodeBundle(t, createTestBundle(t))

	sl, err := desc.Layout("PacketHeader")
	require.NoError(t, err)
	require.Equal(t, uint64(16), sl.Size)

	_, err = desc.Layout("Unknown")
	require.ErrorIs(t, err, errs.ErrStructNotFound)
}

func TestDescriptor_LookupHash(t *testing.T) {
	desc := decodeBundle(t, createTestBundle(t))

	sl, err := desc.LookupHash(hash.ID("Telemetry"))
	require.NoError(t, err)
	require.Equal(t, "Telemetry", sl.Name)

	_, err = desc.LookupHash(0xDEADBEEF)
	require.ErrorIs(t, err, errs.ErrStructNotFound)
}

func TestDescriptor_LookupHash_Collision(t *testing.T) {
	// Real xxHash64 collisions are impractical to construct, so build the
	// ambiguous state directly.
	a := &schema.StructLayout{Name: "A", Align: 1}
	b := &schema.StructLayout{Name: "B", Align: 1}
	desc := &Descriptor{
		structs: []*schema.StructLayout{a, b},
		byName:  map[string]int{"A": 0, "B": 1},
		byHash:  map[uint64][]int{0xAAAA: {0, 1}},
	}

	_, err := desc.LookupHash(0xAAAA)
	require.ErrorIs(t, err, errs.ErrHashCollision)

	// Name lookups stay exact
	got, ok := desc.Lookup("B")
	require.True(t, ok)
	require.Same(t, b, got)
}

func TestDescriptor_Structs_Copy(t *testing.T) {
	desc := decodeBundle(t, createTestBundle(t))

	structs := desc.Structs()
	require.Len(t, structs, 3)

	structs[0] = nil

	again := desc.Structs()
	require.NotNil(t, again[0])
}

func TestDescriptor_TypeNamePreserved(t *testing.T) {
	desc := decodeBundle(t, createTestBundle(t))

	sl, ok := desc.Lookup("Telemetry")
	require.True(t, ok)

	f, ok := sl.Field("Header")
	require.True(t, ok)
	require.Equal(t, format.KindStruct, f.Kind)
	require.Equal(t, "PacketHeader", f.TypeName)
	require.Equal(t, uint64(16), f.Size)
}

func TestDescriptor_HeaderAccess(t *testing.T) {
	bundle := createTestBundle(t, WithCompression(format.CompressionS2))
	desc := decodeBundle(t, bundle)

	header := desc.Header()
	require.Equal(t, format.CompressionS2, header.Flag.Compression())
	require.Equal(t, uint32(3), header.StructCount)
	require.False(t, desc.HasCollision())
}
