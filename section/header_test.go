package section

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/structlab/crepr/endian"
	"github.com/structlab/crepr/errs"
	"github.com/structlab/crepr/format"
)

func TestNewHeader(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	header := NewHeader(createdAt)

	require.NotNil(t, header)
	require.Equal(t, createdAt.UnixMicro(), header.CreatedAt)
	require.Equal(t, uint32(IndexOffsetOffset), header.IndexOffset)
	require.Equal(t, uint32(0), header.StructCount)
	require.Equal(t, uint32(0), header.PayloadOffset)
	require.Equal(t, uint32(0), header.SchemaChecksum)
	require.True(t, header.Flag.IsValidMagicNumber())
	require.True(t, header.Flag.IsLittleEndian())
}

func TestHeader_Parse(t *testing.T) {
	t.Run("valid header", func(t *testing.T) {
		createdAt := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		original := NewHeader(createdAt)
		original.StructCount = 10
		original.PayloadOffset = 192
		original.PayloadLength = 844
		original.SchemaChecksum = 0xDEADBEEF
		original.Flag.SetCompression(format.CompressionZstd)

		data := original.Bytes()

		parsed := &Header{}
		err := parsed.Parse(data)

		require.NoError(t, err)
		require.Equal(t, original.CreatedAt, parsed.CreatedAt)
		require.Equal(t, original.StructCount, parsed.StructCount)
		require.Equal(t, original.IndexOffset, parsed.IndexOffset)
		require.Equal(t, original.PayloadOffset, parsed.PayloadOffset)
		require.Equal(t, original.PayloadLength, parsed.PayloadLength)
		require.Equal(t, original.SchemaChecksum, parsed.SchemaChecksum)
		require.Equal(t, format.CompressionZstd, parsed.Flag.Compression())
	})

	t.Run("big endian round trip", func(t *testing.T) {
		original := NewHeader(time.Now())
		original.Flag.WithBigEndian()
		original.StructCount = 3
		original.PayloadOffset = 80
		original.PayloadLength = 4096

		data := original.Bytes()

		parsed := &Header{}
		err := parsed.Parse(data)

		require.NoError(t, err)
		require.True(t, parsed.Flag.IsBigEndian())
		require.Equal(t, original.StructCount, parsed.StructCount)
		require.Equal(t, original.PayloadOffset, parsed.PayloadOffset)
		require.Equal(t, original.PayloadLength, parsed.PayloadLength)
		require.Equal(t, original.CreatedAt, parsed.CreatedAt)
	})

	t.Run("negative created at", func(t *testing.T) {
		original := NewHeader(time.Date(1969, 12, 31, 23, 0, 0, 0, time.UTC))
		require.Negative(t, original.CreatedAt)

		parsed := &Header{}
		err := parsed.Parse(original.Bytes())

		require.NoError(t, err)
		require.Equal(t, original.CreatedAt, parsed.CreatedAt)
	})

	t.Run("invalid size", func(t *testing.T) {
		header := &Header{}
		err := header.Parse([]byte{1, 2, 3}) // Too short

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
	})

	t.Run("invalid magic number", func(t *testing.T) {
		data := make([]byte, HeaderSize)
		// Options bytes left zero, magic number absent
		header := &Header{}
		err := header.Parse(data)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrInvalidMagicNumber)
	})

	t.Run("invalid compression", func(t *testing.T) {
		original := NewHeader(time.Now())
		data := original.Bytes()
		data[2] = 0x7E

		header := &Header{}
		err := header.Parse(data)

		require.ErrorIs(t, err, errs.ErrInvalidCompressionType)
	})
}

func TestHeader_Bytes(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	header := NewHeader(createdAt)
	header.StructCount = 42
	header.PayloadOffset = 704
	header.PayloadLength = 12345

	data := header.Bytes()

	require.Len(t, data, HeaderSize)

	// Options field is stored little-endian so readers can bootstrap byte order
	require.Equal(t, byte(0x10), data[0])
	require.Equal(t, byte(0xCD), data[1])

	parsed := &Header{}
	err := parsed.Parse(data)
	require.NoError(t, err)
	require.Equal(t, header.CreatedAt, parsed.CreatedAt)
	require.Equal(t, header.StructCount, parsed.StructCount)
}

func TestHeader_CreatedAtTime(t *testing.T) {
	expectedTime := time.Date(2025, 6, 15, 12, 30, 45, 123456000, time.UTC)
	header := NewHeader(expectedTime)

	result := header.CreatedAtTime()

	require.Equal(t, expectedTime.Unix(), result.Unix())
	require.Equal(t, expectedTime.UnixMicro(), result.UnixMicro())
}

func TestHeader_Endianness(t *testing.T) {
	t.Run("little endian", func(t *testing.T) {
		header := NewHeader(time.Now())
		header.Flag.WithLittleEndian()

		engine := header.Flag.GetEndianEngine()
		require.Equal(t, endian.GetLittleEndianEngine(), engine)
	})

	t.Run("big endian", func(t *testing.T) {
		header := NewHeader(time.Now())
		header.Flag.WithBigEndian()

		engine := header.Flag.GetEndianEngine()
		require.Equal(t, endian.GetBigEndianEngine(), engine)
	})
}

func TestParseHeader(t *testing.T) {
	t.Run("valid data", func(t *testing.T) {
		original := NewHeader(time.Now())
		original.StructCount = 7
		data := original.Bytes()

		parsed, err := ParseHeader(data)

		require.NoError(t, err)
		require.Equal(t, original.StructCount, parsed.StructCount)
		require.Equal(t, original.CreatedAt, parsed.CreatedAt)
	})

	t.Run("data longer than header", func(t *testing.T) {
		original := NewHeader(time.Now())
		data := append(original.Bytes(), 0xAA, 0xBB, 0xCC)

		parsed, err := ParseHeader(data)

		require.NoError(t, err)
		require.Equal(t, original.CreatedAt, parsed.CreatedAt)
	})

	t.Run("data too short", func(t *testing.T) {
		_, err := ParseHeader(make([]byte, HeaderSize-1))

		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
	})
}
