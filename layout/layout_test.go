package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/structlab/crepr/errs"
)

func TestOffsets_KnownLayouts(t *testing.T) {
	testCases := []struct {
		name   string
		fields []Field
		want   []uint64
	}{
		{
			name:   "mixed sizes same alignment",
			fields: []Field{{Size: 4, Align: 4}, {Size: 16, Align: 4}, {Size: 1, Align: 1}},
			want:   []uint64{0, 4, 20},
		},
		{
			name:   "padding before wider field",
			fields: []Field{{Size: 1, Align: 1}, {Size: 4, Align: 4}},
			want:   []uint64{0, 4},
		},
		{
			name:   "padding before eight byte field",
			fields: []Field{{Size: 1, Align: 1}, {Size: 8, Align: 8}},
			want:   []uint64{0, 8},
		},
		{
			name:   "contiguous equal fields",
			fields: []Field{{Size: 4, Align: 4}, {Size: 4, Align: 4}},
			want:   []uint64{0, 4},
		},
		{
			name:   "empty struct",
			fields: nil,
			want:   []uint64{},
		},
		{
			name:   "zero size field still aligns cursor",
			fields: []Field{{Size: 1, Align: 1}, {Size: 0, Align: 8}, {Size: 4, Align: 4}},
			want:   []uint64{0, 8, 8},
		},
		{
			name:   "single byte",
			fields: []Field{{Size: 1, Align: 1}},
			want:   []uint64{0},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Offsets(tc.fields)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
			require.NotNil(t, got)
		})
	}
}

func TestOffsets_InvalidAlignment(t *testing.T) {
	testCases := []struct {
		name  string
		align uint64
	}{
		{"zero", 0},
		{"three", 3},
		{"six", 6},
		{"twelve", 12},
		{"max uint64", math.MaxUint64},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Offsets([]Field{{Size: 4, Align: tc.align}})
			require.ErrorIs(t, err, errs.ErrInvalidAlignment)

			_, err = Compute([]Field{{Size: 4, Align: tc.align}})
			require.ErrorIs(t, err, errs.ErrInvalidAlignment)
		})
	}
}

func TestOffsets_Overflow(t *testing.T) {
	t.Run("size advance wraps", func(t *testing.T) {
		fields := []Field{
			{Size: math.MaxUint64, Align: 1},
			{Size: 1, Align: 1},
		}
		_, err := Offsets(fields)
		require.ErrorIs(t, err, errs.ErrLayoutOverflow)
	})

	t.Run("align up wraps", func(t *testing.T) {
		fields := []Field{
			{Size: math.MaxUint64 - 2, Align: 1},
			{Size: 0, Align: 8},
		}
		_, err := Offsets(fields)
		require.ErrorIs(t, err, errs.ErrLayoutOverflow)
	})

	t.Run("trailing padding wraps", func(t *testing.T) {
		fields := []Field{
			{Size: 2, Align: 2},
			{Size: math.MaxUint64 - 2, Align: 1},
		}
		_, err := Compute(fields)
		require.ErrorIs(t, err, errs.ErrLayoutOverflow)
	})

	t.Run("max size single field fits", func(t *testing.T) {
		got, err := Offsets([]Field{{Size: math.MaxUint64, Align: 1}})
		require.NoError(t, err)
		require.Equal(t, []uint64{0}, got)
	})
}

func TestOffsets_Invariants(t *testing.T) {
	// Every combination of typical sizes and alignments must satisfy the
	// layout invariants regardless of order.
	sizes := []uint64{0, 1, 2, 3, 4, 7, 8, 16}
	aligns := []uint64{1, 2, 4, 8, 16}

	var fields []Field
	for _, s := range sizes {
		for _, a := range aligns {
			fields = append(fields, Field{Size: s, Align: a})
		}
	}

	offsets, err := Offsets(fields)
	require.NoError(t, err)
	require.Len(t, offsets, len(fields))
	require.Equal(t, uint64(0), offsets[0])

	for i, f := range fields {
		require.Zero(t, offsets[i]%f.Align, "field %d offset %d not aligned to %d", i, offsets[i], f.Align)

		if i == 0 {
			continue
		}

		prevEnd := offsets[i-1] + fields[i-1].Size
		require.GreaterOrEqual(t, offsets[i], prevEnd, "field %d overlaps previous", i)
		require.Less(t, offsets[i]-prevEnd, f.Align, "field %d over-padded", i)
	}

	// Same input, same output.
	again, err := Offsets(fields)
	require.NoError(t, err)
	require.Equal(t, offsets, again)
}

func TestCompute_Extent(t *testing.T) {
	testCases := []struct {
		name      string
		fields    []Field
		wantSize  uint64
		wantAlign uint64
	}{
		{
			name:      "trailing padding to max align",
			fields:    []Field{{Size: 4, Align: 4}, {Size: 16, Align: 4}, {Size: 1, Align: 1}},
			wantSize:  24,
			wantAlign: 4,
		},
		{
			name:      "eight byte struct align",
			fields:    []Field{{Size: 1, Align: 1}, {Size: 8, Align: 8}},
			wantSize:  16,
			wantAlign: 8,
		},
		{
			name:      "no padding needed",
			fields:    []Field{{Size: 4, Align: 4}, {Size: 4, Align: 4}},
			wantSize:  8,
			wantAlign: 4,
		},
		{
			name:      "single byte",
			fields:    []Field{{Size: 1, Align: 1}},
			wantSize:  1,
			wantAlign: 1,
		},
		{
			name:      "odd end rounds up",
			fields:    []Field{{Size: 2, Align: 2}, {Size: 1, Align: 1}},
			wantSize:  4,
			wantAlign: 2,
		},
		{
			name:      "empty struct",
			fields:    nil,
			wantSize:  0,
			wantAlign: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := Compute(tc.fields)
			require.NoError(t, err)
			require.Equal(t, tc.wantSize, result.Size())
			require.Equal(t, tc.wantAlign, result.Align())
			require.Equal(t, len(tc.fields), result.Len())

			// Size is always a multiple of the struct alignment.
			require.Zero(t, result.Size()%result.Align())
		})
	}
}

func TestAlignUp(t *testing.T) {
	testCases := []struct {
		offset uint64
		align  uint64
		want   uint64
	}{
		{0, 1, 0},
		{1, 1, 1},
		{0, 8, 0},
		{1, 4, 4},
		{4, 4, 4},
		{5, 4, 8},
		{13, 8, 16},
		{8, 8, 8},
		{21, 4, 24},
		{1, 1 << 32, 1 << 32},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.want, AlignUp(tc.offset, tc.align),
			"AlignUp(%d, %d)", tc.offset, tc.align)
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	require.False(t, IsPowerOfTwo(0))
	require.True(t, IsPowerOfTwo(1))
	require.True(t, IsPowerOfTwo(2))
	require.False(t, IsPowerOfTwo(3))
	require.True(t, IsPowerOfTwo(4))
	require.False(t, IsPowerOfTwo(6))
	require.True(t, IsPowerOfTwo(1<<63))
	require.False(t, IsPowerOfTwo(math.MaxUint64))
}

func TestField_Validate(t *testing.T) {
	require.NoError(t, Field{Size: 8, Align: 8}.Validate())
	require.NoError(t, Field{Size: 0, Align: 1}.Validate())
	require.ErrorIs(t, Field{Size: 8, Align: 0}.Validate(), errs.ErrInvalidAlignment)
	require.ErrorIs(t, Field{Size: 8, Align: 12}.Validate(), errs.ErrInvalidAlignment)
}
