package schema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/structlab/crepr/errs"
	"github.com/structlab/crepr/format"
)

func packetHeader() *Struct {
	return &Struct{
		Name: "PacketHeader",
		Fields: []Field{
			{Name: "Version", Kind: format.KindU8},
			{Name: "Flags", Kind: format.KindU16},
			{Name: "PayloadLen", Kind: format.KindU32},
			{Name: "Timestamp", Kind: format.KindU64},
		},
	}
}

func TestField_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		field   Field
		wantErr error
	}{
		{"valid primitive", Field{Name: "Version", Kind: format.KindU8}, nil},
		{"valid array", Field{Name: "Data", Kind: format.KindU32, Count: 4}, nil},
		{"valid struct ref", Field{Name: "Inner", Kind: format.KindStruct, TypeName: "Inner"}, nil},
		{"empty name", Field{Kind: format.KindU8}, errs.ErrInvalidFieldName},
		{"invalid kind", Field{Name: "X", Kind: format.Kind(0xEE)}, errs.ErrInvalidFieldKind},
		{"struct without type name", Field{Name: "X", Kind: format.KindStruct}, errs.ErrMissingTypeName},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.field.Validate()
			if tc.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestField_Elements(t *testing.T) {
	require.Equal(t, uint64(1), Field{Name: "A", Kind: format.KindU8}.Elements())
	require.Equal(t, uint64(1), Field{Name: "A", Kind: format.KindU8, Count: 1}.Elements())
	require.Equal(t, uint64(4), Field{Name: "A", Kind: format.KindU8, Count: 4}.Elements())

	require.False(t, Field{Name: "A", Kind: format.KindU8, Count: 1}.IsArray())
	require.True(t, Field{Name: "A", Kind: format.KindU8, Count: 2}.IsArray())
}

func TestStruct_Validate(t *testing.T) {
	require.NoError(t, packetHeader().Validate())

	t.Run("empty struct name", func(t *testing.T) {
		err := (&Struct{Fields: []Field{{Name: "A", Kind: format.KindU8}}}).Validate()
		require.ErrorIs(t, err, errs.ErrInvalidStructName)
	})

	t.Run("duplicate field name", func(t *testing.T) {
		s := &Struct{
			Name: "Dup",
			Fields: []Field{
				{Name: "A", Kind: format.KindU8},
				{Name: "A", Kind: format.KindU32},
			},
		}
		require.ErrorIs(t, s.Validate(), errs.ErrDuplicateFieldName)
	})

	t.Run("invalid field propagates", func(t *testing.T) {
		s := &Struct{Name: "Bad", Fields: []Field{{Kind: format.KindU8}}}
		require.ErrorIs(t, s.Validate(), errs.ErrInvalidFieldName)
	})
}

func TestLayoutOf(t *testing.T) {
	t.Run("packet header", func(t *testing.T) {
		l, err := LayoutOf(packetHeader())
		require.NoError(t, err)

		require.Equal(t, "PacketHeader", l.Name)
		require.Equal(t, uint64(16), l.Size)
		require.Equal(t, uint64(8), l.Align)

		wantOffsets := map[string]uint64{
			"Version":    0,
			"Flags":      2,
			"PayloadLen": 4,
			"Timestamp":  8,
		}
		for name, want := range wantOffsets {
			off, err := l.Offset(name)
			require.NoError(t, err)
			require.Equal(t, want, off, "offset of %s", name)
		}
	})

	t.Run("array field", func(t *testing.T) {
		l, err := LayoutOf(&Struct{
			Name: "Vertex",
			Fields: []Field{
				{Name: "Position", Kind: format.KindF32, Count: 3},
				{Name: "UV", Kind: format.KindF32, Count: 2},
				{Name: "BoneIndex", Kind: format.KindU8},
			},
		})
		require.NoError(t, err)

		require.Equal(t, uint64(12), l.Fields[0].Size, "[3]float32 spans 12 bytes")
		require.Equal(t, uint64(4), l.Fields[0].Align, "array align is element align")

		off, err := l.Offset("UV")
		require.NoError(t, err)
		require.Equal(t, uint64(12), off)

		off, err = l.Offset("BoneIndex")
		require.NoError(t, err)
		require.Equal(t, uint64(20), off)

		require.Equal(t, uint64(24), l.Size)
	})

	t.Run("struct field needs a registry", func(t *testing.T) {
		_, err := LayoutOf(&Struct{
			Name:   "Outer",
			Fields: []Field{{Name: "Inner", Kind: format.KindStruct, TypeName: "Inner"}},
		})
		require.ErrorIs(t, err, errs.ErrStructNotFound)
	})

	t.Run("empty struct", func(t *testing.T) {
		l, err := LayoutOf(&Struct{Name: "Empty"})
		require.NoError(t, err)
		require.Zero(t, l.Size)
		require.Equal(t, uint64(1), l.Align)
		require.Empty(t, l.Fields)
	})

	t.Run("invalid struct rejected", func(t *testing.T) {
		_, err := LayoutOf(&Struct{Name: "", Fields: []Field{{Name: "A", Kind: format.KindU8}}})
		require.ErrorIs(t, err, errs.ErrInvalidStructName)
	})
}

func TestStructLayout_Lookups(t *testing.T) {
	l, err := LayoutOf(packetHeader())
	require.NoError(t, err)

	f, ok := l.Field("PayloadLen")
	require.True(t, ok)
	require.Equal(t, format.KindU32, f.Kind)
	require.Equal(t, uint64(4), f.Offset)
	require.Equal(t, uint64(4), f.Size)

	_, ok = l.Field("Missing")
	require.False(t, ok)

	_, err = l.Offset("Missing")
	require.ErrorIs(t, err, errs.ErrFieldNotFound)
	require.Contains(t, err.Error(), "PacketHeader.Missing")
}

func TestStructLayout_Equal(t *testing.T) {
	a, err := LayoutOf(packetHeader())
	require.NoError(t, err)
	b, err := LayoutOf(packetHeader())
	require.NoError(t, err)

	require.True(t, a.Equal(b))
	require.True(t, a.Equal(a))

	renamed := packetHeader()
	renamed.Name = "Other"
	c, err := LayoutOf(renamed)
	require.NoError(t, err)
	require.False(t, a.Equal(c))

	var nilLayout *StructLayout
	require.False(t, a.Equal(nil))
	require.True(t, nilLayout.Equal(nil))
}

func TestStructLayout_Fingerprint(t *testing.T) {
	a, err := LayoutOf(packetHeader())
	require.NoError(t, err)
	b, err := LayoutOf(packetHeader())
	require.NoError(t, err)

	require.Equal(t, a.Fingerprint(), b.Fingerprint())

	// Any difference in the description changes the fingerprint.
	renamed := packetHeader()
	renamed.Fields[0].Name = "Ver"
	c, err := LayoutOf(renamed)
	require.NoError(t, err)
	require.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestStructLayout_String(t *testing.T) {
	l, err := LayoutOf(packetHeader())
	require.NoError(t, err)
	require.Equal(t, "PacketHeader{fields:4 size:16 align:8}", l.String())
}
