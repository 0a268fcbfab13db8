package layout

import (
	"fmt"
	"math"

	"github.com/structlab/crepr/errs"
)

// Field describes one struct field as a (size, alignment) pair, both in
// bytes. Size may be zero; Align must be a power of two of at least 1.
type Field struct {
	Size  uint64
	Align uint64
}

// Validate returns ErrInvalidAlignment when the field alignment is zero or
// not a power of two.
func (f Field) Validate() error {
	if !IsPowerOfTwo(f.Align) {
		return fmt.Errorf("%w: got %d", errs.ErrInvalidAlignment, f.Align)
	}

	return nil
}

// IsPowerOfTwo reports whether v is a power of two. Zero is not.
func IsPowerOfTwo(v uint64) bool {
	return v != 0 && v&(v-1) == 0
}

// AlignUp rounds offset up to the next multiple of align.
//
// align must be a power of two of at least 1; the mask identity used here
// produces garbage for any other value, and the function does not recheck
// it. Use Offsets or Compute when the alignment comes from untrusted input.
func AlignUp(offset, align uint64) uint64 {
	return (offset + align - 1) &^ (align - 1)
}

// Offsets computes the byte offset of every field in a C-compatible
// sequential layout. The returned slice is ordered like fields and always
// has len(fields) elements on success. An empty input yields an empty,
// non-nil slice.
//
// Parameters:
//   - fields: ordered field descriptions, sizes and alignments in bytes
//
// Returns:
//   - []uint64: offset of each field from the start of the struct
//   - error: ErrInvalidAlignment for a zero or non-power-of-two alignment,
//     ErrLayoutOverflow when the cursor would wrap uint64
func Offsets(fields []Field) ([]uint64, error) {
	offsets := make([]uint64, len(fields))
	var cursor uint64

	for i, f := range fields {
		off, err := place(cursor, f, i)
		if err != nil {
			return nil, err
		}

		offsets[i] = off
		cursor = off + f.Size
	}

	return offsets, nil
}

// Compute runs the same layout pass as Offsets and additionally derives the
// struct extent: total size rounded up to the largest field alignment, and
// the struct alignment itself. An empty input yields size 0 and align 1.
//
// Parameters:
//   - fields: ordered field descriptions, sizes and alignments in bytes
//
// Returns:
//   - *Result: offsets plus total size and alignment, usable as a cache key
//   - error: ErrInvalidAlignment or ErrLayoutOverflow, as for Offsets
func Compute(fields []Field) (*Result, error) {
	offsets := make([]uint64, len(fields))

	var cursor uint64
	maxAlign := uint64(1)

	for i, f := range fields {
		off, err := place(cursor, f, i)
		if err != nil {
			return nil, err
		}

		offsets[i] = off
		cursor = off + f.Size

		if f.Align > maxAlign {
			maxAlign = f.Align
		}
	}

	// Trailing padding so arrays of this struct keep every element aligned.
	if cursor > math.MaxUint64-(maxAlign-1) {
		return nil, fmt.Errorf("%w: total size", errs.ErrLayoutOverflow)
	}

	return &Result{
		offsets: offsets,
		size:    AlignUp(cursor, maxAlign),
		align:   maxAlign,
	}, nil
}

// place validates one field and returns its offset from the current cursor.
func place(cursor uint64, f Field, i int) (uint64, error) {
	if !IsPowerOfTwo(f.Align) {
		return 0, fmt.Errorf("%w: field %d align %d", errs.ErrInvalidAlignment, i, f.Align)
	}

	if cursor > math.MaxUint64-(f.Align-1) {
		return 0, fmt.Errorf("%w: aligning field %d", errs.ErrLayoutOverflow, i)
	}

	off := AlignUp(cursor, f.Align)
	if off > math.MaxUint64-f.Size {
		return 0, fmt.Errorf("%w: field %d size %d", errs.ErrLayoutOverflow, i, f.Size)
	}

	return off, nil
}
