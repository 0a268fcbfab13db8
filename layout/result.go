package layout

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/structlab/crepr/internal/hash"
)

// Result is a computed layout: per-field offsets plus the struct's total
// size and alignment. Results are immutable once returned by Compute and
// support equality, ordering and hashing so callers can deduplicate layouts
// or key caches on them.
type Result struct {
	offsets []uint64
	size    uint64
	align   uint64
}

// Len returns the number of fields in the layout.
func (r *Result) Len() int {
	return len(r.offsets)
}

// At returns the offset of field i. It panics when i is out of range, like
// a slice index.
func (r *Result) At(i int) uint64 {
	return r.offsets[i]
}

// Offsets returns a copy of the per-field offsets in declaration order.
func (r *Result) Offsets() []uint64 {
	return slices.Clone(r.offsets)
}

// Size returns the total struct size including trailing padding.
func (r *Result) Size() uint64 {
	return r.size
}

// Align returns the struct alignment: the largest field alignment, or 1 for
// an empty layout.
func (r *Result) Align() uint64 {
	return r.align
}

// Equal reports whether two results describe the same layout: identical
// offsets, size and alignment. A nil result only equals nil.
func (r *Result) Equal(o *Result) bool {
	if r == nil || o == nil {
		return r == o
	}

	return r.size == o.size && r.align == o.align && slices.Equal(r.offsets, o.offsets)
}

// Compare totally orders results: offsets compare lexicographically first,
// then size, then alignment. Nil sorts before any non-nil result. The order
// carries no semantic meaning beyond being stable for sorting and dedup.
func (r *Result) Compare(o *Result) int {
	if r == nil || o == nil {
		switch {
		case r == o:
			return 0
		case r == nil:
			return -1
		default:
			return 1
		}
	}

	if c := slices.Compare(r.offsets, o.offsets); c != 0 {
		return c
	}
	if c := cmp.Compare(r.size, o.size); c != 0 {
		return c
	}

	return cmp.Compare(r.align, o.align)
}

// Hash returns the xxHash64 of the canonical encoding of the layout. Equal
// results always hash alike, so the value works as a cache key alongside
// Equal.
func (r *Result) Hash() uint64 {
	buf := make([]byte, 0, 8*(len(r.offsets)+3))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(r.offsets)))
	for _, off := range r.offsets {
		buf = binary.LittleEndian.AppendUint64(buf, off)
	}
	buf = binary.LittleEndian.AppendUint64(buf, r.size)
	buf = binary.LittleEndian.AppendUint64(buf, r.align)

	return hash.Sum64(buf)
}

func (r *Result) String() string {
	return fmt.Sprintf("layout{offsets:%v size:%d align:%d}", r.offsets, r.size, r.align)
}
