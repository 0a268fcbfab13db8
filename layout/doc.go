// Package layout computes field offsets for C-compatible struct layouts.
//
// Given an ordered list of (size, alignment) pairs, the package applies the
// standard sequential layout rule used by C compilers: each field starts at
// the next multiple of its alignment after the previous field ends, and the
// struct's total size is the end of the last field rounded up to the largest
// field alignment.
//
// # Layout Algorithm
//
// For each field in declaration order:
//
//	offset = alignUp(cursor, field.Align)
//	cursor = offset + field.Size
//
// where alignUp rounds a cursor to an alignment boundary with the mask
// identity (cursor + align - 1) &^ (align - 1). The identity only holds for
// power-of-two alignments, which is why the validated entry points reject
// anything else.
//
// # Usage
//
//	fields := []layout.Field{
//	    {Size: 4, Align: 4},  // uint32
//	    {Size: 16, Align: 4}, // [4]uint32
//	    {Size: 1, Align: 1},  // uint8
//	}
//	result, err := layout.Compute(fields)
//	// result.At(0) == 0, result.At(1) == 4, result.At(2) == 20
//	// result.Size() == 24, result.Align() == 4
//
// Offsets is the lighter entry point when only the offsets are needed.
// Result values support Equal, Compare and Hash so computed layouts can be
// deduplicated and used as cache keys.
//
// # Validation
//
// Offsets and Compute return ErrInvalidAlignment for alignments that are
// zero or not a power of two, and ErrLayoutOverflow when the cursor would
// wrap uint64. AlignUp itself is the unchecked hot-path primitive; callers
// on untrusted input must validate first.
package layout
