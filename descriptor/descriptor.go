package descriptor

import (
	"fmt"
	"time"

	"github.com/structlab/crepr/errs"
	"github.com/structlab/crepr/schema"
	"github.com/structlab/crepr/section"
)

// Descriptor is a decoded bundle of struct layouts.
//
// All layouts are fully resolved and verified at decode time, so lookups
// never fail on malformed data. The zero value is not usable; Descriptors
// come from Decoder.Decode.
type Descriptor struct {
	header  section.Header
	structs []*schema.StructLayout
	byName  map[string]int
	byHash  map[uint64][]int
}

// StructCount returns the number of struct layouts in the bundle.
func (d *Descriptor) StructCount() int {
	return len(d.structs)
}

// CreatedAt returns the creation time recorded in the bundle header.
func (d *Descriptor) CreatedAt() time.Time {
	return time.UnixMicro(d.header.CreatedAt).UTC()
}

// Header returns a copy of the bundle header.
func (d *Descriptor) Header() section.Header {
	return d.header
}

// HasCollision reports whether two struct names in the bundle share an
// xxHash64 value. When true, LookupHash is ambiguous for the colliding
// hashes and Lookup must be used instead.
func (d *Descriptor) HasCollision() bool {
	return d.header.Flag.HasCollision()
}

// Structs returns the struct layouts in bundle order.
// The returned slice is a copy; the layouts themselves are shared and must
// not be mutated.
func (d *Descriptor) Structs() []*schema.StructLayout {
	out := make([]*schema.StructLayout, len(d.structs))
	copy(out, d.structs)

	return out
}

// Lookup returns the layout of the named struct.
//
// Returns:
//   - *schema.StructLayout: Layout of the named struct
//   - bool: false when the bundle has no struct with that name
func (d *Descriptor) Lookup(name string) (*schema.StructLayout, bool) {
	idx, ok := d.byName[name]
	if !ok {
		return nil, false
	}

	return d.structs[idx], true
}

// LookupHash returns the layout whose name hashes to nameHash.
//
// Use hash.ID to derive the hash of a struct name, or store the hashes from
// the encoding side. When the bundle contains a collision for nameHash the
// lookup is ambiguous and callers must fall back to Lookup by name.
//
// Returns:
//   - *schema.StructLayout: Layout with the matching name hash
//   - error: ErrStructNotFound for an unknown hash, ErrHashCollision when
//     more than one struct shares it
func (d *Descriptor) LookupHash(nameHash uint64) (*schema.StructLayout, error) {
	indices := d.byHash[nameHash]
	switch len(indices) {
	case 0:
		return nil, fmt.Errorf("%w: no struct with name hash 0x%016X", errs.ErrStructNotFound, nameHash)
	case 1:
		return d.structs[indices[0]], nil
	default:
		return nil, fmt.Errorf("%w: %d structs share name hash 0x%016X, look up by name instead",
			errs.ErrHashCollision, len(indices), nameHash)
	}
}

// Layout returns the layout of the named struct or an error.
// It is the error-returning form of Lookup for callers that propagate
// failures instead of branching on a bool.
func (d *Descriptor) Layout(name string) (*schema.StructLayout, error) {
	if sl, ok := d.Lookup(name); ok {
		return sl, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrStructNotFound, name)
}
