package collision

import (
	"github.com/structlab/crepr/errs"
)

// Tracker tracks struct names and detects hash collisions during encoding.
// It maintains hash-to-name mappings and an ordered list of names so the
// encoder can mark the collision flag and keep records in insertion order.
type Tracker struct {
	names        map[string]struct{} // Names already tracked, for duplicate detection
	hashes       map[uint64]string   // Hash → first name mapping for collision detection
	list         []string            // Ordered list of tracked names
	hasCollision bool                // Whether a collision has been detected
}

// NewTracker creates a new collision tracker.
func NewTracker() *Tracker {
	return &Tracker{
		names:  make(map[string]struct{}),
		hashes: make(map[uint64]string),
		list:   make([]string, 0),
	}
}

// TrackStruct tracks a struct name with its hash.
// Returns error if:
// - The struct name is empty (ErrInvalidStructName)
// - The same struct name is added twice (ErrStructAlreadyAdded)
//
// Note: Hash collisions (different names, same hash) are NOT errors here.
// Instead, the collision flag is set and readers must match records by name.
func (t *Tracker) TrackStruct(name string, hash uint64) error {
	if name == "" {
		return errs.ErrInvalidStructName
	}

	if _, exists := t.names[name]; exists {
		return errs.ErrStructAlreadyAdded
	}

	// Check for collision: different name, same hash
	if existing, exists := t.hashes[hash]; exists && existing != name {
		t.hasCollision = true
	} else if !exists {
		t.hashes[hash] = name
	}

	t.names[name] = struct{}{}
	t.list = append(t.list, name)

	return nil
}

// HasCollision returns true if a collision has been detected.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}

// Names returns the ordered list of tracked struct names.
// The order matches the order in which TrackStruct was called.
func (t *Tracker) Names() []string {
	return t.list
}

// Count returns the number of tracked structs.
func (t *Tracker) Count() int {
	return len(t.list)
}

// Reset clears all tracked structs and collision state.
// This allows reusing the tracker for encoding a new descriptor.
func (t *Tracker) Reset() {
	clear(t.names)
	clear(t.hashes)
	t.list = t.list[:0]
	t.hasCollision = false
}
