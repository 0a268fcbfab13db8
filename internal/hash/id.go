package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of a struct or field name. Index entries and
// fingerprints key on this value.
func ID(name string) uint64 {
	return xxhash.Sum64String(name)
}

// Sum64 computes the xxHash64 of raw bytes.
func Sum64(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Checksum32 folds the xxHash64 of data into the 32-bit checksum stored in
// descriptor headers.
func Checksum32(data []byte) uint32 {
	sum := xxhash.Sum64(data)
	return uint32(sum>>32) ^ uint32(sum)
}
