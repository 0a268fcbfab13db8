package compress

// ZstdCompressor compresses payloads with Zstandard, the default codec for
// descriptor bundles written to disk or shipped over the network.
//
// Two backends provide the method set: the pure Go klauspost/compress
// implementation by default, or valyala/gozstd when built with the
// cgo_zstd tag. Both produce standard Zstd frames and can read each
// other's output.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
