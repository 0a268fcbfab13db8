// Package compress provides compression codecs for descriptor schema
// payloads.
//
// Descriptor bundles store their schema payload, the length-prefixed struct
// and field records, behind one of four codecs selected in the bundle
// header. Compression is whole-block: payloads are small enough that
// streaming would only add framing overhead.
//
// # Supported Algorithms
//
//   - None (format.CompressionNone): passthrough, zero overhead
//   - Zstd (format.CompressionZstd): best ratio, moderate speed
//   - S2 (format.CompressionS2): balanced ratio and speed
//   - LZ4 (format.CompressionLZ4): fastest decompression
//
// Schema payloads are mostly field names and small integers, which compress
// well under any of the three real codecs; Zstd is the default for bundles
// written to disk, None for bundles embedded in generated code where the
// linker already deduplicates.
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	compressed, err := codec.Compress(payload)
//
// Decoders pick the codec from the parsed header:
//
//	codec, err := compress.GetCodec(header.Flag.Compression())
//	payload, err := codec.Decompress(data[payloadStart:payloadEnd])
//
// # Zstd Implementations
//
// Two Zstd backends share the ZstdCompressor type. The default is the pure
// Go klauspost/compress implementation. Building with the cgo_zstd tag
// swaps in valyala/gozstd, which links the reference C library and
// compresses a few percent tighter at the same level. Bundle bytes are
// interchangeable between the two.
//
// # Thread Safety
//
// All codecs in this package are safe for concurrent use; pooled internal
// state is handled per call.
package compress
