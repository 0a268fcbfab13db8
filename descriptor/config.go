package descriptor

import (
	"time"

	"github.com/structlab/crepr/compress"
	"github.com/structlab/crepr/endian"
	"github.com/structlab/crepr/errs"
	"github.com/structlab/crepr/format"
	"github.com/structlab/crepr/internal/options"
	"github.com/structlab/crepr/section"
)

// initialIndexCapacity is the initial capacity for the index entries slice.
// Small enough to avoid waste for small bundles, large enough to avoid early
// reallocations.
const initialIndexCapacity = 16

// EncoderConfig handles encoder configuration and shared state.
//
// This struct follows the composition over inheritance principle, keeping
// the header and codec wiring separate from the record encoding logic.
type EncoderConfig struct {
	header  *section.Header
	entries []section.IndexEntry
	codec   compress.Codec
	engine  endian.EndianEngine
}

// NewEncoderConfig creates a new EncoderConfig with default settings:
// little-endian byte order, no compression and the current time as the
// creation timestamp.
func NewEncoderConfig() *EncoderConfig {
	header := section.NewHeader(time.Now())

	return &EncoderConfig{
		header:  header,
		entries: make([]section.IndexEntry, 0, initialIndexCapacity),
		engine:  header.Flag.GetEndianEngine(),
	}
}

type endianness uint8

const (
	littleEndianOpt endianness = iota
	bigEndianOpt    endianness = iota
)

// setEndianess sets the endianness option.
func (c *EncoderConfig) setEndianess(endiness endianness) {
	switch endiness {
	case littleEndianOpt:
		c.header.Flag.WithLittleEndian()
	case bigEndianOpt:
		c.header.Flag.WithBigEndian()
	default:
		c.header.Flag.WithLittleEndian()
	}

	// Update the engine after changing endianness
	c.engine = c.header.Flag.GetEndianEngine()
}

// setCompression sets the schema payload compression type.
func (c *EncoderConfig) setCompression(comp format.CompressionType) error {
	switch comp {
	case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
		c.header.Flag.SetCompression(comp)
		return nil
	default:
		return errs.ErrInvalidCompressionType
	}
}

// setCreatedAt overrides the creation timestamp.
func (c *EncoderConfig) setCreatedAt(createdAt time.Time) {
	c.header.CreatedAt = createdAt.UnixMicro()
}

// Option represents a functional option for configuring the encoder.
// This is a type alias for the generic Option type specialized for EncoderConfig.
type Option = options.Option[*EncoderConfig]

// WithLittleEndian sets the encoder to use little-endian byte order.
// It is the default option.
func WithLittleEndian() Option {
	return options.NoError(func(c *EncoderConfig) {
		c.setEndianess(littleEndianOpt)
	})
}

// WithBigEndian sets the encoder to use big-endian byte order.
// It rarely needs to be used unless interoperability with big-endian systems is required.
func WithBigEndian() Option {
	return options.NoError(func(c *EncoderConfig) {
		c.setEndianess(bigEndianOpt)
	})
}

// WithCompression sets the compression type for the schema payload.
func WithCompression(comp format.CompressionType) Option {
	return options.New(func(c *EncoderConfig) error {
		return c.setCompression(comp)
	})
}

// WithCreatedAt sets the creation timestamp recorded in the header.
// The default is the time the encoder was created.
func WithCreatedAt(createdAt time.Time) Option {
	return options.NoError(func(c *EncoderConfig) {
		c.setCreatedAt(createdAt)
	})
}
