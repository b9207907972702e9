package packet

// DecoderOption configures a Decoder.
type DecoderOption func(*decodeConfig)

// EncoderOption configures an Encoder.
type EncoderOption func(*encodeConfig)

// DefaultMaxDepth is the default nesting limit for decoded trees.
const DefaultMaxDepth = 256

// decodeConfig holds configuration for decoding.
type decodeConfig struct {
	maxDepth      int
	strictPadding bool
}

// defaultDecodeConfig returns the default decode configuration.
func defaultDecodeConfig() *decodeConfig {
	return &decodeConfig{
		maxDepth:      DefaultMaxDepth,
		strictPadding: false,
	}
}

// WithMaxDepth sets the maximum nesting depth. The root packet is depth 1.
// Values below 1 restore the default.
func WithMaxDepth(max int) DecoderOption {
	return func(c *decodeConfig) {
		if max < 1 {
			max = DefaultMaxDepth
		}
		c.maxDepth = max
	}
}

// WithStrictPadding makes Decode fail with ErrTrailingData when any bit after
// the root packet is set.
func WithStrictPadding(enabled bool) DecoderOption {
	return func(c *decodeConfig) {
		c.strictPadding = enabled
	}
}

// Padding is the alignment applied by EncodeHex.
type Padding int

const (
	// PadByte pads the transmission with zero bits to a whole byte.
	PadByte Padding = 8

	// PadNibble pads only to a whole hex digit.
	PadNibble Padding = 4
)

// encodeConfig holds configuration for encoding.
type encodeConfig struct {
	padding           Padding
	defaultLengthType LengthType
	preserveFraming   bool
}

// defaultEncodeConfig returns the default encode configuration.
func defaultEncodeConfig() *encodeConfig {
	return &encodeConfig{
		padding:           PadByte,
		defaultLengthType: LengthTypeCount,
		preserveFraming:   true,
	}
}

// WithPadding sets the alignment used by EncodeHex. Default is PadByte.
func WithPadding(p Padding) EncoderOption {
	return func(c *encodeConfig) {
		if p != PadNibble {
			p = PadByte
		}
		c.padding = p
	}
}

// WithDefaultLengthType forces every operator to use the given framing,
// ignoring the framing recorded on each packet.
func WithDefaultLengthType(l LengthType) EncoderOption {
	return func(c *encodeConfig) {
		c.defaultLengthType = l & 1
		c.preserveFraming = false
	}
}
