package packet

import (
	"errors"

	"github.com/holiman/uint256"
)

// Literal group layout.
const (
	groupContinue = 0x10
	groupPayload  = 0x0F
)

// DecodeResult is the outcome of decoding one transmission.
type DecodeResult struct {
	Root *Packet

	// TrailingBits is the number of bits left after the root packet.
	TrailingBits int

	// TrailingZero is true when every trailing bit is zero.
	TrailingZero bool
}

// Validate checks that everything after the root packet is zero padding.
func (r *DecodeResult) Validate() error {
	if !r.TrailingZero {
		return ErrTrailingData
	}
	return nil
}

// Decoder turns bit sequences into packet trees.
// A Decoder holds only configuration and is safe for concurrent use.
type Decoder struct {
	config *decodeConfig
}

// NewDecoder creates a Decoder with the given options.
func NewDecoder(opts ...DecoderOption) *Decoder {
	cfg := defaultDecodeConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Decoder{config: cfg}
}

var defaultDecoder = NewDecoder()

// Decode decodes one root packet from seq using default options.
func Decode(seq *BitSequence) (*DecodeResult, error) {
	return defaultDecoder.Decode(seq)
}

// DecodeHex decodes one root packet from a hex string using default options.
func DecodeHex(s string) (*DecodeResult, error) {
	return defaultDecoder.DecodeHex(s)
}

// DecodePacket decodes a single packet starting at the cursor's position,
// leaving the cursor just past it.
func DecodePacket(c *Cursor) (*Packet, error) {
	return defaultDecoder.decodePacket(c, 1)
}

// DecodeHex expands s and decodes one root packet from it.
func (d *Decoder) DecodeHex(s string) (*DecodeResult, error) {
	seq, err := FromHex(s)
	if err != nil {
		return nil, err
	}
	return d.Decode(seq)
}

// Decode decodes one root packet from seq. Decoding is all-or-nothing: on
// error no partial tree is returned.
func (d *Decoder) Decode(seq *BitSequence) (*DecodeResult, error) {
	c := NewCursor(seq)
	root, err := d.decodePacket(c, 1)
	if err != nil {
		return nil, err
	}

	res := &DecodeResult{
		Root:         root,
		TrailingBits: c.Remaining(),
		TrailingZero: c.RemainingIsZeroPadding(),
	}
	if d.config.strictPadding {
		if err := res.Validate(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// decodePacket decodes the packet at the cursor. depth is 1 for the root.
func (d *Decoder) decodePacket(c *Cursor, depth int) (*Packet, error) {
	start := c.Offset()
	fail := func(err error) error {
		var de *DecodeError
		if errors.As(err, &de) {
			return err
		}
		return &DecodeError{Offset: start, Depth: depth, Err: err}
	}

	if depth > d.config.maxDepth {
		return nil, fail(&RecursionLimitError{Limit: d.config.maxDepth})
	}

	version, err := c.Read(VersionWidth)
	if err != nil {
		return nil, fail(err)
	}
	typeID, err := c.Read(TypeIDWidth)
	if err != nil {
		return nil, fail(err)
	}

	p := &Packet{
		version: uint8(version),
		typeID:  TypeID(typeID),
	}

	if p.typeID.IsLiteral() {
		p.literal, err = readLiteral(c)
		if err != nil {
			return nil, fail(err)
		}
		p.bitLen = c.Offset() - start
		return p, nil
	}

	lengthType, err := c.Read(LengthTypeWidth)
	if err != nil {
		return nil, fail(err)
	}
	p.lengthType = LengthType(lengthType)

	switch p.lengthType {
	case LengthTypeBits:
		p.children, err = d.decodeByLength(c, depth)
	case LengthTypeCount:
		p.children, err = d.decodeByCount(c, depth)
	}
	if err != nil {
		return nil, fail(err)
	}

	if err := p.typeID.checkArity(len(p.children)); err != nil {
		return nil, fail(err)
	}

	p.bitLen = c.Offset() - start
	return p, nil
}

// decodeByLength decodes children that must exactly fill a 15-bit declared length.
func (d *Decoder) decodeByLength(c *Cursor, depth int) ([]*Packet, error) {
	total, err := c.Read(TotalLengthWidth)
	if err != nil {
		return nil, err
	}
	declared := int(total)

	w, err := c.window(declared)
	if err != nil {
		return nil, err
	}

	var children []*Packet
	for w.Remaining() > 0 {
		child, err := d.decodePacket(w, depth+1)
		if err != nil {
			if errors.Is(err, ErrOutOfBits) {
				// The window was fully available, so running dry means a
				// child tried to cross the declared boundary.
				return nil, &SubpacketLengthError{
					Declared: declared,
					Consumed: w.Offset() - c.Offset(),
				}
			}
			return nil, err
		}
		children = append(children, child)
	}

	c.skip(declared)
	return children, nil
}

// decodeByCount decodes exactly the number of children given by an 11-bit count.
func (d *Decoder) decodeByCount(c *Cursor, depth int) ([]*Packet, error) {
	count, err := c.Read(CountWidth)
	if err != nil {
		return nil, err
	}

	children := make([]*Packet, 0, count)
	for i := 0; i < int(count); i++ {
		child, err := d.decodePacket(c, depth+1)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

// readLiteral assembles a literal from 5-bit groups. The loop ends on the
// first group whose continuation bit is clear.
func readLiteral(c *Cursor) (*uint256.Int, error) {
	v := new(uint256.Int)
	for {
		group, err := c.Read(GroupWidth)
		if err != nil {
			return nil, err
		}
		if v.BitLen() > MaxLiteralBits-4 {
			return nil, ErrLiteralOverflow
		}
		v.Lsh(v, 4)
		v.Or(v, uint256.NewInt(group&groupPayload))
		if group&groupContinue == 0 {
			return v, nil
		}
	}
}
