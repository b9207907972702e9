package packet

import (
	"github.com/holiman/uint256"
)

// Encoder writes packet trees back to their bit representation.
type Encoder struct {
	config *encodeConfig
}

// NewEncoder creates an Encoder with the given options.
func NewEncoder(opts ...EncoderOption) *Encoder {
	cfg := defaultEncodeConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Encoder{config: cfg}
}

// Encode produces the unpadded bit sequence for p.
// Format: [version:3][type:3] followed by literal groups or
// [length-type:1][total-length:15 | count:11][children...]
func (e *Encoder) Encode(p *Packet) (*BitSequence, error) {
	w := newBitWriter(64)
	if err := e.writePacket(w, p); err != nil {
		return nil, err
	}
	return w.sequence(), nil
}

// EncodeHex encodes p, pads with zero bits to the configured alignment, and
// renders the result as uppercase hex.
func (e *Encoder) EncodeHex(p *Packet) (string, error) {
	w := newBitWriter(64)
	if err := e.writePacket(w, p); err != nil {
		return "", err
	}
	w.padTo(int(e.config.padding))
	return w.sequence().Hex(), nil
}

func (e *Encoder) writePacket(w *bitWriter, p *Packet) error {
	if p == nil {
		return ErrNilPacket
	}
	if p.version > MaxVersion {
		return &EncodingError{TypeID: p.typeID, Err: ErrInvalidVersion}
	}

	w.writeBits(uint64(p.version), VersionWidth)
	w.writeBits(uint64(p.typeID), TypeIDWidth)

	if p.IsLiteral() {
		writeLiteral(w, p.literal)
		return nil
	}

	lt := p.lengthType
	if !e.config.preserveFraming {
		lt = e.config.defaultLengthType
	}
	w.writeBits(uint64(lt), LengthTypeWidth)

	switch lt {
	case LengthTypeCount:
		if len(p.children) > MaxCount {
			return &EncodingError{TypeID: p.typeID, Err: ErrFramingOverflow}
		}
		w.writeBits(uint64(len(p.children)), CountWidth)
		for _, c := range p.children {
			if err := e.writePacket(w, c); err != nil {
				return err
			}
		}

	default:
		sub := newBitWriter(64)
		for _, c := range p.children {
			if err := e.writePacket(sub, c); err != nil {
				return err
			}
		}
		if sub.len > MaxTotalLength {
			return &EncodingError{TypeID: p.typeID, Err: ErrFramingOverflow}
		}
		w.writeBits(uint64(sub.len), TotalLengthWidth)
		w.writeSequence(sub.sequence())
	}
	return nil
}

// writeLiteral writes v as the minimal run of 5-bit groups, at least one.
func writeLiteral(w *bitWriter, v *uint256.Int) {
	groups := (v.BitLen() + 3) / 4
	if groups == 0 {
		groups = 1
	}
	nibble := new(uint256.Int)
	for i := groups - 1; i >= 0; i-- {
		nibble.Rsh(v, uint(4*i))
		group := nibble.Uint64() & groupPayload
		if i > 0 {
			group |= groupContinue
		}
		w.writeBits(group, GroupWidth)
	}
}

var defaultEncoder = NewEncoder()

// Encode encodes p with default options.
func Encode(p *Packet) (*BitSequence, error) {
	return defaultEncoder.Encode(p)
}

// EncodeHex encodes p with default options, padded to a whole byte.
func EncodeHex(p *Packet) (string, error) {
	return defaultEncoder.EncodeHex(p)
}
