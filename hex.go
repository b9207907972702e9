package packet

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// BitSequence is an immutable string of bits, packed MSB-first into bytes.
type BitSequence struct {
	data []byte
	n    int
}

// FromHex expands a hexadecimal string into its bit sequence, four bits per
// character, most significant bit first. Digits are case-insensitive.
func FromHex(s string) (*BitSequence, error) {
	w := newBitWriter(len(s) * 4)
	for i, c := range s {
		nibble, ok := hexNibble(c)
		if !ok {
			return nil, &HexDigitError{Pos: i, Char: c}
		}
		w.writeBits(uint64(nibble), 4)
	}
	return w.sequence(), nil
}

// MustFromHex is like FromHex but panics on error.
// Use only with compile-time constant values.
func MustFromHex(s string) *BitSequence {
	seq, err := FromHex(s)
	if err != nil {
		panic(err)
	}
	return seq
}

// FromBinary builds a bit sequence from a string of '0' and '1' characters.
func FromBinary(s string) (*BitSequence, error) {
	w := newBitWriter(len(s))
	for _, c := range s {
		switch c {
		case '0':
			w.writeBits(0, 1)
		case '1':
			w.writeBits(1, 1)
		default:
			return nil, ErrInvalidBinaryDigit
		}
	}
	return w.sequence(), nil
}

// FromBytes wraps whole bytes as a bit sequence of length 8*len(b).
func FromBytes(b []byte) *BitSequence {
	data := make([]byte, len(b))
	copy(data, b)
	return &BitSequence{data: data, n: len(b) * 8}
}

func hexNibble(c rune) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return byte(c - '0'), true
	case c >= 'A' && c <= 'F':
		return byte(c-'A') + 10, true
	case c >= 'a' && c <= 'f':
		return byte(c-'a') + 10, true
	default:
		return 0, false
	}
}

// Len returns the number of bits in the sequence.
func (b *BitSequence) Len() int {
	return b.n
}

// Bit returns the bit at index i (0 or 1). It panics if i is out of range.
func (b *BitSequence) Bit(i int) uint8 {
	if i < 0 || i >= b.n {
		panic("packet: bit index out of range")
	}
	return (b.data[i/8] >> (7 - uint(i%8))) & 1
}

// Bytes returns a copy of the packed bytes. Unused low bits of the last byte are zero.
func (b *BitSequence) Bytes() []byte {
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

// String renders the sequence as binary digits.
func (b *BitSequence) String() string {
	var sb strings.Builder
	sb.Grow(b.n)
	for i := 0; i < b.n; i++ {
		sb.WriteByte('0' + b.Bit(i))
	}
	return sb.String()
}

// Hex renders the sequence as uppercase hex. A length that is not a multiple
// of four is zero-filled to the next nibble.
func (b *BitSequence) Hex() string {
	digits := (b.n + 3) / 4
	return strings.ToUpper(common.Bytes2Hex(b.data))[:digits]
}

// bitWriter accumulates bits MSB-first.
type bitWriter struct {
	buf []byte
	acc uint64
	n   uint8 // bits held in acc
	len int
}

func newBitWriter(sizeHint int) *bitWriter {
	return &bitWriter{buf: make([]byte, 0, (sizeHint+7)/8)}
}

// writeBits appends the low `bits` bits of v, most significant first.
func (w *bitWriter) writeBits(v uint64, bits uint8) {
	for bits > 0 {
		take := bits
		if free := 64 - w.n; take > free {
			take = free
		}
		if take > 32 {
			take = 32
		}
		chunk := (v >> (bits - take)) & (1<<take - 1)
		w.acc = w.acc<<take | chunk
		w.n += take
		bits -= take
		w.len += int(take)
		for w.n >= 8 {
			w.buf = append(w.buf, byte(w.acc>>(w.n-8)))
			w.n -= 8
			w.acc &= 1<<w.n - 1
		}
	}
}

// writeSequence appends every bit of seq.
func (w *bitWriter) writeSequence(seq *BitSequence) {
	full := seq.n / 8
	for i := 0; i < full; i++ {
		w.writeBits(uint64(seq.data[i]), 8)
	}
	if rem := uint8(seq.n % 8); rem > 0 {
		w.writeBits(uint64(seq.data[full]>>(8-rem)), rem)
	}
}

// padTo appends zero bits until the length is a multiple of align.
func (w *bitWriter) padTo(align int) {
	if align <= 1 {
		return
	}
	if rem := w.len % align; rem != 0 {
		w.writeBits(0, uint8(align-rem))
	}
}

func (w *bitWriter) sequence() *BitSequence {
	data := make([]byte, len(w.buf), len(w.buf)+1)
	copy(data, w.buf)
	if w.n > 0 {
		data = append(data, byte(w.acc<<(8-w.n)))
	}
	return &BitSequence{data: data, n: w.len}
}
