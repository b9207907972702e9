package packet

// Cursor is a forward-only reader over a BitSequence. Fields are read
// MSB-first as big-endian unsigned integers.
//
// A Cursor is owned by a single decode call and is not safe for concurrent use.
type Cursor struct {
	seq   *BitSequence
	off   int // current bit offset
	limit int // offset reads may not pass
}

// NewCursor creates a cursor positioned at the first bit of seq.
func NewCursor(seq *BitSequence) *Cursor {
	return &Cursor{seq: seq, limit: seq.Len()}
}

// Read consumes width bits (1-64) and returns them as an unsigned integer.
// On failure the offset is left unchanged.
func (c *Cursor) Read(width int) (uint64, error) {
	if width < 1 || width > 64 {
		return 0, ErrInvalidWidth
	}
	if have := c.limit - c.off; width > have {
		return 0, &OutOfBitsError{Offset: c.off, Want: width, Have: have}
	}

	data := c.seq.data
	var v uint64
	for remaining := width; remaining > 0; {
		byteIdx := c.off / 8
		bitIdx := c.off % 8
		avail := 8 - bitIdx
		take := remaining
		if take > avail {
			take = avail
		}
		// Bits [bitIdx, bitIdx+take) of the current byte, MSB first.
		chunk := (data[byteIdx] >> uint(avail-take)) & (0xFF >> uint(8-take))
		v = v<<uint(take) | uint64(chunk)
		c.off += take
		remaining -= take
	}
	return v, nil
}

// ReadBit consumes a single bit.
func (c *Cursor) ReadBit() (uint8, error) {
	v, err := c.Read(1)
	return uint8(v), err
}

// Offset returns the number of bits consumed from the start of the sequence.
func (c *Cursor) Offset() int {
	return c.off
}

// Remaining returns the number of unread bits.
func (c *Cursor) Remaining() int {
	return c.limit - c.off
}

// Len returns the length of the underlying sequence in bits.
func (c *Cursor) Len() int {
	return c.seq.Len()
}

// RemainingIsZeroPadding reports whether every unread bit is zero.
func (c *Cursor) RemainingIsZeroPadding() bool {
	for i := c.off; i < c.limit; i++ {
		if c.seq.Bit(i) != 0 {
			return false
		}
	}
	return true
}

// window returns a cursor bounded to the next n bits. The receiver is not
// advanced; callers skip past the window once it has been drained.
func (c *Cursor) window(n int) (*Cursor, error) {
	if have := c.limit - c.off; n > have {
		return nil, &OutOfBitsError{Offset: c.off, Want: n, Have: have}
	}
	return &Cursor{seq: c.seq, off: c.off, limit: c.off + n}, nil
}

// skip advances the offset by n bits.
func (c *Cursor) skip(n int) {
	c.off += n
}
