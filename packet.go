// Package packet decodes, evaluates, and encodes BITS transmissions: a
// self-describing, bit-packed format in which a flat stream of bits encodes a
// tree of typed packets.
//
// Every packet starts with a 3-bit version and a 3-bit type id. Type 4 is a
// literal carrying one unsigned integer; every other type is an operator
// carrying child packets, and the tree reduces to a single scalar.
//
// # Basic Usage
//
// Decode a hex transmission and evaluate it:
//
//	res, err := packet.DecodeHex("9C0141080250320F1802104A08")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sum := res.Root.VersionSum()
//	val, err := res.Root.Value() // 1 (equality inside arithmetic)
//
// # Literal Encoding
//
// A literal's value is split into 4-bit groups, most significant first. Each
// group is prefixed with a continuation bit: 1 when more groups follow, 0 on
// the last group. Values are held in 256-bit unsigned integers.
//
// # Operator Framing
//
// After the header an operator reads a single length-type bit:
//
//   - Length type 0: a 15-bit field gives the total length in bits of the
//     children that follow. The children must fill it exactly.
//
//   - Length type 1: an 11-bit field gives the number of children that follow.
//
// # Operators
//
// Sum (0), product (1), minimum (2), and maximum (3) reduce any number of
// children. Greater-than (5), less-than (6), and equal-to (7) compare exactly
// two children and produce 1 or 0.
//
// # Encoding
//
// Trees built with NewLiteral and NewOperator, or obtained from the decoder,
// can be written back to bits with an Encoder.
package packet

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// Header field widths in bits.
const (
	VersionWidth     = 3
	TypeIDWidth      = 3
	LengthTypeWidth  = 1
	TotalLengthWidth = 15
	CountWidth       = 11
	GroupWidth       = 5

	// MaxVersion is the largest version that fits the header field.
	MaxVersion = 1<<VersionWidth - 1

	// MaxTotalLength is the largest child bit length length-type 0 can declare.
	MaxTotalLength = 1<<TotalLengthWidth - 1

	// MaxCount is the largest child count length-type 1 can declare.
	MaxCount = 1<<CountWidth - 1

	// MaxLiteralBits is the widest literal the decoder accepts.
	MaxLiteralBits = 256
)

// TypeID selects how a packet is interpreted.
type TypeID uint8

const (
	// TypeSum adds all child values.
	TypeSum TypeID = 0

	// TypeProduct multiplies all child values.
	TypeProduct TypeID = 1

	// TypeMinimum takes the smallest child value.
	TypeMinimum TypeID = 2

	// TypeMaximum takes the largest child value.
	TypeMaximum TypeID = 3

	// TypeLiteral carries a single integer.
	TypeLiteral TypeID = 4

	// TypeGreaterThan is 1 if the first child is greater than the second.
	TypeGreaterThan TypeID = 5

	// TypeLessThan is 1 if the first child is less than the second.
	TypeLessThan TypeID = 6

	// TypeEqualTo is 1 if both children are equal.
	TypeEqualTo TypeID = 7
)

var typeNames = [...]string{"sum", "product", "minimum", "maximum", "literal", "gt", "lt", "eq"}

func (t TypeID) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// Valid returns true if t fits the 3-bit type field.
func (t TypeID) Valid() bool {
	return t <= TypeEqualTo
}

// IsLiteral returns true for the literal type.
func (t TypeID) IsLiteral() bool {
	return t == TypeLiteral
}

// IsComparison returns true for the two-child comparison operators.
func (t TypeID) IsComparison() bool {
	return t >= TypeGreaterThan && t <= TypeEqualTo
}

// checkArity validates a child count for an operator type.
func (t TypeID) checkArity(n int) error {
	switch {
	case t.IsComparison() && n != 2,
		(t == TypeMinimum || t == TypeMaximum) && n == 0:
		return &ArityError{TypeID: t, Children: n}
	}
	return nil
}

// LengthType is the framing scheme of an operator's children.
type LengthType uint8

const (
	// LengthTypeBits frames children by their total length in bits.
	LengthTypeBits LengthType = 0

	// LengthTypeCount frames children by their number.
	LengthTypeCount LengthType = 1
)

func (l LengthType) String() string {
	switch l {
	case LengthTypeBits:
		return "bits"
	case LengthTypeCount:
		return "count"
	default:
		return fmt.Sprintf("length-type(%d)", uint8(l))
	}
}

// Packet is one node of a decoded or constructed tree. Packets are immutable;
// accessors return copies.
type Packet struct {
	version    uint8
	typeID     TypeID
	literal    *uint256.Int // literals only
	children   []*Packet    // operators only
	lengthType LengthType   // operators only
	bitLen     int          // encoded size when decoded, 0 when constructed
}

// NewLiteral creates a literal packet.
func NewLiteral(version uint8, v *uint256.Int) (*Packet, error) {
	if version > MaxVersion {
		return nil, ErrInvalidVersion
	}
	if v == nil {
		v = new(uint256.Int)
	}
	return &Packet{
		version: version,
		typeID:  TypeLiteral,
		literal: new(uint256.Int).Set(v),
	}, nil
}

// NewLiteralUint64 creates a literal packet from a uint64.
func NewLiteralUint64(version uint8, v uint64) (*Packet, error) {
	return NewLiteral(version, uint256.NewInt(v))
}

// MustLiteral is like NewLiteralUint64 but panics on error.
func MustLiteral(version uint8, v uint64) *Packet {
	p, err := NewLiteralUint64(version, v)
	if err != nil {
		panic(err)
	}
	return p
}

// NewOperator creates an operator packet that owns the given children.
// The packet frames its children by count unless changed with WithLengthType.
func NewOperator(version uint8, t TypeID, children ...*Packet) (*Packet, error) {
	if version > MaxVersion {
		return nil, ErrInvalidVersion
	}
	if !t.Valid() || t.IsLiteral() {
		return nil, fmt.Errorf("%w: %s is not an operator", ErrInvalidTypeTag, t)
	}
	for _, c := range children {
		if c == nil {
			return nil, ErrNilPacket
		}
	}
	if err := t.checkArity(len(children)); err != nil {
		return nil, err
	}

	owned := make([]*Packet, len(children))
	copy(owned, children)
	return &Packet{
		version:    version,
		typeID:     t,
		children:   owned,
		lengthType: LengthTypeCount,
	}, nil
}

// MustOperator is like NewOperator but panics on error.
func MustOperator(version uint8, t TypeID, children ...*Packet) *Packet {
	p, err := NewOperator(version, t, children...)
	if err != nil {
		panic(err)
	}
	return p
}

// WithLengthType returns a copy of an operator packet using the given framing.
// Literals are returned unchanged.
func (p *Packet) WithLengthType(l LengthType) *Packet {
	if p.IsLiteral() {
		return p
	}
	cp := *p
	cp.lengthType = l & 1
	cp.bitLen = 0
	return &cp
}

// Version returns the 3-bit version field.
func (p *Packet) Version() uint8 {
	return p.version
}

// TypeID returns the 3-bit type field.
func (p *Packet) TypeID() TypeID {
	return p.typeID
}

// IsLiteral returns true if the packet carries a literal value.
func (p *Packet) IsLiteral() bool {
	return p.typeID.IsLiteral()
}

// Literal returns a copy of the literal value, or nil for operators.
func (p *Packet) Literal() *uint256.Int {
	if p.literal == nil {
		return nil
	}
	return new(uint256.Int).Set(p.literal)
}

// Children returns the operator's children in order. Literals have none.
func (p *Packet) Children() []*Packet {
	out := make([]*Packet, len(p.children))
	copy(out, p.children)
	return out
}

// NumChildren returns the number of children.
func (p *Packet) NumChildren() int {
	return len(p.children)
}

// Child returns the i-th child.
func (p *Packet) Child(i int) *Packet {
	return p.children[i]
}

// LengthType returns the framing of an operator's children.
func (p *Packet) LengthType() LengthType {
	return p.lengthType
}

// BitLen returns the number of bits the packet occupied in the transmission
// it was decoded from, or 0 for constructed packets.
func (p *Packet) BitLen() int {
	return p.bitLen
}

// Walk visits the tree in pre-order. Returning false from fn skips the
// packet's children.
func (p *Packet) Walk(fn func(p *Packet, depth int) bool) {
	p.walk(fn, 0)
}

func (p *Packet) walk(fn func(*Packet, int) bool, depth int) {
	if !fn(p, depth) {
		return
	}
	for _, c := range p.children {
		c.walk(fn, depth+1)
	}
}

// Count returns the number of packets in the tree.
func (p *Packet) Count() int {
	n := 0
	p.Walk(func(*Packet, int) bool {
		n++
		return true
	})
	return n
}

// Depth returns the nesting depth of the tree; a lone literal has depth 1.
func (p *Packet) Depth() int {
	max := 0
	p.Walk(func(_ *Packet, depth int) bool {
		if depth+1 > max {
			max = depth + 1
		}
		return true
	})
	return max
}

// String renders the tree, one packet per line.
func (p *Packet) String() string {
	var sb strings.Builder
	p.Walk(func(q *Packet, depth int) bool {
		sb.WriteString(strings.Repeat("  ", depth))
		if q.IsLiteral() {
			fmt.Fprintf(&sb, "v%d literal %s\n", q.version, q.literal.Dec())
		} else {
			fmt.Fprintf(&sb, "v%d %s [%s, %d children]\n", q.version, q.typeID, q.lengthType, len(q.children))
		}
		return true
	})
	return sb.String()
}
