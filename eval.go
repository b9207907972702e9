package packet

import (
	"github.com/holiman/uint256"
)

// VersionSum returns the sum of the version fields of p and all its descendants.
func VersionSum(p *Packet) uint64 {
	sum := uint64(p.version)
	for _, c := range p.children {
		sum += VersionSum(c)
	}
	return sum
}

// VersionSum returns the sum of the version fields in the tree.
func (p *Packet) VersionSum() uint64 {
	return VersionSum(p)
}

// Value evaluates the tree rooted at p. Arithmetic is 256-bit unsigned; a sum
// or product that does not fit fails with ErrValueOverflow.
func Value(p *Packet) (*uint256.Int, error) {
	if p == nil {
		return nil, ErrNilPacket
	}
	if p.IsLiteral() {
		return new(uint256.Int).Set(p.literal), nil
	}

	values := make([]*uint256.Int, len(p.children))
	for i, c := range p.children {
		v, err := Value(c)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return reduce(p.typeID, values)
}

// Value evaluates the tree.
func (p *Packet) Value() (*uint256.Int, error) {
	return Value(p)
}

// ValueUint64 evaluates the tree and returns the result as a uint64.
func ValueUint64(p *Packet) (uint64, error) {
	v, err := Value(p)
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		return 0, ErrValueOverflow
	}
	return v.Uint64(), nil
}

// reduce folds evaluated child values according to the operator type.
func reduce(t TypeID, values []*uint256.Int) (*uint256.Int, error) {
	if err := t.checkArity(len(values)); err != nil {
		return nil, err
	}

	switch t {
	case TypeSum:
		acc := new(uint256.Int)
		for _, v := range values {
			if _, overflow := acc.AddOverflow(acc, v); overflow {
				return nil, ErrValueOverflow
			}
		}
		return acc, nil

	case TypeProduct:
		acc := uint256.NewInt(1)
		for _, v := range values {
			if _, overflow := acc.MulOverflow(acc, v); overflow {
				return nil, ErrValueOverflow
			}
		}
		return acc, nil

	case TypeMinimum:
		acc := values[0]
		for _, v := range values[1:] {
			if v.Lt(acc) {
				acc = v
			}
		}
		return acc, nil

	case TypeMaximum:
		acc := values[0]
		for _, v := range values[1:] {
			if v.Gt(acc) {
				acc = v
			}
		}
		return acc, nil

	case TypeGreaterThan:
		return boolValue(values[0].Gt(values[1])), nil

	case TypeLessThan:
		return boolValue(values[0].Lt(values[1])), nil

	case TypeEqualTo:
		return boolValue(values[0].Eq(values[1])), nil

	default:
		return nil, ErrInvalidTypeTag
	}
}

func boolValue(b bool) *uint256.Int {
	if b {
		return uint256.NewInt(1)
	}
	return new(uint256.Int)
}
