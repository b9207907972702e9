package packet

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure conditions.
var (
	// ErrInvalidHexDigit indicates a character outside [0-9A-Fa-f] in hex input.
	ErrInvalidHexDigit = errors.New("packet: invalid hex digit")

	// ErrInvalidBinaryDigit indicates a character other than '0' or '1' in binary input.
	ErrInvalidBinaryDigit = errors.New("packet: invalid binary digit")

	// ErrOutOfBits indicates the input ended before a required field could be read.
	ErrOutOfBits = errors.New("packet: out of bits")

	// ErrInvalidWidth indicates a field width outside 1..64 bits.
	ErrInvalidWidth = errors.New("packet: invalid field width (must be 1-64)")

	// ErrMalformedSubpacketLength indicates sub-packets did not exactly fill the declared bit length.
	ErrMalformedSubpacketLength = errors.New("packet: sub-packets do not fill declared bit length")

	// ErrArityViolation indicates an operator with the wrong number of children.
	ErrArityViolation = errors.New("packet: operator arity violation")

	// ErrRecursionLimitExceeded indicates packets nested deeper than the decoder allows.
	ErrRecursionLimitExceeded = errors.New("packet: recursion limit exceeded")

	// ErrInvalidTypeTag indicates a type id or length type outside its range.
	ErrInvalidTypeTag = errors.New("packet: invalid type tag")

	// ErrInvalidVersion indicates a version that does not fit in 3 bits.
	ErrInvalidVersion = errors.New("packet: invalid version (max 7)")

	// ErrNilPacket indicates a nil packet where one is required.
	ErrNilPacket = errors.New("packet: nil packet")

	// ErrLiteralOverflow indicates a literal wider than 256 bits.
	ErrLiteralOverflow = errors.New("packet: literal exceeds 256 bits")

	// ErrValueOverflow indicates an evaluated value exceeding the integer ceiling.
	ErrValueOverflow = errors.New("packet: value overflow")

	// ErrFramingOverflow indicates children that cannot be framed in 15 or 11 bits.
	ErrFramingOverflow = errors.New("packet: sub-packets exceed framing limit")

	// ErrTrailingData indicates non-zero bits after the root packet.
	ErrTrailingData = errors.New("packet: non-zero trailing bits")
)

// HexDigitError reports the offending character of a hex string.
type HexDigitError struct {
	Pos  int
	Char rune
}

func (e *HexDigitError) Error() string {
	return fmt.Sprintf("packet: invalid hex digit %q at position %d", e.Char, e.Pos)
}

func (e *HexDigitError) Unwrap() error {
	return ErrInvalidHexDigit
}

// OutOfBitsError indicates a read that needed more bits than remained.
type OutOfBitsError struct {
	Offset int
	Want   int
	Have   int
}

func (e *OutOfBitsError) Error() string {
	return fmt.Sprintf("packet: out of bits at offset %d: want %d, have %d", e.Offset, e.Want, e.Have)
}

func (e *OutOfBitsError) Unwrap() error {
	return ErrOutOfBits
}

// SubpacketLengthError indicates length-type 0 children overran their declared budget.
type SubpacketLengthError struct {
	Declared int
	Consumed int
}

func (e *SubpacketLengthError) Error() string {
	return fmt.Sprintf("packet: sub-packets overrun declared length %d (consumed %d before overrun)",
		e.Declared, e.Consumed)
}

func (e *SubpacketLengthError) Unwrap() error {
	return ErrMalformedSubpacketLength
}

// ArityError indicates an operator with an unsupported child count.
type ArityError struct {
	TypeID   TypeID
	Children int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("packet: %s operator cannot have %d children", e.TypeID, e.Children)
}

func (e *ArityError) Unwrap() error {
	return ErrArityViolation
}

// RecursionLimitError indicates nesting deeper than the configured maximum.
type RecursionLimitError struct {
	Limit int
}

func (e *RecursionLimitError) Error() string {
	return fmt.Sprintf("packet: recursion limit exceeded (max depth %d)", e.Limit)
}

func (e *RecursionLimitError) Unwrap() error {
	return ErrRecursionLimitExceeded
}

// DecodeError wraps errors that occur while decoding a packet.
type DecodeError struct {
	Offset int // bit offset of the failing packet's header
	Depth  int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("packet: decode at bit %d (depth %d): %v", e.Offset, e.Depth, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EncodingError indicates a failure while encoding a packet.
type EncodingError struct {
	TypeID TypeID
	Err    error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("packet: encoding error for %s packet: %v", e.TypeID, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}
