package packet

import (
	"errors"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{"ErrInvalidHexDigit", ErrInvalidHexDigit, "packet: invalid hex digit"},
		{"ErrInvalidBinaryDigit", ErrInvalidBinaryDigit, "packet: invalid binary digit"},
		{"ErrOutOfBits", ErrOutOfBits, "packet: out of bits"},
		{"ErrInvalidWidth", ErrInvalidWidth, "packet: invalid field width (must be 1-64)"},
		{"ErrMalformedSubpacketLength", ErrMalformedSubpacketLength, "packet: sub-packets do not fill declared bit length"},
		{"ErrArityViolation", ErrArityViolation, "packet: operator arity violation"},
		{"ErrRecursionLimitExceeded", ErrRecursionLimitExceeded, "packet: recursion limit exceeded"},
		{"ErrInvalidTypeTag", ErrInvalidTypeTag, "packet: invalid type tag"},
		{"ErrInvalidVersion", ErrInvalidVersion, "packet: invalid version (max 7)"},
		{"ErrNilPacket", ErrNilPacket, "packet: nil packet"},
		{"ErrLiteralOverflow", ErrLiteralOverflow, "packet: literal exceeds 256 bits"},
		{"ErrValueOverflow", ErrValueOverflow, "packet: value overflow"},
		{"ErrFramingOverflow", ErrFramingOverflow, "packet: sub-packets exceed framing limit"},
		{"ErrTrailingData", ErrTrailingData, "packet: non-zero trailing bits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.msg {
				t.Errorf("Expected error message %q, got %q", tt.msg, tt.err.Error())
			}
		})
	}
}

func TestHexDigitError(t *testing.T) {
	err := &HexDigitError{Pos: 4, Char: 'z'}

	expected := `packet: invalid hex digit 'z' at position 4`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
	if !errors.Is(err, ErrInvalidHexDigit) {
		t.Error("errors.Is should find ErrInvalidHexDigit")
	}
}

func TestOutOfBitsError(t *testing.T) {
	err := &OutOfBitsError{Offset: 21, Want: 5, Have: 3}

	expected := "packet: out of bits at offset 21: want 5, have 3"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
	if !errors.Is(err, ErrOutOfBits) {
		t.Error("errors.Is should find ErrOutOfBits")
	}
}

func TestSubpacketLengthError(t *testing.T) {
	err := &SubpacketLengthError{Declared: 27, Consumed: 22}

	expected := "packet: sub-packets overrun declared length 27 (consumed 22 before overrun)"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
	if !errors.Is(err, ErrMalformedSubpacketLength) {
		t.Error("errors.Is should find ErrMalformedSubpacketLength")
	}
}

func TestArityError(t *testing.T) {
	err := &ArityError{TypeID: TypeEqualTo, Children: 3}

	expected := "packet: eq operator cannot have 3 children"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
	if !errors.Is(err, ErrArityViolation) {
		t.Error("errors.Is should find ErrArityViolation")
	}
}

func TestRecursionLimitError(t *testing.T) {
	err := &RecursionLimitError{Limit: 16}

	expected := "packet: recursion limit exceeded (max depth 16)"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
	if !errors.Is(err, ErrRecursionLimitExceeded) {
		t.Error("errors.Is should find ErrRecursionLimitExceeded")
	}
}

func TestDecodeError(t *testing.T) {
	t.Run("with wrapped error", func(t *testing.T) {
		inner := &OutOfBitsError{Offset: 40, Want: 5, Have: 2}
		err := &DecodeError{Offset: 29, Depth: 2, Err: inner}

		expected := "packet: decode at bit 29 (depth 2): packet: out of bits at offset 40: want 5, have 2"
		if err.Error() != expected {
			t.Errorf("Expected error message %q, got %q", expected, err.Error())
		}
		if err.Unwrap() != inner {
			t.Error("Unwrap should return the inner error")
		}
	})

	t.Run("error chain with errors.As", func(t *testing.T) {
		err := &DecodeError{Err: &ArityError{TypeID: TypeLessThan, Children: 1}}

		var arityErr *ArityError
		if !errors.As(err, &arityErr) {
			t.Fatal("errors.As should find *ArityError in chain")
		}
		if !errors.Is(err, ErrArityViolation) {
			t.Error("errors.Is should find ErrArityViolation in chain")
		}
	})
}

func TestEncodingError(t *testing.T) {
	err := &EncodingError{TypeID: TypeSum, Err: ErrFramingOverflow}

	expected := "packet: encoding error for sum packet: packet: sub-packets exceed framing limit"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
	if !errors.Is(err, ErrFramingOverflow) {
		t.Error("errors.Is should find ErrFramingOverflow in chain")
	}
}
