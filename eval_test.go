package packet

import (
	"errors"
	"sync"
	"testing"

	"github.com/holiman/uint256"
)

func TestVersionSumVectors(t *testing.T) {
	tests := []struct {
		hex  string
		want uint64
	}{
		{"D2FE28", 6},
		{"38006F45291200", 9},
		{"EE00D40C823060", 14},
		{"8A004A801A8002F478", 16},
		{"620080001611562C8802118E34", 12},
		{"C0015000016115A2E0802F182340", 23},
		{"A0016C880162017C3686B18A3D4780", 31},
	}

	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			res, err := DecodeHex(tt.hex)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got := res.Root.VersionSum(); got != tt.want {
				t.Errorf("Expected version sum %d, got %d", tt.want, got)
			}
		})
	}
}

func TestValueVectors(t *testing.T) {
	tests := []struct {
		name string
		hex  string
		want uint64
	}{
		{"literal", "D2FE28", 2021},
		{"sum", "C200B40A82", 3},
		{"product", "04005AC33890", 54},
		{"minimum", "880086C3E88112", 7},
		{"maximum", "CE00C43D881120", 9},
		{"less than", "D8005AC2A8F0", 1},
		{"greater than", "F600BC2D8F", 0},
		{"equal to", "9C005AC2F8F0", 0},
		{"nested equality", "9C0141080250320F1802104A08", 1},
		{"less than two literals", "38006F45291200", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := DecodeHex(tt.hex)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			got, err := ValueUint64(res.Root)
			if err != nil {
				t.Fatalf("Value: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestVersionSumSynthetic(t *testing.T) {
	tree := MustOperator(7, TypeSum,
		MustLiteral(1, 0),
		MustOperator(3, TypeProduct,
			MustLiteral(2, 5),
			MustLiteral(4, 6),
		),
		MustOperator(0, TypeMaximum,
			MustOperator(5, TypeEqualTo, MustLiteral(6, 1), MustLiteral(7, 1)),
		),
	)

	// 7 + 1 + (3 + 2 + 4) + (0 + (5 + 6 + 7))
	if got := VersionSum(tree); got != 35 {
		t.Errorf("Expected 35, got %d", got)
	}

	t.Run("additive over children", func(t *testing.T) {
		var childSum uint64
		for _, c := range tree.Children() {
			childSum += c.VersionSum()
		}
		if tree.VersionSum() != uint64(tree.Version())+childSum {
			t.Error("Version sum is not additive")
		}
	})

	t.Run("literal", func(t *testing.T) {
		if got := MustLiteral(5, 99).VersionSum(); got != 5 {
			t.Errorf("Expected 5, got %d", got)
		}
	})
}

func TestValueOperators(t *testing.T) {
	one := MustLiteral(0, 1)
	two := MustLiteral(0, 2)
	five := MustLiteral(0, 5)

	tests := []struct {
		name string
		p    *Packet
		want uint64
	}{
		{"sum", MustOperator(0, TypeSum, one, two, five), 8},
		{"single sum", MustOperator(0, TypeSum, five), 5},
		{"empty sum", MustOperator(0, TypeSum), 0},
		{"product", MustOperator(0, TypeProduct, two, five, two), 20},
		{"empty product", MustOperator(0, TypeProduct), 1},
		{"product with zero", MustOperator(0, TypeProduct, two, MustLiteral(0, 0)), 0},
		{"minimum", MustOperator(0, TypeMinimum, five, one, two), 1},
		{"single minimum", MustOperator(0, TypeMinimum, two), 2},
		{"maximum", MustOperator(0, TypeMaximum, one, five, two), 5},
		{"greater true", MustOperator(0, TypeGreaterThan, five, two), 1},
		{"greater false", MustOperator(0, TypeGreaterThan, two, two), 0},
		{"less true", MustOperator(0, TypeLessThan, one, two), 1},
		{"less false", MustOperator(0, TypeLessThan, five, two), 0},
		{"equal true", MustOperator(0, TypeEqualTo, two, MustLiteral(3, 2)), 1},
		{"equal false", MustOperator(0, TypeEqualTo, one, two), 0},
		{
			"nested",
			MustOperator(0, TypeProduct,
				MustOperator(0, TypeSum, one, two),
				MustOperator(0, TypeMaximum, five, MustOperator(0, TypeLessThan, one, five)),
			),
			15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValueUint64(tt.p)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestValueOverflow(t *testing.T) {
	max := new(uint256.Int).SetAllOne()
	big, err := NewLiteral(0, max)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	t.Run("sum", func(t *testing.T) {
		_, err := Value(MustOperator(0, TypeSum, big, MustLiteral(0, 1)))
		if !errors.Is(err, ErrValueOverflow) {
			t.Errorf("Expected ErrValueOverflow, got %v", err)
		}
	})

	t.Run("product", func(t *testing.T) {
		_, err := Value(MustOperator(0, TypeProduct, big, MustLiteral(0, 2)))
		if !errors.Is(err, ErrValueOverflow) {
			t.Errorf("Expected ErrValueOverflow, got %v", err)
		}
	})

	t.Run("product at ceiling", func(t *testing.T) {
		v, err := Value(MustOperator(0, TypeProduct, big, MustLiteral(0, 1)))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !v.Eq(max) {
			t.Errorf("Expected 2^256-1, got %s", v.Dec())
		}
	})

	t.Run("beyond uint64", func(t *testing.T) {
		p := MustOperator(0, TypeProduct, MustLiteral(0, 1<<40), MustLiteral(0, 1<<40))
		v, err := Value(p)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if v.Dec() != "1208925819614629174706176" {
			t.Errorf("Expected 2^80, got %s", v.Dec())
		}
		if _, err := ValueUint64(p); !errors.Is(err, ErrValueOverflow) {
			t.Errorf("Expected ErrValueOverflow from ValueUint64, got %v", err)
		}
	})
}

func TestValueArityGuard(t *testing.T) {
	// Bypass the constructors to reach the evaluator's own check.
	bad := &Packet{
		typeID:   TypeEqualTo,
		children: []*Packet{MustLiteral(0, 1)},
	}
	_, err := Value(bad)
	if !errors.Is(err, ErrArityViolation) {
		t.Fatalf("Expected ErrArityViolation, got %v", err)
	}

	empty := &Packet{typeID: TypeMaximum}
	if _, err := Value(empty); !errors.Is(err, ErrArityViolation) {
		t.Errorf("Expected ErrArityViolation, got %v", err)
	}

	nested := MustOperator(0, TypeSum, MustLiteral(0, 1))
	nested.children = append(nested.children, bad)
	if _, err := Value(nested); !errors.Is(err, ErrArityViolation) {
		t.Errorf("Expected nested ErrArityViolation, got %v", err)
	}
}

func TestValueNil(t *testing.T) {
	if _, err := Value(nil); !errors.Is(err, ErrNilPacket) {
		t.Errorf("Expected ErrNilPacket, got %v", err)
	}
}

func TestValueDoesNotAliasLiteral(t *testing.T) {
	p := MustLiteral(0, 7)
	v, err := p.Value()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	v.SetUint64(100)

	again, _ := ValueUint64(p)
	if again != 7 {
		t.Errorf("Literal was mutated through Value result: %d", again)
	}
}

func TestEvaluateConcurrently(t *testing.T) {
	res, err := DecodeHex("9C0141080250320F1802104A08")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := ValueUint64(res.Root)
			if err == nil && v != 1 {
				err = errors.New("unexpected value")
			}
			if res.Root.VersionSum() != 20 {
				err = errors.New("unexpected version sum")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Error(err)
		}
	}
}
