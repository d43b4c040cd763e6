//
// builder_test.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"testing"
)

// testInputs lays out the parties' values on the comparator wires:
// wire i is bit i of x, wire bits+i is bit i of y.
func testInputs(bits int, x, y uint) []bool {
	inputs := make([]bool, 2*bits)
	for i := 0; i < bits; i++ {
		inputs[i] = (x>>uint(i))&1 != 0
		inputs[bits+i] = (y>>uint(i))&1 != 0
	}
	return inputs
}

func TestComparator(t *testing.T) {
	for bits := 1; bits <= 4; bits++ {
		circ, err := NewComparator(bits)
		if err != nil {
			t.Fatalf("NewComparator(%d): %v", bits, err)
		}
		if circ.N1 != bits || circ.N2 != bits {
			t.Fatalf("NewComparator(%d): wires %d+%d",
				bits, circ.N1, circ.N2)
		}
		limit := uint(1) << uint(bits)
		for x := uint(0); x < limit; x++ {
			for y := uint(0); y < limit; y++ {
				result, err := circ.Eval(testInputs(bits, x, y))
				if err != nil {
					t.Fatalf("Eval(%d,%d): %v", x, y, err)
				}
				if result != (x > y) {
					t.Errorf("compare%d(%d,%d) = %v, expected %v",
						bits, x, y, result, x > y)
				}
			}
		}
	}
}

func TestEqual(t *testing.T) {
	for bits := 1; bits <= 4; bits++ {
		circ, err := NewEqual(bits)
		if err != nil {
			t.Fatalf("NewEqual(%d): %v", bits, err)
		}
		limit := uint(1) << uint(bits)
		for x := uint(0); x < limit; x++ {
			for y := uint(0); y < limit; y++ {
				result, err := circ.Eval(testInputs(bits, x, y))
				if err != nil {
					t.Fatalf("Eval(%d,%d): %v", x, y, err)
				}
				if result != (x == y) {
					t.Errorf("equal%d(%d,%d) = %v, expected %v",
						bits, x, y, result, x == y)
				}
			}
		}
	}
}

func TestXORChain(t *testing.T) {
	for n := 1; n <= 5; n++ {
		circ, err := NewXORChain(n)
		if err != nil {
			t.Fatalf("NewXORChain(%d): %v", n, err)
		}
		if circ.NumInputs() != n {
			t.Fatalf("NewXORChain(%d): %d wires", n, circ.NumInputs())
		}
		for mask := uint(0); mask < 1<<uint(n); mask++ {
			inputs := make([]bool, n)
			var parity bool
			for i := 0; i < n; i++ {
				inputs[i] = (mask>>uint(i))&1 != 0
				if inputs[i] {
					parity = !parity
				}
			}
			result, err := circ.Eval(inputs)
			if err != nil {
				t.Fatalf("Eval(%b): %v", mask, err)
			}
			if result != parity {
				t.Errorf("xor%d(%b) = %v, expected %v",
					n, mask, result, parity)
			}
		}
	}
}

func TestBuilderBadWidth(t *testing.T) {
	if _, err := NewComparator(0); err == nil {
		t.Error("NewComparator(0) succeeded")
	}
	if _, err := NewEqual(-1); err == nil {
		t.Error("NewEqual(-1) succeeded")
	}
	if _, err := NewXORChain(0); err == nil {
		t.Error("NewXORChain(0) succeeded")
	}
}
