//
// builder.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"github.com/cockroachdb/errors"
)

// NewComparator creates a greater-than comparator: the circuit
// outputs true when the garbler's bits-wide value is greater than the
// evaluator's. Wire i carries bit i of the garbler's value and wire
// bits+i bit i of the evaluator's, bit 0 being the least significant.
func NewComparator(bits int) (*Circuit, error) {
	if bits < 1 {
		return nil, errors.Wrapf(ErrMalformed, "comparator width %d", bits)
	}

	// MSB first: x > y when some bit of x exceeds the matching bit
	// of y and all higher bits are equal.
	var result Node
	var prefix Node
	for i := bits - 1; i >= 0; i-- {
		x := NewInput(i)
		y := NewInput(bits + i)

		var term Node = NewGate(GT, x, y)
		if prefix != nil {
			term = NewGate(AND, prefix, term)
		}
		if result == nil {
			result = term
		} else {
			result = NewGate(OR, result, term)
		}

		eq := NewGate(XNOR, x, y)
		if prefix == nil {
			prefix = eq
		} else {
			prefix = NewGate(AND, prefix, eq)
		}
	}
	return NewCircuit(result, bits)
}

// NewEqual creates an equality circuit: it outputs true when the
// parties' bits-wide values are equal. The wire layout matches
// NewComparator.
func NewEqual(bits int) (*Circuit, error) {
	if bits < 1 {
		return nil, errors.Wrapf(ErrMalformed, "equality width %d", bits)
	}
	var result Node
	for i := bits - 1; i >= 0; i-- {
		var eq Node = NewGate(XNOR, NewInput(i), NewInput(bits+i))
		if result == nil {
			result = eq
		} else {
			result = NewGate(AND, result, eq)
		}
	}
	return NewCircuit(result, bits)
}

// NewXORChain creates an n-input XOR chain computing the parity of
// its inputs. The garbler owns the first wire and the evaluator the
// remaining n-1 wires.
func NewXORChain(n int) (*Circuit, error) {
	if n < 1 {
		return nil, errors.Wrapf(ErrMalformed, "chain width %d", n)
	}
	var result Node = NewInput(0)
	for i := 1; i < n; i++ {
		result = NewGate(XOR, result, NewInput(i))
	}
	return NewCircuit(result, 1)
}
