//
// eval.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"github.com/cockroachdb/errors"
	"github.com/markkurossi/garbled/ot"
)

// Evaluate computes the root label of the garbled circuit from the
// argument input labels, one label per input wire. Each gate is
// opened with the single truth table entry selected by the child
// pointer bits; the evaluator learns the output label and nothing
// else. A failed integrity check aborts the evaluation with
// ErrDecryptionFailed.
func (gc *GarbledCircuit) Evaluate(inputs []ot.Label) (ot.Label, error) {
	var zero ot.Label

	if len(inputs) != gc.NumInputs {
		return zero, errors.Wrapf(ErrMalformed, "%d labels for %d wires",
			len(inputs), gc.NumInputs)
	}

	type frame struct {
		node    GarbledNode
		visited bool
	}
	var labels []ot.Label
	var tweak uint32
	var processed int

	stack := []frame{{node: gc.Root}}
	for len(stack) > 0 {
		processed++
		if processed > 3*maxNodes {
			return zero, errors.Wrap(ErrMalformed, "circuit too large")
		}
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.node == nil {
			return zero, errors.Wrap(ErrMalformed, "nil node")
		}
		if f.visited {
			gate := f.node.(*GarbledGate)
			r := labels[len(labels)-1]
			l := labels[len(labels)-2]
			labels = labels[:len(labels)-2]

			label, err := decrypt(l, r, tweak, &gate.Table[idx(l, r)])
			if err != nil {
				return zero, err
			}
			tweak++
			labels = append(labels, label)
			continue
		}
		switch n := f.node.(type) {
		case *GarbledInput:
			if n.Idx < 0 || n.Idx >= len(inputs) {
				return zero, errors.Wrapf(ErrMalformed, "input index %d",
					n.Idx)
			}
			labels = append(labels, inputs[n.Idx])

		case *GarbledGate:
			stack = append(stack, frame{node: f.node, visited: true})
			stack = append(stack, frame{node: n.Right})
			stack = append(stack, frame{node: n.Left})

		default:
			return zero, errors.Wrapf(ErrMalformed, "unknown node %T",
				f.node)
		}
	}
	if len(labels) != 1 {
		return zero, errors.Wrap(ErrMalformed, "unbalanced circuit")
	}
	return labels[0], nil
}
