//
// marshal.go
//
// Copyright (c) 2023-2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"
)

var (
	bo = binary.BigEndian

	// MAGIC identifies the garbled circuit encoding.
	MAGIC = uint32(0x67626330) // gbc0
)

// Node tags of the gbc0 encoding.
const (
	tagInput = 0
	tagGate  = 1
)

// Marshal writes the garbled circuit in the gbc0 format: the magic
// word, the input count, and the circuit tree in pre-order with
// tagged nodes.
func (gc *GarbledCircuit) Marshal(out io.Writer) error {
	if err := binary.Write(out, bo, MAGIC); err != nil {
		return err
	}
	if err := binary.Write(out, bo, uint32(gc.NumInputs)); err != nil {
		return err
	}

	// Pre-order without recursion: the right child is pushed first
	// so the left subtree serializes first.
	stack := []GarbledNode{gc.Root}
	var processed int

	for len(stack) > 0 {
		processed++
		if processed > maxNodes {
			return errors.Wrap(ErrMalformed, "circuit too large")
		}
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch n := node.(type) {
		case *GarbledInput:
			if n.Idx < 0 || n.Idx >= gc.NumInputs {
				return errors.Wrapf(ErrMalformed, "input index %d", n.Idx)
			}
			if err := binary.Write(out, bo, byte(tagInput)); err != nil {
				return err
			}
			if err := binary.Write(out, bo, uint32(n.Idx)); err != nil {
				return err
			}

		case *GarbledGate:
			if n.Left == nil || n.Right == nil {
				return errors.Wrap(ErrMalformed, "nil node")
			}
			if err := binary.Write(out, bo, byte(tagGate)); err != nil {
				return err
			}
			if err := binary.Write(out, bo, n.Table); err != nil {
				return err
			}
			stack = append(stack, n.Right)
			stack = append(stack, n.Left)

		default:
			return errors.Wrapf(ErrMalformed, "unknown node %T", node)
		}
	}
	return nil
}

// UnmarshalGarbledCircuit parses a garbled circuit in the gbc0
// format. The parse is bounded: unknown tags, out-of-range input
// indices, and trees above the node cap are rejected with
// ErrMalformed. The reader is consumed exactly up to the end of the
// tree.
func UnmarshalGarbledCircuit(in io.Reader) (*GarbledCircuit, error) {
	var magic uint32
	if err := binary.Read(in, bo, &magic); err != nil {
		return nil, err
	}
	if magic != MAGIC {
		return nil, errors.Wrapf(ErrMalformed, "magic %08x", magic)
	}
	var numInputs uint32
	if err := binary.Read(in, bo, &numInputs); err != nil {
		return nil, err
	}
	if numInputs == 0 || numInputs > maxNodes {
		return nil, errors.Wrapf(ErrMalformed, "input count %d", numInputs)
	}

	gc := &GarbledCircuit{
		NumInputs: int(numInputs),
	}

	// Gates whose children are still being parsed.
	type frame struct {
		gate   *GarbledGate
		filled int
	}
	var stack []frame
	var processed int

	for {
		processed++
		if processed > maxNodes {
			return nil, errors.Wrap(ErrMalformed, "circuit too large")
		}
		var tag byte
		if err := binary.Read(in, bo, &tag); err != nil {
			return nil, err
		}

		var node GarbledNode
		switch tag {
		case tagInput:
			var idx uint32
			if err := binary.Read(in, bo, &idx); err != nil {
				return nil, err
			}
			if idx >= numInputs {
				return nil, errors.Wrapf(ErrMalformed, "input index %d", idx)
			}
			node = &GarbledInput{
				Idx: int(idx),
			}

		case tagGate:
			gate := new(GarbledGate)
			if err := binary.Read(in, bo, &gate.Table); err != nil {
				return nil, err
			}
			stack = append(stack, frame{gate: gate})
			continue

		default:
			return nil, errors.Wrapf(ErrMalformed, "node tag %d", tag)
		}

		// A complete subtree: attach it to its parent, popping
		// parents completed by it.
		for {
			if len(stack) == 0 {
				gc.Root = node
				return gc, nil
			}
			top := &stack[len(stack)-1]
			if top.filled == 0 {
				top.gate.Left = node
				top.filled++
				break
			}
			top.gate.Right = node
			node = top.gate
			stack = stack[:len(stack)-1]
		}
	}
}
