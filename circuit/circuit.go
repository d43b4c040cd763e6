//
// circuit.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/markkurossi/text/superscript"
)

var (
	// ErrMalformed is returned when a circuit or an encoded circuit
	// violates its structural invariants.
	ErrMalformed = errors.New("circuit: malformed circuit")

	// ErrDecryptionFailed is returned when a garbled table entry or
	// an output label fails its integrity check.
	ErrDecryptionFailed = errors.New("circuit: decryption failed")

	// ErrProtocol is returned when a protocol message is out of order
	// or malformed.
	ErrProtocol = errors.New("circuit: protocol violation")
)

// maxNodes caps the number of node occurrences one circuit tree may
// expand to.
const maxNodes = 1 << 20

// Operation encodes a two-input gate as its four-row truth table. Bit
// 2*l+r of the byte holds the gate output for the input values (l, r).
type Operation byte

// Gate operations.
const (
	// l r out
	// -------
	// 0 0  0
	// 0 1  0
	// 1 0  0
	// 1 1  1
	AND Operation = 0b1000

	// l r out
	// -------
	// 0 0  0
	// 0 1  1
	// 1 0  1
	// 1 1  1
	OR Operation = 0b1110

	// l r out
	// -------
	// 0 0  0
	// 0 1  1
	// 1 0  1
	// 1 1  0
	XOR Operation = 0b0110

	// l r out
	// -------
	// 0 0  1
	// 0 1  0
	// 1 0  0
	// 1 1  1
	XNOR Operation = 0b1001

	// l r out
	// -------
	// 0 0  0
	// 0 1  0
	// 1 0  1
	// 1 1  0
	GT Operation = 0b0100
)

// Output returns the gate output for the argument input values.
func (op Operation) Output(l, r bool) bool {
	var bit uint
	if l {
		bit += 2
	}
	if r {
		bit++
	}
	return (op>>bit)&1 != 0
}

func (op Operation) String() string {
	switch op {
	case AND:
		return "AND"
	case OR:
		return "OR"
	case XOR:
		return "XOR"
	case XNOR:
		return "XNOR"
	case GT:
		return "GT"
	default:
		return fmt.Sprintf("{Operation %04b}", byte(op))
	}
}

// Node is a node in a circuit tree, either an *Input or a *Gate.
type Node interface {
	String() string

	circuitNode()
}

// Input references an input wire by its index.
type Input struct {
	Idx int
}

// NewInput creates a new input wire reference.
func NewInput(idx int) *Input {
	return &Input{
		Idx: idx,
	}
}

func (in *Input) circuitNode() {}

func (in *Input) String() string {
	return "x" + superscript.Itoa(in.Idx)
}

// Gate is a two-input gate applying its operation to the values of
// the left and right subtrees.
type Gate struct {
	Op    Operation
	Left  Node
	Right Node
}

// NewGate creates a new gate node.
func NewGate(op Operation, left, right Node) *Gate {
	return &Gate{
		Op:    op,
		Left:  left,
		Right: right,
	}
}

func (g *Gate) circuitNode() {}

func (g *Gate) String() string {
	return fmt.Sprintf("(%s %v %v)", g.Op, g.Left, g.Right)
}

// Circuit is a two-party boolean circuit. The garbler owns the input
// wires [0, N1) and the evaluator the wires [N1, N1+N2).
type Circuit struct {
	Root Node
	N1   int
	N2   int
}

// NewCircuit creates a circuit with n1 garbler inputs and validates
// its structure: the tree must be non-empty with no nil children, and
// the input indices must cover [0, n1+n2) exactly.
func NewCircuit(root Node, n1 int) (*Circuit, error) {
	nodes, err := postorder(root)
	if err != nil {
		return nil, err
	}
	seen := make(map[int]bool)
	max := -1
	for _, node := range nodes {
		in, ok := node.(*Input)
		if !ok {
			continue
		}
		if in.Idx < 0 {
			return nil, errors.Wrapf(ErrMalformed, "input index %d", in.Idx)
		}
		seen[in.Idx] = true
		if in.Idx > max {
			max = in.Idx
		}
	}
	n := max + 1
	if n == 0 {
		return nil, errors.Wrap(ErrMalformed, "circuit has no inputs")
	}
	if len(seen) != n {
		return nil, errors.Wrapf(ErrMalformed,
			"%d input indices cover [0,%d)", len(seen), n)
	}
	if n1 < 0 || n1 > n {
		return nil, errors.Wrapf(ErrMalformed, "garbler input count %d", n1)
	}
	return &Circuit{
		Root: root,
		N1:   n1,
		N2:   n - n1,
	}, nil
}

func (c *Circuit) String() string {
	stats := c.Stats()
	return fmt.Sprintf("#gates=%d (%s) #wires=%d+%d",
		stats.Count(), stats, c.N1, c.N2)
}

// NumInputs returns the total number of input wires.
func (c *Circuit) NumInputs() int {
	return c.N1 + c.N2
}

// NumGates returns the number of gate occurrences in the expanded
// circuit tree.
func (c *Circuit) NumGates() int {
	return c.Stats().Count()
}

// Stats holds gate occurrence counts by operation.
type Stats map[Operation]int

// Count returns the total number of gates.
func (s Stats) Count() int {
	var count int
	for _, v := range s {
		count += v
	}
	return count
}

func (s Stats) String() string {
	var str string
	for _, op := range []Operation{AND, OR, XOR, XNOR, GT} {
		v, ok := s[op]
		if !ok {
			continue
		}
		if len(str) > 0 {
			str += " "
		}
		str += fmt.Sprintf("%s=%d", op, v)
	}
	return str
}

// Stats counts the gate occurrences of the expanded circuit tree by
// operation.
func (c *Circuit) Stats() Stats {
	stats := make(Stats)
	nodes, err := postorder(c.Root)
	if err != nil {
		return stats
	}
	for _, node := range nodes {
		if gate, ok := node.(*Gate); ok {
			stats[gate.Op]++
		}
	}
	return stats
}

// Eval evaluates the circuit with the argument input values.
func (c *Circuit) Eval(inputs []bool) (bool, error) {
	if len(inputs) != c.NumInputs() {
		return false, errors.Wrapf(ErrMalformed, "%d inputs for %d wires",
			len(inputs), c.NumInputs())
	}
	nodes, err := postorder(c.Root)
	if err != nil {
		return false, err
	}
	var stack []bool
	for _, node := range nodes {
		switch n := node.(type) {
		case *Input:
			if n.Idx >= len(inputs) {
				return false, errors.Wrapf(ErrMalformed, "input index %d",
					n.Idx)
			}
			stack = append(stack, inputs[n.Idx])

		case *Gate:
			r := stack[len(stack)-1]
			l := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			stack = append(stack, n.Op.Output(l, r))
		}
	}
	return stack[0], nil
}

// postorder returns the circuit's node occurrences in post-order,
// children before parents, left before right. Shared subtrees are
// expanded per occurrence so the sequence matches the serialized
// form of the tree.
func postorder(root Node) ([]Node, error) {
	type frame struct {
		node    Node
		visited bool
	}
	var result []Node
	var processed int

	stack := []frame{{node: root}}
	for len(stack) > 0 {
		processed++
		if processed > 3*maxNodes {
			return nil, errors.Wrap(ErrMalformed, "circuit too large")
		}
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.node == nil {
			return nil, errors.Wrap(ErrMalformed, "nil node")
		}
		if f.visited {
			result = append(result, f.node)
			continue
		}
		switch n := f.node.(type) {
		case *Input:
			result = append(result, n)

		case *Gate:
			stack = append(stack, frame{node: f.node, visited: true})
			stack = append(stack, frame{node: n.Right})
			stack = append(stack, frame{node: n.Left})

		default:
			return nil, errors.Wrapf(ErrMalformed, "unknown node %T", f.node)
		}
	}
	return result, nil
}
