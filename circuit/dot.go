//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"fmt"
	"io"
)

// Dot creates graphviz dot output of the circuit. Input wires render
// as plaintext nodes, gates as boxes. Shared gates render once.
func (c *Circuit) Dot(out io.Writer) {
	fmt.Fprintf(out, "digraph circuit\n{\n")
	fmt.Fprintf(out, "  overlap=scale;\n")
	fmt.Fprintf(out, "  node\t[fontname=\"Helvetica\"];\n")

	gates := make(map[*Gate]int)
	var order []*Gate

	stack := []Node{c.Root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		gate, ok := node.(*Gate)
		if !ok {
			continue
		}
		if _, seen := gates[gate]; seen {
			continue
		}
		gates[gate] = len(gates)
		order = append(order, gate)
		stack = append(stack, gate.Right, gate.Left)
	}

	name := func(node Node) string {
		switch n := node.(type) {
		case *Input:
			return fmt.Sprintf("w%d", n.Idx)
		case *Gate:
			return fmt.Sprintf("g%d", gates[n])
		default:
			return fmt.Sprintf("%v", n)
		}
	}

	fmt.Fprintf(out, "  {\n    node [shape=plaintext];\n")
	for w := 0; w < c.NumInputs(); w++ {
		fmt.Fprintf(out, "    w%d\t[label=\"%d\"];\n", w, w)
	}
	fmt.Fprintf(out, "  }\n")

	fmt.Fprintf(out, "  {\n    node [shape=box];\n")
	for _, gate := range order {
		fmt.Fprintf(out, "    g%d\t[label=\"%s\"];\n", gates[gate], gate.Op)
	}
	fmt.Fprintf(out, "  }\n")

	fmt.Fprintf(out, "  {  rank=same")
	for w := 0; w < c.NumInputs(); w++ {
		fmt.Fprintf(out, "; w%d", w)
	}
	fmt.Fprintf(out, ";}\n")

	for _, gate := range order {
		fmt.Fprintf(out, "  %s -> g%d;\n", name(gate.Left), gates[gate])
		fmt.Fprintf(out, "  %s -> g%d;\n", name(gate.Right), gates[gate])
	}
	fmt.Fprintf(out, "}\n")
}
