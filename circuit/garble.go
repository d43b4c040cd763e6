//
// garble.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/markkurossi/garbled/ot"
)

// GateCipher is one encrypted truth table entry: the masked output
// label followed by the 16-byte integrity block.
type GateCipher [32]byte

// GarbledNode is a node in a garbled circuit tree, either a
// *GarbledInput or a *GarbledGate.
type GarbledNode interface {
	garbledNode()
}

// GarbledInput references an input wire by its index.
type GarbledInput struct {
	Idx int
}

func (in *GarbledInput) garbledNode() {}

// GarbledGate holds the four encrypted truth table entries of a gate
// in point-and-permute order.
type GarbledGate struct {
	Table [4]GateCipher
	Left  GarbledNode
	Right GarbledNode
}

func (g *GarbledGate) garbledNode() {}

// GarbledCircuit is the encrypted circuit the evaluator receives. It
// reveals the tree shape and the input count but nothing about the
// gate operations or wire values.
type GarbledCircuit struct {
	Root      GarbledNode
	NumInputs int
}

// Garbled holds one garbling of a circuit: the encrypted circuit, the
// label pairs of the input wires, and the output decode table. The
// input labels and the decode table are the garbler's secrets.
type Garbled struct {
	Circuit *GarbledCircuit
	Inputs  []ot.Wire
	Decode  DecodeTable
}

// Wipe clears the garbling's secrets. The encrypted circuit itself
// is not secret.
func (g *Garbled) Wipe() {
	for i := range g.Inputs {
		g.Inputs[i].Wipe()
	}
	g.Decode.Wipe()
}

// LabelForBit returns the wire label encoding the argument bit value.
func LabelForBit(wire ot.Wire, bit uint) ot.Label {
	if bit != 0 {
		return wire.L1
	}
	return wire.L0
}

// idx returns the truth table position of the label pair. The
// position depends only on the pointer bits, never on the truth
// values the labels stand for.
func idx(l, r ot.Label) int {
	var ret int
	if l.S() {
		ret |= 0x2
	}
	if r.S() {
		ret |= 0x1
	}
	return ret
}

// makeK combines the child labels and the gate tweak into the gate
// encryption key: K = 2a XOR 4b XOR t.
func makeK(a, b ot.Label, t uint32) ot.Label {
	a.Mul2()
	b.Mul4()
	a.Xor(b)
	a.Xor(ot.NewTweak(t))
	return a
}

// gatePad expands the gate key into the 32-byte encryption pad: the
// AES-128-CTR keystream under the key over a zero block.
func gatePad(k ot.Label, pad *[32]byte) error {
	var key ot.LabelData
	k.GetData(&key)

	alg, err := aes.NewCipher(key[:])
	if err != nil {
		return err
	}
	var iv [aes.BlockSize]byte
	for i := range pad {
		pad[i] = 0
	}
	cipher.NewCTR(alg, iv[:]).XORKeyStream(pad[:], pad[:])
	return nil
}

// encrypt creates the truth table entry for the output label c under
// the child labels a and b and the gate tweak t. The first 16 bytes
// mask the output label; the last 16 bytes carry the keystream tail
// the evaluator verifies on decrypt.
func encrypt(a, b, c ot.Label, t uint32, entry *GateCipher) error {
	var pad [32]byte
	if err := gatePad(makeK(a, b, t), &pad); err != nil {
		return err
	}
	var data ot.LabelData
	c.GetData(&data)
	for i := 0; i < len(data); i++ {
		entry[i] = data[i] ^ pad[i]
	}
	copy(entry[16:], pad[16:])
	return nil
}

// decrypt opens a truth table entry with the child labels a and b.
// The keystream tail must match or the entry was not encrypted under
// these labels.
func decrypt(a, b ot.Label, t uint32, entry *GateCipher) (ot.Label, error) {
	var label ot.Label

	var pad [32]byte
	if err := gatePad(makeK(a, b, t), &pad); err != nil {
		return label, err
	}
	if subtle.ConstantTimeCompare(entry[16:], pad[16:]) != 1 {
		return label, errors.Wrapf(ErrDecryptionFailed, "gate %d", t)
	}
	var data ot.LabelData
	for i := 0; i < len(data); i++ {
		data[i] = entry[i] ^ pad[i]
	}
	label.SetData(&data)
	return label, nil
}

// garbledWire pairs a garbled subtree with its output wire labels.
type garbledWire struct {
	node GarbledNode
	wire ot.Wire
}

// Garble garbles the circuit with wire labels drawn from rand. Every
// input wire and every gate output gets a fresh label pair; each gate
// encrypts its four truth table rows under the child label
// combinations, permuted by the child pointer bits. The gate tweak is
// the gate's post-order position so no two gates share key material
// even with equal child labels.
func (c *Circuit) Garble(rand io.Reader) (*Garbled, error) {
	numInputs := c.NumInputs()

	inputs := make([]ot.Wire, numInputs)
	for i := range inputs {
		wire, err := ot.NewWire(rand)
		if err != nil {
			return nil, err
		}
		inputs[i] = wire
	}

	nodes, err := postorder(c.Root)
	if err != nil {
		return nil, err
	}

	var stack []garbledWire
	var tweak uint32

	for _, node := range nodes {
		switch n := node.(type) {
		case *Input:
			if n.Idx >= numInputs {
				return nil, errors.Wrapf(ErrMalformed, "input index %d",
					n.Idx)
			}
			stack = append(stack, garbledWire{
				node: &GarbledInput{Idx: n.Idx},
				wire: inputs[n.Idx],
			})

		case *Gate:
			right := stack[len(stack)-1]
			left := stack[len(stack)-2]
			stack = stack[:len(stack)-2]

			out, err := ot.NewWire(rand)
			if err != nil {
				return nil, err
			}
			gate := &GarbledGate{
				Left:  left.node,
				Right: right.node,
			}
			for lb := uint(0); lb < 2; lb++ {
				for rb := uint(0); rb < 2; rb++ {
					a := LabelForBit(left.wire, lb)
					b := LabelForBit(right.wire, rb)

					var o ot.Label
					if n.Op.Output(lb != 0, rb != 0) {
						o = out.L1
					} else {
						o = out.L0
					}
					err := encrypt(a, b, o, tweak, &gate.Table[idx(a, b)])
					if err != nil {
						return nil, err
					}
				}
			}
			tweak++
			stack = append(stack, garbledWire{node: gate, wire: out})
		}
	}
	root := stack[len(stack)-1]

	return &Garbled{
		Circuit: &GarbledCircuit{
			Root:      root.node,
			NumInputs: numInputs,
		},
		Inputs: inputs,
		Decode: DecodeTable{
			L0: root.wire.L0,
			L1: root.wire.L1,
		},
	}, nil
}
