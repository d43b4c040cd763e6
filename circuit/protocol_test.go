//
// protocol_test.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"math/big"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/markkurossi/garbled/ot"
	"github.com/markkurossi/garbled/p2p"
)

var (
	testKeyOnce sync.Once
	testKey     *rsa.PrivateKey
)

// otKey returns a shared RSA key so the protocol tests skip key
// generation.
func otKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()

	testKeyOnce.Do(func() {
		var err error
		testKey, err = rsa.GenerateKey(rand.Reader, 1024)
		if err != nil {
			t.Fatalf("rsa.GenerateKey: %v", err)
		}
	})
	if testKey == nil {
		t.Fatalf("no OT key")
	}
	return testKey
}

// runProtocol runs the garbler and the evaluator over an in-memory
// connection pair and checks that both sides see the same result.
func runProtocol(t *testing.T, circ *Circuit, g, e *big.Int,
	inputSize int) bool {
	t.Helper()

	key := otKey(t)
	gConn, eConn := p2p.Pipe()

	type result struct {
		val bool
		err error
	}
	evaluated := make(chan result, 1)

	go func() {
		val, err := Evaluator(eConn, ot.NewRSA(0), e, inputSize, false)
		eConn.Close()
		evaluated <- result{val: val, err: err}
	}()

	val, err := Garbler(nil, gConn, ot.RSAFromKey(key), circ, g, false)
	gConn.Close()
	if err != nil {
		t.Fatalf("Garbler: %v", err)
	}
	eval := <-evaluated
	if eval.err != nil {
		t.Fatalf("Evaluator: %v", eval.err)
	}
	if eval.val != val {
		t.Fatalf("role results differ: garbler %v, evaluator %v",
			val, eval.val)
	}
	return val
}

func TestProtocolGate(t *testing.T) {
	c, err := NewCircuit(NewGate(AND, NewInput(0), NewInput(1)), 1)
	if err != nil {
		t.Fatalf("NewCircuit: %v", err)
	}
	for g := int64(0); g < 2; g++ {
		for e := int64(0); e < 2; e++ {
			val := runProtocol(t, c, big.NewInt(g), big.NewInt(e), 1)
			if val != (g == 1 && e == 1) {
				t.Errorf("AND(%d,%d): got %v", g, e, val)
			}
		}
	}
}

func TestProtocolXORChain(t *testing.T) {
	// Garbler holds wire 0, evaluator wires 1 and 2.
	c, err := NewXORChain(3)
	if err != nil {
		t.Fatalf("NewXORChain: %v", err)
	}
	val := runProtocol(t, c, big.NewInt(1), big.NewInt(0b10), 2)
	if val {
		t.Errorf("XOR(1,0,1): got true")
	}
	val = runProtocol(t, c, big.NewInt(1), big.NewInt(0b11), 2)
	if !val {
		t.Errorf("XOR(1,1,1): got false")
	}
}

func TestProtocolComparator(t *testing.T) {
	const bits = 2

	c, err := NewComparator(bits)
	if err != nil {
		t.Fatalf("NewComparator: %v", err)
	}
	for x := int64(0); x < 1<<bits; x++ {
		for y := int64(0); y < 1<<bits; y++ {
			val := runProtocol(t, c, big.NewInt(x), big.NewInt(y), bits)
			if val != (x > y) {
				t.Errorf("%d>%d: got %v", x, y, val)
			}
		}
	}
}

func TestProtocolMillionaires(t *testing.T) {
	c, err := NewComparator(64)
	if err != nil {
		t.Fatalf("NewComparator: %v", err)
	}
	tests := []struct {
		g, e     int64
		expected bool
	}{
		{g: 1000000, e: 999999, expected: true},
		{g: 999999, e: 1000000, expected: false},
		{g: 42, e: 42, expected: false},
		{g: 1 << 62, e: 1, expected: true},
	}
	for _, test := range tests {
		val := runProtocol(t, c, big.NewInt(test.g), big.NewInt(test.e), 64)
		if val != test.expected {
			t.Errorf("%d>%d: got %v", test.g, test.e, val)
		}
	}
}

func TestProtocolNilInputs(t *testing.T) {
	c, err := NewComparator(2)
	if err != nil {
		t.Fatalf("NewComparator: %v", err)
	}
	// Nil inputs default to zero: 0 > 0 is false.
	if val := runProtocol(t, c, nil, nil, 2); val {
		t.Errorf("0>0: got true")
	}
}

func TestProtocolInputOnly(t *testing.T) {
	// A single wire owned by the garbler: the evaluator runs zero
	// transfers and still evaluates the circuit.
	c, err := NewXORChain(1)
	if err != nil {
		t.Fatalf("NewXORChain: %v", err)
	}
	if val := runProtocol(t, c, big.NewInt(1), nil, 0); !val {
		t.Errorf("passthrough(1): got false")
	}
	if val := runProtocol(t, c, big.NewInt(0), nil, 0); val {
		t.Errorf("passthrough(0): got true")
	}
}

// evaluateAgainst runs the evaluator against a garbler played by the
// argument function and returns the evaluator's error.
func evaluateAgainst(t *testing.T, inputSize int,
	garbler func(conn *p2p.Conn) error) error {
	t.Helper()

	gConn, eConn := p2p.Pipe()
	done := make(chan error, 1)

	go func() {
		err := garbler(gConn)
		gConn.Close()
		done <- err
	}()

	_, err := Evaluator(eConn, ot.NewRSA(0), big.NewInt(1), inputSize, false)
	eConn.Close()
	if peerErr := <-done; peerErr != nil {
		t.Fatalf("garbler: %v", peerErr)
	}
	return err
}

func TestProtocolBadResultByte(t *testing.T) {
	c, err := NewCircuit(NewGate(AND, NewInput(0), NewInput(1)), 1)
	if err != nil {
		t.Fatalf("NewCircuit: %v", err)
	}
	key := otKey(t)
	gConn, eConn := p2p.Pipe()
	done := make(chan error, 1)

	// An evaluator that completes the protocol but reveals a result
	// outside the boolean range.
	go func() {
		done <- func() error {
			defer eConn.Close()

			oti := ot.NewRSA(0)
			if err := oti.InitReceiver(eConn); err != nil {
				return err
			}
			labels := make([]ot.Label, 1)
			if err := oti.Receive([]bool{true}, labels); err != nil {
				return err
			}
			n1, err := eConn.ReceiveUint32()
			if err != nil {
				return err
			}
			var data ot.LabelData
			var label ot.Label
			for i := 0; i < n1; i++ {
				if err := eConn.ReceiveLabel(&label, &data); err != nil {
					return err
				}
			}
			for i := 0; i < 2; i++ {
				if _, err := eConn.ReceiveData(); err != nil {
					return err
				}
			}
			if err := eConn.SendByte(2); err != nil {
				return err
			}
			return eConn.Flush()
		}()
	}()

	_, err = Garbler(nil, gConn, ot.RSAFromKey(key), c, big.NewInt(1), false)
	gConn.Close()
	if peerErr := <-done; peerErr != nil {
		t.Fatalf("evaluator: %v", peerErr)
	}
	if err == nil {
		t.Fatalf("out-of-range result byte accepted")
	}
	if !errors.Is(err, ErrProtocol) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestProtocolBadGarblerCount(t *testing.T) {
	key := otKey(t)

	// A garbler that announces an input count over the node budget.
	err := evaluateAgainst(t, 1, func(conn *p2p.Conn) error {
		oti := ot.RSAFromKey(key)
		if err := oti.InitSender(conn); err != nil {
			return err
		}
		wire, err := ot.NewWire(rand.Reader)
		if err != nil {
			return err
		}
		if err := oti.Send([]ot.Wire{wire}); err != nil {
			return err
		}
		if err := conn.SendUint32(maxNodes + 1); err != nil {
			return err
		}
		return conn.Flush()
	})
	if err == nil {
		t.Fatalf("oversized garbler input count accepted")
	}
	if !errors.Is(err, ErrProtocol) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestProtocolTrailingData(t *testing.T) {
	c, err := NewCircuit(NewGate(AND, NewInput(0), NewInput(1)), 1)
	if err != nil {
		t.Fatalf("NewCircuit: %v", err)
	}
	garbled, err := c.Garble(rand.Reader)
	if err != nil {
		t.Fatalf("Garble: %v", err)
	}
	defer garbled.Wipe()
	key := otKey(t)

	// A garbler that pads the circuit message with garbage.
	err = evaluateAgainst(t, 1, func(conn *p2p.Conn) error {
		oti := ot.RSAFromKey(key)
		if err := oti.InitSender(conn); err != nil {
			return err
		}
		if err := oti.Send(garbled.Inputs[1:]); err != nil {
			return err
		}
		if err := conn.SendUint32(1); err != nil {
			return err
		}
		var data ot.LabelData
		if err := conn.SendLabel(garbled.Inputs[0].L0, &data); err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := garbled.Circuit.Marshal(&buf); err != nil {
			return err
		}
		buf.WriteByte(0xff)
		if err := conn.SendData(buf.Bytes()); err != nil {
			return err
		}
		if err := conn.SendData(garbled.Decode.Bytes()); err != nil {
			return err
		}
		return conn.Flush()
	})
	if err == nil {
		t.Fatalf("trailing circuit bytes accepted")
	}
	if !errors.Is(err, ErrProtocol) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestProtocolInputMismatch(t *testing.T) {
	// Three input wires, but the evaluator is told about two: one
	// announced garbler label plus its own single transfer.
	c, err := NewCircuit(NewGate(AND,
		NewGate(AND, NewInput(0), NewInput(1)), NewInput(2)), 1)
	if err != nil {
		t.Fatalf("NewCircuit: %v", err)
	}
	garbled, err := c.Garble(rand.Reader)
	if err != nil {
		t.Fatalf("Garble: %v", err)
	}
	defer garbled.Wipe()
	key := otKey(t)

	err = evaluateAgainst(t, 1, func(conn *p2p.Conn) error {
		oti := ot.RSAFromKey(key)
		if err := oti.InitSender(conn); err != nil {
			return err
		}
		if err := oti.Send(garbled.Inputs[1:2]); err != nil {
			return err
		}
		if err := conn.SendUint32(1); err != nil {
			return err
		}
		var data ot.LabelData
		if err := conn.SendLabel(garbled.Inputs[0].L0, &data); err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := garbled.Circuit.Marshal(&buf); err != nil {
			return err
		}
		if err := conn.SendData(buf.Bytes()); err != nil {
			return err
		}
		if err := conn.SendData(garbled.Decode.Bytes()); err != nil {
			return err
		}
		return conn.Flush()
	})
	if err == nil {
		t.Fatalf("input count mismatch accepted")
	}
	if !errors.Is(err, ErrProtocol) {
		t.Errorf("unexpected error: %v", err)
	}
}
