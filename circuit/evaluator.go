//
// evaluator.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"bytes"
	"fmt"
	"math/big"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/markkurossi/garbled/ot"
	"github.com/markkurossi/garbled/p2p"
)

func wipeLabels(labels []ot.Label) {
	for i := range labels {
		labels[i] = ot.Label{}
	}
}

// Evaluator runs the evaluator on the protocol connection. It
// receives its own input labels with oblivious transfer, the garbler
// input labels, the garbled circuit, and the decode table, evaluates
// the circuit, and reveals the decoded result to the garbler. The
// input is the evaluator's input value of inputSize bits; its bits
// 0...inputSize-1 feed the circuit wires following the garbler's.
func Evaluator(conn *p2p.Conn, oti ot.OT, input *big.Int, inputSize int,
	verbose bool) (bool, error) {

	if input == nil {
		input = big.NewInt(0)
	}

	timing := NewTiming()
	if verbose {
		fmt.Printf(" - Processing messages...\n")
	}

	// Init oblivious transfer.
	if err := oti.InitReceiver(conn); err != nil {
		return false, err
	}
	ioStats := conn.Stats
	timing.Sample("OT Init", []string{FileSize(ioStats.Sum()).String()})

	// Query our input labels.
	flags := make([]bool, inputSize)
	for i := 0; i < inputSize; i++ {
		flags[i] = input.Bit(i) == 1
	}
	labels := make([]ot.Label, inputSize)
	defer wipeLabels(labels)

	if err := oti.Receive(flags, labels); err != nil {
		return false, err
	}
	xfer := conn.Stats.Sub(ioStats)
	ioStats = conn.Stats
	timing.Sample("OT", []string{FileSize(xfer.Sum()).String()})

	// Receive the garbler input labels.
	n1, err := conn.ReceiveUint32()
	if err != nil {
		return false, err
	}
	if n1 > maxNodes {
		return false, errors.Wrapf(ErrProtocol, "garbler input count %d", n1)
	}
	inputs := make([]ot.Label, 0, n1+inputSize)
	defer func() {
		wipeLabels(inputs)
	}()

	var data ot.LabelData
	for i := 0; i < n1; i++ {
		var label ot.Label
		if err := conn.ReceiveLabel(&label, &data); err != nil {
			return false, err
		}
		inputs = append(inputs, label)
	}
	inputs = append(inputs, labels...)

	// Receive the garbled circuit.
	circData, err := conn.ReceiveData()
	if err != nil {
		return false, err
	}
	start := time.Now()
	r := bytes.NewReader(circData)
	gc, err := UnmarshalGarbledCircuit(r)
	if err != nil {
		return false, err
	}
	unmarshal := time.Since(start)
	if r.Len() != 0 {
		return false, errors.Wrapf(ErrProtocol, "%d trailing circuit bytes",
			r.Len())
	}
	if gc.NumInputs != n1+inputSize {
		return false, errors.Wrapf(ErrProtocol,
			"circuit inputs %d, expected %d", gc.NumInputs, n1+inputSize)
	}

	// And the decode table.
	decodeData, err := conn.ReceiveData()
	if err != nil {
		return false, err
	}
	decode, err := ParseDecodeTable(decodeData)
	if err != nil {
		return false, err
	}
	defer decode.Wipe()

	xfer = conn.Stats.Sub(ioStats)
	timing.Sample("Xfer", []string{FileSize(xfer.Sum()).String()}).
		AbsSubSample("Unmarshal", unmarshal)
	if verbose {
		fmt.Printf(" - Evaluating...\n")
	}

	result, err := gc.Evaluate(inputs)
	if err != nil {
		return false, err
	}
	val, err := decode.Decode(result)
	if err != nil {
		return false, err
	}
	timing.Sample("Eval", nil)

	// Reveal the result to the garbler.
	var resultByte byte
	if val {
		resultByte = 1
	}
	if err := conn.SendByte(resultByte); err != nil {
		return false, err
	}
	if err := conn.Flush(); err != nil {
		return false, err
	}

	if verbose {
		timing.Print(conn.Stats)
	}

	return val, nil
}
