//
// garbler.go
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
	"github.com/markkurossi/garbled/env"
	"github.com/markkurossi/garbled/ot"
	"github.com/markkurossi/garbled/p2p"
)

// FileSize implements human-readable file sizes.
type FileSize uint64

func (s FileSize) String() string {
	if s > 1000*1000*1000*1000 {
		return fmt.Sprintf("%dTB", s/(1000*1000*1000*1000))
	} else if s > 1000*1000*1000 {
		return fmt.Sprintf("%dGB", s/(1000*1000*1000))
	} else if s > 1000*1000 {
		return fmt.Sprintf("%dMB", s/(1000*1000))
	} else if s > 1000 {
		return fmt.Sprintf("%dkB", s/1000)
	} else {
		return fmt.Sprintf("%dB", s)
	}
}

// Garbler runs the garbler on the protocol connection. It garbles the
// circuit, transfers the evaluator's input labels with oblivious
// transfer, sends the garbler's own input labels, the garbled
// circuit, and its decode table, and receives the cleartext result
// from the evaluator. The input is the garbler's input value; its
// bits 0...N1-1 feed the corresponding circuit wires.
func Garbler(cfg *env.Config, conn *p2p.Conn, oti ot.OT, circ *Circuit,
	input *big.Int, verbose bool) (bool, error) {

	if input == nil {
		input = big.NewInt(0)
	}

	timing := NewTiming()
	if verbose {
		fmt.Printf(" - Garbling...\n")
	}

	garbled, err := circ.Garble(cfg.GetRandom())
	if err != nil {
		return false, err
	}
	defer garbled.Wipe()

	timing.Sample("Garble", nil)
	if verbose {
		fmt.Printf(" - Processing messages...\n")
	}

	// Init oblivious transfer.
	if err := oti.InitSender(conn); err != nil {
		return false, err
	}
	ioStats := conn.Stats
	timing.Sample("OT Init", []string{FileSize(ioStats.Sum()).String()})

	// Oblivious transfer of the peer input labels.
	if err := oti.Send(garbled.Inputs[circ.N1:]); err != nil {
		return false, err
	}
	xfer := conn.Stats.Sub(ioStats)
	ioStats = conn.Stats
	timing.Sample("OT", []string{FileSize(xfer.Sum()).String()})

	// Our input labels are sent in cleartext.
	if err := conn.SendUint32(circ.N1); err != nil {
		return false, err
	}
	var data ot.LabelData
	for i := 0; i < circ.N1; i++ {
		label := LabelForBit(garbled.Inputs[i], input.Bit(i))
		if err := conn.SendLabel(label, &data); err != nil {
			return false, err
		}
	}

	// The garbled circuit and its decode table.
	var buf bytes.Buffer
	if err := garbled.Circuit.Marshal(&buf); err != nil {
		return false, err
	}
	marshaled := time.Now()
	if err := conn.SendData(buf.Bytes()); err != nil {
		return false, err
	}
	if err := conn.SendData(garbled.Decode.Bytes()); err != nil {
		return false, err
	}
	if err := conn.Flush(); err != nil {
		return false, err
	}
	xfer = conn.Stats.Sub(ioStats)
	ioStats = conn.Stats
	timing.Sample("Xfer", []string{FileSize(xfer.Sum()).String()}).
		SubSample("Marshal", marshaled)

	// The peer evaluates the circuit and reveals the result.
	result, err := conn.ReceiveByte()
	if err != nil {
		return false, err
	}
	if result > 1 {
		return false, errors.Wrapf(ErrProtocol, "result byte %d", result)
	}
	xfer = conn.Stats.Sub(ioStats)
	timing.Sample("Eval", []string{FileSize(xfer.Sum()).String()})

	if verbose {
		timing.Print(conn.Stats)
	}

	return result != 0, nil
}
