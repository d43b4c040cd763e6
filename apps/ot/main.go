//
// main.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"log"
	"os"

	"github.com/markkurossi/garbled/ot"
)

func main() {
	wire, err := ot.NewWire(rand.Reader)
	if err != nil {
		log.Fatal(err)
	}

	sender, err := ot.NewSender(2048)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("  Sender m0 : %s\n", wire.L0)
	fmt.Printf("  Sender m1 : %s\n", wire.L1)

	receiver, err := ot.NewReceiver(sender.PublicKey())
	if err != nil {
		log.Fatal(err)
	}

	var b0, b1 ot.LabelData
	sXfer, err := sender.NewTransfer(wire.L0.Bytes(&b0), wire.L1.Bytes(&b1))
	if err != nil {
		log.Fatal(err)
	}
	rXfer, err := receiver.NewTransfer(1)
	if err != nil {
		log.Fatal(err)
	}

	err = rXfer.ReceiveRandomMessages(sXfer.RandomMessages())
	if err != nil {
		log.Fatal(err)
	}

	err = sXfer.ReceiveV(rXfer.V())
	if err != nil {
		log.Fatal(err)
	}
	err = rXfer.ReceiveMessages(sXfer.Messages())
	if err != nil {
		log.Fatal(err)
	}

	m, bit := rXfer.Message()
	fmt.Printf("Receiver m%d : %x\n", bit, m)

	var expected []byte
	if bit == 0 {
		expected = wire.L0.Bytes(&b0)
	} else {
		expected = wire.L1.Bytes(&b1)
	}
	if !bytes.Equal(expected, m) {
		fmt.Printf("Verify failed!\n")
		os.Exit(1)
	}
}
