//
// main.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

// Iotest measures the label transfer throughput of the protocol
// connection.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"time"

	"github.com/markkurossi/garbled/circuit"
	"github.com/markkurossi/garbled/ot"
	"github.com/markkurossi/garbled/p2p"
	"github.com/pkg/profile"
)

func main() {
	receiver := flag.Bool("r", false, "receiver mode")
	addr := flag.String("a", ":8080", "network address")
	size := flag.Int64("s", 1024*1024*1024, "number of bytes to send")
	prof := flag.Bool("profile", false, "CPU profiling")
	flag.Parse()

	log.SetFlags(0)

	if *prof {
		defer profile.Start(profile.ProfilePath(".")).Stop()
	}

	var err error
	if *receiver {
		err = receive(*addr)
	} else {
		err = send(*addr, *size)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func receive(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	fmt.Printf("Listening for connections at %s\n", addr)

	for {
		nc, err := ln.Accept()
		if err != nil {
			return err
		}
		fmt.Printf("New connection from %s\n", nc.RemoteAddr())

		conn := p2p.NewConn(nc)
		start := time.Now()

		var label ot.Label
		var data ot.LabelData
		for {
			if err := conn.ReceiveLabel(&label, &data); err != nil {
				if err != io.EOF {
					return err
				}
				break
			}
		}
		elapsed := time.Since(start)
		total := conn.Stats.Sum()
		fmt.Printf("Received %s in %s (%s/s)\n",
			circuit.FileSize(total), elapsed,
			circuit.FileSize(float64(total)/elapsed.Seconds()))
		conn.Close()
	}
}

func send(addr string, size int64) error {
	nc, err := net.Dial("tcp", addr)
	if err != nil {
		return err
	}
	conn := p2p.NewConn(nc)

	var label ot.Label
	var data ot.LabelData
	var sent int64

	start := time.Now()
	for sent < size {
		if err := conn.SendLabel(label, &data); err != nil {
			return err
		}
		sent += int64(len(data))
	}
	if err := conn.Flush(); err != nil {
		return err
	}
	if err := conn.Close(); err != nil {
		return err
	}
	elapsed := time.Since(start)
	total := conn.Stats.Sum()

	fmt.Printf("Sent %s in %s (%s/s)\n",
		circuit.FileSize(total), elapsed,
		circuit.FileSize(float64(total)/elapsed.Seconds()))
	return nil
}
