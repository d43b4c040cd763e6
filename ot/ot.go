//
// ot.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

// Package ot implements oblivious transfer protocols.
package ot

// OT defines an oblivious transfer protocol.
type OT interface {
	// InitSender initializes the OT sender.
	InitSender(io IO) error

	// InitReceiver initializes the OT receiver.
	InitReceiver(io IO) error

	// Send sends the wire labels with OT.
	Send(wires []Wire) error

	// Receive receives the wire labels with OT based on the flag
	// values.
	Receive(flags []bool, result []Label) error
}
