//
// decode_test.go
//
// Copyright (c) 2023-2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"crypto/rand"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/markkurossi/garbled/ot"
)

func TestDecode(t *testing.T) {
	wire, err := ot.NewWire(rand.Reader)
	if err != nil {
		t.Fatalf("NewWire: %v", err)
	}
	table := DecodeTable{
		L0: wire.L0,
		L1: wire.L1,
	}
	val, err := table.Decode(wire.L0)
	if err != nil {
		t.Fatalf("Decode L0: %v", err)
	}
	if val {
		t.Errorf("L0 decoded to true")
	}
	val, err = table.Decode(wire.L1)
	if err != nil {
		t.Fatalf("Decode L1: %v", err)
	}
	if !val {
		t.Errorf("L1 decoded to false")
	}

	unknown, err := ot.NewLabel(rand.Reader)
	if err != nil {
		t.Fatalf("NewLabel: %v", err)
	}
	if _, err := table.Decode(unknown); err == nil {
		t.Errorf("unknown label decoded")
	} else if !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDecodeTableBytes(t *testing.T) {
	wire, err := ot.NewWire(rand.Reader)
	if err != nil {
		t.Fatalf("NewWire: %v", err)
	}
	table := DecodeTable{
		L0: wire.L0,
		L1: wire.L1,
	}
	parsed, err := ParseDecodeTable(table.Bytes())
	if err != nil {
		t.Fatalf("ParseDecodeTable: %v", err)
	}
	if !parsed.L0.Equal(table.L0) || !parsed.L1.Equal(table.L1) {
		t.Errorf("roundtrip mismatch")
	}

	if _, err := ParseDecodeTable(table.Bytes()[:31]); err == nil {
		t.Errorf("short data accepted")
	} else if !errors.Is(err, ErrMalformed) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDecodeTableWipe(t *testing.T) {
	wire, err := ot.NewWire(rand.Reader)
	if err != nil {
		t.Fatalf("NewWire: %v", err)
	}
	table := DecodeTable{
		L0: wire.L0,
		L1: wire.L1,
	}
	table.Wipe()
	var zero ot.Label
	if !table.L0.Equal(zero) || !table.L1.Equal(zero) {
		t.Errorf("table not wiped")
	}
}
