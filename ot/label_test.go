//
// label_test.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package ot

import (
	"crypto/rand"
	"testing"
)

func TestLabelS(t *testing.T) {
	var l Label

	if l.S() {
		t.Fatal("zero label has S set")
	}
	l.SetS(true)
	if !l.S() {
		t.Fatal("SetS(true) did not set S")
	}
	if l.D0 != 0x8000000000000000 {
		t.Fatalf("unexpected D0: %x", l.D0)
	}
	l.SetS(false)
	if l.S() {
		t.Fatal("SetS(false) did not clear S")
	}
	if l.D0 != 0 || l.D1 != 0 {
		t.Fatal("SetS changed label bits")
	}
}

func TestLabelData(t *testing.T) {
	label, err := NewLabel(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	var data LabelData
	label.GetData(&data)

	var parsed Label
	parsed.SetData(&data)
	if !parsed.Equal(label) {
		t.Fatalf("label data roundtrip failed: %s != %s", parsed, label)
	}

	var buf LabelData
	parsed.SetBytes(label.Bytes(&buf))
	if !parsed.Equal(label) {
		t.Fatalf("label bytes roundtrip failed: %s != %s", parsed, label)
	}
}

func TestNewWire(t *testing.T) {
	var s0 int
	const count = 1024

	for i := 0; i < count; i++ {
		wire, err := NewWire(rand.Reader)
		if err != nil {
			t.Fatal(err)
		}
		if wire.L0.S() == wire.L1.S() {
			t.Fatal("wire labels have equal S bits")
		}
		if wire.L0.Equal(wire.L1) {
			t.Fatal("wire labels are equal")
		}
		if wire.L0.S() {
			s0++
		}
	}
	// The S bit assignment must not be biased towards either truth
	// value.
	if s0 < count/4 || s0 > count-count/4 {
		t.Errorf("S bit bias: %d/%d wires had S(L0)=1", s0, count)
	}
}

func TestWireWipe(t *testing.T) {
	wire, err := NewWire(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	wire.Wipe()
	if wire.L0.D0 != 0 || wire.L0.D1 != 0 || wire.L1.D0 != 0 ||
		wire.L1.D1 != 0 {
		t.Fatal("Wipe left label bits")
	}
}

func TestTweak(t *testing.T) {
	l := NewTweak(42)
	if l.D0 != 0 || l.D1 != 42 {
		t.Fatalf("unexpected tweak label: %s", l)
	}
	if l.S() {
		t.Fatal("tweak label has S set")
	}
}

func BenchmarkLabelMul2(b *testing.B) {
	var l Label
	l.D1 = 0xffffffffffffffff
	for i := 0; i < b.N; i++ {
		l.Mul2()
	}
}

func BenchmarkLabelXor(b *testing.B) {
	var l, o Label
	o.D0 = 0x5555555555555555
	o.D1 = 0xaaaaaaaaaaaaaaaa
	for i := 0; i < b.N; i++ {
		l.Xor(o)
	}
}
