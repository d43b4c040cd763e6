//
// mpint_test.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package mpint

import (
	"math/big"
	"testing"
)

func TestFromBytes(t *testing.T) {
	v := FromBytes([]byte{0x01, 0x00})
	if v.Int64() != 256 {
		t.Fatalf("unexpected FromBytes result: %v", v)
	}
	if FromBytes(nil).Sign() != 0 {
		t.Fatal("FromBytes(nil) is not zero")
	}
}

func TestAdd(t *testing.T) {
	sum := Add(big.NewInt(40), big.NewInt(2))
	if sum.Int64() != 42 {
		t.Fatalf("unexpected Add result: %v", sum)
	}
}

func TestModNegative(t *testing.T) {
	n := big.NewInt(7)

	v := Mod(Sub(big.NewInt(2), big.NewInt(5)), n)
	if v.Sign() < 0 || v.Cmp(n) >= 0 {
		t.Fatalf("Mod result outside [0, n): %v", v)
	}
	if v.Int64() != 4 {
		t.Fatalf("unexpected Mod result: %v", v)
	}
}

func TestExpRoundtrip(t *testing.T) {
	// n=33: phi(n)=20 and 3*7=21=1 (mod 20), so e=3, d=7 form a
	// valid exponent pair.
	n := big.NewInt(33)
	e := big.NewInt(3)
	d := big.NewInt(7)
	m := big.NewInt(5)

	c := Exp(m, e, n)
	p := Exp(c, d, n)
	if p.Cmp(m) != 0 {
		t.Fatalf("Exp roundtrip failed: %v != %v", p, m)
	}
}
