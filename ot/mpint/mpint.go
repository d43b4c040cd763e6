//
// mpint.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

// Package mpint provides non-destructive helpers for math/big modular
// arithmetic.
package mpint

import (
	"math/big"
)

// FromBytes creates a big.Int from the big-endian data.
func FromBytes(data []byte) *big.Int {
	return big.NewInt(0).SetBytes(data)
}

// Add returns a+b.
func Add(a, b *big.Int) *big.Int {
	return big.NewInt(0).Add(a, b)
}

// Sub returns a-b.
func Sub(a, b *big.Int) *big.Int {
	return big.NewInt(0).Sub(a, b)
}

// Exp returns x**y mod m.
func Exp(x, y, m *big.Int) *big.Int {
	return big.NewInt(0).Exp(x, y, m)
}

// Mod returns x mod y.
func Mod(x, y *big.Int) *big.Int {
	return big.NewInt(0).Mod(x, y)
}
