//
// Copyright (c) 2025-2026 Markku Rossi
//
// All rights reserved.
//

// Package env implements the global environment for the garbled
// circuit system.
package env

import (
	"crypto/rand"
	"io"
)

// DefaultKeyBits is the default RSA key size for the oblivious
// transfer setup.
const DefaultKeyBits = 2048

// Config defines the global configuration for the garbled circuit
// system. It configures operation for all modules. Config must not be
// modified after being passed to any module. It is safe for
// concurrent use by multiple modules as they do not modify it. A nil
// Config selects the defaults.
type Config struct {
	// Rand is the source of entropy for garbling, oblivious
	// transfer, and other cryptography operations.
	Rand io.Reader

	// KeyBits is the RSA key size for the oblivious transfer setup.
	KeyBits int
}

// GetRandom returns the source of entropy for garbling, OT, and other
// cryptography operations.
func (config *Config) GetRandom() io.Reader {
	if config != nil && config.Rand != nil {
		return config.Rand
	}
	return rand.Reader
}

// GetKeyBits returns the RSA key size for the oblivious transfer
// setup.
func (config *Config) GetKeyBits() int {
	if config != nil && config.KeyBits != 0 {
		return config.KeyBits
	}
	return DefaultKeyBits
}
