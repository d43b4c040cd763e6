//
// decode.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"github.com/cockroachdb/errors"
	"github.com/markkurossi/garbled/ot"
)

// DecodeTable maps the two root wire labels to the cleartext circuit
// outputs. The mapping is independent of the labels' pointer bits.
type DecodeTable struct {
	L0 ot.Label
	L1 ot.Label
}

// Decode maps a root label to its cleartext value. A label matching
// neither table entry fails with ErrDecryptionFailed.
func (t DecodeTable) Decode(label ot.Label) (bool, error) {
	switch {
	case label.Equal(t.L0):
		return false, nil
	case label.Equal(t.L1):
		return true, nil
	default:
		return false, errors.Wrap(ErrDecryptionFailed, "unknown output label")
	}
}

// Bytes returns the decode table serialized as the two raw labels.
func (t DecodeTable) Bytes() []byte {
	buf := make([]byte, 32)
	var data ot.LabelData
	copy(buf[:16], t.L0.Bytes(&data))
	copy(buf[16:], t.L1.Bytes(&data))
	return buf
}

// ParseDecodeTable parses a serialized decode table.
func ParseDecodeTable(data []byte) (DecodeTable, error) {
	var t DecodeTable
	if len(data) != 32 {
		return t, errors.Wrapf(ErrMalformed, "decode table size %d",
			len(data))
	}
	t.L0.SetBytes(data[:16])
	t.L1.SetBytes(data[16:])
	return t, nil
}

// Wipe clears the decode table labels.
func (t *DecodeTable) Wipe() {
	t.L0 = ot.Label{}
	t.L1 = ot.Label{}
}
