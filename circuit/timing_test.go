//
// timing_test.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"testing"
	"time"

	"github.com/markkurossi/garbled/p2p"
)

func TestTimingSamples(t *testing.T) {
	timing := NewTiming()

	garble := timing.Sample("Garble", nil)
	if !garble.Start.Equal(timing.Start) {
		t.Errorf("first sample start differs from timing start")
	}
	xfer := timing.Sample("Xfer", []string{"1kB"})
	if !xfer.Start.Equal(garble.End) {
		t.Errorf("samples are not contiguous")
	}

	marshaled := time.Now()
	xfer.SubSample("Marshal", marshaled)
	sent := time.Now()
	xfer.SubSample("Send", sent)
	if len(xfer.Samples) != 2 {
		t.Fatalf("got %d sub-samples, expected 2", len(xfer.Samples))
	}
	if !xfer.Samples[0].Start.Equal(xfer.Start) {
		t.Errorf("first sub-sample start differs from sample start")
	}
	if !xfer.Samples[0].End.Equal(marshaled) {
		t.Errorf("sub-sample end differs from the argument")
	}
	if !xfer.Samples[1].Start.Equal(marshaled) {
		t.Errorf("sub-samples are not chained")
	}

	xfer.AbsSubSample("Unmarshal", 42*time.Millisecond)
	if len(xfer.Samples) != 3 {
		t.Fatalf("got %d sub-samples, expected 3", len(xfer.Samples))
	}
	if xfer.Samples[2].Abs != 42*time.Millisecond {
		t.Errorf("absolute sub-sample duration %v", xfer.Samples[2].Abs)
	}

	timing.Print(p2p.IOStats{
		Sent:    1234,
		Recvd:   5678,
		Flushed: 3,
	})
}

func TestFileSize(t *testing.T) {
	tests := []struct {
		size     FileSize
		expected string
	}{
		{size: 512, expected: "512B"},
		{size: 1001, expected: "1kB"},
		{size: 234567, expected: "234kB"},
		{size: 5*1000*1000 + 1, expected: "5MB"},
		{size: 7 * 1000 * 1000 * 1000, expected: "7GB"},
		{size: 2 * 1000 * 1000 * 1000 * 1000, expected: "2TB"},
	}
	for _, test := range tests {
		if got := test.size.String(); got != test.expected {
			t.Errorf("FileSize(%d): got %s, expected %s",
				uint64(test.size), got, test.expected)
		}
	}
}
