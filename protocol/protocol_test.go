//
// Copyright (c) 2019 Markku Rossi
//
// All rights reserved.
//

package protocol

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/markkurossi/maxgc/circuit"
	"github.com/markkurossi/maxgc/p2p"
)

func bitsOf(v uint64, bits int) []bool {
	out := make([]bool, bits)
	for i := 0; i < bits; i++ {
		out[bits-1-i] = (v>>uint(i))&1 == 1
	}
	return out
}

func valueOf(bits []bool) uint64 {
	var v uint64
	for _, b := range bits {
		v <<= 1
		if b {
			v |= 1
		}
	}
	return v
}

func runProtocol(t *testing.T, setSize int, aliceValues, bobValues []uint64) uint64 {
	t.Helper()

	circ, err := circuit.Synthesize(4, setSize)
	require.NoError(t, err)

	var aliceBits, bobBits []bool
	for _, v := range aliceValues {
		aliceBits = append(aliceBits, bitsOf(v, 4)...)
	}
	for _, v := range bobValues {
		bobBits = append(bobBits, bitsOf(v, 4)...)
	}

	connA, connB := p2p.Pipe()

	garbler := NewGarbler(connA, circ, aliceBits, nil)
	evaluator := NewEvaluator(connB, bobBits, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	type result struct {
		bits []bool
		err  error
	}
	gDone := make(chan result, 1)
	eDone := make(chan result, 1)

	go func() {
		bits, err := garbler.Run(ctx)
		gDone <- result{bits, err}
	}()
	go func() {
		bits, err := evaluator.Run(ctx)
		eDone <- result{bits, err}
	}()

	gr := <-gDone
	require.NoError(t, gr.err)
	er := <-eDone
	require.NoError(t, er.err)

	gotGarbler := valueOf(gr.bits)
	gotEvaluator := valueOf(er.bits)
	require.Equal(t, gotGarbler, gotEvaluator, "garbler and evaluator disagree on the output")
	return gotEvaluator
}

func TestProtocolComputesMax(t *testing.T) {
	tests := []struct {
		setSize     int
		alice, bob  []uint64
		wantMaximum uint64
	}{
		{1, []uint64{3}, []uint64{7}, 7},
		{1, []uint64{15}, []uint64{0}, 15},
		{1, []uint64{0}, []uint64{0}, 0},
		{2, []uint64{1, 2}, []uint64{3, 0}, 3},
		{2, []uint64{15, 15}, []uint64{1, 1}, 15},
		{3, []uint64{1, 2, 3}, []uint64{4, 5, 6}, 6},
		{5, []uint64{1, 2, 3, 4, 5}, []uint64{9, 8, 7, 6, 15}, 15},
	}

	for _, tc := range tests {
		got := runProtocol(t, tc.setSize, tc.alice, tc.bob)
		require.Equalf(t, tc.wantMaximum, got, "setSize=%d alice=%v bob=%v",
			tc.setSize, tc.alice, tc.bob)
	}
}

func TestProtocolCancellation(t *testing.T) {
	circ, err := circuit.Synthesize(4, 1)
	require.NoError(t, err)

	connA, _ := p2p.Pipe()
	garbler := NewGarbler(connA, circ, bitsOf(5, 4), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = garbler.Run(ctx)
	require.Error(t, err)
	_, ok := err.(*ChannelError)
	require.True(t, ok, "expected *ChannelError, got %T", err)
}
