//
// label_test.go
//
// Copyright (c) 2019 Markku Rossi
//
// All rights reserved.
//

package ot

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLabelSBit(t *testing.T) {
	label := Label{
		D0: 0xffffffffffffffff,
		D1: 0xffffffffffffffff,
	}

	label.SetS(true)
	require.Equal(t, uint64(0xffffffffffffffff), label.D0)

	label.SetS(false)
	require.Equal(t, uint64(0x7fffffffffffffff), label.D0)
}

func TestLabelMul2(t *testing.T) {
	label := Label{D1: 0xffffffffffffffff}
	label.Mul2()
	require.Equal(t, uint64(0x1), label.D0)
	require.Equal(t, uint64(0xfffffffffffffffe), label.D1)
}

func TestLabelMul4(t *testing.T) {
	label := Label{D1: 0xffffffffffffffff}
	label.Mul4()
	require.Equal(t, uint64(0x3), label.D0)
	require.Equal(t, uint64(0xfffffffffffffffc), label.D1)
}

func TestLabelDataRoundTrip(t *testing.T) {
	label, err := NewLabel(rand.Reader)
	require.NoError(t, err)

	var buf LabelData
	label.GetData(&buf)

	var back Label
	back.SetData(&buf)

	require.True(t, label.Equal(back), "label did not round-trip through LabelData")
}

func TestLabelEqual(t *testing.T) {
	a, err := NewLabel(rand.Reader)
	require.NoError(t, err)
	b := a
	require.True(t, a.Equal(b))
	b.Xor(Label{D0: 1})
	require.False(t, a.Equal(b))
}
