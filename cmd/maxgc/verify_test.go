//
// Copyright (c) 2019 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNaiveMax(t *testing.T) {
	require.Equal(t, uint64(9), naiveMax([]uint64{1, 9, 3}, []uint64{4, 2}))
}

func TestBitsToValue(t *testing.T) {
	require.Equal(t, uint64(9), bitsToValue([]bool{true, false, false, true}))
}

func TestReportResultWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	require.True(t, reportResult(5, 5, 4, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, data)
}

func TestReportResultDetectsMismatch(t *testing.T) {
	require.False(t, reportResult(5, 6, 4, ""))
}
