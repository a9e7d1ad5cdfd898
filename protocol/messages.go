//
// Copyright (c) 2019 Markku Rossi
//
// All rights reserved.
//

package protocol

import (
	"github.com/markkurossi/maxgc/circuit"
)

// topologyMsg is the S3/T0 message: the circuit topology, its
// garbled tables and the permutation bits of its output wires, sent
// as a single framed JSON blob (spec §6 "Garbler→Evaluator wire
// format").
type topologyMsg struct {
	Circuit     *circuit.Circuit
	Tables      [][4]circuit.Row
	OutputPBits map[circuit.Wire]bool
}

// inputMsg is the S4/T1 message: Alice's own input wire values, sent
// directly since no OT is needed for the garbler's own inputs.
type inputMsg struct {
	Values []circuit.Value
}

// outputMsg is the S6/T5 message: Bob's recovered cleartext output
// bits, sent back to Alice.
type outputMsg struct {
	Bits []bool
}
