//
// Copyright (c) 2019 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"fmt"
	"io"

	"github.com/markkurossi/maxgc/ot"
)

// Garbled is a garbled circuit: a fresh label pair and permutation
// bit per wire, plus one garbled table per gate. It carries no
// cleartext structure beyond the topology in the underlying Circuit.
type Garbled struct {
	// Wires holds the (L0, L1) label pair for every wire, indexed
	// by Wire id.
	Wires []ot.Wire

	// PBits holds the permutation bit p_w for every wire, indexed
	// by Wire id.
	PBits []bool

	// Tables holds, for every gate (same order as Circuit.Gates),
	// the encrypted truth table indexed by point-bit pair. Unary
	// gates (NOT) only populate indices 0 and 1.
	Tables [][4]Row

	// OutputPBits records the permutation bit of every output wire,
	// so the evaluator can recover b = point XOR p_w without
	// needing the garbler's full PBits array.
	OutputPBits map[Wire]bool
}

// rowIndex packs the two input point bits into a 2-bit table index.
// Evaluate selects rows with the same rowIndex/rowIndexUnary helpers.
func rowIndex(pa, pb bool) int {
	i := 0
	if pa {
		i |= 2
	}
	if pb {
		i |= 1
	}
	return i
}

func rowIndexUnary(pa bool) int {
	if pa {
		return 1
	}
	return 0
}

// Garble assigns fresh, independent labels and permutation bits to
// every wire and produces the full, point-and-permuted garbled table
// for every gate (spec §4.3). It never applies Free-XOR or
// half-gates shortcuts: every row of every gate's truth table is
// individually encrypted, grounded on the pre-half-gates
// point-and-permute path of the teacher's apps/garbled/main.go,
// generalized so permutation bits live in their own array instead of
// folding into a label's sign bit.
func Garble(c *Circuit, rand io.Reader) (*Garbled, error) {
	n := c.NumWires()
	g := &Garbled{
		Wires:       make([]ot.Wire, n),
		PBits:       make([]bool, n),
		Tables:      make([][4]Row, len(c.Gates)),
		OutputPBits: make(map[Wire]bool),
	}

	assign := func(w Wire) error {
		l0, err := ot.NewLabel(rand)
		if err != nil {
			return fmt.Errorf("circuit: generating label for %s: %w", w, err)
		}
		l1, err := ot.NewLabel(rand)
		if err != nil {
			return fmt.Errorf("circuit: generating label for %s: %w", w, err)
		}
		var pbit [1]byte
		if _, err := io.ReadFull(rand, pbit[:]); err != nil {
			return fmt.Errorf("circuit: generating permutation bit for %s: %w", w, err)
		}
		g.Wires[w] = ot.Wire{L0: l0, L1: l1}
		g.PBits[w] = pbit[0]&1 != 0
		return nil
	}

	for _, w := range c.AliceInputs {
		if err := assign(w); err != nil {
			return nil, err
		}
	}
	for _, w := range c.BobInputs {
		if err := assign(w); err != nil {
			return nil, err
		}
	}
	for _, gate := range c.Gates {
		if err := assign(gate.ID); err != nil {
			return nil, err
		}
	}

	for gi, gate := range c.Gates {
		out := gate.ID
		pOut := g.PBits[out]
		l0Out := g.Wires[out].L0
		l1Out := g.Wires[out].L1

		if gate.Arity() == 1 {
			a := gate.Inputs[0]
			for av := 0; av < 2; av++ {
				logical := gate.Op.Eval(av != 0, false)
				var outLabel ot.Label
				if logical {
					outLabel = l1Out
				} else {
					outLabel = l0Out
				}
				point := logical != pOut

				var label ot.Label
				if av != 0 {
					label = g.Wires[a].L1
				} else {
					label = g.Wires[a].L0
				}

				pA := g.PBits[a]
				idx := rowIndexUnary(av != 0 != pA)

				key, err := gateKey([]ot.Label{label}, out, idx)
				if err != nil {
					return nil, err
				}
				row := encryptRow(key, outLabel, point)
				g.Tables[gi][idx] = row
			}
		} else {
			a, b := gate.Inputs[0], gate.Inputs[1]
			pA := g.PBits[a]
			pB := g.PBits[b]
			for av := 0; av < 2; av++ {
				for bv := 0; bv < 2; bv++ {
					logical := gate.Op.Eval(av != 0, bv != 0)
					var outLabel ot.Label
					if logical {
						outLabel = l1Out
					} else {
						outLabel = l0Out
					}
					point := logical != pOut

					var la, lb ot.Label
					if av != 0 {
						la = g.Wires[a].L1
					} else {
						la = g.Wires[a].L0
					}
					if bv != 0 {
						lb = g.Wires[b].L1
					} else {
						lb = g.Wires[b].L0
					}

					pointA := av != 0 != pA
					pointB := bv != 0 != pB
					idx := rowIndex(pointA, pointB)

					key, err := gateKey([]ot.Label{la, lb}, out, idx)
					if err != nil {
						return nil, err
					}
					row := encryptRow(key, outLabel, point)
					g.Tables[gi][idx] = row
				}
			}
		}
	}

	for _, w := range c.Outputs {
		g.OutputPBits[w] = g.PBits[w]
	}

	return g, nil
}
