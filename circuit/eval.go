//
// Copyright (c) 2019 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"fmt"

	"github.com/markkurossi/maxgc/ot"
)

// Value is a wire's runtime state as seen by the evaluator: an
// opaque label plus its point bit, never the logical value itself.
type Value struct {
	Label ot.Label
	Point bool
}

// CryptoError reports an authenticated-decryption failure while
// evaluating a garbled gate (spec §7): "abort with diagnostic
// identifying the gate id; never fall back or guess a row."
type CryptoError struct {
	GateID Wire
	Err    error
}

func (e *CryptoError) Error() string {
	return fmt.Sprintf("circuit: gate %s: decryption failed: %v", e.GateID, e.Err)
}

func (e *CryptoError) Unwrap() error {
	return e.Err
}

// Evaluate walks the circuit's gates in declaration order, using the
// garbled tables and the caller-supplied wire values (the
// evaluator's own input labels plus the garbler's input labels
// received over the wire). Values for every input wire (Alice's and
// Bob's) must already be present in values, indexed by wire id;
// Evaluate fills in every gate-output wire of values in place, so the
// output values are read from values afterwards. It returns only an
// error.
func Evaluate(c *Circuit, tables [][4]Row, values []Value) error {
	if len(tables) != len(c.Gates) {
		return fmt.Errorf("circuit: table count %d does not match gate count %d",
			len(tables), len(c.Gates))
	}

	for gi, gate := range c.Gates {
		if gate.Arity() == 1 {
			a := values[gate.Inputs[0]]
			idx := rowIndexUnary(a.Point)

			key, err := gateKey([]ot.Label{a.Label}, gate.ID, idx)
			if err != nil {
				return err
			}
			label, point, ok := decryptRow(key, tables[gi][idx])
			if !ok {
				return &CryptoError{
					GateID: gate.ID,
					Err:    fmt.Errorf("authentication tag mismatch"),
				}
			}
			values[gate.ID] = Value{Label: label, Point: point}
		} else {
			a := values[gate.Inputs[0]]
			b := values[gate.Inputs[1]]
			idx := rowIndex(a.Point, b.Point)

			key, err := gateKey([]ot.Label{a.Label, b.Label}, gate.ID, idx)
			if err != nil {
				return err
			}
			label, point, ok := decryptRow(key, tables[gi][idx])
			if !ok {
				return &CryptoError{
					GateID: gate.ID,
					Err:    fmt.Errorf("authentication tag mismatch"),
				}
			}
			values[gate.ID] = Value{Label: label, Point: point}
		}
	}
	return nil
}
