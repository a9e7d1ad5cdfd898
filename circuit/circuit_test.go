//
// Copyright (c) 2019 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"testing"
)

func TestValidateRejectsOverlappingInputs(t *testing.T) {
	c := &Circuit{
		AliceInputs: []Wire{1, 2},
		BobInputs:   []Wire{2, 3},
		Gates:       []Gate{{ID: 4, Op: AND, Inputs: []Wire{1, 2}}},
		Outputs:     []Wire{4},
	}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for overlapping Alice/Bob inputs")
	}
}

func TestValidateRejectsUndefinedGateInput(t *testing.T) {
	c := &Circuit{
		AliceInputs: []Wire{1},
		BobInputs:   []Wire{2},
		Gates:       []Gate{{ID: 3, Op: AND, Inputs: []Wire{1, 99}}},
		Outputs:     []Wire{3},
	}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for gate reading an undefined wire")
	}
}

func TestValidateRejectsNonGateOutput(t *testing.T) {
	c := &Circuit{
		AliceInputs: []Wire{1},
		BobInputs:   []Wire{2},
		Gates:       []Gate{{ID: 3, Op: AND, Inputs: []Wire{1, 2}}},
		Outputs:     []Wire{1},
	}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for output wire that is not a gate output")
	}
}

func TestValidateAcceptsWellFormedCircuit(t *testing.T) {
	c := &Circuit{
		AliceInputs: []Wire{1},
		BobInputs:   []Wire{2},
		Gates: []Gate{
			{ID: 3, Op: AND, Inputs: []Wire{1, 2}},
			{ID: 4, Op: NOT, Inputs: []Wire{3}},
		},
		Outputs: []Wire{4},
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOperationEval(t *testing.T) {
	tests := []struct {
		op   Operation
		a, b bool
		want bool
	}{
		{AND, true, true, true},
		{AND, true, false, false},
		{OR, false, false, false},
		{OR, false, true, true},
		{XNOR, true, true, true},
		{XNOR, true, false, false},
		{NOT, true, false, false},
		{NOT, false, false, true},
	}
	for _, tc := range tests {
		got := tc.op.Eval(tc.a, tc.b)
		if got != tc.want {
			t.Fatalf("%s.Eval(%v, %v) = %v, want %v", tc.op, tc.a, tc.b, got, tc.want)
		}
	}
}

func TestNumWires(t *testing.T) {
	c := &Circuit{
		AliceInputs: []Wire{1, 2},
		BobInputs:   []Wire{3, 4},
		Gates:       []Gate{{ID: 5, Op: AND, Inputs: []Wire{1, 3}}},
		Outputs:     []Wire{5},
	}
	if got := c.NumWires(); got != 6 {
		t.Fatalf("NumWires() = %d, want 6", got)
	}
}
