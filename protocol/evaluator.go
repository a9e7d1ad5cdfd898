//
// Copyright (c) 2019 Markku Rossi
//
// All rights reserved.
//

package protocol

import (
	"context"
	"fmt"

	"github.com/getamis/sirius/log"

	"github.com/markkurossi/maxgc/circuit"
	"github.com/markkurossi/maxgc/ot"
	"github.com/markkurossi/maxgc/p2p"
)

// Evaluator drives party B (Bob) through the evaluation protocol
// steps T0-T6 of spec §4.5.
type Evaluator struct {
	conn    *p2p.Conn
	bInputs []bool
	log     log.Logger
}

// NewEvaluator creates an Evaluator that drives conn as party B,
// supplying bInputs as Bob's own input bits, in the order the
// received circuit declares its b_inputs.
func NewEvaluator(conn *p2p.Conn, bInputs []bool, logger log.Logger) *Evaluator {
	if logger == nil {
		logger = log.Discard()
	}
	return &Evaluator{
		conn:    conn,
		bInputs: bInputs,
		log:     logger.New("role", "evaluator"),
	}
}

// Run executes T0-T6 and returns the protocol's cleartext output
// bits.
func (e *Evaluator) Run(ctx context.Context) ([]bool, error) {
	type result struct {
		bits []bool
		err  error
	}
	done := make(chan result, 1)

	go func() {
		bits, err := e.run()
		done <- result{bits, err}
	}()

	select {
	case <-ctx.Done():
		return nil, &ChannelError{Err: ctx.Err()}
	case r := <-done:
		return r.bits, r.err
	}
}

func (e *Evaluator) run() ([]bool, error) {
	// T0: receive the circuit topology, garbled tables and output
	// permutation bits.
	var topo topologyMsg
	if err := e.conn.ReceiveJSON(&topo); err != nil {
		return nil, &ChannelError{Err: err}
	}
	circ := topo.Circuit
	if err := circ.Validate(); err != nil {
		return nil, &ProtocolError{Msg: fmt.Sprintf("received invalid circuit: %v", err)}
	}
	if len(topo.Tables) != len(circ.Gates) {
		return nil, &ProtocolError{Msg: fmt.Sprintf(
			"table count %d does not match gate count %d",
			len(topo.Tables), len(circ.Gates))}
	}

	if len(e.bInputs) != len(circ.BobInputs) {
		return nil, &ProtocolError{Msg: fmt.Sprintf(
			"bob input count %d does not match circuit's %d",
			len(e.bInputs), len(circ.BobInputs))}
	}

	values := make([]circuit.Value, circ.NumWires())

	// T1: receive Alice's input labels and point bits.
	var in inputMsg
	if err := e.conn.ReceiveJSON(&in); err != nil {
		return nil, &ChannelError{Err: err}
	}
	if len(in.Values) != len(circ.AliceInputs) {
		return nil, &ProtocolError{Msg: fmt.Sprintf(
			"alice value count %d does not match circuit's %d",
			len(in.Values), len(circ.AliceInputs))}
	}
	for i, w := range circ.AliceInputs {
		values[w] = in.Values[i]
	}

	// T2: run OT as receiver, choosing each Bob input wire's label
	// by that wire's own input bit.
	co := ot.NewCO()
	if err := co.InitReceiver(e.conn); err != nil {
		return nil, &ChannelError{Err: err}
	}
	labels := make([]ot.Label, len(circ.BobInputs))
	e.log.Debug("running OT as receiver", "wires", len(labels))
	if err := co.Receive(e.bInputs, labels); err != nil {
		return nil, fmt.Errorf("OT receive: %w", err)
	}
	for i, w := range circ.BobInputs {
		// The garbler packed this wire's point bit into the
		// transferred label's sign bit (see Garbler.run); circuit's
		// gateKey masks it back off before using the label as key
		// material.
		values[w] = circuit.Value{
			Label: labels[i],
			Point: labels[i].S(),
		}
	}

	// T3: evaluate the garbled gates in declaration order.
	e.log.Debug("evaluating circuit", "gates", len(circ.Gates))
	if err := circuit.Evaluate(circ, topo.Tables, values); err != nil {
		return nil, err
	}

	// T4: recover the output bits: b = point XOR p_w.
	bits := make([]bool, len(circ.Outputs))
	for i, w := range circ.Outputs {
		v := values[w]
		bits[i] = v.Point != topo.OutputPBits[w]
	}

	// T5: send the output bits back to Alice.
	if err := e.conn.SendJSON(&outputMsg{Bits: bits}); err != nil {
		return nil, &ChannelError{Err: err}
	}
	if err := e.conn.Flush(); err != nil {
		return nil, &ChannelError{Err: err}
	}

	// T6: return the output.
	e.log.Info("protocol complete")
	return bits, nil
}
