//
// Copyright (c) 2019 Markku Rossi
//
// All rights reserved.
//

package protocol

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/getamis/sirius/log"

	"github.com/markkurossi/maxgc/circuit"
	"github.com/markkurossi/maxgc/ot"
	"github.com/markkurossi/maxgc/p2p"
)

// Garbler drives party A (Alice) through the garbling protocol steps
// S0-S7 of spec §4.5.
type Garbler struct {
	conn    *p2p.Conn
	circ    *circuit.Circuit
	aInputs []bool
	log     log.Logger

	garbled *circuit.Garbled
}

// NewGarbler creates a Garbler that drives conn as party A, garbling
// circ and supplying aInputs as Alice's own input bits, in the order
// of circ.AliceInputs.
func NewGarbler(conn *p2p.Conn, circ *circuit.Circuit, aInputs []bool, logger log.Logger) *Garbler {
	if logger == nil {
		logger = log.Discard()
	}
	return &Garbler{
		conn:    conn,
		circ:    circ,
		aInputs: aInputs,
		log:     logger.New("role", "garbler"),
	}
}

// Run executes S0-S7 and returns the protocol's cleartext output
// bits. On any error, any label/point material already assigned to
// wires is zeroized before returning (spec §5 "garbler's label
// material is zeroized on abort").
func (g *Garbler) Run(ctx context.Context) ([]bool, error) {
	type result struct {
		bits []bool
		err  error
	}
	done := make(chan result, 1)

	go func() {
		bits, err := g.run()
		done <- result{bits, err}
	}()

	select {
	case <-ctx.Done():
		g.zeroize()
		return nil, &ChannelError{Err: ctx.Err()}
	case r := <-done:
		if r.err != nil {
			g.zeroize()
		}
		return r.bits, r.err
	}
}

func (g *Garbler) run() ([]bool, error) {
	if len(g.aInputs) != len(g.circ.AliceInputs) {
		return nil, &ProtocolError{Msg: fmt.Sprintf(
			"alice input count %d does not match circuit's %d",
			len(g.aInputs), len(g.circ.AliceInputs))}
	}

	// S1/S2: garble the circuit, producing fresh labels, permutation
	// bits and the full garbled tables.
	g.log.Debug("garbling circuit", "gates", len(g.circ.Gates))
	garbled, err := circuit.Garble(g.circ, rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("garbling circuit: %w", err)
	}
	g.garbled = garbled

	// S3: send circuit topology, garbled tables and output
	// permutation bits.
	g.log.Debug("sending topology")
	err = g.conn.SendJSON(&topologyMsg{
		Circuit:     g.circ,
		Tables:      garbled.Tables,
		OutputPBits: garbled.OutputPBits,
	})
	if err != nil {
		return nil, &ChannelError{Err: err}
	}
	if err := g.conn.Flush(); err != nil {
		return nil, &ChannelError{Err: err}
	}

	// S4: send Alice's own input labels and point bits directly; no
	// OT is needed for the garbler's own input wires.
	values := make([]circuit.Value, len(g.circ.AliceInputs))
	for i, w := range g.circ.AliceInputs {
		bit := g.aInputs[i]
		wire := garbled.Wires[w]
		var label ot.Label
		if bit {
			label = wire.L1
		} else {
			label = wire.L0
		}
		values[i] = circuit.Value{
			Label: label,
			Point: bit != garbled.PBits[w],
		}
	}
	g.log.Debug("sending alice's input labels", "count", len(values))
	if err := g.conn.SendJSON(&inputMsg{Values: values}); err != nil {
		return nil, &ChannelError{Err: err}
	}
	if err := g.conn.Flush(); err != nil {
		return nil, &ChannelError{Err: err}
	}

	// S5: run OT as sender, once per Bob input wire, in the declared
	// b_inputs order.
	co := ot.NewCO()
	if err := co.InitSender(g.conn); err != nil {
		return nil, &ChannelError{Err: err}
	}
	wires := make([]ot.Wire, len(g.circ.BobInputs))
	for i, w := range g.circ.BobInputs {
		wire := garbled.Wires[w]
		pbit := garbled.PBits[w]
		// Pack each label's point bit into its own sign bit, since
		// CO OT only moves opaque 128-bit strings; circuit.gateKey
		// masks this bit back off before deriving garbled-table keys.
		wire.L0.SetS(pbit)
		wire.L1.SetS(!pbit)
		wires[i] = wire
	}
	g.log.Debug("running OT as sender", "wires", len(wires))
	if err := co.Send(wires); err != nil {
		return nil, fmt.Errorf("OT send: %w", err)
	}

	// S6: receive Bob's cleartext output bits.
	var out outputMsg
	if err := g.conn.ReceiveJSON(&out); err != nil {
		return nil, &ChannelError{Err: err}
	}
	if len(out.Bits) != len(g.circ.Outputs) {
		return nil, &ProtocolError{Msg: fmt.Sprintf(
			"output bit count %d does not match circuit's %d",
			len(out.Bits), len(g.circ.Outputs))}
	}

	// S7: return the output.
	g.log.Info("protocol complete")
	return out.Bits, nil
}

// zeroize clears any label/point-bit material captured during
// garbling.
func (g *Garbler) zeroize() {
	if g.garbled == nil {
		return
	}
	for i := range g.garbled.Wires {
		g.garbled.Wires[i] = ot.Wire{}
	}
	for i := range g.garbled.PBits {
		g.garbled.PBits[i] = false
	}
	for i := range g.garbled.Tables {
		for j := range g.garbled.Tables[i] {
			g.garbled.Tables[i][j] = nil
		}
	}
}
