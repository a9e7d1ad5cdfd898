//
// Copyright (c) 2019 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"fmt"
)

// counter is the gate/wire id generator. It is shared between gate
// output wires and the fresh input wires introduced at each chaining
// step, exactly as the source generator is: a single counter handed
// out in call order, not a separate counter per concern.
type counter struct {
	n int
}

func newCounter(start int) *counter {
	return &counter{n: start}
}

func (c *counter) next() Wire {
	c.n++
	return Wire(c.n)
}

// synthBuilder accumulates the gates of a circuit under
// construction.
type synthBuilder struct {
	gen   *counter
	gates []Gate
}

func (b *synthBuilder) and(a, c Wire) Wire {
	out := b.gen.next()
	b.gates = append(b.gates, Gate{ID: out, Op: AND, Inputs: []Wire{a, c}})
	return out
}

func (b *synthBuilder) or(a, c Wire) Wire {
	out := b.gen.next()
	b.gates = append(b.gates, Gate{ID: out, Op: OR, Inputs: []Wire{a, c}})
	return out
}

func (b *synthBuilder) nxor(a, c Wire) Wire {
	out := b.gen.next()
	b.gates = append(b.gates, Gate{ID: out, Op: XNOR, Inputs: []Wire{a, c}})
	return out
}

func (b *synthBuilder) not(a Wire) Wire {
	out := b.gen.next()
	b.gates = append(b.gates, Gate{ID: out, Op: NOT, Inputs: []Wire{a}})
	return out
}

// compBlock implements the 4-bit MAX comparator block of spec §4.2,
// steps 1-6. a3..a0 and b3..b0 are the wires of the two 4-bit
// operands, indexed MSB-first; the return values are the MAX output
// wires, also MSB-first.
func (b *synthBuilder) compBlock(a3, a2, a1, a0, b3, b2, b1, b0 Wire) (Wire, Wire, Wire, Wire) {
	x3 := b.nxor(a3, b3)
	x2 := b.nxor(a2, b2)
	x1 := b.nxor(a1, b1)
	x0 := b.nxor(a0, b0)

	nb0 := b.not(b0)
	nb1 := b.not(b1)
	nb2 := b.not(b2)
	nb3 := b.not(b3)

	// z: A = B
	z := b.and(b.and(x3, x2), b.and(x1, x0))

	// x: A > B
	x := b.or(
		b.or(
			b.or(b.and(a3, nb3), b.and(b.and(x3, a2), nb2)),
			b.and(b.and(x3, x2), b.and(a1, nb1)),
		),
		b.and(b.and(b.and(b.and(x3, x2), x1), a0), nb0),
	)

	// select A iff A >= B
	x = b.or(x, z)
	nx := b.not(x)

	m3 := b.or(a3, b3)
	m2 := b.or(b.and(x, a2), b.and(nx, b2))
	m1 := b.or(b.and(x, a1), b.and(nx, b1))
	m0 := b.or(b.and(x, a0), b.and(nx, b0))

	return m3, m2, m1, m0
}

// Synthesize builds the circuit computing max over 2*setSize inputs,
// each a bits-bit unsigned integer, following spec §4.2. The block
// design is hard-coded to a 4-bit comparator (bits must be 4); the
// iterative chaining is written over setSize generically.
func Synthesize(bits, setSize int) (*Circuit, error) {
	if bits != 4 {
		return nil, fmt.Errorf("circuit: synthesizer only supports bits=4, got %d", bits)
	}
	if setSize < 1 {
		return nil, fmt.Errorf("circuit: set size must be >= 1, got %d", setSize)
	}

	n := setSize * 2
	b := &synthBuilder{gen: newCounter(2 * bits)}

	c := &Circuit{}

	a3, a2, a1, a0 := Wire(1), Wire(2), Wire(3), Wire(4)
	c.AliceInputs = append(c.AliceInputs, a3, a2, a1, a0)

	b3, b2, b1, b0 := Wire(5), Wire(6), Wire(7), Wire(8)
	c.BobInputs = append(c.BobInputs, b3, b2, b1, b0)

	var allOutputs []Wire
	compBlock := func(a3, a2, a1, a0, b3, b2, b1, b0 Wire) (Wire, Wire, Wire, Wire) {
		z3, z2, z1, z0 := b.compBlock(a3, a2, a1, a0, b3, b2, b1, b0)
		allOutputs = append(allOutputs, z3, z2, z1, z0)
		return z3, z2, z1, z0
	}

	alice := true
	for i := 0; i < n-2; i++ {
		a3, a2, a1, a0 = compBlock(a3, a2, a1, a0, b3, b2, b1, b0)

		b3 = b.gen.next()
		b2 = b.gen.next()
		b1 = b.gen.next()
		b0 = b.gen.next()

		if alice {
			c.AliceInputs = append(c.AliceInputs, b3, b2, b1, b0)
		} else {
			c.BobInputs = append(c.BobInputs, b3, b2, b1, b0)
		}

		// Idiosyncratic switchover: preserved bit-for-bit to match
		// the cache-file contents, see DESIGN.md. The Python source
		// compares with true division, which for even n-2 is exact
		// only at i+1 == (n-2)/2; testing that as an integer equality
		// avoids Go's truncating division matching at extra i values.
		if n-2 == 2*(i+1) {
			alice = !alice
		}
	}

	// Final block computes the circuit's output.
	compBlock(a3, a2, a1, a0, b3, b2, b1, b0)

	c.Gates = b.gates
	c.Outputs = allOutputs[len(allOutputs)-4:]

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("circuit: synthesized an invalid circuit: %w", err)
	}
	return c, nil
}
