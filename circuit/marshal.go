//
// Copyright (c) 2019 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	blake2b "github.com/minio/blake2b-simd"
)

// jsonFile is the top-level shape of the circuit file format of
// spec §6.
type jsonFile struct {
	Name     string        `json:"name"`
	Circuits []jsonCircuit `json:"circuits"`
}

type jsonCircuit struct {
	ID    string     `json:"id"`
	Alice []int      `json:"alice"`
	Bob   []int      `json:"bob"`
	Out   []int      `json:"out"`
	Gates []jsonGate `json:"gates"`
}

type jsonGate struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
	In   []int  `json:"in"`
}

func wiresToInts(ws []Wire) []int {
	r := make([]int, len(ws))
	for i, w := range ws {
		r[i] = int(w)
	}
	return r
}

func intsToWires(is []int) []Wire {
	r := make([]Wire, len(is))
	for i, v := range is {
		r[i] = Wire(v)
	}
	return r
}

func opFromType(t string) (Operation, error) {
	switch t {
	case "AND":
		return AND, nil
	case "OR":
		return OR, nil
	case "NXOR":
		return XNOR, nil
	case "NOT":
		return NOT, nil
	default:
		return 0, fmt.Errorf("circuit: unknown gate type %q", t)
	}
}

// Marshal encodes the circuit in the single-circuit JSON file format
// of spec §6, under the label id.
func Marshal(c *Circuit, bits, setSize int) ([]byte, error) {
	jc := jsonCircuit{
		ID:    fmt.Sprintf("%d-bits MAX with %d elements", bits, 2*setSize),
		Alice: wiresToInts(c.AliceInputs),
		Bob:   wiresToInts(c.BobInputs),
		Out:   wiresToInts(c.Outputs),
	}
	for _, g := range c.Gates {
		jc.Gates = append(jc.Gates, jsonGate{
			ID:   int(g.ID),
			Type: g.Op.String(),
			In:   wiresToInts(g.Inputs),
		})
	}
	jf := jsonFile{
		Name:     "max",
		Circuits: []jsonCircuit{jc},
	}
	return json.MarshalIndent(jf, "", "  ")
}

// Unmarshal decodes a circuit file and returns its first (and only)
// circuit.
func Unmarshal(data []byte) (*Circuit, error) {
	var jf jsonFile
	if err := json.Unmarshal(data, &jf); err != nil {
		return nil, fmt.Errorf("circuit: malformed circuit file: %w", err)
	}
	if len(jf.Circuits) == 0 {
		return nil, fmt.Errorf("circuit: circuit file has no circuits")
	}
	jc := jf.Circuits[0]

	c := &Circuit{
		AliceInputs: intsToWires(jc.Alice),
		BobInputs:   intsToWires(jc.Bob),
		Outputs:     intsToWires(jc.Out),
	}
	for _, jg := range jc.Gates {
		op, err := opFromType(jg.Type)
		if err != nil {
			return nil, err
		}
		c.Gates = append(c.Gates, Gate{
			ID:     Wire(jg.ID),
			Op:     op,
			Inputs: intsToWires(jg.In),
		})
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("circuit: loaded an invalid circuit: %w", err)
	}
	return c, nil
}

// Digest returns the blake2b-256 digest of the circuit's canonical
// JSON encoding, used to check that independent synthesis runs for
// the same (bits, setSize) are byte-identical (spec §8
// "Idempotence").
func Digest(c *Circuit, bits, setSize int) (string, error) {
	data, err := Marshal(c, bits, setSize)
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(data)
	return fmt.Sprintf("%x", sum), nil
}

// CachePath returns the stable on-disk path for the (bits, setSize)
// circuit file, per spec §6: "cached at a stable path derived from
// (b, k) and re-used across runs."
func CachePath(dir string, bits, setSize int) string {
	return filepath.Join(dir, fmt.Sprintf("max_%dbits_%ditems.json", bits, 2*setSize))
}

// LoadOrSynthesize loads the circuit for (bits, setSize) from dir's
// cache if present, synthesizing and caching it otherwise. It
// returns the circuit and the path it was loaded from or written to.
func LoadOrSynthesize(dir string, bits, setSize int) (*Circuit, string, error) {
	path := CachePath(dir, bits, setSize)

	data, err := os.ReadFile(path)
	if err == nil {
		c, uerr := Unmarshal(data)
		if uerr != nil {
			return nil, "", fmt.Errorf("circuit: cached file %s: %w", path, uerr)
		}
		return c, path, nil
	}
	if !os.IsNotExist(err) {
		return nil, "", fmt.Errorf("circuit: reading cache %s: %w", path, err)
	}

	c, err := Synthesize(bits, setSize)
	if err != nil {
		return nil, "", err
	}

	data, err = Marshal(c, bits, setSize)
	if err != nil {
		return nil, "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("circuit: creating cache dir %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, "", fmt.Errorf("circuit: writing cache %s: %w", path, err)
	}
	return c, path, nil
}
