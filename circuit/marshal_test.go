//
// Copyright (c) 2019 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"path/filepath"
	"testing"
)

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	c, err := Synthesize(4, 2)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	data, err := Marshal(c, 4, 2)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	back, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if len(back.Gates) != len(c.Gates) {
		t.Fatalf("gate count mismatch: got %d, want %d", len(back.Gates), len(c.Gates))
	}
	for i := range c.Gates {
		if back.Gates[i] != c.Gates[i] {
			t.Fatalf("gate %d mismatch: got %v, want %v", i, back.Gates[i], c.Gates[i])
		}
	}
	if len(back.Outputs) != len(c.Outputs) {
		t.Fatalf("output count mismatch")
	}
}

func TestUnmarshalRejectsInvalidCircuit(t *testing.T) {
	_, err := Unmarshal([]byte(`{"name":"max","circuits":[]}`))
	if err == nil {
		t.Fatal("expected error for empty circuits list")
	}

	_, err = Unmarshal([]byte(`{"name":"max","circuits":[{"id":"x","alice":[1],"bob":[2],"out":[3],"gates":[{"id":3,"type":"BOGUS","in":[1,2]}]}]}`))
	if err == nil {
		t.Fatal("expected error for unknown gate type")
	}
}

func TestDigestIsDeterministic(t *testing.T) {
	c1, err := Synthesize(4, 3)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	c2, err := Synthesize(4, 3)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	d1, err := Digest(c1, 4, 3)
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	d2, err := Digest(c2, 4, 3)
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	if d1 != d2 {
		t.Fatalf("digests differ across independent synthesis runs: %s != %s", d1, d2)
	}
}

func TestLoadOrSynthesizeCaches(t *testing.T) {
	dir := t.TempDir()

	c1, path1, err := LoadOrSynthesize(dir, 4, 1)
	if err != nil {
		t.Fatalf("LoadOrSynthesize (first): %v", err)
	}

	wantPath := filepath.Join(dir, "max_4bits_2items.json")
	if path1 != wantPath {
		t.Fatalf("got path %s, want %s", path1, wantPath)
	}

	c2, path2, err := LoadOrSynthesize(dir, 4, 1)
	if err != nil {
		t.Fatalf("LoadOrSynthesize (cached): %v", err)
	}
	if path2 != path1 {
		t.Fatalf("cached path differs: %s != %s", path2, path1)
	}
	if len(c1.Gates) != len(c2.Gates) {
		t.Fatalf("cached circuit gate count differs: %d != %d", len(c2.Gates), len(c1.Gates))
	}
}
