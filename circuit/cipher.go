//
// Copyright (c) 2019 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/markkurossi/maxgc/ot"
)

// rowPlaintextLen is the fixed length of a garbled-row plaintext: a
// 128-bit output label, one point bit, padded to a round size (spec
// §4.1 "padded to a fixed length").
const rowPlaintextLen = 32

// Row is a single encrypted cell of a garbled table: a secretbox
// ciphertext whose key is unique to its gate and row index, so a
// constant all-zero nonce is safe to reuse across every row.
type Row []byte

var zeroNonce [24]byte

// gateKey derives the per-row symmetric key from the input labels
// that select this row, the gate id and the row index, following
// spec §4.1: "derive a key stream via KDF(K1 ‖ K2 ‖ gate_id)".
// The row index is folded in too so that every cell of a gate's
// truth table, even ones keyed by the same single input label (as
// happens for a NOT gate), gets an independent key.
//
// Each label's sign bit (ot.Label.S()) is masked off before it enters
// the KDF. The protocol package repurposes that bit as a side channel
// for carrying a wire's point bit through the oblivious transfer,
// which only moves opaque 128-bit strings; masking it here keeps key
// derivation invariant to whatever value that bit happens to carry.
func gateKey(labels []ot.Label, gateID Wire, row int) ([32]byte, error) {
	var key [32]byte

	ikm := make([]byte, 0, 16*len(labels))
	var buf ot.LabelData
	for _, l := range labels {
		l.SetS(false)
		l.GetData(&buf)
		ikm = append(ikm, buf[:]...)
	}

	info := make([]byte, 9)
	binary.BigEndian.PutUint64(info[:8], uint64(gateID))
	info[8] = byte(row)

	h := hkdf.New(sha256.New, ikm, nil, info)
	if _, err := io.ReadFull(h, key[:]); err != nil {
		return key, fmt.Errorf("circuit: derive gate %d row %d key: %w",
			gateID, row, err)
	}
	return key, nil
}

// encryptRow seals the output label and its point bit under key,
// producing one garbled-table cell.
func encryptRow(key [32]byte, label ot.Label, point bool) Row {
	var plaintext [rowPlaintextLen]byte
	var buf ot.LabelData
	label.GetData(&buf)
	copy(plaintext[:16], buf[:])
	if point {
		plaintext[16] = 1
	}

	sealed := secretbox.Seal(nil, plaintext[:], &zeroNonce, &key)
	return Row(sealed)
}

// decryptRow opens a garbled-table cell, returning the output label
// and its point bit. It fails with ok == false when the key does
// not match, i.e. the evaluator picked the wrong row or tables were
// corrupted/tampered with.
func decryptRow(key [32]byte, row Row) (label ot.Label, point bool, ok bool) {
	plaintext, opened := secretbox.Open(nil, row, &zeroNonce, &key)
	if !opened || len(plaintext) != rowPlaintextLen {
		return label, false, false
	}
	var buf ot.LabelData
	copy(buf[:], plaintext[:16])
	label.SetData(&buf)
	point = plaintext[16] != 0
	return label, point, true
}
