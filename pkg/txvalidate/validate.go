// Package txvalidate implements the transaction validity rule: given a
// candidate transaction and the UTXO pool it claims to spend from, decide
// whether every input resolves, every claimed signature checks out against
// a one-shot matching of verifiers, and value is conserved (spec.md §4.3).
//
// IsValid never panics on adversarial input: a malformed or malicious
// transaction simply comes back false.
package txvalidate

import (
	"github.com/rbelusko/fiitcoin/pkg/crypto"
	"github.com/rbelusko/fiitcoin/pkg/tx"
	"github.com/rbelusko/fiitcoin/pkg/utxo"
)

// IsValid reports whether t may be applied to pool: every input spends a
// coordinate currently in pool, no two inputs double-spend the same
// coordinate within t itself, each input's signatures clear its output's
// m-of-n threshold under one-shot verifier/signature matching, and the
// total input value is no less than the total output value (with total
// output value strictly positive).
func IsValid(t *tx.Tx, pool *utxo.Pool) bool {
	inputs := t.Inputs()
	seen := make(map[utxo.Coordinate]struct{}, len(inputs))

	var inSum uint64
	for i, in := range inputs {
		coord := utxo.Coordinate{TxHash: in.OutputTxHash, Idx: in.OutputIdx}

		// Reject intra-transaction double-spends: two inputs claiming the
		// same coordinate.
		if _, dup := seen[coord]; dup {
			return false
		}
		seen[coord] = struct{}{}

		output, ok := pool.Get(coord)
		if !ok {
			return false
		}

		preimage, err := t.PerInputPreimage(i)
		if err != nil {
			return false
		}
		if !thresholdMet(output, in.Signatures, preimage) {
			return false
		}

		inSum += uint64(output.Value)
	}

	var outSum uint64
	for _, o := range t.Outputs() {
		outSum += uint64(o.Value)
	}

	if outSum == 0 {
		return false
	}
	return inSum >= outSum
}

// thresholdMet reports whether sigs clears output's m-of-n threshold
// against preimage, using one-shot matching: each signature may certify at
// most one verifier, and each verifier may certify at most one signature.
// Without this pairing, a single valid signature could otherwise be
// "reused" to satisfy the threshold against several verifiers at once.
func thresholdMet(output tx.Output, sigs []crypto.Signature, preimage []byte) bool {
	consumedVerifier := make([]bool, len(output.Verifiers))
	validCount := 0

	for _, sig := range sigs {
		for vi, verifier := range output.Verifiers {
			if consumedVerifier[vi] {
				continue
			}
			if verifier.Verify(preimage, sig) {
				consumedVerifier[vi] = true
				validCount++
				break
			}
		}
	}

	return validCount >= output.Threshold
}
