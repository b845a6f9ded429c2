// Package tx implements the transaction model: building an unsigned
// transaction, signing each input independently against its own per-input
// preimage, and finalizing into an immutable, hashed Tx (spec.md §4.1, §6).
package tx

import (
	"github.com/rbelusko/fiitcoin/pkg/crypto"
)

// Coinbase is the fixed reward value of a coinbase transaction's single
// output (spec.md §6).
const Coinbase = 625

// Input references the output a transaction slot spends. In a finalized
// transaction, Signatures holds one signature per configured signer (the
// same ordered signer list signs every input slot; the multisig
// flexibility lives on the Output being spent, not on the spender side).
type Input struct {
	OutputTxHash crypto.Digest
	OutputIdx    uint8
	Signatures   []crypto.Signature
}

// UnsignedTx accumulates inputs and outputs before signing. It carries no
// hash: a hash only exists once the preimage, including signatures, is
// fixed.
type UnsignedTx struct {
	inputs  []Input
	outputs []Output
}

// New returns an empty unsigned transaction builder.
func New() *UnsignedTx {
	return &UnsignedTx{}
}

// AddInput appends an input slot referencing (outputTxHash, outputIdx).
func (u *UnsignedTx) AddInput(outputTxHash crypto.Digest, outputIdx uint8) {
	u.inputs = append(u.inputs, Input{OutputTxHash: outputTxHash, OutputIdx: outputIdx})
}

// AddOutput appends an output.
func (u *UnsignedTx) AddOutput(o Output) {
	u.outputs = append(u.outputs, o)
}

// perInputPreimage is the bytes signed (and later verified) for input i:
// that input's own (output_tx_hash, output_idx) followed by all outputs
// (spec.md §6, "per-input signing preimage"). Each input is signed
// independently of the others so a spender doesn't need to know its
// co-spenders' signatures.
func perInputPreimage(in Input, outputs []Output) []byte {
	buf := make([]byte, 0, 33+len(outputs)*8)
	buf = append(buf, in.OutputTxHash[:]...)
	buf = append(buf, in.OutputIdx)
	buf = encodeOutputs(buf, outputs)
	return buf
}

// Finalize signs every input slot with every key in signers (in order,
// same list for every input) and computes the transaction hash over the
// full canonical encoding, signatures included. A coinbase transaction
// finalizes with an empty signer list (it has no inputs to sign).
func (u *UnsignedTx) Finalize(signers []*crypto.SigningKey) (*Tx, error) {
	inputs := make([]Input, len(u.inputs))
	for i, in := range u.inputs {
		preimage := perInputPreimage(in, u.outputs)
		sigs := make([]crypto.Signature, 0, len(signers))
		for _, sk := range signers {
			sig, err := sk.Sign(preimage)
			if err != nil {
				return nil, err
			}
			sigs = append(sigs, sig)
		}
		inputs[i] = Input{OutputTxHash: in.OutputTxHash, OutputIdx: in.OutputIdx, Signatures: sigs}
	}

	t := &Tx{inputs: inputs, outputs: u.outputs}
	t.hash = crypto.Sum(t.rawPreimage())
	return t, nil
}

// CoinbaseTx builds and finalizes a coinbase transaction: zero inputs, one
// output of fixed value Coinbase credited to the given verifier set.
func CoinbaseTx(verifiers []*crypto.VerifyingKey, threshold int) *Tx {
	u := New()
	u.AddOutput(NewMultisigOutput(Coinbase, verifiers, threshold))
	// Coinbase has no inputs, so there is nothing to sign.
	t, _ := u.Finalize(nil)
	return t
}

// Tx is an immutable, finalized transaction. Its hash is a pure function
// of its bytes: re-ordering inputs or outputs, or any change to a
// signature, produces a different hash.
type Tx struct {
	hash    crypto.Digest
	inputs  []Input
	outputs []Output
}

// Hash returns the transaction's digest.
func (t *Tx) Hash() crypto.Digest { return t.hash }

// Inputs returns the transaction's inputs.
func (t *Tx) Inputs() []Input { return t.inputs }

// Outputs returns the transaction's outputs.
func (t *Tx) Outputs() []Output { return t.outputs }

// Output returns the output at idx, or ok=false if idx is out of range.
func (t *Tx) Output(idx uint8) (Output, bool) {
	if int(idx) >= len(t.outputs) {
		return Output{}, false
	}
	return t.outputs[idx], true
}

// IsCoinbase reports whether t has no inputs (the defining shape of a
// coinbase transaction).
func (t *Tx) IsCoinbase() bool {
	return len(t.inputs) == 0
}

// PerInputPreimage exposes the bytes a verifier checks a given input's
// signatures against; the validator needs the same preimage the signer
// used.
func (t *Tx) PerInputPreimage(inputIdx int) ([]byte, error) {
	if inputIdx < 0 || inputIdx >= len(t.inputs) {
		return nil, &Error{Kind: IndexOutOfBounds, Index: inputIdx}
	}
	return perInputPreimage(t.inputs[inputIdx], t.outputs), nil
}

// rawPreimage is the full-transaction hashing preimage: for each input,
// output_tx_hash || output_idx || concatenated signature bytes, followed
// by the output encoding. The coinbase transaction is never part of this
// preimage for a block (see pkg/block); here it is simply one more Tx.
func (t *Tx) rawPreimage() []byte {
	buf := make([]byte, 0, 64*len(t.inputs)+8*len(t.outputs))
	for _, in := range t.inputs {
		buf = append(buf, in.OutputTxHash[:]...)
		buf = append(buf, in.OutputIdx)
		for _, sig := range in.Signatures {
			buf = append(buf, sig...)
		}
	}
	buf = encodeOutputs(buf, t.outputs)
	return buf
}

// forceSignatureOnInput overwrites input idx's signature list, for test
// fixtures that need a deliberately invalid signature (ported from
// original_source's test-only mutator of the same shape). Recomputes the
// hash so the corrupted tx remains internally consistent (hash matches
// bytes); the signature itself is still invalid against the spent output.
func (t *Tx) forceSignatureOnInput(idx int, sig crypto.Signature) error {
	if idx < 0 || idx >= len(t.inputs) {
		return &Error{Kind: IndexOutOfBounds, Index: idx}
	}
	t.inputs[idx].Signatures = []crypto.Signature{sig}
	t.hash = crypto.Sum(t.rawPreimage())
	return nil
}
