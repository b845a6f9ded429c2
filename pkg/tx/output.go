package tx

import (
	"encoding/binary"

	"github.com/rbelusko/fiitcoin/pkg/crypto"
)

// Output is a spendable value locked to one or more verifying keys. A
// simple (non-multisig) output has exactly one verifier and a threshold
// of 1; an m-of-n multisig output has |Verifiers| = n and Threshold = m.
type Output struct {
	Value     uint32
	Verifiers []*crypto.VerifyingKey
	Threshold int
}

// NewOutput builds a simple, single-verifier output.
func NewOutput(value uint32, verifier *crypto.VerifyingKey) Output {
	return Output{Value: value, Verifiers: []*crypto.VerifyingKey{verifier}, Threshold: 1}
}

// NewMultisigOutput builds an m-of-n output. Callers are responsible for
// the invariant 1 <= threshold <= len(verifiers); constructing a Tx from an
// invalid Output is a programmer error the validator will happily reject
// rather than panic on.
func NewMultisigOutput(value uint32, verifiers []*crypto.VerifyingKey, threshold int) Output {
	return Output{Value: value, Verifiers: verifiers, Threshold: threshold}
}

// encode writes the canonical preimage bytes of o: the value as 4
// big-endian bytes, followed by each verifier's e||n encoding in order,
// with no separators (spec.md §6). Byte-exactness here is load-bearing:
// any change to this encoding changes every hash and signature in the
// system.
func (o Output) encode(buf []byte) []byte {
	var v [4]byte
	binary.BigEndian.PutUint32(v[:], o.Value)
	buf = append(buf, v[:]...)
	for _, verifier := range o.Verifiers {
		buf = append(buf, verifier.Bytes()...)
	}
	return buf
}

func encodeOutputs(buf []byte, outputs []Output) []byte {
	for _, o := range outputs {
		buf = o.encode(buf)
	}
	return buf
}
