// Package crypto wraps the RSA/SHA-256 primitives the ledger treats as an
// opaque, injected dependency: key generation and PKCS#1 v1.5 signing are
// never reimplemented here, only adapted to the shapes the rest of the
// module needs (fixed-size digests, comparable verifying keys, canonical
// byte encodings for the signed preimages).
package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Digest is a fixed 32-byte SHA-256 output. The all-zeros digest is
// reserved to mean "no parent" (genesis predecessor).
type Digest [32]byte

// ZeroDigest is the genesis sentinel.
var ZeroDigest = Digest{}

// Sum returns the SHA-256 digest of data.
func Sum(data []byte) Digest {
	return sha256.Sum256(data)
}

// IsZero reports whether d is the all-zeros sentinel.
func (d Digest) IsZero() bool {
	return d == ZeroDigest
}

// String returns the hex representation, for logging.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// DigestFromHex parses a hex-encoded digest, used in tests and CLI output.
func DigestFromHex(s string) (Digest, error) {
	var d Digest
	b, err := hex.DecodeString(s)
	if err != nil {
		return d, err
	}
	if len(b) != len(d) {
		return d, fmt.Errorf("digest must be 32 bytes, got %d", len(b))
	}
	copy(d[:], b)
	return d, nil
}
