package crypto

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
	"math/big"
)

// SigningKey is an RSA private key used to produce signatures over
// transaction preimages. Key generation itself is the opaque, injected
// primitive spec.md treats as out of scope; this type only adapts it.
type SigningKey struct {
	key *rsa.PrivateKey
}

// VerifyingKey is an RSA public key. It is also the "address" an Output
// locks value to, and the unit a multisig verifier set is built from.
type VerifyingKey struct {
	key *rsa.PublicKey
}

// Signature is a raw PKCS#1 v1.5 signature.
type Signature []byte

// GenerateKeyPair creates a fresh RSA key pair. 1024 bits is acceptable for
// tests (spec.md §6); production callers should pass 2048 or more.
func GenerateKeyPair(bits int) (*SigningKey, *VerifyingKey, error) {
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, nil, fmt.Errorf("generate RSA key: %w", err)
	}
	return &SigningKey{key: key}, &VerifyingKey{key: &key.PublicKey}, nil
}

// Sign signs data (hashing it with SHA-256 first, per spec.md §6's
// "RSA PKCS#1 v1.5 with SHA-256" contract).
func (sk *SigningKey) Sign(data []byte) (Signature, error) {
	digest := sha256.Sum256(data)
	sig, err := rsa.SignPKCS1v15(rand.Reader, sk.key, crypto.SHA256, digest[:])
	if err != nil {
		return nil, fmt.Errorf("sign: %w", err)
	}
	return sig, nil
}

// Public returns the verifying key paired with sk.
func (sk *SigningKey) Public() *VerifyingKey {
	return &VerifyingKey{key: &sk.key.PublicKey}
}

// Verify reports whether sig is a valid PKCS#1 v1.5 signature of data under
// vk. A false result (rather than a propagated error) is intentional: the
// validator treats bad signatures as routine, adversarial input (spec.md §7).
func (vk *VerifyingKey) Verify(data []byte, sig Signature) bool {
	digest := sha256.Sum256(data)
	return rsa.VerifyPKCS1v15(vk.key, crypto.SHA256, digest[:], sig) == nil
}

// Equal reports whether vk and other designate the same RSA public key.
func (vk *VerifyingKey) Equal(other *VerifyingKey) bool {
	if vk == nil || other == nil {
		return vk == other
	}
	return vk.key.E == other.key.E && vk.key.N.Cmp(other.key.N) == 0
}

// Bytes returns the canonical preimage encoding of vk: big-endian minimal
// encoding of the public exponent e, followed by big-endian minimal
// encoding of the modulus n, with no length prefix between the two. This
// must stay byte-exact with spec.md §6 or signatures/hashes computed by
// other implementations of the same preimage stop matching.
func (vk *VerifyingKey) Bytes() []byte {
	e := big.NewInt(int64(vk.key.E)).Bytes()
	n := vk.key.N.Bytes()
	out := make([]byte, 0, len(e)+len(n))
	out = append(out, e...)
	out = append(out, n...)
	return out
}

// String renders a short fingerprint for logging; never the full key.
func (vk *VerifyingKey) String() string {
	d := Sum(vk.Bytes())
	return d.String()[:16]
}
