// Package wallet derives cosmetic, human-shareable address strings from
// verifying keys. Addresses play no role in validation: the ledger only
// ever compares VerifyingKey values directly (spec.md §4.1, §6). This
// package exists purely so a CLI or demo has something shorter than a raw
// RSA key to print and pass around (SPEC_FULL.md §4, supplemented
// feature), grounded on the teacher's own Hash160 + Base58Check address
// scheme (pkg/keys/address.go) with its secp256k1 public key swapped for
// this module's RSA VerifyingKey.
package wallet

import (
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160"

	"github.com/rbelusko/fiitcoin/pkg/crypto"
	"github.com/rbelusko/fiitcoin/pkg/encoding"
)

// addressVersion is the Base58Check version byte for fiitcoin addresses,
// distinct from the teacher's Bitcoin mainnet/testnet versions.
const addressVersion = 0x2f

// Address renders vk as a short Base58Check string: version byte ||
// ripemd160(sha256(vk.Bytes())), checksummed. Two different RSA keys may
// (astronomically rarely) collide to the same address; nothing in the
// ledger trusts this mapping to be injective.
func Address(vk *crypto.VerifyingKey) string {
	sha := sha256.Sum256(vk.Bytes())
	ripe := ripemd160.New()
	ripe.Write(sha[:])
	hash160 := ripe.Sum(nil)
	return encoding.EncodeBase58Check(addressVersion, hash160)
}
