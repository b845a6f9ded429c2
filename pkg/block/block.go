// Package block implements the block model: a parent reference, an
// ordered list of non-coinbase transactions, and a coinbase transaction
// crediting the block's miner (spec.md §5).
package block

import (
	"github.com/rbelusko/fiitcoin/pkg/crypto"
	"github.com/rbelusko/fiitcoin/pkg/tx"
)

// Block is an immutable, hashed block. Coinbase is never included in the
// hashing preimage or in Txs: it is tracked separately because it isn't a
// "real" candidate transaction, it's minted by the block itself.
type Block struct {
	hash     crypto.Digest
	prevHash crypto.Digest
	txs      []*tx.Tx
	coinbase *tx.Tx
}

// New builds and hashes a block over parent prevHash (crypto.ZeroDigest for
// genesis), the given non-coinbase transactions, and a coinbase minted to
// minerVerifiers under minerThreshold.
func New(prevHash crypto.Digest, txs []*tx.Tx, minerVerifiers []*crypto.VerifyingKey, minerThreshold int) *Block {
	b := &Block{
		prevHash: prevHash,
		txs:      append([]*tx.Tx(nil), txs...),
		coinbase: tx.CoinbaseTx(minerVerifiers, minerThreshold),
	}
	b.hash = crypto.Sum(b.rawPreimage())
	return b
}

// rawPreimage is the canonical block hashing preimage: the parent hash
// (omitted entirely for genesis, whose prevHash is the zero digest),
// followed by the hash of every non-coinbase transaction in order. The
// coinbase transaction never contributes to the preimage (spec.md §6).
func (b *Block) rawPreimage() []byte {
	buf := make([]byte, 0, 32+32*len(b.txs))
	if !b.prevHash.IsZero() {
		buf = append(buf, b.prevHash[:]...)
	}
	for _, t := range b.txs {
		h := t.Hash()
		buf = append(buf, h[:]...)
	}
	return buf
}

// Hash returns the block's digest.
func (b *Block) Hash() crypto.Digest { return b.hash }

// PrevHash returns the parent block's digest (the zero digest for genesis).
func (b *Block) PrevHash() crypto.Digest { return b.prevHash }

// IsGenesis reports whether b has no parent.
func (b *Block) IsGenesis() bool { return b.prevHash.IsZero() }

// Txs returns the block's non-coinbase transactions.
func (b *Block) Txs() []*tx.Tx { return b.txs }

// Coinbase returns the block's coinbase transaction.
func (b *Block) Coinbase() *tx.Tx { return b.coinbase }
