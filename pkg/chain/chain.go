// Package chain implements the fork-aware blockchain: a tree of blocks
// rooted at genesis, each node carrying the UTXO pool that results from
// applying every block on its path, bounded by a sliding retention window
// so the tree cannot grow without limit (spec.md §4.7, §8).
package chain

import (
	"fmt"
	"sync"

	"github.com/rbelusko/fiitcoin/pkg/block"
	"github.com/rbelusko/fiitcoin/pkg/crypto"
	"github.com/rbelusko/fiitcoin/pkg/mempool"
	"github.com/rbelusko/fiitcoin/pkg/tx"
	"github.com/rbelusko/fiitcoin/pkg/txhandler"
	"github.com/rbelusko/fiitcoin/pkg/utxo"
)

// CutOffAge bounds how far behind the tallest known block a node may sit
// before it is evicted from the tree (spec.md §4.7). A node at height h is
// retained as long as h > maxHeight - CutOffAge.
const CutOffAge = 12

// node is one block's place in the fork tree: the block itself, the UTXO
// pool that results from applying every ancestor up to and including this
// block, and its height (genesis is height 0).
type node struct {
	block  *block.Block
	pool   *utxo.Pool
	height int
}

// Blockchain is the mutable fork tree plus the mempool of transactions not
// yet included in any accepted block. All exported methods are safe for
// concurrent use.
type Blockchain struct {
	mu sync.Mutex

	nodes     map[crypto.Digest]*node
	maxHeight int
	tipHash   crypto.Digest // node at maxHeight that was accepted first

	mempool *mempool.Pool
	archive evictionArchiver
}

// evictionArchiver receives blocks falling out of the retention window.
// Satisfied by *pkg/archive.Archive; kept as an interface here so chain
// never needs to import the archive's on-disk dependency directly.
type evictionArchiver interface {
	Record(b *block.Block) error
}

// SetArchive installs an optional sink for blocks evicted past CutOffAge.
// Recording failures are not fatal to the chain: the archive is a
// best-effort audit trail, never a dependency of consensus.
func (bc *Blockchain) SetArchive(a evictionArchiver) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	bc.archive = a
}

// New creates a blockchain rooted at genesisBlock, which must be a
// genesis block (no parent) and whose coinbase's outputs become the
// initial spendable set.
func New(genesisBlock *block.Block) (*Blockchain, error) {
	if !genesisBlock.IsGenesis() {
		return nil, fmt.Errorf("chain: genesis block must have no parent")
	}

	pool := utxo.New()
	creditCoinbase(pool, genesisBlock)

	root := &node{block: genesisBlock, pool: pool, height: 0}
	bc := &Blockchain{
		nodes:     map[crypto.Digest]*node{genesisBlock.Hash(): root},
		maxHeight: 0,
		tipHash:   genesisBlock.Hash(),
		mempool:   mempool.New(),
	}
	return bc, nil
}

// creditCoinbase adds b's coinbase outputs to pool.
func creditCoinbase(pool *utxo.Pool, b *block.Block) {
	cb := b.Coinbase()
	hash := cb.Hash()
	for idx, out := range cb.Outputs() {
		pool.Add(hash, uint8(idx), out)
	}
}

// BlockAtHash returns the block stored at hash, if it is still retained in
// the tree.
func (bc *Blockchain) BlockAtHash(hash crypto.Digest) (*block.Block, bool) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	n, ok := bc.nodes[hash]
	if !ok {
		return nil, false
	}
	return n.block, true
}

// BlockAtMaxHeight returns the block at the tip: the node at maxHeight that
// was accepted first among any ties (spec.md's "oldest-wins" rule).
func (bc *Blockchain) BlockAtMaxHeight() *block.Block {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return bc.nodes[bc.tipHash].block
}

// UTXOPoolAtMaxHeight returns a clone of the UTXO pool at the current tip.
func (bc *Blockchain) UTXOPoolAtMaxHeight() *utxo.Pool {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return bc.nodes[bc.tipHash].pool.Clone()
}

// UTXOPoolAtHash returns a clone of the UTXO pool resulting from the chain
// ending at hash, if that node is still retained.
func (bc *Blockchain) UTXOPoolAtHash(hash crypto.Digest) (*utxo.Pool, bool) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	n, ok := bc.nodes[hash]
	if !ok {
		return nil, false
	}
	return n.pool.Clone(), true
}

// HeightOf returns the height of the node at hash.
func (bc *Blockchain) HeightOf(hash crypto.Digest) (int, bool) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	n, ok := bc.nodes[hash]
	if !ok {
		return 0, false
	}
	return n.height, true
}

// Mempool returns the shared pool of pending transactions not yet placed
// in an accepted block.
func (bc *Blockchain) Mempool() *mempool.Pool {
	return bc.mempool
}

// AddTx adds a transaction to the mempool for future inclusion. It is not
// validated here: validity depends on which fork it eventually lands in.
func (bc *Blockchain) AddTx(t *tx.Tx) {
	bc.mempool.Add(t)
}

// AddBlock attempts to extend the tree with b. It is accepted if and only
// if:
//   - b is not a genesis block (a second genesis is always rejected),
//   - b's parent is currently retained in the tree (not evicted, and not
//     simply unknown),
//   - every non-coinbase transaction in b applies against the parent's
//     UTXO pool once the default batch handler has resolved intra-block
//     dependency waves; if even one of b's transactions fails to apply,
//     the whole block is rejected and the parent's pool is left untouched.
//
// On acceptance, AddBlock records the new node, advances maxHeight and the
// tip if appropriate (oldest-wins on ties), evicts nodes that have fallen
// behind CutOffAge, and removes any transactions the block consumed from
// the mempool. It returns false if b was rejected.
func (bc *Blockchain) AddBlock(b *block.Block) bool {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	if b.IsGenesis() {
		return false
	}
	if _, exists := bc.nodes[b.Hash()]; exists {
		return false
	}

	parent, ok := bc.nodes[b.PrevHash()]
	if !ok {
		return false
	}

	pool := parent.pool.Clone()
	accepted := txhandler.NewHandler().Handle(pool, b.Txs())
	if len(accepted) != len(b.Txs()) {
		return false
	}
	creditCoinbase(pool, b)

	height := parent.height + 1
	bc.nodes[b.Hash()] = &node{block: b, pool: pool, height: height}

	if height > bc.maxHeight {
		bc.maxHeight = height
		bc.tipHash = b.Hash()
	}
	// Ties at the current max height keep the existing, earlier tip.

	for _, t := range b.Txs() {
		bc.mempool.Remove(t.Hash())
	}

	bc.evictOldNodes()
	return true
}

// evictOldNodes drops every node whose height has fallen to or below
// maxHeight - CutOffAge. Must be called with bc.mu held.
func (bc *Blockchain) evictOldNodes() {
	threshold := bc.maxHeight - CutOffAge
	for hash, n := range bc.nodes {
		if n.height <= threshold {
			if bc.archive != nil {
				bc.archive.Record(n.block)
			}
			delete(bc.nodes, hash)
		}
	}
}
