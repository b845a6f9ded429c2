// Package blockhandler is the node-facing API over a Blockchain: submitting
// transactions and blocks, and producing new blocks (including forks) from
// the pending mempool (spec.md §4.7, original_source's BlockHandler).
package blockhandler

import (
	"github.com/rbelusko/fiitcoin/pkg/block"
	"github.com/rbelusko/fiitcoin/pkg/chain"
	"github.com/rbelusko/fiitcoin/pkg/crypto"
	"github.com/rbelusko/fiitcoin/pkg/tx"
	"github.com/rbelusko/fiitcoin/pkg/txhandler"
)

// Handler wraps a Blockchain with block-production helpers.
type Handler struct {
	chain *chain.Blockchain
}

// New wraps bc.
func New(bc *chain.Blockchain) *Handler {
	return &Handler{chain: bc}
}

// ProcessTx submits t to the mempool for future inclusion.
func (h *Handler) ProcessTx(t *tx.Tx) {
	h.chain.AddTx(t)
}

// ProcessBlock attempts to extend the chain with b and reports whether it
// was accepted.
func (h *Handler) ProcessBlock(b *block.Block) bool {
	return h.chain.AddBlock(b)
}

// CreateBlock mints a new block on top of the current tip, including as
// many pending mempool transactions as apply cleanly against the tip's
// UTXO pool, crediting the coinbase to minerVerifiers under minerThreshold.
func (h *Handler) CreateBlock(minerVerifiers []*crypto.VerifyingKey, minerThreshold int) *block.Block {
	tip := h.chain.BlockAtMaxHeight()
	return h.createOn(tip.Hash(), minerVerifiers, minerThreshold)
}

// CreateFork mints a new block on top of parentHash instead of the current
// tip, letting a caller deliberately build a competing branch (used
// heavily by fork-handling tests).
func (h *Handler) CreateFork(parentHash crypto.Digest, minerVerifiers []*crypto.VerifyingKey, minerThreshold int) (*block.Block, bool) {
	if _, ok := h.chain.BlockAtHash(parentHash); !ok {
		return nil, false
	}
	return h.createOn(parentHash, minerVerifiers, minerThreshold), true
}

func (h *Handler) createOn(parentHash crypto.Digest, minerVerifiers []*crypto.VerifyingKey, minerThreshold int) *block.Block {
	pool, ok := h.chain.UTXOPoolAtHash(parentHash)
	if !ok {
		pool = h.chain.UTXOPoolAtMaxHeight()
	}

	candidates := h.chain.Mempool().All()
	accepted := txhandler.NewHandler().Handle(pool, candidates)

	return block.New(parentHash, accepted, minerVerifiers, minerThreshold)
}
