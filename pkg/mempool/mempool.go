// Package mempool is a minimal shared pool of candidate transactions
// awaiting inclusion in a block, keyed by hash. Unlike the teacher's fee-
// rate-tracking mempool, this one carries no policy: every added tx is
// kept until chain.AddBlock removes it on accepting a block that includes
// it (spec.md's mempool is a plain hash -> tx map).
package mempool

import (
	"sync"

	"github.com/rbelusko/fiitcoin/pkg/crypto"
	"github.com/rbelusko/fiitcoin/pkg/tx"
)

// Pool is a concurrency-safe hash -> transaction map.
type Pool struct {
	mu  sync.RWMutex
	txs map[crypto.Digest]*tx.Tx
}

// New returns an empty pool.
func New() *Pool {
	return &Pool{txs: make(map[crypto.Digest]*tx.Tx)}
}

// Add records t under its own hash.
func (p *Pool) Add(t *tx.Tx) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.txs[t.Hash()] = t
}

// Remove deletes the transaction with the given hash, if present.
func (p *Pool) Remove(hash crypto.Digest) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.txs, hash)
}

// Get returns the transaction with the given hash and whether it was found.
func (p *Pool) Get(hash crypto.Digest) (*tx.Tx, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	t, ok := p.txs[hash]
	return t, ok
}

// All returns every transaction currently pooled, in no particular order.
func (p *Pool) All() []*tx.Tx {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*tx.Tx, 0, len(p.txs))
	for _, t := range p.txs {
		out = append(out, t)
	}
	return out
}

// Clone returns an independent copy of p.
func (p *Pool) Clone() *Pool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[crypto.Digest]*tx.Tx, len(p.txs))
	for k, v := range p.txs {
		out[k] = v
	}
	return &Pool{txs: out}
}

// Len reports the number of pooled transactions.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.txs)
}
