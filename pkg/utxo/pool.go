// Package utxo implements the unspent transaction output pool: the set of
// (tx hash, output index) coordinates that currently hold spendable value,
// and the accessors the validator, handler, and chain packages build on
// (spec.md §4.2).
package utxo

import (
	"fmt"
	"sync"

	"github.com/rbelusko/fiitcoin/pkg/crypto"
	"github.com/rbelusko/fiitcoin/pkg/tx"
)

// Coordinate identifies a single output: the hash of the transaction that
// created it and its index within that transaction's output list.
type Coordinate struct {
	TxHash crypto.Digest
	Idx    uint8
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%s:%d", c.TxHash, c.Idx)
}

// Pool is the mutable set of currently-spendable outputs. It is safe for
// concurrent use.
type Pool struct {
	mu      sync.RWMutex
	outputs map[Coordinate]tx.Output
}

// New returns an empty pool.
func New() *Pool {
	return &Pool{outputs: make(map[Coordinate]tx.Output)}
}

// Add records txHash's output idx as spendable.
func (p *Pool) Add(txHash crypto.Digest, idx uint8, o tx.Output) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.outputs[Coordinate{TxHash: txHash, Idx: idx}] = o
}

// Remove deletes a coordinate from the pool, for example once it has been
// spent by an accepted transaction.
func (p *Pool) Remove(c Coordinate) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.outputs, c)
}

// Get returns the output at c and whether it was present.
func (p *Pool) Get(c Coordinate) (tx.Output, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	o, ok := p.outputs[c]
	return o, ok
}

// Contains reports whether c is currently spendable.
func (p *Pool) Contains(c Coordinate) bool {
	_, ok := p.Get(c)
	return ok
}

// Clone returns an independent deep-enough copy: a new map with the same
// coordinate -> output entries, safe to mutate without affecting p. Outputs
// themselves are treated as immutable once constructed, so a shallow value
// copy of each is sufficient.
func (p *Pool) Clone() *Pool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[Coordinate]tx.Output, len(p.outputs))
	for k, v := range p.outputs {
		out[k] = v
	}
	return &Pool{outputs: out}
}

// Len reports the number of spendable outputs.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.outputs)
}

// UTXOsOf returns every coordinate in the pool whose output names verifier
// among its verifiers, a read-only convenience query (supplements spec.md;
// no consensus rule depends on it).
func (p *Pool) UTXOsOf(verifier *crypto.VerifyingKey) []Coordinate {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var coords []Coordinate
	for c, o := range p.outputs {
		for _, v := range o.Verifiers {
			if v.Equal(verifier) {
				coords = append(coords, c)
				break
			}
		}
	}
	return coords
}

// BalanceOf sums the value of every output in the pool naming verifier
// (supplemented query feature, SPEC_FULL.md §4).
func (p *Pool) BalanceOf(verifier *crypto.VerifyingKey) uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var total uint64
	for _, o := range p.outputs {
		for _, v := range o.Verifiers {
			if v.Equal(verifier) {
				total += uint64(o.Value)
				break
			}
		}
	}
	return total
}
