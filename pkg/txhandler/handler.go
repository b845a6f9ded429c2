// Package txhandler applies an unordered batch of candidate transactions
// against a UTXO pool, resolving intra-batch dependencies in waves
// (spec.md §4.4). A transaction that spends an output created by another
// transaction in the same batch is accepted in a later wave, once its
// producer has already been applied; a transaction that conflicts with an
// already-accepted one (double-spend) is simply dropped from the batch.
package txhandler

import (
	"sort"

	"github.com/rbelusko/fiitcoin/pkg/tx"
	"github.com/rbelusko/fiitcoin/pkg/txvalidate"
	"github.com/rbelusko/fiitcoin/pkg/utxo"
)

// Handler applies candidate transactions to a pool wave by wave: in each
// pass, every candidate still pending is checked against the pool as it
// stands so far; any that validate are applied and removed from the
// pending set. The process repeats until a pass makes no progress, at
// which point whatever remains pending can never be applied (it either
// conflicts with something already accepted, or depends on a transaction
// that itself never validated).
type Handler struct{}

// NewHandler returns the default, order-agnostic handler.
func NewHandler() *Handler { return &Handler{} }

// Handle applies as many of candidates as possible to pool, mutating pool
// in place, and returns the accepted transactions in the order they were
// applied.
func (h *Handler) Handle(pool *utxo.Pool, candidates []*tx.Tx) []*tx.Tx {
	pending := append([]*tx.Tx(nil), candidates...)
	var accepted []*tx.Tx

	for {
		var stillPending []*tx.Tx
		progress := false

		for _, t := range pending {
			if !txvalidate.IsValid(t, pool) {
				stillPending = append(stillPending, t)
				continue
			}
			apply(pool, t)
			accepted = append(accepted, t)
			progress = true
		}

		pending = stillPending
		if !progress || len(pending) == 0 {
			break
		}
	}

	return accepted
}

// apply spends t's inputs and credits its outputs against pool.
func apply(pool *utxo.Pool, t *tx.Tx) {
	for _, in := range t.Inputs() {
		pool.Remove(utxo.Coordinate{TxHash: in.OutputTxHash, Idx: in.OutputIdx})
	}
	hash := t.Hash()
	for idx, out := range t.Outputs() {
		pool.Add(hash, uint8(idx), out)
	}
}

// MaxFeeHandler is the max-fee variant of Handler: within each wave, it
// orders still-pending candidates by descending fee (input sum minus
// output sum, computed against the pool as amended by everything already
// accepted in this call) before applying them, so that when two candidates
// conflict the higher-fee one wins the wave.
type MaxFeeHandler struct{}

// NewMaxFeeHandler returns the max-fee variant of Handler.
func NewMaxFeeHandler() *MaxFeeHandler { return &MaxFeeHandler{} }

// Handle behaves like Handler.Handle but greedily prefers higher-fee
// transactions when multiple candidates compete for the same input within
// a wave.
func (h *MaxFeeHandler) Handle(pool *utxo.Pool, candidates []*tx.Tx) []*tx.Tx {
	pending := append([]*tx.Tx(nil), candidates...)
	var accepted []*tx.Tx

	for len(pending) > 0 {
		valid := make([]*tx.Tx, 0, len(pending))
		for _, t := range pending {
			if txvalidate.IsValid(t, pool) {
				valid = append(valid, t)
			}
		}
		if len(valid) == 0 {
			break
		}

		sort.SliceStable(valid, func(i, j int) bool {
			return fee(pool, valid[i]) > fee(pool, valid[j])
		})

		applied := make(map[*tx.Tx]bool, len(valid))
		for _, t := range valid {
			if !txvalidate.IsValid(t, pool) {
				continue
			}
			apply(pool, t)
			accepted = append(accepted, t)
			applied[t] = true
		}

		var stillPending []*tx.Tx
		for _, t := range pending {
			if !applied[t] {
				stillPending = append(stillPending, t)
			}
		}
		if len(stillPending) == len(pending) {
			break
		}
		pending = stillPending
	}

	return accepted
}

// fee computes t's input sum minus its output sum against pool as it
// currently stands. Inputs that don't currently resolve contribute zero;
// IsValid is what ultimately gates acceptance, fee is only a sort key.
func fee(pool *utxo.Pool, t *tx.Tx) int64 {
	var inSum, outSum int64
	for _, in := range t.Inputs() {
		if o, ok := pool.Get(utxo.Coordinate{TxHash: in.OutputTxHash, Idx: in.OutputIdx}); ok {
			inSum += int64(o.Value)
		}
	}
	for _, o := range t.Outputs() {
		outSum += int64(o.Value)
	}
	return inSum - outSum
}
