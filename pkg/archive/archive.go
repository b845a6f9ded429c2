// Package archive is a write-only audit log of blocks the chain tree has
// evicted past its retention window. It is never read back by any
// validation or chain-selection path: the running chain always trusts its
// in-memory tree, never this log (SPEC_FULL.md §3 — persistent storage
// formats are explicitly out of scope for the validated path, but an
// append-only audit trail of discarded history sits entirely outside it).
// Backed by syndtr/goleveldb, the teacher's own storage dependency.
package archive

import (
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/rbelusko/fiitcoin/pkg/block"
	"github.com/rbelusko/fiitcoin/pkg/crypto"
)

// Archive appends evicted blocks to an on-disk LevelDB instance, keyed by
// block hash.
type Archive struct {
	db *leveldb.DB
}

// Open opens (creating if necessary) a LevelDB archive at dir.
func Open(dir string) (*Archive, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("archive: open %s: %w", dir, err)
	}
	return &Archive{db: db}, nil
}

// Close releases the underlying database handle.
func (a *Archive) Close() error {
	return a.db.Close()
}

// Record appends b to the archive under its hash. The value stored is a
// minimal textual summary, not a full re-hydratable encoding: nothing ever
// reads it back into a running chain, it exists purely so an operator can
// later inspect what was evicted and when.
func (a *Archive) Record(b *block.Block) error {
	key := b.Hash()
	value := fmt.Sprintf("prev=%s txs=%d coinbase=%s", b.PrevHash(), len(b.Txs()), b.Coinbase().Hash())
	return a.db.Put(key[:], []byte(value), nil)
}

// Has reports whether a block with the given hash was ever recorded.
func (a *Archive) Has(hash crypto.Digest) (bool, error) {
	return a.db.Has(hash[:], nil)
}
