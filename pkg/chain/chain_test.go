package chain

import (
	"testing"

	"github.com/rbelusko/fiitcoin/pkg/block"
	"github.com/rbelusko/fiitcoin/pkg/crypto"
	"github.com/rbelusko/fiitcoin/pkg/tx"
)

type participant struct {
	sk *crypto.SigningKey
	vk *crypto.VerifyingKey
}

func newParticipant(t *testing.T) participant {
	t.Helper()
	sk, vk, err := crypto.GenerateKeyPair(1024)
	if err != nil {
		t.Fatalf("generate key pair: %v", err)
	}
	return participant{sk: sk, vk: vk}
}

func newGenesisChain(t *testing.T, miner participant) (*Blockchain, *block.Block) {
	t.Helper()
	genesis := block.New(crypto.ZeroDigest, nil, []*crypto.VerifyingKey{miner.vk}, 1)
	bc, err := New(genesis)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return bc, genesis
}

func mustOutput(t *testing.T, tr *tx.Tx, idx uint8) tx.Output {
	t.Helper()
	o, ok := tr.Output(idx)
	if !ok {
		t.Fatalf("expected output %d to exist", idx)
	}
	return o
}

func spendCoinbase(t *testing.T, from participant, cb *tx.Tx, to *crypto.VerifyingKey) *tx.Tx {
	t.Helper()
	u := tx.New()
	u.AddInput(cb.Hash(), 0)
	u.AddOutput(tx.NewOutput(tx.Coinbase, to))
	out, err := u.Finalize([]*crypto.SigningKey{from.sk})
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	return out
}

func TestEmptyBlock(t *testing.T) {
	miner := newParticipant(t)
	bc, genesis := newGenesisChain(t, miner)

	next := block.New(genesis.Hash(), nil, []*crypto.VerifyingKey{miner.vk}, 1)
	if !bc.AddBlock(next) {
		t.Fatal("expected an empty block on top of genesis to be accepted")
	}
	if bc.BlockAtMaxHeight().Hash() != next.Hash() {
		t.Fatal("expected the new block to become the tip")
	}
}

func TestBlockWithOneTx(t *testing.T) {
	miner := newParticipant(t)
	bob := newParticipant(t)
	bc, genesis := newGenesisChain(t, miner)

	spend := spendCoinbase(t, miner, genesis.Coinbase(), bob.vk)
	next := block.New(genesis.Hash(), []*tx.Tx{spend}, []*crypto.VerifyingKey{miner.vk}, 1)

	if !bc.AddBlock(next) {
		t.Fatal("expected block with a valid spend to be accepted")
	}

	pool := bc.UTXOPoolAtMaxHeight()
	if pool.BalanceOf(bob.vk) != tx.Coinbase {
		t.Fatalf("expected bob's balance to be %d, got %d", tx.Coinbase, pool.BalanceOf(bob.vk))
	}
}

func TestRejectNewGenesisBlock(t *testing.T) {
	miner := newParticipant(t)
	bc, _ := newGenesisChain(t, miner)

	secondGenesis := block.New(crypto.ZeroDigest, nil, []*crypto.VerifyingKey{miner.vk}, 1)
	if bc.AddBlock(secondGenesis) {
		t.Fatal("expected a second genesis block to be rejected")
	}
}

func TestBlockReferencesInvalidPrev(t *testing.T) {
	miner := newParticipant(t)
	bc, _ := newGenesisChain(t, miner)

	orphan := block.New(crypto.Sum([]byte("nonexistent parent")), nil, []*crypto.VerifyingKey{miner.vk}, 1)
	if bc.AddBlock(orphan) {
		t.Fatal("expected a block referencing an unknown parent to be rejected")
	}
}

func TestBlockRejectedIfAnyTxFailsToApply(t *testing.T) {
	miner := newParticipant(t)
	mallory := newParticipant(t)
	bob := newParticipant(t)
	bc, genesis := newGenesisChain(t, miner)

	// mallory doesn't own the coinbase output, so this spend can never
	// validate, and the block containing it must be rejected outright.
	invalidSpend := spendCoinbase(t, mallory, genesis.Coinbase(), bob.vk)
	next := block.New(genesis.Hash(), []*tx.Tx{invalidSpend}, []*crypto.VerifyingKey{miner.vk}, 1)

	if bc.AddBlock(next) {
		t.Fatal("expected a block with an invalid tx to be rejected")
	}
	if _, ok := bc.BlockAtHash(next.Hash()); ok {
		t.Fatal("expected the rejected block not to be recorded in the tree")
	}
}

func TestLinearBlocks(t *testing.T) {
	miner := newParticipant(t)
	bc, genesis := newGenesisChain(t, miner)

	parent := genesis.Hash()
	for i := 0; i < 24; i++ {
		next := block.New(parent, nil, []*crypto.VerifyingKey{miner.vk}, 1)
		if !bc.AddBlock(next) {
			t.Fatalf("expected block %d to be accepted", i)
		}
		parent = next.Hash()
	}

	if bc.BlockAtMaxHeight().Hash() != parent {
		t.Fatal("expected the last-added block to be the tip")
	}
}

func TestAcceptBlockBeforeCutOffAge(t *testing.T) {
	miner := newParticipant(t)
	bob := newParticipant(t)
	bc, genesis := newGenesisChain(t, miner)

	// Build a fork off genesis, then extend the main chain exactly
	// CutOffAge-1 blocks past it: the fork tip should still be retained.
	// The fork carries a tx so its hash differs from the empty main-chain
	// block built on the same parent.
	spend := spendCoinbase(t, miner, genesis.Coinbase(), bob.vk)
	fork := block.New(genesis.Hash(), []*tx.Tx{spend}, []*crypto.VerifyingKey{miner.vk}, 1)
	if !bc.AddBlock(fork) {
		t.Fatal("expected fork block to be accepted")
	}

	parent := genesis.Hash()
	for i := 0; i < CutOffAge; i++ {
		next := block.New(parent, nil, []*crypto.VerifyingKey{miner.vk}, 1)
		if !bc.AddBlock(next) {
			t.Fatalf("expected main-chain block %d to be accepted", i)
		}
		parent = next.Hash()
	}

	if _, ok := bc.BlockAtHash(fork.Hash()); !ok {
		t.Fatal("expected the fork tip to still be retained just before the cut-off age")
	}
}

func TestRejectBlockAfterCutOffAge(t *testing.T) {
	miner := newParticipant(t)
	bob := newParticipant(t)
	bc, genesis := newGenesisChain(t, miner)

	// The fork carries a tx so its hash differs from the empty main-chain
	// block built on the same parent.
	spend := spendCoinbase(t, miner, genesis.Coinbase(), bob.vk)
	fork := block.New(genesis.Hash(), []*tx.Tx{spend}, []*crypto.VerifyingKey{miner.vk}, 1)
	if !bc.AddBlock(fork) {
		t.Fatal("expected fork block to be accepted")
	}

	parent := genesis.Hash()
	for i := 0; i < CutOffAge+1; i++ {
		next := block.New(parent, nil, []*crypto.VerifyingKey{miner.vk}, 1)
		if !bc.AddBlock(next) {
			t.Fatalf("expected main-chain block %d to be accepted", i)
		}
		parent = next.Hash()
	}

	if _, ok := bc.BlockAtHash(fork.Hash()); ok {
		t.Fatal("expected the fork tip to be evicted once it falls behind by the cut-off age")
	}

	// And a new block built on the now-evicted fork must be rejected.
	onEvicted := block.New(fork.Hash(), nil, []*crypto.VerifyingKey{miner.vk}, 1)
	if bc.AddBlock(onEvicted) {
		t.Fatal("expected a block on an evicted parent to be rejected")
	}
}

func TestOldestForkIsMaxHeight(t *testing.T) {
	miner := newParticipant(t)
	bc, genesis := newGenesisChain(t, miner)

	var first *block.Block
	for i := 0; i < 8; i++ {
		// Each sibling pays the genesis coinbase to a different recipient,
		// so the siblings hash differently.
		recipient := newParticipant(t)
		spend := spendCoinbase(t, miner, genesis.Coinbase(), recipient.vk)
		fork := block.New(genesis.Hash(), []*tx.Tx{spend}, []*crypto.VerifyingKey{miner.vk}, 1)
		if !bc.AddBlock(fork) {
			t.Fatalf("expected sibling fork %d to be accepted", i)
		}
		if first == nil {
			first = fork
		}
	}

	if bc.BlockAtMaxHeight().Hash() != first.Hash() {
		t.Fatal("expected the first-accepted sibling at max height to remain the tip")
	}
}

func TestUtxoFromSibling(t *testing.T) {
	miner := newParticipant(t)
	bob := newParticipant(t)
	bc, genesis := newGenesisChain(t, miner)

	spend := spendCoinbase(t, miner, genesis.Coinbase(), bob.vk)

	siblingA := block.New(genesis.Hash(), []*tx.Tx{spend}, []*crypto.VerifyingKey{miner.vk}, 1)
	siblingB := block.New(genesis.Hash(), nil, []*crypto.VerifyingKey{miner.vk}, 1)

	if !bc.AddBlock(siblingA) {
		t.Fatal("expected siblingA to be accepted")
	}
	if !bc.AddBlock(siblingB) {
		t.Fatal("expected siblingB to be accepted")
	}

	poolA, ok := bc.UTXOPoolAtHash(siblingA.Hash())
	if !ok {
		t.Fatal("expected siblingA's pool to be retained")
	}
	if poolA.BalanceOf(bob.vk) != tx.Coinbase {
		t.Fatal("expected bob's spend to be reflected only in siblingA's pool")
	}

	poolB, ok := bc.UTXOPoolAtHash(siblingB.Hash())
	if !ok {
		t.Fatal("expected siblingB's pool to be retained")
	}
	if poolB.BalanceOf(bob.vk) != 0 {
		t.Fatal("expected siblingB's pool not to see siblingA's spend")
	}
}

func TestDuplicateAddBlockRejected(t *testing.T) {
	miner := newParticipant(t)
	bc, genesis := newGenesisChain(t, miner)

	next := block.New(genesis.Hash(), nil, []*crypto.VerifyingKey{miner.vk}, 1)
	if !bc.AddBlock(next) {
		t.Fatal("expected first addition to be accepted")
	}
	if bc.AddBlock(next) {
		t.Fatal("expected a duplicate AddBlock call to be rejected")
	}
}

func TestAddTxGoesToMempoolAndIsConsumedOnAccept(t *testing.T) {
	miner := newParticipant(t)
	bob := newParticipant(t)
	bc, genesis := newGenesisChain(t, miner)

	spend := spendCoinbase(t, miner, genesis.Coinbase(), bob.vk)
	bc.AddTx(spend)

	if bc.Mempool().Len() != 1 {
		t.Fatalf("expected 1 pending tx, got %d", bc.Mempool().Len())
	}

	next := block.New(genesis.Hash(), []*tx.Tx{spend}, []*crypto.VerifyingKey{miner.vk}, 1)
	if !bc.AddBlock(next) {
		t.Fatal("expected block to be accepted")
	}
	if bc.Mempool().Len() != 0 {
		t.Fatal("expected the mempool to be drained of the now-included tx")
	}
}
