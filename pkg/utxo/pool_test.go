package utxo

import (
	"testing"

	"github.com/rbelusko/fiitcoin/pkg/crypto"
	"github.com/rbelusko/fiitcoin/pkg/tx"
)

func genKey(t *testing.T) *crypto.VerifyingKey {
	t.Helper()
	_, vk, err := crypto.GenerateKeyPair(1024)
	if err != nil {
		t.Fatalf("generate key pair: %v", err)
	}
	return vk
}

func TestAddGetRemove(t *testing.T) {
	p := New()
	vk := genKey(t)
	hash := crypto.Sum([]byte("tx"))
	out := tx.NewOutput(50, vk)

	p.Add(hash, 0, out)
	coord := Coordinate{TxHash: hash, Idx: 0}

	got, ok := p.Get(coord)
	if !ok || got.Value != 50 {
		t.Fatalf("expected to find output with value 50, got %v ok=%v", got, ok)
	}

	p.Remove(coord)
	if p.Contains(coord) {
		t.Fatal("expected coordinate to be gone after Remove")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	p := New()
	vk := genKey(t)
	hash := crypto.Sum([]byte("tx"))
	p.Add(hash, 0, tx.NewOutput(10, vk))

	clone := p.Clone()
	clone.Remove(Coordinate{TxHash: hash, Idx: 0})

	if !p.Contains(Coordinate{TxHash: hash, Idx: 0}) {
		t.Fatal("expected mutating a clone not to affect the original pool")
	}
}

func TestBalanceOfSumsAllMatchingOutputs(t *testing.T) {
	p := New()
	vk := genKey(t)
	other := genKey(t)
	hash := crypto.Sum([]byte("tx"))

	p.Add(hash, 0, tx.NewOutput(10, vk))
	p.Add(hash, 1, tx.NewOutput(20, vk))
	p.Add(hash, 2, tx.NewOutput(99, other))

	if got := p.BalanceOf(vk); got != 30 {
		t.Fatalf("expected balance 30, got %d", got)
	}
}

func TestUTXOsOfFiltersByVerifier(t *testing.T) {
	p := New()
	vk := genKey(t)
	other := genKey(t)
	hash := crypto.Sum([]byte("tx"))

	p.Add(hash, 0, tx.NewOutput(10, vk))
	p.Add(hash, 1, tx.NewOutput(20, other))

	coords := p.UTXOsOf(vk)
	if len(coords) != 1 || coords[0].Idx != 0 {
		t.Fatalf("expected exactly one coordinate for vk, got %v", coords)
	}
}
