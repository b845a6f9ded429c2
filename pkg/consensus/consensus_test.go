package consensus

import "testing"

func TestThresholdFloorsAtOne(t *testing.T) {
	// A graph so sparse and so Byzantine-heavy that the raw subtraction
	// goes negative must still floor at 1: even one corroborating sender
	// should count for something.
	got := Threshold(10, 0.01, 0.9)
	if got != 1 {
		t.Fatalf("expected threshold to floor at 1, got %d", got)
	}
}

func TestThresholdOrdinaryCase(t *testing.T) {
	got := Threshold(100, 0.1, 0.15)
	// ceil(100*0.1)=10, ceil(100*0.15)=15 -> 10-15 = -5 -> floors to 1.
	if got != 1 {
		t.Fatalf("expected floored threshold 1, got %d", got)
	}

	got = Threshold(100, 0.3, 0.1)
	// ceil(100*0.3)=30, ceil(100*0.1)=10 -> 20.
	if got != 20 {
		t.Fatalf("expected threshold 20, got %d", got)
	}
}

func TestTrustedNodeAdoptsTxAboveThreshold(t *testing.T) {
	n := NewTrustedNode(2)
	n.FolloweesReceive([]Candidate{{Tx: 1, Sender: 0}})
	if !n.PendingTxs()[1] {
		t.Fatal("expected a single corroborator to still land in the unconditional pending set")
	}
	if n.ConsensusReached()[1] {
		t.Fatal("expected a single corroborator not to clear a threshold of 2")
	}
	n.FolloweesReceive([]Candidate{{Tx: 1, Sender: 1}})
	if !n.ConsensusReached()[1] {
		t.Fatal("expected two distinct corroborators to clear a threshold of 2")
	}
}

func TestTrustedNodeIgnoresDuplicateSender(t *testing.T) {
	n := NewTrustedNode(2)
	n.FolloweesReceive([]Candidate{{Tx: 1, Sender: 0}})
	n.FolloweesReceive([]Candidate{{Tx: 1, Sender: 0}})
	if n.ConsensusReached()[1] {
		t.Fatal("expected the same sender reporting twice not to count as two corroborators")
	}
}

func TestByzantineDeadSendsNothing(t *testing.T) {
	n := NewByzantineNode(Dead, 0, nil)
	n.SetPendingTxs([]TxID{1, 2, 3})
	if len(n.FollowersSend(false)) != 0 {
		t.Fatal("expected a Dead node to send nothing")
	}
}

func TestByzantineSelfishSendsOwnSet(t *testing.T) {
	n := NewByzantineNode(Selfish, 0, nil)
	n.SetPendingTxs([]TxID{1, 2})
	sent := n.FollowersSend(false)
	if len(sent) != 2 {
		t.Fatalf("expected a Selfish node to send its own 2 txs, got %d", len(sent))
	}
}

func TestSimulationRoutesAlongFolloweeEdges(t *testing.T) {
	honest0 := NewTrustedNode(1)
	honest1 := NewTrustedNode(1)
	nodes := []Node{honest0, honest1}

	// node 1 follows node 0.
	followees := [][]bool{
		{false, false},
		{true, false},
	}
	honest0.SetPendingTxs([]TxID{42})

	sim := NewSimulation(nodes, followees, 1)
	sim.Run()

	if !honest1.PendingTxs()[42] {
		t.Fatal("expected node 1 to adopt node 0's tx after following it for one round")
	}
}

func TestConsensusReachedIgnoresByzantineNodes(t *testing.T) {
	honest0 := NewTrustedNode(1)
	honest1 := NewTrustedNode(1)
	honest0.SetPendingTxs([]TxID{1})
	honest1.SetPendingTxs([]TxID{1})

	byz := NewByzantineNode(Selfish, 0, nil)
	byz.SetPendingTxs([]TxID{999})

	nodes := []Node{honest0, honest1, byz}
	if !ConsensusReached(nodes) {
		t.Fatal("expected consensus among honest nodes regardless of a disagreeing Byzantine node")
	}
}

func TestConsensusNotReachedWhenHonestNodesDisagree(t *testing.T) {
	honest0 := NewTrustedNode(1)
	honest1 := NewTrustedNode(1)
	honest0.SetPendingTxs([]TxID{1})
	honest1.SetPendingTxs([]TxID{2})

	nodes := []Node{honest0, honest1}
	if ConsensusReached(nodes) {
		t.Fatal("expected no consensus when honest nodes propose different sets")
	}
}
