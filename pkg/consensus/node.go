// Package consensus implements the Byzantine-tolerant gossip simulation:
// a directed followee graph, a round-based synchronous broadcast of
// transaction proposals, and two node behaviors — honest (TrustedNode)
// and adversarial (ByzantineNode) — whose consensus is measured by whether
// every honest node ends up proposing the same set of transactions
// (spec.md §4.8, original_source's consensus/src/node.rs).
package consensus

import "math"

// TxID identifies a candidate transaction in the gossip simulation. The
// simulation works over opaque identifiers, not full transactions: the
// consensus question is which IDs every honest node ends up endorsing, not
// what the transactions contain.
type TxID uint64

// Candidate is a transaction proposal observed from a sender.
type Candidate struct {
	Tx     TxID
	Sender int
}

// Node is the interface the round driver operates on, matching
// original_source's Node trait.
type Node interface {
	// Followees reports which node indices this node listens to.
	Followees() []bool
	// SetFollowees installs the followee graph row for this node.
	SetFollowees(followees []bool)
	// SetPendingTxs seeds the node's initial transaction set before round 1.
	SetPendingTxs(txs []TxID)
	// FollowersSend returns what this node broadcasts to its followers this
	// round. On the final round, final is true and the node reports its
	// settled consensus set instead of everything it has merely heard.
	FollowersSend(final bool) []Candidate
	// FolloweesReceive ingests the candidates broadcast by this node's
	// followees during the round just completed.
	FolloweesReceive(candidates []Candidate)
	// IsByzantine reports whether this node is adversarial.
	IsByzantine() bool
}

// TrustedNode is the honest participant. It rebroadcasts every transaction
// it has ever heard of, regardless of corroboration, so flood-fill
// propagation keeps carrying a tx toward nodes that haven't yet gathered
// enough corroborating senders to trust it; separately, it tracks which
// transactions have reached its own trust threshold, and that narrower set
// is what it reports as settled once the simulation's final round arrives.
type TrustedNode struct {
	followees        []bool
	pending          map[TxID]bool
	consensusReached map[TxID]bool

	received  map[TxID]map[int]bool
	threshold int
}

// Threshold implements spec.md's trust threshold: max(1, ceil(N*pGraph) -
// ceil(N*pByzantine)), the expected number of honest followees minus the
// expected number of Byzantine ones, floored at 1 so that even a maximally
// adversarial graph still requires at least one corroborating sender.
func Threshold(numNodes int, pGraph, pByzantine float64) int {
	probableFollowees := int(math.Ceil(float64(numNodes) * pGraph))
	probableByzantine := int(math.Ceil(float64(numNodes) * pByzantine))
	t := probableFollowees - probableByzantine
	if t < 1 {
		t = 1
	}
	return t
}

// NewTrustedNode creates an honest node that requires `threshold` distinct
// corroborating senders before trusting a transaction ID as settled.
func NewTrustedNode(threshold int) *TrustedNode {
	return &TrustedNode{
		pending:          make(map[TxID]bool),
		consensusReached: make(map[TxID]bool),
		received:         make(map[TxID]map[int]bool),
		threshold:        threshold,
	}
}

func (n *TrustedNode) Followees() []bool { return n.followees }

func (n *TrustedNode) SetFollowees(followees []bool) { n.followees = followees }

// SetPendingTxs seeds txs the node already holds outright before round 1:
// no corroboration is needed for a node to trust what it already knows, so
// these land directly in both the rebroadcast set and the settled set.
func (n *TrustedNode) SetPendingTxs(txs []TxID) {
	for _, t := range txs {
		n.pending[t] = true
		n.consensusReached[t] = true
	}
}

// FollowersSend reports pending (everything ever heard, corroborated or
// not) on every round but the last, so flood-fill keeps propagating
// low-corroboration transactions toward nodes that haven't yet crossed
// threshold. On the final round it reports consensusReached instead: the
// narrower set this node is actually willing to vouch for.
func (n *TrustedNode) FollowersSend(final bool) []Candidate {
	source := n.pending
	if final {
		source = n.consensusReached
	}
	out := make([]Candidate, 0, len(source))
	for t := range source {
		out = append(out, Candidate{Tx: t})
	}
	return out
}

func (n *TrustedNode) FolloweesReceive(candidates []Candidate) {
	for _, c := range candidates {
		n.pending[c.Tx] = true

		senders, ok := n.received[c.Tx]
		if !ok {
			senders = make(map[int]bool)
			n.received[c.Tx] = senders
		}
		senders[c.Sender] = true
		if len(senders) >= n.threshold {
			n.consensusReached[c.Tx] = true
		}
	}
}

func (n *TrustedNode) IsByzantine() bool { return false }

// PendingTxs exposes every transaction this node has ever heard of,
// corroborated or not.
func (n *TrustedNode) PendingTxs() map[TxID]bool { return n.pending }

// ConsensusReached exposes the narrower set of transactions this node has
// corroborated from at least threshold distinct senders (or holds outright
// from its own initial set).
func (n *TrustedNode) ConsensusReached() map[TxID]bool { return n.consensusReached }
