package consensus

import "math/rand"

// Behavior selects how a ByzantineNode misbehaves.
type Behavior int

const (
	// Dead sends nothing, ever.
	Dead Behavior = iota
	// Selfish sends only its own fixed set of transaction IDs, regardless
	// of what it hears, and never adopts anything it receives.
	Selfish
	// Mix flips a coin each round: with probability p, Dead; otherwise
	// Selfish. Its probability is carried on the node, not the constant.
	Mix
)

// ByzantineNode simulates an adversarial participant. Its randomness is
// injected via rng so a simulation run is reproducible given a fixed seed.
type ByzantineNode struct {
	followees []bool
	own       []TxID
	behavior  Behavior
	mixP      float64
	rng       *rand.Rand
}

// NewByzantineNode creates an adversarial node that always misbehaves as
// behavior. For Mix, mixP is the per-round probability of acting Dead
// rather than Selfish.
func NewByzantineNode(behavior Behavior, mixP float64, rng *rand.Rand) *ByzantineNode {
	return &ByzantineNode{behavior: behavior, mixP: mixP, rng: rng}
}

func (n *ByzantineNode) Followees() []bool { return n.followees }

func (n *ByzantineNode) SetFollowees(followees []bool) { n.followees = followees }

func (n *ByzantineNode) SetPendingTxs(txs []TxID) { n.own = append(n.own, txs...) }

func (n *ByzantineNode) FollowersSend(final bool) []Candidate {
	switch n.effectiveBehavior() {
	case Dead:
		return nil
	default: // Selfish
		out := make([]Candidate, 0, len(n.own))
		for _, t := range n.own {
			out = append(out, Candidate{Tx: t})
		}
		return out
	}
}

// FolloweesReceive is a no-op: a Byzantine node never incorporates what it
// hears, honest or not, into what it sends.
func (n *ByzantineNode) FolloweesReceive(candidates []Candidate) {}

func (n *ByzantineNode) IsByzantine() bool { return true }

func (n *ByzantineNode) effectiveBehavior() Behavior {
	if n.behavior != Mix {
		return n.behavior
	}
	if n.rng.Float64() < n.mixP {
		return Dead
	}
	return Selfish
}
