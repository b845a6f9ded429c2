package consensus

// Simulation drives a fixed set of nodes through a fixed number of
// synchronous gossip rounds over a directed followee graph (spec.md
// §4.8). Each round: every node computes what it sends this round from its
// current state, candidates are routed along the followee edges, and every
// node ingests what it received before the next round begins — mirroring
// original_source's collect-then-route-then-ingest driver loop.
type Simulation struct {
	nodes     []Node
	followers [][]int // followers[i] = indices of nodes that follow i
	rounds    int
}

// NewSimulation builds a simulation over nodes, whose SetFollowees has
// already been called with a graph row each, for the given number of
// rounds. followees[i][j] == true means node i follows node j (listens to
// j's broadcasts).
func NewSimulation(nodes []Node, followees [][]bool, rounds int) *Simulation {
	n := len(nodes)
	followers := make([][]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if followees[i][j] {
				followers[j] = append(followers[j], i)
			}
		}
	}
	return &Simulation{nodes: nodes, followers: followers, rounds: rounds}
}

// Run executes all rounds. The final round asks each node for its settled
// consensus form rather than everything it has merely heard.
func (s *Simulation) Run() {
	for r := 0; r < s.rounds; r++ {
		s.round(r == s.rounds-1)
	}
}

func (s *Simulation) round(final bool) {
	sent := make([][]Candidate, len(s.nodes))
	for i, n := range s.nodes {
		candidates := n.FollowersSend(final)
		for j := range candidates {
			candidates[j].Sender = i
		}
		sent[i] = candidates
	}

	inbox := make([][]Candidate, len(s.nodes))
	for i, candidates := range sent {
		for _, follower := range s.followers[i] {
			inbox[follower] = append(inbox[follower], candidates...)
		}
	}

	for i, n := range s.nodes {
		n.FolloweesReceive(inbox[i])
	}
}

// ConsensusReached reports whether every honest (non-Byzantine) node's
// FollowersSend output names exactly the same set of transaction IDs —
// the consensus criterion (spec.md §4.8).
func ConsensusReached(nodes []Node) bool {
	var reference map[TxID]bool
	for _, n := range nodes {
		if n.IsByzantine() {
			continue
		}
		set := candidateSet(n.FollowersSend(true))
		if reference == nil {
			reference = set
			continue
		}
		if !sameSet(reference, set) {
			return false
		}
	}
	return true
}

func candidateSet(candidates []Candidate) map[TxID]bool {
	set := make(map[TxID]bool, len(candidates))
	for _, c := range candidates {
		set[c.Tx] = true
	}
	return set
}

func sameSet(a, b map[TxID]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
