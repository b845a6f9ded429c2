package consensus

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"github.com/rbelusko/fiitcoin/pkg/logging"
	"github.com/rbelusko/fiitcoin/pkg/metrics"
)

// Trial is one point in the gossip parameter sweep (SPEC_FULL.md §4,
// supplemented feature): a node count, a round count, a transaction
// count, the graph/byzantine/tx-distribution probabilities, and a seed for
// reproducibility.
type Trial struct {
	Nodes        int
	Rounds       int
	Txs          int
	PGraph       float64
	PByzantine   float64
	PTxDist      float64
	ByzantineMix float64 // only used when behavior is Mix
	Behavior     Behavior
	Seed         int64
}

// Result is one trial's outcome.
type Result struct {
	ID        string
	Trial     Trial
	Consensus bool
}

// RunSweep fans trials across worker goroutines (bounded by workers) and
// collects results over a completion channel, logging each with log. This
// is the one place in the module using goroutines: every trial is an
// independent simulation, so there is no coordination needed beyond
// collecting results.
func RunSweep(trials []Trial, workers int, log *logging.Logger) []Result {
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan Trial)
	done := make(chan Result)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for trial := range jobs {
				done <- runTrial(trial)
			}
		}()
	}

	go func() {
		for _, t := range trials {
			jobs <- t
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(done)
	}()

	results := make([]Result, 0, len(trials))
	for r := range done {
		metrics.ObserveSweepTrial(r.Consensus)
		if log != nil {
			log.Info("gossip trial completed",
				"id", r.ID,
				"nodes", r.Trial.Nodes,
				"rounds", r.Trial.Rounds,
				"consensus", r.Consensus,
			)
		}
		results = append(results, r)
	}
	return results
}

func runTrial(trial Trial) Result {
	rng := rand.New(rand.NewSource(trial.Seed))

	threshold := Threshold(trial.Nodes, trial.PGraph, trial.PByzantine)
	nodes := make([]Node, trial.Nodes)
	for i := range nodes {
		if rng.Float64() < trial.PByzantine {
			nodes[i] = NewByzantineNode(trial.Behavior, trial.ByzantineMix, rng)
		} else {
			nodes[i] = NewTrustedNode(threshold)
		}
	}

	followees := make([][]bool, trial.Nodes)
	for i := range followees {
		row := make([]bool, trial.Nodes)
		for j := range row {
			if i != j && rng.Float64() < trial.PGraph {
				row[j] = true
			}
		}
		followees[i] = row
		nodes[i].SetFollowees(row)
	}

	for i := range nodes {
		if nodes[i].IsByzantine() {
			continue
		}
		var owned []TxID
		for t := 0; t < trial.Txs; t++ {
			if rng.Float64() < trial.PTxDist {
				owned = append(owned, TxID(t))
			}
		}
		nodes[i].SetPendingTxs(owned)
	}
	for i := range nodes {
		if nodes[i].IsByzantine() {
			var owned []TxID
			for t := 0; t < trial.Txs; t++ {
				if rng.Float64() < trial.PTxDist {
					owned = append(owned, TxID(t))
				}
			}
			nodes[i].SetPendingTxs(owned)
		}
	}

	sim := NewSimulation(nodes, followees, trial.Rounds)
	sim.Run()

	return Result{
		ID:        uuid.NewString(),
		Trial:     trial,
		Consensus: ConsensusReached(nodes),
	}
}

// String renders a trial for CLI/log output.
func (t Trial) String() string {
	return fmt.Sprintf("nodes=%d rounds=%d txs=%d pGraph=%.3f pByzantine=%.3f pTxDist=%.3f",
		t.Nodes, t.Rounds, t.Txs, t.PGraph, t.PByzantine, t.PTxDist)
}
