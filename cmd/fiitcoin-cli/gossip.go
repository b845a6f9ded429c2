package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rbelusko/fiitcoin/pkg/consensus"
)

func newGossipCmd(configPath *string) *cobra.Command {
	var mix float64

	cmd := &cobra.Command{
		Use:   "gossip",
		Short: "Run the Byzantine gossip consensus parameter sweep",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			trial := consensus.Trial{
				Nodes:        cfg.SweepNodes,
				Rounds:       cfg.SweepRounds,
				Txs:          cfg.SweepTxs,
				PGraph:       cfg.SweepPGraph,
				PByzantine:   cfg.SweepPByzantine,
				PTxDist:      cfg.SweepPTxDist,
				ByzantineMix: mix,
				Behavior:     consensus.Mix,
				Seed:         1,
			}

			results := consensus.RunSweep([]consensus.Trial{trial}, cfg.SweepWorkers, log)
			for _, r := range results {
				fmt.Printf("%s consensus=%v trial=%s\n", r.ID, r.Consensus, r.Trial)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&mix, "mix", 0.5, "Byzantine Mix behavior: probability of acting Dead rather than Selfish per round")
	return cmd
}
