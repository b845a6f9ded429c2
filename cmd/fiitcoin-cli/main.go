// Command fiitcoin-cli is the operator-facing entry point: a demo that
// walks through key generation, a transaction, and mining one block on
// top of genesis end to end, and a gossip sweep runner for the
// Byzantine consensus simulation (SPEC_FULL.md §2's CLI surface).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rbelusko/fiitcoin/pkg/config"
	"github.com/rbelusko/fiitcoin/pkg/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "fiitcoin-cli",
		Short: "fiitcoin node operations: demo ledger walkthroughs and gossip simulation",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file")

	root.AddCommand(newDemoCmd(&configPath))
	root.AddCommand(newGossipCmd(&configPath))
	return root
}

func loadConfig(configPath string) (*config.NodeConfig, *logging.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	level := logging.Info
	switch cfg.LogLevel {
	case "debug":
		level = logging.Debug
	case "warn":
		level = logging.Warn
	case "error":
		level = logging.Error
	}
	log := logging.New(level)
	return cfg, log, nil
}
