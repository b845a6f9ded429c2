// Package config is the node/simulation configuration layer, built on
// spf13/viper instead of the teacher's hand-rolled os.Getenv reads
// (pkg/config/config.go), so the same settings can come from a config
// file, environment variables, or defaults with one precedence order.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// NodeConfig holds all configuration for a fiitcoin node/simulation run.
type NodeConfig struct {
	// Identity
	NodeID string

	// Key generation
	KeyBits int // RSA key size for generated signing keys

	// Chain
	DataDir    string // archive directory for evicted blocks
	CutOffAge  int    // validated only; pkg/chain uses its own CutOffAge constant
	LogLevel   string // debug, info, warn, error
	ArchiveDir string // goleveldb path for the evicted-block archive

	// Gossip sweep defaults
	SweepWorkers    int
	SweepNodes      int
	SweepRounds     int
	SweepTxs        int
	SweepPGraph     float64
	SweepPByzantine float64
	SweepPTxDist    float64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *NodeConfig {
	return &NodeConfig{
		NodeID:          "fiitcoin-node",
		KeyBits:         2048,
		DataDir:         "./data",
		CutOffAge:       12,
		LogLevel:        "info",
		ArchiveDir:      "./data/archive",
		SweepWorkers:    4,
		SweepNodes:      100,
		SweepRounds:     10,
		SweepTxs:        500,
		SweepPGraph:     0.1,
		SweepPByzantine: 0.15,
		SweepPTxDist:    0.01,
	}
}

// Load builds a NodeConfig from defaults, an optional config file at
// configPath (if non-empty), and FIITCOIN_-prefixed environment variables,
// in that precedence order (env overrides file overrides defaults).
func Load(configPath string) (*NodeConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("FIITCOIN")
	v.AutomaticEnv()

	d := DefaultConfig()
	v.SetDefault("node_id", d.NodeID)
	v.SetDefault("key_bits", d.KeyBits)
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("cut_off_age", d.CutOffAge)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("archive_dir", d.ArchiveDir)
	v.SetDefault("sweep_workers", d.SweepWorkers)
	v.SetDefault("sweep_nodes", d.SweepNodes)
	v.SetDefault("sweep_rounds", d.SweepRounds)
	v.SetDefault("sweep_txs", d.SweepTxs)
	v.SetDefault("sweep_p_graph", d.SweepPGraph)
	v.SetDefault("sweep_p_byzantine", d.SweepPByzantine)
	v.SetDefault("sweep_p_tx_dist", d.SweepPTxDist)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", configPath, err)
		}
	}

	cfg := &NodeConfig{
		NodeID:          v.GetString("node_id"),
		KeyBits:         v.GetInt("key_bits"),
		DataDir:         v.GetString("data_dir"),
		CutOffAge:       v.GetInt("cut_off_age"),
		LogLevel:        v.GetString("log_level"),
		ArchiveDir:      v.GetString("archive_dir"),
		SweepWorkers:    v.GetInt("sweep_workers"),
		SweepNodes:      v.GetInt("sweep_nodes"),
		SweepRounds:     v.GetInt("sweep_rounds"),
		SweepTxs:        v.GetInt("sweep_txs"),
		SweepPGraph:     v.GetFloat64("sweep_p_graph"),
		SweepPByzantine: v.GetFloat64("sweep_p_byzantine"),
		SweepPTxDist:    v.GetFloat64("sweep_p_tx_dist"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the configuration is self-consistent.
func (c *NodeConfig) Validate() error {
	if c.KeyBits < 512 {
		return fmt.Errorf("key_bits too small: %d", c.KeyBits)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir cannot be empty")
	}
	if c.CutOffAge < 1 {
		return fmt.Errorf("cut_off_age must be positive, got %d", c.CutOffAge)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	if c.SweepNodes < 1 {
		return fmt.Errorf("sweep_nodes must be positive, got %d", c.SweepNodes)
	}
	for _, p := range []float64{c.SweepPGraph, c.SweepPByzantine, c.SweepPTxDist} {
		if p < 0 || p > 1 {
			return fmt.Errorf("sweep probabilities must be in [0,1], got %v", p)
		}
	}

	return nil
}

// String returns a human-readable representation of the configuration.
func (c *NodeConfig) String() string {
	return fmt.Sprintf(`fiitcoin node configuration:
  Node ID:          %s
  Key Bits:         %d
  Data Directory:   %s
  Cut-off Age:      %d
  Log Level:        %s
  Archive Dir:      %s
  Sweep Workers:    %d
  Sweep Nodes:      %d
  Sweep Rounds:     %d
  Sweep Txs:        %d
  Sweep p(graph):   %.3f
  Sweep p(byzantine): %.3f
  Sweep p(tx dist): %.3f`,
		c.NodeID, c.KeyBits, c.DataDir, c.CutOffAge, c.LogLevel, c.ArchiveDir,
		c.SweepWorkers, c.SweepNodes, c.SweepRounds, c.SweepTxs,
		c.SweepPGraph, c.SweepPByzantine, c.SweepPTxDist,
	)
}
