package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rbelusko/fiitcoin/pkg/block"
	"github.com/rbelusko/fiitcoin/pkg/blockhandler"
	"github.com/rbelusko/fiitcoin/pkg/chain"
	"github.com/rbelusko/fiitcoin/pkg/crypto"
	"github.com/rbelusko/fiitcoin/pkg/logging"
	"github.com/rbelusko/fiitcoin/pkg/tx"
	"github.com/rbelusko/fiitcoin/pkg/wallet"
)

func newDemoCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Generate keys, mint a genesis block, spend a UTXO, and mine a block",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			return runDemo(cfg.KeyBits, log)
		},
	}
}

func runDemo(keyBits int, log *logging.Logger) error {
	alice, aliceVK, err := crypto.GenerateKeyPair(keyBits)
	if err != nil {
		return fmt.Errorf("generate alice key: %w", err)
	}
	_, bobVK, err := crypto.GenerateKeyPair(keyBits)
	if err != nil {
		return fmt.Errorf("generate bob key: %w", err)
	}

	genesis := block.New(crypto.ZeroDigest, nil, []*crypto.VerifyingKey{aliceVK}, 1)
	bc, err := chain.New(genesis)
	if err != nil {
		return fmt.Errorf("create chain: %w", err)
	}
	handler := blockhandler.New(bc)

	log.Info("genesis minted", "hash", genesis.Hash().String(), "miner", wallet.Address(aliceVK))

	cbHash := genesis.Coinbase().Hash()
	spend := tx.New()
	spend.AddInput(cbHash, 0)
	spend.AddOutput(tx.NewOutput(tx.Coinbase, bobVK))
	spendTx, err := spend.Finalize([]*crypto.SigningKey{alice})
	if err != nil {
		return fmt.Errorf("finalize spend: %w", err)
	}
	handler.ProcessTx(spendTx)

	next := handler.CreateBlock([]*crypto.VerifyingKey{bobVK}, 1)
	if !handler.ProcessBlock(next) {
		return fmt.Errorf("block rejected unexpectedly")
	}
	log.Info("block accepted", "hash", next.Hash().String(), "txs", len(next.Txs()))

	pool := bc.UTXOPoolAtMaxHeight()
	log.Info("balances", "alice", pool.BalanceOf(aliceVK), "bob", pool.BalanceOf(bobVK))
	return nil
}
