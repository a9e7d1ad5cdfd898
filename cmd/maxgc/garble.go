//
// Copyright (c) 2019 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"context"
	"fmt"

	"github.com/getamis/sirius/log"
	"github.com/spf13/cobra"

	"github.com/markkurossi/maxgc/circuit"
	"github.com/markkurossi/maxgc/p2p"
	"github.com/markkurossi/maxgc/protocol"
)

var (
	garbleSetSize    int
	garbleAlicePath  string
	garbleCircuitDir string
	garbleListen     string
	garbleVerbose    bool
)

var garbleCmd = &cobra.Command{
	Use:   "garble",
	Short: "Run Alice's garbler over TCP, listening for Bob's evaluator",
	RunE:  runGarble,
}

func init() {
	garbleCmd.Flags().IntVar(&garbleSetSize, "set-size", 1, "number of values each party holds")
	garbleCmd.Flags().StringVar(&garbleAlicePath, "alice", "", "path to Alice's input file")
	garbleCmd.Flags().StringVar(&garbleCircuitDir, "circuit-dir", "circuits", "directory for cached circuit files")
	garbleCmd.Flags().StringVar(&garbleListen, "listen", ":8080", "address to listen on for Bob's connection")
	garbleCmd.Flags().BoolVarP(&garbleVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.AddCommand(garbleCmd)
}

func runGarble(cmd *cobra.Command, args []string) error {
	const bits = 4

	logger := log.Discard()
	if garbleVerbose {
		logger = log.New("cmd", "maxgc")
	}

	if garbleSetSize < 1 || garbleSetSize > 16 {
		return &ConfigError{Msg: fmt.Sprintf("set size must be in [1, 16], got %d", garbleSetSize)}
	}
	if garbleAlicePath == "" {
		return &ConfigError{Msg: "--alice input file is required"}
	}

	circ, path, err := circuit.LoadOrSynthesize(garbleCircuitDir, bits, garbleSetSize)
	if err != nil {
		return err
	}
	logger.Info("loaded circuit", "path", path, "gates", len(circ.Gates))

	aBitVec, err := readBits(garbleAlicePath, bits, garbleSetSize, len(circ.AliceInputs))
	if err != nil {
		return err
	}

	ln, err := p2p.Listen(garbleListen)
	if err != nil {
		return &ConfigError{Msg: fmt.Sprintf("listening on %s: %v", garbleListen, err)}
	}
	defer ln.Close()

	logger.Info("waiting for evaluator", "addr", garbleListen)
	conn, err := p2p.Accept(ln)
	if err != nil {
		return fmt.Errorf("accepting connection: %w", err)
	}
	defer conn.Close()

	garbler := protocol.NewGarbler(conn, circ, aBitVec, logger)
	bits2, err := garbler.Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Output: %0*b (%d)\n", bits, bitsToValue(bits2), bitsToValue(bits2))
	return nil
}
