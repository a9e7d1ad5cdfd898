//
// Copyright (c) 2019 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/getamis/sirius/log"
	"github.com/spf13/cobra"

	"github.com/markkurossi/maxgc/circuit"
	"github.com/markkurossi/maxgc/p2p"
	"github.com/markkurossi/maxgc/protocol"
)

var (
	evaluateSetSize    int
	evaluateBobPath    string
	evaluateCircuitDir string
	evaluateConnect    string
	evaluateReportPath string
	evaluateVerbose    bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run Bob's evaluator over TCP, connecting to Alice's garbler",
	RunE:  runEvaluate,
}

func init() {
	evaluateCmd.Flags().IntVar(&evaluateSetSize, "set-size", 1, "number of values each party holds")
	evaluateCmd.Flags().StringVar(&evaluateBobPath, "bob", "", "path to Bob's input file")
	evaluateCmd.Flags().StringVar(&evaluateCircuitDir, "circuit-dir", "circuits", "directory for cached circuit files")
	evaluateCmd.Flags().StringVar(&evaluateConnect, "connect", "localhost:8080", "address of Alice's garbler")
	evaluateCmd.Flags().StringVar(&evaluateReportPath, "report", "", "optional path for a verification report file")
	evaluateCmd.Flags().BoolVarP(&evaluateVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	const bits = 4

	logger := log.Discard()
	if evaluateVerbose {
		logger = log.New("cmd", "maxgc")
	}

	if evaluateSetSize < 1 || evaluateSetSize > 16 {
		return &ConfigError{Msg: fmt.Sprintf("set size must be in [1, 16], got %d", evaluateSetSize)}
	}
	if evaluateBobPath == "" {
		return &ConfigError{Msg: "--bob input file is required"}
	}

	// The local circuit only tells how many input bits Bob supplies;
	// the evaluator itself runs on the circuit it receives from the
	// garbler.
	circ, path, err := circuit.LoadOrSynthesize(evaluateCircuitDir, bits, evaluateSetSize)
	if err != nil {
		return err
	}
	logger.Info("loaded circuit", "path", path, "gates", len(circ.Gates))

	bBitVec, err := readBits(evaluateBobPath, bits, evaluateSetSize, len(circ.BobInputs))
	if err != nil {
		return err
	}

	logger.Info("connecting to garbler", "addr", evaluateConnect)
	conn, err := p2p.Dial(evaluateConnect)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", evaluateConnect, err)
	}
	defer conn.Close()

	evaluator := protocol.NewEvaluator(conn, bBitVec, logger)
	outBits, err := evaluator.Run(context.Background())
	if err != nil {
		return err
	}

	actual := bitsToValue(outBits)
	fmt.Printf("Output: %0*b (%d)\n", bits, actual, actual)

	if evaluateReportPath != "" {
		content := fmt.Sprintf("Output: %0*b (%d)\n", bits, actual, actual)
		if err := os.WriteFile(evaluateReportPath, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing report %s: %w", evaluateReportPath, err)
		}
	}
	return nil
}
