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
	"github.com/markkurossi/tabulate"
	"github.com/spf13/cobra"

	"github.com/markkurossi/maxgc/circuit"
	"github.com/markkurossi/maxgc/p2p"
	"github.com/markkurossi/maxgc/protocol"
)

var (
	runSetSize    int
	runAlicePath  string
	runBobPath    string
	runCircuitDir string
	runReportPath string
	runVerbose    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the garbler and evaluator in-process and report the result",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().IntVar(&runSetSize, "set-size", 1, "number of values each party holds")
	runCmd.Flags().StringVar(&runAlicePath, "alice", "", "path to Alice's input file")
	runCmd.Flags().StringVar(&runBobPath, "bob", "", "path to Bob's input file")
	runCmd.Flags().StringVar(&runCircuitDir, "circuit-dir", "circuits", "directory for cached circuit files")
	runCmd.Flags().StringVar(&runReportPath, "report", "", "optional path for a verification report file")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	const bits = 4

	logger := log.Discard()
	if runVerbose {
		logger = log.New("cmd", "maxgc")
	}

	if runSetSize < 1 || runSetSize > 16 {
		return &ConfigError{Msg: fmt.Sprintf("set size must be in [1, 16], got %d", runSetSize)}
	}
	if runAlicePath == "" || runBobPath == "" {
		return &ConfigError{Msg: "both --alice and --bob input files are required"}
	}

	circ, path, err := circuit.LoadOrSynthesize(runCircuitDir, bits, runSetSize)
	if err != nil {
		return err
	}
	logger.Info("loaded circuit", "path", path, "gates", len(circ.Gates))

	aBitVec, err := readBits(runAlicePath, bits, runSetSize, len(circ.AliceInputs))
	if err != nil {
		return err
	}
	bBitVec, err := readBits(runBobPath, bits, runSetSize, len(circ.BobInputs))
	if err != nil {
		return err
	}

	connA, connB := p2p.Pipe()

	garbler := protocol.NewGarbler(connA, circ, aBitVec, logger)
	evaluator := protocol.NewEvaluator(connB, bBitVec, logger)

	ctx := context.Background()

	type runResult struct {
		bits []bool
		err  error
	}
	garblerDone := make(chan runResult, 1)
	evaluatorDone := make(chan runResult, 1)

	go func() {
		bits, err := garbler.Run(ctx)
		garblerDone <- runResult{bits, err}
	}()
	go func() {
		bits, err := evaluator.Run(ctx)
		evaluatorDone <- runResult{bits, err}
	}()

	gr := <-garblerDone
	if gr.err != nil {
		return gr.err
	}
	er := <-evaluatorDone
	if er.err != nil {
		return er.err
	}

	actual := bitsToValue(er.bits)
	expected := naiveMax(parseValues(aBitVec, bits), parseValues(bBitVec, bits))

	tab := tabulate.New(tabulate.Github)
	tab.Header("Party")
	tab.Header("Values").SetAlign(tabulate.ML)
	row := tab.Row()
	row.Column("Alice")
	row.Column(formatBits(aBitVec, bits))
	row = tab.Row()
	row.Column("Bob")
	row.Column(formatBits(bBitVec, bits))
	tab.Print(os.Stdout)

	reportResult(expected, actual, bits, runReportPath)
	return nil
}
