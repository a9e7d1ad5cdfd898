//
// Copyright (c) 2019 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "maxgc",
	Short: "Two-party secure max computation over garbled circuits",
	Long: `maxgc computes the maximum of 2k unsigned integers jointly held by
two parties, Alice and Bob, using Yao's garbled circuits with
point-and-permute and Chou-Orlandi 1-out-of-2 oblivious transfer.
Neither party learns anything about the other's inputs beyond the
computed maximum.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
