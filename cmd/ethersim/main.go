// Command ethersim runs one of the built-in end-to-end scenarios and writes
// the resulting trace to stdout. It is deliberately thin — it does not add
// a scenario-authoring language of its own; new scenarios are added in Go,
// in scenarios.go.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/netsim-core/ethermac/mac"
	"github.com/netsim-core/ethermac/sim"
)

var rootCmd = &cobra.Command{
	Use:   "ethersim",
	Short: "ethersim runs Ethernet CSMA/CD contention scenarios",
	Long: `ethersim drives the Ethernet MAC collision/backoff core through ` +
		`one of its built-in scenarios and prints the resulting trace.`,
}

var detailFlag string

var runCmd = &cobra.Command{
	Use:   "run [scenario]",
	Short: "run a built-in scenario and print its trace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scenario, ok := scenarios[args[0]]
		if !ok {
			return fmt.Errorf("unknown scenario %q (known: %v)", args[0], scenarioNames())
		}
		return scenario(os.Stdout, mac.ParseDetail(detailFlag))
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "list the built-in scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range scenarioNames() {
			fmt.Fprintln(os.Stdout, name)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&detailFlag, "detail", "partial",
		"link detail level: none, partial, or full (unrecognized values fall back to partial)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
}

func main() {
	// Packet ids never feed into trace text or scheduling order, so a
	// process-wide, globally-unique id scheme is safe here even though
	// scenarios themselves stay fully reproducible from their RNG seeds.
	sim.UseParallelIDGenerator()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
