// Command rccalc evaluates reinforced concrete columns and footings from
// the command line.
package main

import (
	"os"

	"RCCalc/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose bool
	log     = zap.NewNop()
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rccalc",
		Short: "Eurocode 2 calculator for reinforced concrete columns and footings",
		Long: `rccalc computes quantities, reinforcement ratios, compliance checks and
a simplified stress analysis for rectangular columns and pad footings.

Examples:
  # Default column, printed as a table
  rccalc calc

  # Footing with custom geometry, JSON output
  rccalc calc --type footing --width 2.5 --depth 2.5 --height 0.6 --json

  # PDF report for an input file
  rccalc report --input column.json --out column.pdf`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log = logger.Must(logger.Config{Level: "debug", Format: "console", Development: true})
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(newCalcCmd(), newReferenceCmd(), newReportCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
