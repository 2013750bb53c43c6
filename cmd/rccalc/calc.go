package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"RCCalc/internal/calc/ec2"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const rule = "───────────────────────────────────────────────────────────────"

func newCalcCmd() *cobra.Command {
	var (
		flags  inputFlags
		asJSON bool
		strict bool
	)
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Evaluate one column or footing",
		Long: `Evaluate a column or footing. Unset flags take the defaults of the
element type, so "rccalc calc --axial 1500" changes only the axial load.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := flags.build(cmd.Flags())
			if err != nil {
				return err
			}
			resp, err := ec2.Evaluate(in)
			if err != nil {
				return err
			}
			log.Debug("evaluated",
				zap.String("element_type", string(in.ElementType)),
				zap.Bool("compliant", resp.Summary.Compliant))

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(resp); err != nil {
					return err
				}
			} else {
				printResponse(out, resp)
			}
			if strict && !resp.Summary.Compliant {
				return fmt.Errorf("design is not compliant")
			}
			return nil
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full response as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error when a compliance check fails")
	return cmd
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func header(out io.Writer, title string) {
	fmt.Fprintln(out, title)
	fmt.Fprintln(out, rule)
}

func printResponse(out io.Writer, resp ec2.Response) {
	in, res := resp.Input, resp.Results
	r := in.Reinforcement

	fmt.Fprintln(out)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintf(out, "     %s DESIGN CHECK - EUROCODE 2\n", strings.ToUpper(string(in.ElementType)))
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out)

	header(out, "INPUT DATA:")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Section:\t%.3f x %.3f m, height %.3f m\n", in.Geometry.WidthM, in.Geometry.DepthM, in.Geometry.HeightM)
	fmt.Fprintf(w, "  Longitudinal:\t%d ⌀%.0f\n", r.Longitudinal.Count, r.Longitudinal.DiameterMM)
	fmt.Fprintf(w, "  Stirrups:\t⌀%.0f @ %.0f mm, %d legs\n", r.Stirrups.DiameterMM, r.Stirrups.SpacingMM, r.Stirrups.Legs)
	fmt.Fprintf(w, "  Cover:\t%.0f mm\n", r.CoverMM)
	fmt.Fprintf(w, "  Materials:\t%s / %s\n", in.Concrete, in.Steel)
	fmt.Fprintf(w, "  Axial load:\t%.1f kN\n", in.Loads.AxialKN)
	w.Flush()
	fmt.Fprintln(out)

	header(out, "QUANTITIES:")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Concrete volume:\t%.3f m³\n", res.ConcreteVolumeM3)
	fmt.Fprintf(w, "  Longitudinal steel:\t%.3f kg\n", res.LongitudinalSteelKg)
	fmt.Fprintf(w, "  Stirrup steel:\t%.3f kg\n", res.StirrupSteelKg)
	fmt.Fprintf(w, "  Total steel:\t%.3f kg\n", res.TotalSteelKg)
	fmt.Fprintf(w, "  Reinforcement ratio:\t%.3f %% (%.2f to %.2f %%)\n",
		res.ReinforcementRatioPct, res.MinReinforcementPct, res.MaxReinforcementPct)
	w.Flush()
	fmt.Fprintln(out)

	header(out, "COMPLIANCE:")
	c := res.Compliance
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Reinforcement ratio:\t%s\n", mark(c.ReinforcementRatio))
	fmt.Fprintf(w, "  Minimum bar spacing:\t%s\n", mark(c.MinSpacing))
	fmt.Fprintf(w, "  Maximum stirrup spacing:\t%s\n", mark(c.MaxSpacing))
	fmt.Fprintf(w, "  Cover:\t%s\n", mark(c.Cover))
	fmt.Fprintf(w, "  Shear reinforcement:\t%s\n", mark(c.ShearReinforcement))
	fmt.Fprintf(w, "  Overall:\t%s\n", mark(c.Overall))
	w.Flush()
	fmt.Fprintln(out)

	if s := res.Stresses; s != nil {
		header(out, "STRESS ANALYSIS:")
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  Neutral axis:\t%.1f mm\n", s.NeutralAxisMM)
		fmt.Fprintf(w, "  Concrete stress:\t%.2f MPa\n", s.CompressionStressMPa)
		fmt.Fprintf(w, "  Steel stress:\t%.2f MPa\n", s.TensionStressMPa)
		fmt.Fprintf(w, "  Crack width:\t%.3f mm\n", s.CrackWidthMM)
		fmt.Fprintf(w, "  Utilization:\t%.1f %%\n", s.UtilizationPct)
		w.Flush()
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, resp.Summary.Message)
	for _, warn := range resp.Summary.Warnings {
		fmt.Fprintf(out, "  ⚠ %s\n", warn)
	}
}
