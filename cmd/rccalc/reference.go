package main

import (
	"fmt"
	"text/tabwriter"

	"RCCalc/internal/calc/ec2"

	"github.com/spf13/cobra"
)

func newReferenceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reference",
		Short: "List concrete classes, steel grades and bar sizes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			header(out, "CONCRETE CLASSES:")
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "  Class\tfck (MPa)\tfcd (MPa)\tDensity (kg/m³)")
			for _, c := range ec2.ConcreteClasses() {
				fmt.Fprintf(w, "  %s\t%.0f\t%.1f\t%.0f\n", c.Name, c.FckMPa, c.FcdMPa, c.Density)
			}
			w.Flush()
			fmt.Fprintln(out)

			header(out, "STEEL GRADES:")
			w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "  Grade\tfyk (MPa)\tfyd (MPa)\tDensity (kg/m³)")
			for _, s := range ec2.SteelGrades() {
				fmt.Fprintf(w, "  %s\t%.0f\t%.0f\t%.0f\n", s.Name, s.FykMPa, s.FydMPa, s.Density)
			}
			w.Flush()
			fmt.Fprintln(out)

			fmt.Fprintf(out, "Bar diameters (mm):     %v\n", ec2.BarDiameters())
			fmt.Fprintf(out, "Stirrup diameters (mm): %v\n", ec2.StirrupDiameters())
		},
	}
}
