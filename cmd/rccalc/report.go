package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"RCCalc/internal/calc/ec2"
	"RCCalc/internal/calc/report"

	"github.com/ansel1/merry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newReportCmd() *cobra.Command {
	var (
		flags inputFlags
		meta  report.Meta
		out   string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a PDF design report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := flags.build(cmd.Flags())
			if err != nil {
				return err
			}
			resp, err := ec2.Evaluate(in)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := report.Write(&buf, meta, resp, time.Now()); err != nil {
				return merry.Prepend(err, "render report")
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return merry.Prepend(err, "write report")
			}
			log.Debug("report written", zap.String("path", out), zap.Int("bytes", buf.Len()))
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", out)
			return nil
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&out, "out", "o", "report.pdf", "Output PDF path")
	cmd.Flags().StringVar(&meta.Project, "project", "", "Project name")
	cmd.Flags().StringVar(&meta.Author, "author", "", "Report author")
	cmd.Flags().StringVar(&meta.Title, "title", "", "Report title")
	cmd.Flags().StringVar(&meta.Notes, "notes", "", "Free text notes")
	return cmd
}
