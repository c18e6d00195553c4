package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/tally/internal/activity"
	"github.com/cleared-dev/tally/internal/report"
)

func newReportCommand(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "report <workbook>",
		Short: "Generate a .docx report from a saved workbook",
		Long: `Generate a document with a title naming the workbook, the report date,
and a table holding the workbook's headers and rows. By default the report
is written next to the workbook as <name>_Report.docx.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := absPath(args[0])
			if err != nil {
				return err
			}
			if out != "" {
				if out, err = absPath(out); err != nil {
					return err
				}
			}
			return runReport(cmd, a, src, out)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output path")

	return cmd
}

func runReport(cmd *cobra.Command, a *app, src, out string) error {
	g := report.NewGenerator()
	g.Suffix = a.cfg.Report.Suffix
	g.DateFormat = a.cfg.Report.DateFormat
	g.Totals = a.cfg.Report.Totals
	g.Numeric = a.cfg.NumericColumns()

	path, err := g.Generate(src, out)
	if err != nil {
		a.logger.Error("report failed", zap.String("workbook", src), zap.Error(err))
		return fmt.Errorf("failed to generate report: %w", err)
	}

	a.logger.Info("report generated", zap.String("workbook", src), zap.String("report", path))
	a.record(activity.ActionReport, src, a.relative(path), "report: "+a.relative(path), path)

	fmt.Fprintf(cmd.OutOrStdout(), "Report generated successfully! Saved as: %s\n", filepath.Base(path))
	return nil
}
