package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/tally/internal/activity"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/workbook"
)

func newAddCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <workbook> <value>...",
		Short: "Append one row to a workbook",
		Long: `Append one row to a workbook, creating it if needed. Give one value per
column in column order; blank amounts are stored as zero.

  tally add workbooks/march.xlsx 영업부 소모품 1000 ""`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := absPath(args[0])
			if err != nil {
				return err
			}
			return runAdd(cmd, a, path, args[1:])
		},
	}
	return cmd
}

func runAdd(cmd *cobra.Command, a *app, path string, values []string) error {
	b, err := openOrCreate(a, path)
	if err != nil {
		return err
	}

	if err := b.Add(values...); err != nil {
		return fmt.Errorf("invalid input (columns: %s): %w", strings.Join(model.ColumnNames(a.cfg.Sheet.Columns), ", "), err)
	}

	if err := workbook.Save(path, b, a.cfg.Sheet.Name); err != nil {
		return err
	}

	a.logger.Info("row added", zap.String("workbook", path), zap.Int("row", b.Len()))
	details := fmt.Sprintf("row %d: %s", b.Len(), strings.Join(values, ", "))
	a.record(activity.ActionAdd, path, details, "add: "+a.relative(path))

	fmt.Fprintf(cmd.OutOrStdout(), "Added row %d to %s\n", b.Len(), a.relative(path))
	return nil
}
