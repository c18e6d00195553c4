package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/tally/internal/activity"
	"github.com/cleared-dev/tally/internal/rowidx"
	"github.com/cleared-dev/tally/internal/workbook"
)

func newEditCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <workbook> <row> <column> <value>",
		Short: "Change one cell of a saved workbook",
		Long: `Change one cell. Rows are numbered from 1 as shown by "tally show";
the column is given by its header name.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := absPath(args[0])
			if err != nil {
				return err
			}
			row, err := rowidx.Parse(args[1])
			if err != nil {
				return err
			}
			return runEdit(cmd, a, path, row, args[2], args[3])
		},
	}
	return cmd
}

func runEdit(cmd *cobra.Command, a *app, path string, row int, column, value string) error {
	b, err := workbook.Load(path, a.cfg.Sheet.Columns)
	if err != nil {
		return err
	}

	if err := b.Update(row, column, value); err != nil {
		return fmt.Errorf("update failed for '%s': %w", column, err)
	}

	if err := workbook.Save(path, b, a.cfg.Sheet.Name); err != nil {
		return err
	}

	a.logger.Info("cell updated", zap.String("workbook", path), zap.Int("row", row), zap.String("column", column))
	details := fmt.Sprintf("row %d %s = %s", row, column, value)
	a.record(activity.ActionEdit, path, details, "edit: "+a.relative(path))

	fmt.Fprintf(cmd.OutOrStdout(), "Updated row %d, %s\n", row, column)
	return nil
}
