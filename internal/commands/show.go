package commands

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/workbook"
)

func newShowCommand(a *app) *cobra.Command {
	var totals bool

	cmd := &cobra.Command{
		Use:   "show <workbook>",
		Short: "Preview the rows of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := absPath(args[0])
			if err != nil {
				return err
			}
			b, err := workbook.Load(path, a.cfg.Sheet.Columns)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderPreview(b))
			if totals {
				for _, t := range b.Totals() {
					fmt.Fprintf(cmd.OutOrStdout(), "Total %s: %s\n", t.Column, t.Sum.String())
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&totals, "totals", true, "print the sum of each numeric column")

	return cmd
}

// renderPreview draws the buffer with a leading row-number column.
func renderPreview(b *ledger.Buffer) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(append([]string{"#"}, b.Headers()...)...)
	for i, r := range b.Records() {
		t.Row(append([]string{strconv.Itoa(i + 1)}, r...)...)
	}
	return t.String()
}
