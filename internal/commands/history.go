package commands

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/activity"
)

func newHistoryCommand(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the project's activity log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := activity.Read(a.repo)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No activity recorded")
				return nil
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[len(entries)-limit:]
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("time", "action", "workbook", "details", "commit")
			for _, e := range entries {
				t.Row(e.Timestamp.Local().Format(time.DateTime), e.Action, e.Workbook, e.Details, e.CommitHash)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.String())
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "show at most this many recent entries (0 for all)")

	return cmd
}
