package commands

import (
	"errors"
	"fmt"
	"io/fs"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/tally/internal/activity"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/tui"
	"github.com/cleared-dev/tally/internal/workbook"
)

func newEntryCommand(a *app) *cobra.Command {
	var out string
	var from string

	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Open the interactive entry form",
		Long: `Open a form with one field per column. Added rows appear in a preview
table where any cell can be edited; ctrl+s saves the rows as an .xlsx file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntry(a, out, from)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "default path offered when saving")
	cmd.Flags().StringVar(&from, "from", "", "continue editing an existing workbook")

	return cmd
}

func runEntry(a *app, out, from string) error {
	b, err := ledger.NewBuffer(a.cfg.Sheet.Columns)
	if err != nil {
		return err
	}
	if from != "" {
		b, err = workbook.Load(from, a.cfg.Sheet.Columns)
		if err != nil {
			return err
		}
		if out == "" {
			out = from
		}
	}

	save := func(path string, b *ledger.Buffer) error {
		return workbook.Save(path, b, a.cfg.Sheet.Name)
	}

	m := tui.New(b, tui.Options{
		Path:   out,
		Save:   save,
		Logger: a.logger,
		Title:  entryTitle(a),
	})

	a.logger.Info("entry form opened", zap.Int("rows", b.Len()))
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return fmt.Errorf("running entry form: %w", err)
	}

	fm, ok := final.(tui.Model)
	if !ok || fm.SavedPath() == "" {
		a.logger.Info("entry form closed without saving")
		return nil
	}

	path, err := absPath(fm.SavedPath())
	if err != nil {
		return err
	}
	a.record(activity.ActionSave, path, fmt.Sprintf("%d rows", fm.Buffer().Len()), "save: "+a.relative(path))
	return nil
}

func entryTitle(a *app) string {
	if a.cfg.Project.Name != "" {
		return a.cfg.Project.Name + " - " + a.cfg.Sheet.Name
	}
	return a.cfg.Sheet.Name
}

// openOrCreate loads the workbook at path, or returns an empty buffer when
// it does not exist yet.
func openOrCreate(a *app, path string) (*ledger.Buffer, error) {
	b, err := workbook.Load(path, a.cfg.Sheet.Columns)
	if errors.Is(err, fs.ErrNotExist) {
		return ledger.NewBuffer(a.cfg.Sheet.Columns)
	}
	return b, err
}
