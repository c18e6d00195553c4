package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/tally/internal/activity"
	"github.com/cleared-dev/tally/internal/importer"
	"github.com/cleared-dev/tally/internal/workbook"
)

func newImportCommand(a *app) *cobra.Command {
	var target string
	var format string
	var department string

	cmd := &cobra.Command{
		Use:   "import [file.csv]",
		Short: "Append rows from a CSV file to a workbook",
		Long: `Append rows from a CSV file to a workbook. Without a file, every CSV in
the project's import/ directory is imported and then moved to
import/processed/.

Formats:
  csv    header row names the columns (any order)
  chase  Chase checking export; needs --department`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := absPath(target)
			if err != nil {
				return err
			}
			parser := importer.DefaultRegistry().Get(format)
			if parser == nil {
				return fmt.Errorf("unknown format %q (available: %s)", format, strings.Join(importer.DefaultRegistry().Formats(), ", "))
			}
			layout := importer.Layout{Columns: a.cfg.Sheet.Columns, Department: department}

			if len(args) == 1 {
				n, err := runImport(a, path, parser, layout, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rows from %s\n", n, filepath.Base(args[0]))
				return nil
			}
			return runImportDir(cmd, a, path, parser, layout)
		},
	}

	cmd.Flags().StringVarP(&target, "workbook", "w", "", "workbook to append to (required)")
	_ = cmd.MarkFlagRequired("workbook")
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "input format")
	cmd.Flags().StringVar(&department, "department", "", "department for formats without one")

	return cmd
}

// runImport appends every record of src to the workbook at path. Either
// all rows are appended or none.
func runImport(a *app, path string, parser importer.Parser, layout importer.Layout, src string) (int, error) {
	f, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", src, err)
	}
	defer f.Close()

	records, err := parser.Parse(f, layout)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", src, err)
	}

	b, err := openOrCreate(a, path)
	if err != nil {
		return 0, err
	}
	for i, rec := range records {
		if err := b.Add(rec...); err != nil {
			return 0, fmt.Errorf("%s record %d: %w", filepath.Base(src), i+1, err)
		}
	}

	if err := workbook.Save(path, b, a.cfg.Sheet.Name); err != nil {
		return 0, err
	}

	a.logger.Info("rows imported", zap.String("source", src), zap.String("workbook", path), zap.Int("rows", len(records)))
	details := fmt.Sprintf("%d rows from %s (%s)", len(records), filepath.Base(src), parser.Format())
	a.record(activity.ActionImport, path, details, "import: "+filepath.Base(src))
	return len(records), nil
}

func runImportDir(cmd *cobra.Command, a *app, path string, parser importer.Parser, layout importer.Layout) error {
	files, err := importer.Scan(a.repo)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No CSV files in import/")
		return nil
	}

	for _, fi := range files {
		n, err := runImport(a, path, parser, layout, fi.Path)
		if err != nil {
			return err
		}
		if err := importer.MarkProcessed(a.repo, fi.Name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rows from %s\n", n, fi.Name)
	}
	return nil
}
