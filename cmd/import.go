package cmd

import (
	"casebook/importer"
	"casebook/logging"
	"casebook/output"
	"casebook/storage"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	importInputs []string
	importEntity string
	importFormat string
	importDBPath string
	importStrict bool
	importReport string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import client or assessor lists into the local SQLite database",
	Long: `Read each input file, run every row through the entity's parse, validate,
duplicate-check and insert steps, and report the outcome per file.

All rows of one file are written in a single transaction when the database
allows it. Rows that fail do not stop the import; they are counted and listed.
A file that is missing a required column is rejected before any row is read.

Required columns:
- client:   client_code, first_name, last_name, date_of_birth
- assessor: assessor_code, full_name

When --format is omitted, format is inferred from each input file extension.
With --strict (or import.strict_durability in config) a failed commit counts
every row of the file as failed.`,
	Example: `
  # Import clients from CSV
  casebook import --entity client -i clients.csv

  # Import several assessor files into a specific database
  casebook import --entity assessor -i team-a.xlsx -i team-b.csv --db ./clinic.db

  # Write rejected and duplicate rows to a report
  casebook import --entity client -i clients.csv --report ./clients-report.xlsx
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := activeConfig

		entity, err := importer.NormalizeEntity(importEntity)
		if err != nil {
			return err
		}

		store, err := storage.OpenSQLite(resolveDBPath(importDBPath, cfg))
		if err != nil {
			return err
		}
		defer store.Close()

		strict := cfg.Import.StrictDurability
		if cmd.Flags().Changed("strict") {
			strict = importStrict
		}

		options := importFileOptions{
			entity:       entity,
			format:       importFormat,
			strict:       strict,
			reportFormat: cfg.Import.ReportFormat,
			logger:       newLogger(cfg),
		}
		for _, input := range importInputs {
			options.reportPath = reportPathFor(importReport, input, len(importInputs) > 1)
			if _, err := importFile(cmd.Context(), store, input, options, os.Stdout); err != nil {
				return err
			}
		}
		return nil
	},
}

type importFileOptions struct {
	entity       string
	format       string
	strict       bool
	reportPath   string
	reportFormat string
	logger       logging.Logger
}

func importFile(ctx context.Context, db storage.Database, path string, options importFileOptions, out io.Writer) (importer.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	opts := []importer.Option{importer.WithLogger(options.logger)}
	if options.strict {
		opts = append(opts, importer.WithStrictDurability())
	}
	if strings.TrimSpace(options.format) != "" {
		reader, err := importer.ReaderForFormat(options.format)
		if err != nil {
			return importer.Result{}, err
		}
		opts = append(opts, importer.WithReader(reader))
	}

	result, err := importer.ImportEntity(ctx, db, options.entity, path, opts...)
	if err != nil {
		return result, err
	}

	if options.reportPath != "" {
		format := options.reportFormat
		if ext := filepath.Ext(options.reportPath); ext != "" {
			format = output.DetectFormat(options.reportPath)
		}
		if err := output.WriteReport(options.reportPath, format, options.entity, path, result); err != nil {
			return result, err
		}
	}

	if result.Aborted() {
		return result, fmt.Errorf("import of %s aborted: missing required columns: %s", path, strings.Join(result.MissingHeaders, ", "))
	}

	fmt.Fprintf(out, "Import completed (%s, %s): %s\n", options.entity, path, result.Summary())
	for _, message := range result.Errors {
		fmt.Fprintf(out, "  - %s\n", message)
	}
	for _, duplicate := range result.Duplicates {
		fmt.Fprintf(out, "  - %s (existing id %d)\n", duplicate.Message, duplicate.ExistingID)
	}
	if !result.Durable() {
		fmt.Fprintln(out, "Warning: the import transaction could not be committed; imported rows may not be persisted.")
	}
	if options.reportPath != "" {
		fmt.Fprintf(out, "Report written: %s\n", options.reportPath)
	}

	return result, nil
}

// reportPathFor returns the report path for one input. With several inputs
// the input file name is appended so reports do not overwrite each other.
func reportPathFor(report, input string, multiple bool) string {
	if strings.TrimSpace(report) == "" || !multiple {
		return report
	}

	ext := filepath.Ext(report)
	base := strings.TrimSuffix(report, ext)
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return base + "-" + stem + ext
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringArrayVarP(&importInputs, "input", "i", nil, "Input file path (repeatable)")
	importCmd.Flags().StringVarP(&importEntity, "entity", "e", "client", "Entity to import: client|assessor")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Input format: csv|excel (optional, inferred from extension when omitted)")
	importCmd.Flags().StringVar(&importDBPath, "db", "", "Path to local SQLite database (default: database.path from config)")
	importCmd.Flags().BoolVar(&importStrict, "strict", false, "Count every row as failed when the file's transaction cannot be committed")
	importCmd.Flags().StringVar(&importReport, "report", "", "Write errors and duplicates to this CSV/Excel file")

	_ = importCmd.MarkFlagRequired("input")
}
