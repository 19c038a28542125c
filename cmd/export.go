package cmd

import (
	"casebook/importer"
	"casebook/output"
	"casebook/storage"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	exportEntity string
	exportFormat string
	exportOutput string
	exportDBPath string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored clients or assessors to CSV/Excel",
	Long: `Export stored records from SQLite.

The exported columns match the import columns, so an export can be edited and
imported into another database.

Output format can be selected explicitly via --format or inferred from --output extension.`,
	Example: `
  # Export clients to CSV
  casebook export --entity client --output ./clients.csv

  # Export assessors to Excel
  casebook export --entity assessor --output ./assessors.xlsx

  # Force Excel format independent of extension
  casebook export --entity client --format excel --output ./clients.out
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := activeConfig

		format := exportFormat
		if strings.TrimSpace(format) == "" {
			format = output.DetectFormat(exportOutput)
		}

		store, err := storage.OpenSQLite(resolveDBPath(exportDBPath, cfg))
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		entity, sheet, err := exportSheet(ctx, store, exportEntity)
		if err != nil {
			return err
		}
		if err := output.WriteSheet(exportOutput, format, sheet); err != nil {
			return err
		}

		fmt.Printf("Export completed. Rows: %d, Entity: %s, Format: %s, File: %s\n", len(sheet.Rows), entity, format, exportOutput)
		return nil
	},
}

func exportSheet(ctx context.Context, q storage.Querier, entity string) (string, output.Sheet, error) {
	name, err := importer.NormalizeEntity(entity)
	if err != nil {
		return "", output.Sheet{}, err
	}

	if name == "client" {
		clients, err := storage.ListClients(ctx, q)
		if err != nil {
			return "", output.Sheet{}, err
		}
		return name, output.ClientsSheet(clients), nil
	}

	assessors, err := storage.ListAssessors(ctx, q)
	if err != nil {
		return "", output.Sheet{}, err
	}
	return name, output.AssessorsSheet(assessors), nil
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportEntity, "entity", "e", "client", "Entity to export: client|assessor")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().StringVar(&exportDBPath, "db", "", "Path to local SQLite database (default: database.path from config)")

	_ = exportCmd.MarkFlagRequired("output")
}
