package cmd

import (
	"bufio"
	"casebook/storage"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	deleteDBPath  string
	deleteRecords bool
)

var (
	deletePromptInput  io.Reader = os.Stdin
	deletePromptOutput io.Writer = os.Stdout
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the SQLite database file or all imported records",
	Long: `Destructive database cleanup command.

By default this command deletes the complete SQLite database file.
With --records the file is kept and all client and assessor rows are removed.
Before deletion, an interactive security prompt requires typing exactly "Y".`,
	Example: `
  # Delete the complete SQLite file (requires interactive confirmation)
  casebook delete --db ./casebook.db

  # Remove every imported client and assessor but keep the database file
  casebook delete --records --db ./casebook.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := activeConfig
		dbPath := resolveDBPath(deleteDBPath, cfg)

		confirmed, err := confirmDeletePrompt(deletePromptInput, deletePromptOutput, dbPath, deleteRecords)
		if err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("delete aborted: confirmation was not 'Y'")
		}

		if deleteRecords {
			deleted, err := deleteAllRecords(cmd.Context(), dbPath)
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %d records from: %s\n", deleted, dbPath)
			return nil
		}

		if err := removeDatabaseFile(dbPath); err != nil {
			return err
		}
		fmt.Printf("Deleted database file: %s\n", dbPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().StringVar(&deleteDBPath, "db", "", "Path to local SQLite database (default: database.path from config)")
	deleteCmd.Flags().BoolVar(&deleteRecords, "records", false, "Delete all client and assessor rows instead of the database file")
}

func confirmDeletePrompt(input io.Reader, output io.Writer, path string, recordsOnly bool) (bool, error) {
	prompt := fmt.Sprintf("Delete database file %q? Type Y to confirm: ", path)
	if recordsOnly {
		prompt = fmt.Sprintf("Delete all clients and assessors in %q? Type Y to confirm: ", path)
	}
	return confirmPrompt(input, output, prompt)
}

// confirmPrompt writes prompt and accepts only an exact "Y" answer.
func confirmPrompt(input io.Reader, output io.Writer, prompt string) (bool, error) {
	if input == nil {
		return false, fmt.Errorf("confirmation input is not available")
	}
	if output == nil {
		output = io.Discard
	}

	if _, err := fmt.Fprint(output, prompt); err != nil {
		return false, fmt.Errorf("write confirmation prompt: %w", err)
	}

	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	return strings.TrimSpace(line) == "Y", nil
}

func removeDatabaseFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("database file not found: %s", path)
		}
		return fmt.Errorf("stat database file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("database path is a directory: %s", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete database file: %w", err)
	}
	return nil
}

func deleteAllRecords(ctx context.Context, path string) (int64, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("database file not found: %s", path)
		}
		return 0, fmt.Errorf("stat database file: %w", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := storage.OpenSQLite(path)
	if err != nil {
		return 0, err
	}
	defer store.Close()

	return store.DeleteAll(ctx)
}
