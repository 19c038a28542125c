package cmd

import (
	"bytes"
	"casebook/clinic"
	"casebook/storage"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfirmDeletePrompt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "uppercase Y confirms", input: "Y\n", want: true},
		{name: "lowercase y does not confirm", input: "y\n", want: false},
		{name: "N does not confirm", input: "N\n", want: false},
		{name: "empty does not confirm", input: "\n", want: false},
		{name: "Y without newline confirms", input: "Y", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := confirmDeletePrompt(bytes.NewBufferString(tt.input), &out, "./casebook.db", false)
			if err != nil {
				t.Fatalf("confirm prompt returned error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			if out.Len() == 0 {
				t.Fatalf("expected prompt output")
			}
		})
	}
}

func TestRemoveDatabaseFile(t *testing.T) {
	t.Run("deletes existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "casebook.db")
		if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
			t.Fatalf("write temp db file: %v", err)
		}

		if err := removeDatabaseFile(path); err != nil {
			t.Fatalf("remove db file: %v", err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("expected file to be deleted")
		}
	})

	t.Run("fails for directory path", func(t *testing.T) {
		dir := t.TempDir()
		if err := removeDatabaseFile(dir); err == nil {
			t.Fatalf("expected error for directory path")
		}
	})

	t.Run("fails for missing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing.db")
		if err := removeDatabaseFile(path); err == nil {
			t.Fatalf("expected error for missing file")
		}
	})
}

func TestConfirmDeletePrompt_RecordsOnly(t *testing.T) {
	var out bytes.Buffer
	got, err := confirmDeletePrompt(bytes.NewBufferString("Y\n"), &out, "./casebook.db", true)
	if err != nil {
		t.Fatalf("confirm prompt returned error: %v", err)
	}
	if !got {
		t.Fatalf("expected confirmation")
	}
	if !strings.Contains(out.String(), "clients and assessors") {
		t.Fatalf("expected records prompt, got %q", out.String())
	}
}

func TestDeleteAllRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "casebook.db")
	store, err := storage.OpenSQLite(path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	ctx := context.Background()
	if _, _, err := storage.InsertAssessor(ctx, store, clinic.Assessor{Code: "A-1", FullName: "Dr. Jane Roe"}); err != nil {
		t.Fatalf("insert assessor: %v", err)
	}
	_ = store.Close()

	deleted, err := deleteAllRecords(ctx, path)
	if err != nil {
		t.Fatalf("delete records: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted record, got %d", deleted)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected database file to be kept: %v", err)
	}

	if _, err := deleteAllRecords(ctx, filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Fatalf("expected error for missing database file")
	}
}
