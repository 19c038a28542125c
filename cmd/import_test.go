package cmd

import (
	"bytes"
	"casebook/logging"
	"casebook/storage"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReportPathFor(t *testing.T) {
	tests := []struct {
		name     string
		report   string
		input    string
		multiple bool
		want     string
	}{
		{name: "no report", report: "", input: "clients.csv", multiple: true, want: ""},
		{name: "single input keeps path", report: "out/report.csv", input: "clients.csv", want: "out/report.csv"},
		{name: "multiple inputs add stem", report: "out/report.xlsx", input: "/data/team-a.csv", multiple: true, want: "out/report-team-a.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reportPathFor(tt.report, tt.input, tt.multiple)
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestImportFile_PrintsSummaryAndWritesReport(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.OpenSQLite(filepath.Join(dir, "casebook.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()

	input := filepath.Join(dir, "clients.csv")
	content := "client_code,first_name,last_name,date_of_birth\nC-1,Ada,Byron,1985-12-10\nC-2,,Hopper,1906-12-09\n"
	if err := os.WriteFile(input, []byte(content), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}

	var out bytes.Buffer
	reportPath := filepath.Join(dir, "report.csv")
	result, err := importFile(context.Background(), store, input, importFileOptions{
		entity:       "client",
		reportPath:   reportPath,
		reportFormat: "csv",
		logger:       logging.Nop(),
	}, &out)
	if err != nil {
		t.Fatalf("import file: %v", err)
	}

	if result.Success != 1 || result.Failed != 1 {
		t.Fatalf("expected 1/1, got %d/%d", result.Success, result.Failed)
	}
	text := out.String()
	if !strings.Contains(text, "1 imported, 1 failed, 0 duplicates") || !strings.Contains(text, "Validation failed for row 2") {
		t.Fatalf("unexpected output:\n%s", text)
	}

	report, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(report), "Validation failed for row 2") {
		t.Fatalf("expected error in report, got:\n%s", report)
	}
}

func TestImportFile_MissingColumnIsAnError(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.OpenSQLite(filepath.Join(dir, "casebook.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()

	input := filepath.Join(dir, "clients.csv")
	if err := os.WriteFile(input, []byte("client_code,first_name\nC-1,Ada\n"), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}

	var out bytes.Buffer
	_, err = importFile(context.Background(), store, input, importFileOptions{entity: "client", logger: logging.Nop()}, &out)
	if err == nil {
		t.Fatalf("expected error for missing columns")
	}
	if !strings.Contains(err.Error(), "last_name, date_of_birth") {
		t.Fatalf("expected missing columns in error, got %v", err)
	}
}
