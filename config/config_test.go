package config

import (
	"strings"
	"testing"
)

func TestValidateYAMLContent_AppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte("log:\n  level: \"debug\"\n"))
	if err != nil {
		t.Fatalf("expected config to validate: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "console" {
		t.Fatalf("unexpected log config: %+v", cfg.Log)
	}
	if cfg.Database.Path != "./casebook.db" || cfg.Import.ReportFormat != "csv" || cfg.Import.StrictDurability {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestValidateYAMLContent_ExampleIsValid(t *testing.T) {
	t.Parallel()

	if _, err := ValidateYAMLContent([]byte(ExampleYAML())); err != nil {
		t.Fatalf("expected example config to validate: %v", err)
	}
}

func TestValidateYAMLContent_RejectsInvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{name: "log level", content: "log:\n  level: \"verbose\"\n", field: "Level"},
		{name: "log format", content: "log:\n  format: \"xml\"\n", field: "Format"},
		{name: "report format", content: "import:\n  report_format: \"pdf\"\n", field: "ReportFormat"},
		{name: "empty database path", content: "database:\n  path: \"\"\n", field: "Path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateYAMLContent([]byte(tt.content))
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Fatalf("expected error to mention %s, got %v", tt.field, err)
			}
		})
	}
}

func TestValidateYAMLContent_StrictDurability(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte("import:\n  strict_durability: true\n  report_format: \"excel\"\n"))
	if err != nil {
		t.Fatalf("expected config to validate: %v", err)
	}
	if !cfg.Import.StrictDurability || cfg.Import.ReportFormat != "excel" {
		t.Fatalf("unexpected import config: %+v", cfg.Import)
	}
}
