package output

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Sheet is a header row plus data rows, ready to be written as CSV or Excel.
type Sheet struct {
	Headers []string
	Rows    [][]string
}

type Writer interface {
	Write(path string, sheet Sheet) error
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// DetectFormat infers the output format from the file extension, defaulting
// to csv.
func DetectFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "xlsx", "xlsm":
		return "excel"
	default:
		return "csv"
	}
}

// WriteSheet writes sheet to path in the given format.
func WriteSheet(path, format string, sheet Sheet) error {
	writer, err := WriterForFormat(format)
	if err != nil {
		return err
	}
	return writer.Write(path, sheet)
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}
