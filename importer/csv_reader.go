package importer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	utf8BOM      = "\ufeff"
	maxLineBytes = 4 * 1024 * 1024
)

// CSVReader reads comma separated files. Quoted fields use '"' with '""' as
// an escaped quote and do not span lines. Unquoted fields are trimmed, blank
// lines are skipped and the first non-blank line is the header row.
type CSVReader struct{}

func (r *CSVReader) Read(path string) (Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("open csv file %s: %w", path, err)
	}
	defer file.Close()

	table, err := ParseCSV(file)
	if err != nil {
		return Table{}, fmt.Errorf("read csv file %s: %w", path, err)
	}
	return table, nil
}

// ParseCSV tokenizes CSV content from r.
func ParseCSV(r io.Reader) (Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	table := Table{Rows: make([]Row, 0, 128)}
	headerSeen := false
	lineNumber := 0
	for scanner.Scan() {
		line := scanner.Text()
		lineNumber++
		if lineNumber == 1 {
			line = strings.TrimPrefix(line, utf8BOM)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := splitCSVLine(line)
		if !headerSeen {
			table.Headers = fields
			headerSeen = true
			continue
		}
		table.Rows = append(table.Rows, newRow(table.Headers, fields))
	}
	if err := scanner.Err(); err != nil {
		return Table{}, fmt.Errorf("scan line %d: %w", lineNumber+1, err)
	}

	return table, nil
}

// splitCSVLine splits one line into fields. A '"' opens a quoted section only
// at the start of a field; anywhere else it is a literal character.
// Whitespace between a closing quote and the next comma is dropped.
func splitCSVLine(line string) []string {
	fields := make([]string, 0, 16)

	var (
		field    strings.Builder
		inQuotes bool
		quoted   bool
		closedAt int
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inQuotes:
			if c != '"' {
				field.WriteByte(c)
				continue
			}
			if i+1 < len(line) && line[i+1] == '"' {
				field.WriteByte('"')
				i++
				continue
			}
			inQuotes = false
			closedAt = field.Len()
		case c == '"' && !quoted && strings.TrimSpace(field.String()) == "":
			field.Reset()
			inQuotes = true
			quoted = true
		case c == ',':
			fields = append(fields, finishField(field.String(), quoted, closedAt))
			field.Reset()
			quoted = false
			closedAt = 0
		default:
			field.WriteByte(c)
		}
	}

	if inQuotes {
		closedAt = field.Len()
	}
	return append(fields, finishField(field.String(), quoted, closedAt))
}

// finishField trims an unquoted value. For a quoted value only the text after
// the closing quote at closedAt loses its trailing whitespace.
func finishField(value string, quoted bool, closedAt int) string {
	if !quoted {
		return strings.TrimSpace(value)
	}
	return value[:closedAt] + strings.TrimRight(value[closedAt:], " \t")
}
