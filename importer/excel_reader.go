package importer

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExcelReader reads the first sheet of a workbook. Empty rows are skipped and
// the first non-empty row is the header row, matching CSVReader.
type ExcelReader struct{}

func (r *ExcelReader) Read(path string) (Table, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("open excel file %s: %w", path, err)
	}
	defer file.Close()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return Table{}, fmt.Errorf("excel file has no sheets: %s", path)
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return Table{}, fmt.Errorf("read rows from sheet %s: %w", sheetName, err)
	}

	table := Table{Rows: make([]Row, 0, len(rows))}
	headerSeen := false
	for _, row := range rows {
		cells := make([]string, len(row))
		blank := true
		for i, cell := range row {
			cells[i] = strings.TrimSpace(cell)
			if cells[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}

		if !headerSeen {
			table.Headers = cells
			headerSeen = true
			continue
		}
		table.Rows = append(table.Rows, newRow(table.Headers, cells))
	}

	return table, nil
}
