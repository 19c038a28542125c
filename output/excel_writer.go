package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, sheet Sheet) error {
	file := excelize.NewFile()
	defer file.Close()

	sheetName := file.GetSheetName(0)
	if err := setExcelRow(file, sheetName, 1, sheet.Headers); err != nil {
		return err
	}
	for i, row := range sheet.Rows {
		if err := setExcelRow(file, sheetName, i+2, row); err != nil {
			return err
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}

func setExcelRow(file *excelize.File, sheet string, row int, values []string) error {
	for col, value := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		if err := file.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("set excel value %s: %w", cell, err)
		}
	}
	return nil
}
