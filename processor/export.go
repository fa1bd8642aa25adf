package processor

// export.go: table grids as an XLSX workbook, one sheet per table.

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Cortexa-LLC/mcp/src/pdfsummary/model"
)

const defaultSheet = "Sheet1"

// sheetName is the worksheet holding the i-th table (zero-based).
func sheetName(i int) string {
	return fmt.Sprintf("Table %d", i+1)
}

func writeTables(path string, tables []model.Table) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close xlsx %s: %w", path, cerr)
		}
	}()

	for i, table := range tables {
		sheet := sheetName(i)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				return fmt.Errorf("rename sheet in %s: %w", path, err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("add sheet %q to %s: %w", sheet, path, err)
		}

		for r, row := range table {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return fmt.Errorf("sheet %q row %d: %w", sheet, r+1, err)
			}
			values := make([]any, len(row))
			for c, v := range row {
				values[c] = v
			}
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return fmt.Errorf("write sheet %q row %d: %w", sheet, r+1, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx %s: %w", path, err)
	}
	return nil
}
