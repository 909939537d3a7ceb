package xlsx

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// WriteTable creates a single-sheet .xlsx file with a bold, frozen header
// row followed by rows. Header labels that are plain integers ("1", "9") are
// written as numeric cells. A nil cell is left empty; other cells keep their Go
// type, so float64 values land as numeric cells.
func WriteTable(path, sheetName string, header []string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheetName == "" {
		sheetName = "Sheet1"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("could not rename sheet: %w", err)
	}

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = headerCell(h)
	}
	if err := f.SetSheetRow(sheetName, "A1", &headerRow); err != nil {
		return fmt.Errorf("could not write header: %w", err)
	}

	for i, row := range rows {
		for j, v := range row {
			if v == nil {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return fmt.Errorf("invalid cell coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, ref, v); err != nil {
				return fmt.Errorf("could not set cell %s: %w", ref, err)
			}
		}
	}

	if len(header) > 0 {
		if err := styleHeader(f, sheetName, len(header)); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("could not save %s: %w", path, err)
	}
	return nil
}

func headerCell(label string) any {
	if n, err := strconv.Atoi(label); err == nil && strconv.Itoa(n) == label {
		return n
	}
	return label
}

func styleHeader(f *excelize.File, sheetName string, width int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("could not create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(width, 1)
	if err != nil {
		return fmt.Errorf("invalid cell coordinates: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", last, style); err != nil {
		return fmt.Errorf("could not style header: %w", err)
	}
	if err := f.SetColWidth(sheetName, "A", "A", 14); err != nil {
		return fmt.Errorf("could not size columns: %w", err)
	}
	return f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
