// Package fixtures writes submission workbooks for tests, benchmarks and the
// sample data generator.
package fixtures

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Coord is a zero-based grid coordinate (below the header row).
type Coord struct {
	Row, Col int
}

// Sheet is one worksheet to write. Title lands in A1 as the header row.
type Sheet struct {
	Name  string
	Title string
	Cells map[Coord]any
}

// Exam builds the three sheets of the default layout: stock answers go to
// Stock column 1 rows 7, 9, 11, 13, 15; metro1 answers to Metro1 column 0
// rows 1, 3, 5; metro2 lines to Metro2 column 0 from row 1 down. Nil entries
// are left blank.
func Exam(stock, metro1, metro2 []any) []Sheet {
	s := Sheet{Name: "Stock", Title: "Stock analysis", Cells: map[Coord]any{}}
	for i, v := range stock {
		if v != nil {
			s.Cells[Coord{7 + 2*i, 1}] = v
		}
	}
	// Question prompts in column 0 next to each answer.
	for i := range 5 {
		s.Cells[Coord{7 + 2*i, 0}] = fmt.Sprintf("Q%d", i+1)
	}

	m1 := Sheet{Name: "Metro1", Title: "Metro part 1", Cells: map[Coord]any{}}
	for i, v := range metro1 {
		if v != nil {
			m1.Cells[Coord{1 + 2*i, 0}] = v
		}
	}

	m2 := Sheet{Name: "Metro2", Title: "Metro part 2", Cells: map[Coord]any{}}
	for i, v := range metro2 {
		if v != nil {
			m2.Cells[Coord{1 + i, 0}] = v
		}
	}

	return []Sheet{s, m1, m2}
}

// Write saves sheets as an .xlsx workbook with a single header row, so grid
// row r is worksheet row r+2.
func Write(path string, sheets []Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.Name); err != nil {
				return fmt.Errorf("could not rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return fmt.Errorf("could not create sheet %q: %w", s.Name, err)
		}

		if s.Title != "" {
			if err := f.SetCellValue(s.Name, "A1", s.Title); err != nil {
				return err
			}
		}
		for c, v := range s.Cells {
			ref, err := excelize.CoordinatesToCellName(c.Col+1, c.Row+2)
			if err != nil {
				return fmt.Errorf("invalid cell coordinates: %w", err)
			}
			if err := f.SetCellValue(s.Name, ref, v); err != nil {
				return fmt.Errorf("could not set cell %s: %w", ref, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("could not save %s: %w", path, err)
	}
	return nil
}

// FileName returns a submission file name in the exam platform's format.
func FileName(studentID string) string {
	return fmt.Sprintf("Exam Deliverables_%s_attempt_2024-05-02-10-15-00_deliverables.xlsx", studentID)
}
