// Package xlsx reads submission workbooks into sheet grids and writes
// tabular reports as .xlsx files.
package xlsx

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/answerkit/internal/sheet"
)

var (
	// ErrNotFound means the workbook path does not exist.
	ErrNotFound = errors.New("workbook not found")
	// ErrNotWorkbook means the file could not be opened as an .xlsx archive.
	ErrNotWorkbook = errors.New("not a valid .xlsx workbook")
	// ErrEmptyWorkbook means the workbook holds no worksheets.
	ErrEmptyWorkbook = errors.New("workbook has no sheets")
	// ErrSheetMissing means a requested worksheet is not in the workbook.
	ErrSheetMissing = errors.New("sheet not found")
)

// ReadOptions controls how worksheets become grids.
type ReadOptions struct {
	// Sheets limits reading to the named worksheets. Empty reads all of them.
	Sheets []string
	// HeaderRows is the number of leading worksheet rows that form the
	// header and are left out of the grid.
	HeaderRows int
	// NAValues are cell texts read as absent. Nil only treats blanks as absent.
	NAValues sheet.NAValues
}

// Workbook is a parsed workbook holding the requested sheets in read order.
type Workbook struct {
	Sheets []*sheet.Sheet
}

// ReadFile opens the workbook at path and loads the requested sheets. The
// file handle is released before returning.
func ReadFile(path string, opts ReadOptions) (*Workbook, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s — check that the path is correct", ErrNotFound, path)
		}
		return nil, fmt.Errorf("could not access %s: %w", path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: could not open %s: %v", ErrNotWorkbook, path, err)
	}
	defer f.Close()

	return readWorkbook(f, opts)
}

// ReadBytes reads a workbook held in memory.
func ReadBytes(data []byte, opts ReadOptions) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotWorkbook, err)
	}
	defer f.Close()

	return readWorkbook(f, opts)
}

func readWorkbook(f *excelize.File, opts ReadOptions) (*Workbook, error) {
	available := f.GetSheetList()
	if len(available) == 0 {
		return nil, ErrEmptyWorkbook
	}

	names := opts.Sheets
	if len(names) == 0 {
		names = available
	}

	wb := &Workbook{}
	for _, name := range names {
		if idx, err := f.GetSheetIndex(name); err != nil || idx < 0 {
			return nil, fmt.Errorf("%w: %q — available sheets: %v", ErrSheetMissing, name, available)
		}
		s, err := readSheet(f, name, opts)
		if err != nil {
			return nil, fmt.Errorf("could not read sheet %q: %w", name, err)
		}
		wb.Sheets = append(wb.Sheets, s)
	}

	return wb, nil
}

func readSheet(f *excelize.File, name string, opts ReadOptions) (*sheet.Sheet, error) {
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, err
	}

	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}

	skip := opts.HeaderRows
	if skip < 0 {
		skip = 0
	}
	var cells [][]sheet.Value
	for r := skip; r < len(rows); r++ {
		line := make([]sheet.Value, len(rows[r]))
		for c, text := range rows[r] {
			v, err := cellValue(f, name, r, c, text, opts.NAValues)
			if err != nil {
				return nil, err
			}
			line[c] = v
		}
		cells = append(cells, line)
	}

	return sheet.New(name, cells, cols), nil
}

// cellValue classifies one cell. row and col are zero-based worksheet
// coordinates; text is the formatted value excelize reports for it.
func cellValue(f *excelize.File, name string, row, col int, text string, na sheet.NAValues) (sheet.Value, error) {
	if na.Is(text) {
		return sheet.Absent(), nil
	}

	ref, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return sheet.Absent(), err
	}
	typ, err := f.GetCellType(name, ref)
	if err != nil {
		return sheet.Absent(), err
	}

	switch typ {
	case excelize.CellTypeBool:
		return sheet.Bool(text == "TRUE" || text == "1"), nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError:
		return sheet.Text(text), nil
	}

	// Numbers are usually stored without a type attribute. Formula cells
	// carry their cached result, which may be numeric.
	raw, err := f.GetCellValue(name, ref, excelize.Options{RawCellValue: true})
	if err != nil {
		return sheet.Absent(), err
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return sheet.Number(n, text), nil
	}
	return sheet.Text(text), nil
}

// GetSheet returns a loaded sheet by name.
func (wb *Workbook) GetSheet(name string) (*sheet.Sheet, error) {
	for _, s := range wb.Sheets {
		if s.Name == name {
			return s, nil
		}
	}

	available := make([]string, len(wb.Sheets))
	for i, s := range wb.Sheets {
		available[i] = s.Name
	}
	return nil, fmt.Errorf("%w: %q — loaded sheets: %v", ErrSheetMissing, name, available)
}

// ReadRows returns the formatted text of every row of one worksheet, header
// included. An empty sheetName reads the first worksheet.
func ReadRows(path, sheetName string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: could not open %s: %v", ErrNotWorkbook, path, err)
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q in %s", ErrSheetMissing, sheetName, path)
	}
	return f.GetRows(sheetName)
}
