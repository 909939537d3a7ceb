package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/klytics/answerkit/internal/answers"
	"github.com/klytics/answerkit/internal/formats/xlsx"
	"github.com/klytics/answerkit/internal/sheet"
)

// ReadTable loads a report written by Write. Empty cells read back as
// absent. Every record is padded to the slot count. Markdown reports cannot
// be read.
func ReadTable(path string) (*answers.Table, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatXLSX:
		return readXLSX(path)
	case FormatCSV:
		return readCSV(path)
	case FormatJSON:
		return readJSON(path)
	default:
		return nil, fmt.Errorf("cannot read %s reports — use xlsx, csv or json", format)
	}
}

func readXLSX(path string) (*answers.Table, error) {
	wb, err := xlsx.ReadFile(path, xlsx.ReadOptions{})
	if err != nil {
		return nil, err
	}
	s, err := wb.GetSheet(SheetName)
	if err != nil {
		s = wb.Sheets[0]
	}
	if s.Rows() == 0 {
		return nil, fmt.Errorf("%s has no header row", path)
	}

	slots := make([]string, 0, s.Cols())
	for c := 1; c < s.Cols(); c++ {
		slots = append(slots, s.Get(0, c).String())
	}

	t := answers.NewTable(slots)
	for r := 1; r < s.Rows(); r++ {
		set := make(answers.Set, len(slots))
		for i := range slots {
			set[i] = s.Get(r, i+1)
		}
		t.Append(answers.Record{StudentID: s.Get(r, 0).String(), Answers: set})
	}
	return t, nil
}

func readCSV(path string) (*answers.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("could not parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s has no header row", path)
	}

	t := answers.NewTable(records[0][1:])
	for _, row := range records[1:] {
		if len(row) == 0 {
			continue
		}
		set := make(answers.Set, len(t.Slots))
		for i := range set {
			if i+1 < len(row) && row[i+1] != "" {
				set[i] = sheet.Text(row[i+1])
			}
		}
		t.Append(answers.Record{StudentID: row[0], Answers: set})
	}
	return t, nil
}

// readJSON loads an array of {student_id, answers} objects. Slot labels are
// not stored in JSON reports, so they read back as 1..n where n is the
// longest answers array.
func readJSON(path string) (*answers.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	var records []jsonRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", path, err)
	}

	width := 0
	for _, r := range records {
		width = max(width, len(r.Answers))
	}
	slots := make([]string, width)
	for i := range slots {
		slots[i] = strconv.Itoa(i + 1)
	}

	t := answers.NewTable(slots)
	for _, r := range records {
		t.Append(answers.Record{StudentID: r.StudentID, Answers: r.Answers})
	}
	return t, nil
}
