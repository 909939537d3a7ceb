package answers

import (
	"errors"
	"testing"

	"github.com/klytics/answerkit/internal/sheet"
)

func TestTableAppendKeepsShape(t *testing.T) {
	tbl := NewTable([]string{"1", "2", "3"})
	tbl.Append(Record{StudentID: "e1", Answers: Set{sheet.Text("A")}})
	tbl.Append(Record{StudentID: "e2", Answers: AbsentSet(5), Err: errors.New("boom")})

	for _, r := range tbl.Records {
		if len(r.Answers) != 3 {
			t.Errorf("%s has %d answers, want 3", r.StudentID, len(r.Answers))
		}
	}
	if !tbl.Records[1].Failed() || tbl.Records[0].Failed() {
		t.Error("Failed should follow Err")
	}
}

func TestTableHeaderAndRows(t *testing.T) {
	tbl := NewTable([]string{"1", "2"})
	tbl.Append(Record{StudentID: "e7", Answers: Set{sheet.Number(4, ""), sheet.Absent()}})

	header := tbl.Header()
	if len(header) != 3 || header[0] != IDColumn || header[2] != "2" {
		t.Errorf("header = %v", header)
	}

	rows := tbl.Rows()
	if rows[0][0] != "e7" || rows[0][1] != 4.0 || rows[0][2] != nil {
		t.Errorf("rows = %v", rows)
	}
}

func TestFindReturnsDuplicates(t *testing.T) {
	tbl := NewTable([]string{"1"})
	tbl.Append(Record{StudentID: "e1", File: "a.xlsx"})
	tbl.Append(Record{StudentID: "e2"})
	tbl.Append(Record{StudentID: "e1", File: "b.xlsx"})

	got := tbl.Find("e1")
	if len(got) != 2 || got[1].File != "b.xlsx" {
		t.Errorf("Find = %+v", got)
	}
	if len(tbl.Find("e9")) != 0 {
		t.Error("unknown id should find nothing")
	}
}

func TestSetHelpers(t *testing.T) {
	s := Set{sheet.Text("x"), sheet.Absent(), sheet.Text("")}
	if s.AbsentCount() != 1 {
		t.Errorf("AbsentCount = %d", s.AbsentCount())
	}
	got := s.Strings()
	if got[0] != "x" || got[1] != "" || got[2] != "" {
		t.Errorf("Strings = %q", got)
	}
}
