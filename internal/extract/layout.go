package extract

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/klytics/answerkit/internal/sheet"
)

// SlotKind selects how a slot reads its sheet.
type SlotKind string

const (
	// KindCell reads a single cell.
	KindCell SlotKind = "cell"
	// KindRun joins the vertical run of cells starting at the coordinate.
	KindRun SlotKind = "run"
)

// Slot binds one answer position to a sheet coordinate. Row and Col are
// zero-based grid coordinates below the header rows.
type Slot struct {
	Label string   `yaml:"label" json:"label"`
	Sheet string   `yaml:"sheet" json:"sheet"`
	Row   int      `yaml:"row" json:"row"`
	Col   int      `yaml:"col" json:"col"`
	Kind  SlotKind `yaml:"kind,omitempty" json:"kind,omitempty"`
}

// Eval reads the slot from s.
func (sl Slot) Eval(s *sheet.Sheet) sheet.Value {
	if sl.Kind == KindRun {
		return s.CombineDown(sl.Row, sl.Col)
	}
	return s.Get(sl.Row, sl.Col)
}

// CellRef returns the worksheet reference of the slot's first cell, such as
// "Stock!B9", given the number of header rows above grid row 0.
func (sl Slot) CellRef(headerRows int) string {
	name, err := excelize.CoordinatesToCellName(sl.Col+1, sl.Row+headerRows+1)
	if err != nil {
		return fmt.Sprintf("%s!R%dC%d", sl.Sheet, sl.Row, sl.Col)
	}
	return sl.Sheet + "!" + name
}

// Layout is the ordered coordinate table shared by every submission.
type Layout struct {
	Slots []Slot `yaml:"slots" json:"slots"`
}

// DefaultLayout returns the nine-question exam layout: five answers in the
// Stock sheet, three in Metro1 and one free-text answer in Metro2.
func DefaultLayout() *Layout {
	return &Layout{Slots: []Slot{
		{Label: "1", Sheet: "Stock", Row: 7, Col: 1, Kind: KindCell},
		{Label: "2", Sheet: "Stock", Row: 9, Col: 1, Kind: KindCell},
		{Label: "3", Sheet: "Stock", Row: 11, Col: 1, Kind: KindCell},
		{Label: "4", Sheet: "Stock", Row: 13, Col: 1, Kind: KindCell},
		{Label: "5", Sheet: "Stock", Row: 15, Col: 1, Kind: KindCell},
		{Label: "6", Sheet: "Metro1", Row: 1, Col: 0, Kind: KindCell},
		{Label: "7", Sheet: "Metro1", Row: 3, Col: 0, Kind: KindCell},
		{Label: "8", Sheet: "Metro1", Row: 5, Col: 0, Kind: KindCell},
		{Label: "9", Sheet: "Metro2", Row: 1, Col: 0, Kind: KindRun},
	}}
}

// LoadLayout reads a YAML layout file.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read layout %s: %w", path, err)
	}
	l, err := ParseLayout(data)
	if err != nil {
		return nil, fmt.Errorf("invalid layout %s: %w", path, err)
	}
	return l, nil
}

// ParseLayout decodes and validates a YAML layout. Missing labels default to
// the 1-based slot number and a missing kind to "cell".
func ParseLayout(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, err
	}
	for i := range l.Slots {
		if l.Slots[i].Label == "" {
			l.Slots[i].Label = fmt.Sprintf("%d", i+1)
		}
		if l.Slots[i].Kind == "" {
			l.Slots[i].Kind = KindCell
		}
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Validate checks that the layout can be evaluated.
func (l *Layout) Validate() error {
	if len(l.Slots) == 0 {
		return fmt.Errorf("layout has no slots")
	}
	for i, s := range l.Slots {
		switch {
		case s.Sheet == "":
			return fmt.Errorf("slot %d: sheet name is required", i+1)
		case s.Row < 0 || s.Col < 0:
			return fmt.Errorf("slot %d: row and col must be >= 0, got (%d, %d)", i+1, s.Row, s.Col)
		case s.Kind != KindCell && s.Kind != KindRun:
			return fmt.Errorf("slot %d: unknown kind %q — use cell or run", i+1, s.Kind)
		}
	}
	return nil
}

// Marshal encodes the layout as YAML.
func (l *Layout) Marshal() ([]byte, error) {
	return yaml.Marshal(l)
}

// Labels returns the slot labels in order.
func (l *Layout) Labels() []string {
	out := make([]string, len(l.Slots))
	for i, s := range l.Slots {
		out[i] = s.Label
	}
	return out
}

// SheetNames returns each sheet the layout reads, in first-use order.
func (l *Layout) SheetNames() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range l.Slots {
		if !seen[s.Sheet] {
			seen[s.Sheet] = true
			out = append(out, s.Sheet)
		}
	}
	return out
}
