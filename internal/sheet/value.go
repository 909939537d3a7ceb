package sheet

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies what a Value holds.
type Kind int

const (
	// KindAbsent marks a position with nothing usable in it.
	KindAbsent Kind = iota
	// KindText is a string cell.
	KindText
	// KindNumber is a numeric (or date serial) cell.
	KindNumber
	// KindBool is a boolean cell.
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "absent"
	}
}

// Value is a single scalar read from a sheet. The zero Value is Absent,
// which is distinct from Text("") and from Number(0).
type Value struct {
	kind Kind
	text string
	num  float64
	b    bool
}

// Absent returns the marker for "nothing present at this coordinate".
func Absent() Value { return Value{} }

// Text returns a text value. An empty string is still present.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Number returns a numeric value. display is the formatted text shown by the
// spreadsheet application; when empty the shortest decimal form of n is used.
func Number(n float64, display string) Value {
	if display == "" {
		display = strconv.FormatFloat(n, 'f', -1, 64)
	}
	return Value{kind: KindNumber, text: display, num: n}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	text := "FALSE"
	if b {
		text = "TRUE"
	}
	return Value{kind: KindBool, text: text, b: b}
}

// Kind reports what the value holds.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether v is the Absent marker.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// String returns the text representation of v. Absent renders as "".
func (v Value) String() string { return v.text }

// Float returns the numeric content of v, if it is a number.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Interface returns v as a plain Go value: nil, string, float64 or bool.
func (v Value) Interface() any {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	default:
		return nil
	}
}

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(o Value) bool {
	return v == o
}

// MarshalJSON encodes Absent as null and other values as their JSON scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = Absent()
	case string:
		*v = Text(x)
	case float64:
		*v = Number(x, "")
	case bool:
		*v = Bool(x)
	default:
		return fmt.Errorf("sheet value must be a JSON scalar, got %s", data)
	}
	return nil
}
