package sheet

// defaultNAValues are the cell texts read as "not a number", matching what
// common data-frame readers treat as missing.
var defaultNAValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None", "n/a",
	"nan", "null",
}

// NAValues is the set of cell texts treated as absent. The empty string is
// always a member.
type NAValues map[string]struct{}

// DefaultNAValues returns a fresh copy of the default marker set.
func DefaultNAValues() NAValues {
	return NewNAValues(defaultNAValues)
}

// NewNAValues builds a marker set from a list. Blank is added regardless.
func NewNAValues(values []string) NAValues {
	na := make(NAValues, len(values)+1)
	na[""] = struct{}{}
	for _, v := range values {
		na[v] = struct{}{}
	}
	return na
}

// Is reports whether s marks a missing value. A nil set only matches blank.
func (na NAValues) Is(s string) bool {
	if s == "" {
		return true
	}
	_, ok := na[s]
	return ok
}

// List returns the markers in the set, blank excluded, in no fixed order.
func (na NAValues) List() []string {
	out := make([]string, 0, len(na))
	for k := range na {
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}
