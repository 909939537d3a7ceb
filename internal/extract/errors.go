package extract

import "fmt"

// StructuralError means a submission could not be read as a workbook with
// the expected sheets. It blanks the whole answer set.
type StructuralError struct {
	Path string
	Err  error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("could not extract answers from %s: %v", e.Path, e.Err)
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}
