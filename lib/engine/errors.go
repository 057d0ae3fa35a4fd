package engine

import "fmt"

// MissingFieldError is returned by document parsing when a required field is
// absent from the document.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("document is missing required field [%s]", e.Field)
}

// ParseError is returned by document parsing when a field is structurally
// invalid (wrong JSON type) or when the document carries a field outside the
// schema.
type ParseError struct {
	Field string
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid document field [%s]: %s", e.Field, e.Msg)
}

// DiffMismatchError is returned when a diff is applied to a different base
// value than the one it was computed against.
type DiffMismatchError struct {
	Expected uint64
	Actual   uint64
}

func (e *DiffMismatchError) Error() string {
	return fmt.Sprintf("diff computed against base %016x cannot be applied to base %016x", e.Expected, e.Actual)
}
