package merge

import "fmt"

// MalformedFieldError indicates a merge-field instruction whose text lacks
// the expected delimiter, so no field name could be derived.
type MalformedFieldError struct {
	Instr string
}

func (e *MalformedFieldError) Error() string {
	return fmt.Sprintf("malformed merge field: no field name in instruction %q", e.Instr)
}

// FieldNotFoundError indicates the resolver has no value for a field name.
type FieldNotFoundError struct {
	Field string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("merge field %q not found", e.Field)
}
