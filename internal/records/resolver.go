package records

import "github.com/dgallion1/docmerge/internal/merge"

// Resolver adapts a single Record to the merge engine's lookup contract.
type Resolver struct {
	rec Record
}

// NewResolver returns a resolver backed by one record.
func NewResolver(rec Record) *Resolver {
	return &Resolver{rec: rec}
}

// Resolve returns the record's value for the field, or *FieldNotFoundError
// when the record has no such column.
func (r *Resolver) Resolve(field string) (string, error) {
	value, ok := r.rec[field]
	if !ok {
		return "", &merge.FieldNotFoundError{Field: field}
	}
	return value, nil
}
