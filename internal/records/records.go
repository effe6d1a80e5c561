// Package records loads merge data sets from tabular files. Each record is
// one row of field-name to replacement-value pairs; one record drives one
// merged document.
package records

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Record is one row of merge data: field name to plain-text replacement
// value. Values are flattened to plain text at load time; a document text
// node carries no markup.
type Record map[string]string

// Set is an ordered collection of records sharing one field list. Record
// order is preserved end to end: it is the merge order and therefore the
// composition order of the output.
type Set struct {
	Fields  []string
	Records []Record
}

// Source parses a record file into a Set.
type Source interface {
	Parse(r io.Reader) (*Set, error)
}

// ForFile returns the record source for a filename by extension.
func ForFile(filename string) (Source, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return &CSVSource{}, nil
	case ".json":
		return &JSONSource{}, nil
	default:
		return nil, fmt.Errorf("unsupported record file extension: %s", ext)
	}
}

// IsSupportedExtension checks whether a record file extension is supported.
func IsSupportedExtension(filename string) bool {
	_, err := ForFile(filename)
	return err == nil
}

// splitFieldFormat splits a field declaration of the form "name:format"
// into its parts. A missing or unrecognized format means plain text.
func splitFieldFormat(decl string) (name, format string) {
	if idx := strings.LastIndex(decl, ":"); idx >= 0 {
		switch f := strings.TrimSpace(decl[idx+1:]); f {
		case "markdown", "md", "html", "text":
			return strings.TrimSpace(decl[:idx]), f
		}
	}
	return strings.TrimSpace(decl), ""
}

// flattenValue reduces a declared-format value to plain text.
func flattenValue(value, format string) string {
	switch format {
	case "markdown", "md":
		return flattenMarkdown(value)
	case "html":
		return flattenHTML(value)
	default:
		return value
	}
}
