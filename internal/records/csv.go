package records

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVSource reads records from CSV. The first row declares field names; a
// header may carry a format suffix ("notes:markdown", "bio:html") and those
// columns are flattened to plain text while loading.
type CSVSource struct{}

func (s *CSVSource) Parse(r io.Reader) (*Set, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("parse csv: missing header row")
	}

	header := rows[0]
	fields := make([]string, len(header))
	formats := make([]string, len(header))
	for i, decl := range header {
		fields[i], formats[i] = splitFieldFormat(decl)
		if fields[i] == "" {
			return nil, fmt.Errorf("parse csv: empty field name in column %d", i+1)
		}
	}

	set := &Set{Fields: fields}
	for n, row := range rows[1:] {
		if len(row) != len(fields) {
			return nil, fmt.Errorf("parse csv: row %d has %d values, header has %d", n+2, len(row), len(fields))
		}
		rec := make(Record, len(fields))
		for i, cell := range row {
			rec[fields[i]] = flattenValue(cell, formats[i])
		}
		set.Records = append(set.Records, rec)
	}
	return set, nil
}
