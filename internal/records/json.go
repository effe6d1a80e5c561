package records

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// JSONSource reads records from a JSON array of objects. A value is either a
// plain string or an object of the form {"format": "markdown", "value": "…"}
// for content that needs flattening.
type JSONSource struct{}

func (s *JSONSource) Parse(r io.Reader) (*Set, error) {
	var rows []map[string]json.RawMessage
	dec := json.NewDecoder(r)
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("parse json records: %w", err)
	}

	set := &Set{}
	seen := make(map[string]bool)
	for n, row := range rows {
		rec := make(Record, len(row))
		for name, raw := range row {
			value, err := decodeValue(raw)
			if err != nil {
				return nil, fmt.Errorf("parse json records: record %d field %q: %w", n, name, err)
			}
			rec[name] = value
			if !seen[name] {
				seen[name] = true
				set.Fields = append(set.Fields, name)
			}
		}
		set.Records = append(set.Records, rec)
	}
	sort.Strings(set.Fields)
	return set, nil
}

func decodeValue(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var typed struct {
		Format string `json:"format"`
		Value  string `json:"value"`
	}
	if err := json.Unmarshal(raw, &typed); err != nil {
		return "", fmt.Errorf("value must be a string or {format, value} object")
	}
	return flattenValue(typed.Value, typed.Format), nil
}
