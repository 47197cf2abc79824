package postgres

import "encoding/json"

// marshalStrings encodes a string list for a JSONB column. Nil slices are
// stored as empty arrays so the column stays NOT NULL.
func marshalStrings(s []string) ([]byte, error) {
	if s == nil {
		s = []string{}
	}
	return json.Marshal(s)
}

// marshalMap encodes a modifications map for a JSONB column.
func marshalMap(m map[string]any) ([]byte, error) {
	if m == nil {
		m = map[string]any{}
	}
	return json.Marshal(m)
}

// unmarshalStrings decodes a JSONB array column. Empty arrays come back nil
// so omitempty-tagged fields round-trip cleanly.
func unmarshalStrings(b []byte) ([]string, error) {
	var s []string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	if len(s) == 0 {
		return nil, nil
	}
	return s, nil
}

// unmarshalMap decodes a JSONB object column.
func unmarshalMap(b []byte) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	if len(m) == 0 {
		return nil, nil
	}
	return m, nil
}
