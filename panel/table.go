package panel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

const maxColumns = 10

var (
	scheduleColumns   = []string{"course_code", "code", "course_name", "name", "day", "start_time", "end_time", "location", "professor", "professor_name"}
	reportCardColumns = []string{"term", "term_name", "course_code", "course_name", "course", "units", "grade", "score", "status", "result"}
)

// Table is a list of records whose columns are not known in advance
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// row keeps the keys of a JSON object in the order they were sent
type row struct {
	keys   []string
	values map[string]json.RawMessage
}

func parseRow(raw json.RawMessage) (row, error) {
	r := row{values: map[string]json.RawMessage{}}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return r, fmt.Errorf("failed to read row: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return r, fmt.Errorf("row is not an object")
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return r, fmt.Errorf("failed to read key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return r, fmt.Errorf("unexpected key %v", tok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return r, fmt.Errorf("failed to read value of %s: %w", key, err)
		}
		if _, seen := r.values[key]; !seen {
			r.keys = append(r.keys, key)
		}
		r.values[key] = value
	}

	return r, nil
}

// parseRows reads an array of objects, skipping entries that are not objects
func parseRows(raw json.RawMessage) ([]row, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode rows: %w", err)
	}

	rows := make([]row, 0, len(items))
	for _, item := range items {
		trimmed := bytes.TrimSpace(item)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			continue
		}
		r, err := parseRow(trimmed)
		if err != nil {
			return nil, err
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// inferColumns puts the preferred keys first, then the rest in the order first seen
func inferColumns(rows []row, preferred []string) []string {
	seen := map[string]bool{}
	var all []string
	for _, r := range rows {
		for _, k := range r.keys {
			if !seen[k] {
				seen[k] = true
				all = append(all, k)
			}
		}
	}

	columns := make([]string, 0, len(all))
	used := map[string]bool{}
	for _, k := range preferred {
		if seen[k] {
			columns = append(columns, k)
			used[k] = true
		}
	}
	for _, k := range all {
		if !used[k] {
			columns = append(columns, k)
		}
	}

	if len(columns) > maxColumns {
		columns = columns[:maxColumns]
	}
	return columns
}

func buildTable(rows []row, preferred []string) Table {
	t := Table{Columns: inferColumns(rows, preferred), Rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		cells := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			cells[i] = cell(r.values[col])
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// cell renders a JSON value for display. Objects show their name when they have one.
func cell(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "-"
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	case '{':
		var named struct {
			Name     string `json:"name"`
			FullName string `json:"full_name"`
			Code     string `json:"code"`
		}
		if err := json.Unmarshal(raw, &named); err == nil {
			switch {
			case named.Name != "":
				return named.Name
			case named.FullName != "":
				return named.FullName
			case named.Code != "":
				return named.Code
			}
		}
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			if f, err := strconv.ParseFloat(n.String(), 64); err == nil {
				return strconv.FormatFloat(f, 'f', -1, 64)
			}
		}
	}

	return string(raw)
}
