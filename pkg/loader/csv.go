package loader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// LoadCSV converts CSV data into record objects, one per data row, keyed by
// the header row. This makes a spreadsheet export addressable by the same
// field paths as any other record feed.
func LoadCSV(input string) ([]any, error) {
	reader := csv.NewReader(bytes.NewReader([]byte(input)))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return []any{}, nil
	}
	headers := records[0]
	rows := make([]any, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		row := make(map[string]any, len(headers))
		for j, header := range headers {
			value := ""
			if j < len(records[i]) {
				value = records[i][j]
			}
			row[header] = value
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// IsLikelyCSV heuristic: multiple lines, a multi-column first row, a
// consistent column count on the second row, and no JSON/YAML markers.
// Extension-based dispatch should be preferred where available.
func IsLikelyCSV(input string) bool {
	lines := strings.Split(strings.TrimSpace(input), "\n")
	if len(lines) < 2 {
		return false
	}
	first := strings.TrimSpace(lines[0])
	if first == "" || strings.ContainsAny(first[:1], "{[-#") {
		return false
	}
	// "key: value" on the first line reads as YAML, not a CSV header.
	if strings.Contains(first, ": ") {
		return false
	}

	reader := csv.NewReader(strings.NewReader(input))
	header, err := reader.Read()
	if err != nil || len(header) < 2 {
		return false
	}
	second, err := reader.Read()
	if err != nil || len(second) != len(header) {
		return false
	}
	return true
}
