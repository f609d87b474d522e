package formatter

import (
	"bytes"
	"sort"
	"strings"
)

// escapeCSVField escapes a CSV field according to RFC 4180. Fields containing
// commas, double quotes, line breaks, or spaces are quoted; embedded quotes
// are doubled.
func escapeCSVField(field string) string {
	needsQuoting := strings.Contains(field, ",") ||
		strings.Contains(field, "\"") ||
		strings.Contains(field, "\n") ||
		strings.Contains(field, "\r") ||
		strings.Contains(field, " ") // not RFC required, quoted for readability

	if needsQuoting {
		escaped := strings.ReplaceAll(field, `"`, `""`)
		return `"` + escaped + `"`
	}
	return field
}

func writeCSVRow(buf *bytes.Buffer, fields []string) {
	for i, field := range fields {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString(escapeCSVField(field))
	}
	buf.WriteString("\n")
}

// FormatRowsAsCSV renders a header plus precomputed string rows. An empty
// header is skipped.
func FormatRowsAsCSV(header []string, rows [][]string) string {
	var buf bytes.Buffer
	if len(header) > 0 {
		writeCSVRow(&buf, header)
	}
	for _, row := range rows {
		writeCSVRow(&buf, row)
	}
	return buf.String()
}

// FormatAsCSV converts an arbitrary node to CSV: arrays of objects become
// header+rows keyed by the union of object keys, simple arrays a single
// "value" column, maps key/value pairs, and scalars a lone value.
func FormatAsCSV(node any) string {
	var buf bytes.Buffer

	switch v := node.(type) {
	case []any:
		if len(v) == 0 {
			return ""
		}
		if _, ok := v[0].(map[string]any); ok {
			keySet := make(map[string]bool)
			for _, elem := range v {
				if obj, ok := elem.(map[string]any); ok {
					for k := range obj {
						keySet[k] = true
					}
				}
			}
			keys := make([]string, 0, len(keySet))
			for k := range keySet {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			writeCSVRow(&buf, keys)
			for _, elem := range v {
				if obj, ok := elem.(map[string]any); ok {
					row := make([]string, len(keys))
					for i, key := range keys {
						if val, ok := obj[key]; ok {
							row[i] = Stringify(val)
						}
					}
					writeCSVRow(&buf, row)
				}
			}
		} else {
			writeCSVRow(&buf, []string{"value"})
			for _, elem := range v {
				writeCSVRow(&buf, []string{Stringify(elem)})
			}
		}
	case map[string]any:
		writeCSVRow(&buf, []string{"key", "value"})
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			writeCSVRow(&buf, []string{k, Stringify(v[k])})
		}
	default:
		writeCSVRow(&buf, []string{"value"})
		writeCSVRow(&buf, []string{Stringify(node)})
	}

	return buf.String()
}
