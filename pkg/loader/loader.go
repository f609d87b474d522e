// Package loader parses serialized record trees (JSON, NDJSON, YAML, TOML,
// CSV) into the generic map/slice shapes the delver traverses. Formats are
// auto-detected from content, with file extensions taking precedence when
// known.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-logr/logr"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// LoadData loads structured data from a string, auto-detecting format.
// Supports:
// - Single JSON object/array
// - Newline-delimited JSON (NDJSON): one JSON object per line
// - YAML: single document or multi-document (separated by ---)
// - TOML
// - CSV with a header row (each data row becomes a record object)
//
// All formats return a []any where each element is a parsed document/record.
// For single-document inputs, the slice contains one element.
func LoadData(input string) ([]any, error) {
	return LoadDataWithLogger(input, logr.Discard())
}

// LoadDataWithLogger is LoadData with a logger for recording which parser
// was chosen and any fallback attempts.
func LoadDataWithLogger(input string, lgr logr.Logger) ([]any, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty input")
	}

	// Multi-document YAML first (most restrictive marker)
	if strings.Contains(input, "\n---") || strings.HasPrefix(input, "---") {
		lgr.V(1).Info("detected multi-document YAML input")
		return loadMultiDocYAML(input)
	}

	lines := strings.Split(input, "\n")
	if len(lines) > 1 && isLikelyNDJSON(lines) {
		lgr.V(1).Info("detected NDJSON input", "lines", len(lines))
		return loadNDJSON(input)
	}

	// TOML before JSON - TOML [section] headers look like JSON arrays
	// but are distinct (e.g., "[server]" vs "[1, 2, 3]")
	if isLikelyTOML(input) {
		lgr.V(1).Info("detected TOML input")
		return loadTOML(input)
	}

	if strings.HasPrefix(input, "{") || strings.HasPrefix(input, "[") {
		if docs, err := loadJSON(input); err == nil {
			return docs, nil
		}
		lgr.V(1).Info("JSON parse failed, falling back to YAML")
	}

	if IsLikelyCSV(input) {
		lgr.V(1).Info("detected CSV input")
		return LoadCSV(input)
	}

	// Fall back to single YAML document (YAML is a superset of JSON scalars)
	return loadYAML(input)
}

// LoadRoot parses input into a single root node. Multi-document inputs are
// returned as a slice.
func LoadRoot(input string) (any, error) {
	return LoadRootWithLogger(input, logr.Discard())
}

// LoadRootWithLogger is LoadRoot with a logger for parse diagnostics.
func LoadRootWithLogger(input string, lgr logr.Logger) (any, error) {
	results, err := LoadDataWithLogger(input, lgr)
	if err != nil {
		return nil, err
	}
	if len(results) == 1 {
		return results[0], nil
	}
	return results, nil
}

// LoadRootBytes parses input bytes into a single root node.
func LoadRootBytes(data []byte) (any, error) {
	return LoadRoot(string(data))
}

// LoadRootBytesWithLogger is LoadRootBytes with a logger for parse
// diagnostics.
func LoadRootBytesWithLogger(data []byte, lgr logr.Logger) (any, error) {
	return LoadRootWithLogger(string(data), lgr)
}

// LoadFile reads a file and parses it into a single root node. Known
// extensions (.json, .yaml, .yml, .toml, .csv) dispatch directly; anything
// else goes through content auto-detection.
func LoadFile(path string) (any, error) {
	return LoadFileWithLogger(path, logr.Discard())
}

// LoadFileWithLogger is LoadFile with a logger for recording extension
// dispatch and fallback parse attempts.
func LoadFileWithLogger(path string, lgr logr.Logger) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		lgr.V(1).Info("loading by extension", "ext", ext, "path", path)
		docs, err := loadJSON(strings.TrimSpace(string(data)))
		if err != nil {
			return nil, err
		}
		return singleOrSlice(docs), nil
	case ".toml":
		lgr.V(1).Info("loading by extension", "ext", ext, "path", path)
		docs, err := loadTOML(string(data))
		if err != nil {
			return nil, err
		}
		return singleOrSlice(docs), nil
	case ".csv":
		lgr.V(1).Info("loading by extension", "ext", ext, "path", path)
		docs, err := LoadCSV(string(data))
		if err != nil {
			return nil, err
		}
		// A CSV file is inherently a record sequence; keep it a slice.
		out := make([]any, len(docs))
		copy(out, docs)
		return out, nil
	}

	return LoadRootBytesWithLogger(data, lgr)
}

// LoadObject accepts an already parsed object (maps, slices, structs, etc.).
// Strings and byte slices are parsed using the existing loaders for format
// detection. Custom structs are converted to maps via JSON marshaling so the
// result is addressable by path segments.
func LoadObject(value any) (any, error) {
	if value == nil {
		return nil, fmt.Errorf("object input is nil")
	}

	rv := reflect.ValueOf(value)
	if (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Slice || rv.Kind() == reflect.Map || rv.Kind() == reflect.Interface || rv.Kind() == reflect.Func || rv.Kind() == reflect.Chan) && rv.IsNil() {
		return nil, fmt.Errorf("object input is nil")
	}

	switch v := value.(type) {
	case string:
		return LoadRoot(v)
	case []byte:
		return LoadRootBytes(v)
	default:
		return normalize(value)
	}
}

// normalize converts arbitrary Go values into JSON-compatible map/slice
// shapes. Standard containers pass through; structs round-trip through JSON
// so tags are respected.
func normalize(value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	rv := reflect.ValueOf(value)
	kind := rv.Kind()

	if kind == reflect.Ptr {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
		kind = rv.Kind()
	}

	switch kind {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.String:
		return value, nil
	case reflect.Map:
		return value, nil
	case reflect.Slice, reflect.Array:
		length := rv.Len()
		normalized := make([]any, length)
		for i := 0; i < length; i++ {
			val, err := normalize(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("element [%d]: %w", i, err)
			}
			normalized[i] = val
		}
		return normalized, nil
	case reflect.Interface:
		return normalize(rv.Interface())
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("cannot marshal custom type to JSON: %w", err)
		}
		var result any
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("cannot unmarshal to standard type: %w", err)
		}
		return result, nil
	}
}

func singleOrSlice(docs []any) any {
	if len(docs) == 1 {
		return docs[0]
	}
	return docs
}

// loadJSON parses a single JSON object or array and wraps it in []any
func loadJSON(input string) ([]any, error) {
	var data any
	if err := json.Unmarshal([]byte(input), &data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return []any{data}, nil
}

// loadYAML parses a single YAML document and wraps it in []any
func loadYAML(input string) ([]any, error) {
	var data any
	if err := yaml.Unmarshal([]byte(input), &data); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return []any{data}, nil
}

// loadMultiDocYAML parses YAML with multiple documents (separated by ---)
func loadMultiDocYAML(input string) ([]any, error) {
	var results []any
	decoder := yaml.NewDecoder(strings.NewReader(input))

	for {
		var doc any
		if err := decoder.Decode(&doc); err != nil {
			if err.Error() == "EOF" {
				break
			}
			return nil, fmt.Errorf("invalid multi-document YAML: %w", err)
		}
		if doc != nil {
			results = append(results, doc)
		}
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("no documents found in multi-document YAML")
	}
	return results, nil
}

// loadNDJSON parses newline-delimited JSON. Lines that are not valid JSON
// are treated as plain strings.
func loadNDJSON(input string) ([]any, error) {
	lines := strings.Split(input, "\n")
	results := make([]any, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var obj any
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			results = append(results, line)
			continue
		}
		results = append(results, obj)
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("no data found in input")
	}
	return results, nil
}

// isLikelyNDJSON heuristic: a majority of non-empty lines must start with
// '{' or '[' to be classified as NDJSON. This prevents YAML files from being
// misclassified.
func isLikelyNDJSON(lines []string) bool {
	jsonCount := 0
	nonEmptyCount := 0

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		nonEmptyCount++

		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			jsonCount++
		}
	}

	return nonEmptyCount > 1 && jsonCount > nonEmptyCount/2
}

// isLikelyTOML heuristic: looks for [section] headers or key = value lines
// that are distinct from YAML syntax.
func isLikelyTOML(input string) bool {
	lines := strings.Split(input, "\n")

	// [section], [[array]], ["table name"], [database.credentials]
	// Excludes JSON arrays like [1, 2, 3] which have spaces/commas without quotes
	sectionPattern := regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)

	// key = value (not key: value which is YAML)
	keyValuePattern := regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)

	sectionCount := 0
	keyValueCount := 0
	nonEmptyCount := 0

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmptyCount++

		if sectionPattern.MatchString(line) {
			sectionCount++
		}
		if keyValuePattern.MatchString(line) {
			keyValueCount++
		}
	}

	if sectionCount > 0 {
		return true
	}
	if nonEmptyCount > 0 && keyValueCount > nonEmptyCount/2 {
		return true
	}
	return false
}

// loadTOML parses TOML content and wraps it in []any
func loadTOML(input string) ([]any, error) {
	var data any
	if err := toml.Unmarshal([]byte(input), &data); err != nil {
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}
	return []any{data}, nil
}
