// Package limiter narrows record output to a window selected with
// --limit, --offset, and --tail.
package limiter

import (
	"fmt"
	"sort"
)

// Config holds the record-limiting parameters.
type Config struct {
	Limit  int // Show only this many records (0 = unlimited)
	Offset int // Skip the first N records (0 = no skip)
	Tail   int // Show only the last N records (0 = disabled); mutually exclusive with Limit
}

// Validate checks for conflicting flag combinations and returns an error if invalid.
// Rules:
// - Limit and Tail are mutually exclusive
// - If Tail is set, Offset is ignored
// - All numeric values must be non-negative
func (c Config) Validate() error {
	if c.Limit < 0 {
		return fmt.Errorf("--limit must be non-negative, got %d", c.Limit)
	}
	if c.Offset < 0 {
		return fmt.Errorf("--offset must be non-negative, got %d", c.Offset)
	}
	if c.Tail < 0 {
		return fmt.Errorf("--tail must be non-negative, got %d", c.Tail)
	}

	if c.Limit > 0 && c.Tail > 0 {
		return fmt.Errorf("--limit and --tail are mutually exclusive")
	}

	return nil
}

// IsActive returns true if any limiting is configured.
func (c Config) IsActive() bool {
	return c.Limit > 0 || c.Offset > 0 || c.Tail > 0
}

// window computes the [start, end) slice bounds for a collection of the
// given length.
func (c Config) window(length int) (int, int) {
	if c.Tail > 0 {
		start := length - c.Tail
		if start < 0 {
			start = 0
		}
		return start, length
	}

	start := c.Offset
	if start > length {
		start = length
	}

	end := length
	if c.Limit > 0 {
		end = start + c.Limit
		if end > length {
			end = length
		}
	}

	if start > end {
		start = end
	}
	return start, end
}

// Apply applies the limiting configuration to the given data.
// Handles arrays and maps; returns the limited subset.
// For maps, uses stable key ordering (sorted keys).
func (c Config) Apply(data interface{}) interface{} {
	if !c.IsActive() {
		return data
	}

	switch v := data.(type) {
	case []interface{}:
		start, end := c.window(len(v))
		return v[start:end]
	case map[string]interface{}:
		return c.applyToMap(v)
	default:
		// Scalars pass through unchanged.
		return data
	}
}

// ApplyToRows limits pre-extracted table rows. The header row is the
// caller's concern; only data rows are passed here.
func (c Config) ApplyToRows(rows [][]string) [][]string {
	if !c.IsActive() {
		return rows
	}
	start, end := c.window(len(rows))
	return rows[start:end]
}

// applyToMap limits a map by sorting its keys, windowing them, and
// rebuilding a map from the surviving keys.
func (c Config) applyToMap(m map[string]interface{}) interface{} {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start, end := c.window(len(keys))
	keys = keys[start:end]

	result := make(map[string]interface{})
	for _, k := range keys {
		result[k] = m[k]
	}
	return result
}
