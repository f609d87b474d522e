package delver

import "strings"

// DefaultDelimiter separates segments in path expressions.
const DefaultDelimiter = "/"

// Path is an ordered list of property names describing a traversal route
// through a Node tree. Paths are never mutated by the resolver, so branches
// of a fan-out can share one underlying slice safely.
type Path []string

// SplitPath splits a delimited expression into a Path. Empty segments from
// leading, trailing, or doubled delimiters are dropped. An empty delimiter
// falls back to DefaultDelimiter.
func SplitPath(expr, delim string) Path {
	if delim == "" {
		delim = DefaultDelimiter
	}
	raw := strings.Split(expr, delim)
	segments := make(Path, 0, len(raw))
	for _, seg := range raw {
		if seg == "" {
			continue
		}
		segments = append(segments, seg)
	}
	return segments
}

// String joins the segments with the default delimiter for display and
// diagnostics.
func (p Path) String() string {
	return strings.Join(p, DefaultDelimiter)
}
