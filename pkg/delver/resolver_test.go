package delver

import (
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureReporter returns a logger that records every emitted diagnostic line.
func captureReporter() (logr.Logger, *[]string) {
	lines := &[]string{}
	lgr := funcr.New(func(_, args string) {
		*lines = append(*lines, args)
	}, funcr.Options{})
	return lgr, lines
}

func TestResolveEmptyPathIdentity(t *testing.T) {
	r := New()
	roots := []Node{
		Scalar("x"),
		FromValue(map[string]any{"a": 1}),
		FromValue([]any{1, 2, 3}),
		Null(),
		Absent(),
	}
	for _, root := range roots {
		got := r.Resolve(root, Path{})
		assert.Equal(t, root.Interface(), got.Interface())
		assert.Equal(t, root.Kind(), got.Kind())
	}
}

func TestResolveObjectChain(t *testing.T) {
	// root = {a: {b: "x"}}, path = a/b -> "x"
	root := FromValue(map[string]any{
		"a": map[string]any{"b": "x"},
	})
	lgr, lines := captureReporter()
	r := New(WithReporter(lgr))

	got := r.Resolve(root, Path{"a", "b"})
	assert.Equal(t, "x", got.Interface())
	assert.Empty(t, *lines)
}

func TestResolveSingleArrayBroadcast(t *testing.T) {
	// root = {a: [{b: 1}, {b: 2}]}, path = a/b -> [1, 2]
	root := FromValue(map[string]any{
		"a": []any{
			map[string]any{"b": 1},
			map[string]any{"b": 2},
		},
	})
	r := New()

	got := r.Resolve(root, Path{"a", "b"})
	require.Equal(t, KindArray, got.Kind())
	assert.Equal(t, []any{1, 2}, got.Interface())
}

func TestResolveNestedArrayBroadcast(t *testing.T) {
	// Two array levels crossed, so the result nests two deep:
	// {a: [{b: [{c: 1}, {c: 2}]}, {b: [{c: 3}]}]} with a/b/c -> [[1, 2], [3]]
	root := FromValue(map[string]any{
		"a": []any{
			map[string]any{"b": []any{
				map[string]any{"c": 1},
				map[string]any{"c": 2},
			}},
			map[string]any{"b": []any{
				map[string]any{"c": 3},
			}},
		},
	})
	r := New()

	got := r.Resolve(root, Path{"a", "b", "c"})
	assert.Equal(t, []any{[]any{1, 2}, []any{3}}, got.Interface())
}

func TestResolveBroadcastLaw(t *testing.T) {
	// Resolving an array equals resolving each element independently.
	elems := []any{
		map[string]any{"b": "first"},
		map[string]any{"b": "second"},
		map[string]any{"c": "odd one out"},
	}
	root := FromValue(elems)
	path := Path{"b"}
	r := New()

	got := r.Resolve(root, path)
	require.Equal(t, KindArray, got.Kind())
	require.Equal(t, len(elems), got.Len())
	for i, elem := range got.Elems() {
		want := r.Resolve(FromValue(elems[i]), path)
		assert.Equal(t, want.Interface(), elem.Interface())
		assert.Equal(t, want.IsAbsent(), elem.IsAbsent())
	}
}

func TestResolveFalsyValueQuirk(t *testing.T) {
	// A key holding a falsy value resolves as missing under the default
	// loose-presence rule, with exactly one diagnostic per branch.
	tests := []struct {
		name  string
		value any
	}{
		{name: "zero int", value: 0},
		{name: "zero float", value: 0.0},
		{name: "empty string", value: ""},
		{name: "false", value: false},
		{name: "null", value: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := FromValue(map[string]any{"a": tt.value})
			lgr, lines := captureReporter()
			r := New(WithReporter(lgr))

			got := r.Resolve(root, Path{"a"})
			assert.True(t, got.IsAbsent())
			require.Len(t, *lines, 1)
			assert.Contains(t, (*lines)[0], `"segment"="a"`)
		})
	}
}

func TestResolveStrictPresence(t *testing.T) {
	root := FromValue(map[string]any{"a": 0, "b": ""})
	lgr, lines := captureReporter()
	r := New(WithReporter(lgr), WithStrictPresence())

	got := r.Resolve(root, Path{"a"})
	assert.Equal(t, 0, got.Interface())
	assert.False(t, got.IsAbsent())

	got = r.Resolve(root, Path{"b"})
	assert.Equal(t, "", got.Interface())
	assert.False(t, got.IsAbsent())

	// Genuinely missing keys still warn in strict mode.
	got = r.Resolve(root, Path{"c"})
	assert.True(t, got.IsAbsent())
	assert.Len(t, *lines, 1)
}

func TestResolveMissingPropertyDiagnostic(t *testing.T) {
	// {a: {b: 1}} with a/c -> absent, diagnostic cites segment "c" at index 1.
	root := FromValue(map[string]any{
		"a": map[string]any{"b": 1},
	})
	lgr, lines := captureReporter()
	r := New(WithReporter(lgr))

	got := r.Resolve(root, Path{"a", "c"})
	assert.True(t, got.IsAbsent())
	require.Len(t, *lines, 1)
	line := (*lines)[0]
	assert.Contains(t, line, `"segment"="c"`)
	assert.Contains(t, line, `"segment_index"=1`)
	assert.Contains(t, line, `"path"="a/c"`)
}

func TestResolveScalarParentDiagnostic(t *testing.T) {
	root := FromValue(map[string]any{"a": "leaf"})
	lgr, lines := captureReporter()
	r := New(WithReporter(lgr))

	got := r.Resolve(root, Path{"a", "b"})
	assert.True(t, got.IsAbsent())
	require.Len(t, *lines, 1)
	assert.Contains(t, (*lines)[0], `"segment"="b"`)
}

func TestResolveAbsentParentStaysQuiet(t *testing.T) {
	lgr, lines := captureReporter()
	r := New(WithReporter(lgr))

	got := r.Resolve(Absent(), Path{"a", "b"})
	assert.True(t, got.IsAbsent())
	assert.Empty(t, *lines)
}

func TestResolveSoftFailureDoesNotHaltSiblings(t *testing.T) {
	// The middle element lacks the key; its neighbors still resolve.
	root := FromValue([]any{
		map[string]any{"name": "a"},
		map[string]any{"other": true},
		map[string]any{"name": "c"},
	})
	lgr, lines := captureReporter()
	r := New(WithReporter(lgr))

	got := r.Resolve(root, Path{"name"})
	require.Equal(t, 3, got.Len())
	assert.Equal(t, "a", got.Elems()[0].Interface())
	assert.True(t, got.Elems()[1].IsAbsent())
	assert.Equal(t, "c", got.Elems()[2].Interface())
	assert.Len(t, *lines, 1)
}

func TestResolvePathCopyIsolation(t *testing.T) {
	// Every element of a fan-out must see the full remaining path: resolving
	// element 1 after element 0 behaves as if element 0 had never run.
	elem := map[string]any{"b": map[string]any{"c": "deep"}}
	root := FromValue([]any{elem, elem})
	path := Path{"b", "c"}
	r := New()

	got := r.Resolve(root, path)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, "deep", got.Elems()[0].Interface())
	assert.Equal(t, "deep", got.Elems()[1].Interface())
	// The caller's path is untouched.
	assert.Equal(t, Path{"b", "c"}, path)

	solo := r.Resolve(FromValue(elem), path)
	assert.Equal(t, solo.Interface(), got.Elems()[1].Interface())
}

func TestResolveAll(t *testing.T) {
	roots := FromValues([]any{
		map[string]any{"a": 1},
		map[string]any{"a": 2},
	})
	r := New()

	results := r.ResolveAll(roots, Path{"a"})
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Interface())
	assert.Equal(t, 2, results[1].Interface())
}

func TestResolveAllIndependentDiagnostics(t *testing.T) {
	roots := FromValues([]any{
		map[string]any{"a": 1},
		map[string]any{},
		map[string]any{"a": 3},
	})
	lgr, lines := captureReporter()
	r := New(WithReporter(lgr))

	results := r.ResolveAll(roots, Path{"a"})
	require.Len(t, results, 3)
	assert.False(t, results[0].IsAbsent())
	assert.True(t, results[1].IsAbsent())
	assert.False(t, results[2].IsAbsent())
	assert.Len(t, *lines, 1)
}

func TestResolveRecordFeed(t *testing.T) {
	// The shape the tool was built for: an API feed of records, each
	// interrogated with the same nested field path.
	feed := []any{
		map[string]any{
			"properties": map[string]any{"title": "Scoreboard"},
			"data": []any{
				map[string]any{"rowData": []any{
					map[string]any{"formattedValue": "A1"},
					map[string]any{"formattedValue": "A2"},
				}},
			},
		},
		map[string]any{
			"properties": map[string]any{"title": "Archive"},
			"data":       []any{},
		},
	}
	r := New()
	roots := FromValues(feed)

	titles := r.ResolveAll(roots, SplitPath("properties/title", "/"))
	assert.Equal(t, "Scoreboard", titles[0].Interface())
	assert.Equal(t, "Archive", titles[1].Interface())

	values := r.ResolveAll(roots, SplitPath("data/rowData/formattedValue", "/"))
	assert.Equal(t, []any{[]any{"A1", "A2"}}, values[0].Interface())
	assert.Equal(t, []any{}, values[1].Interface())
}

func TestDiagnosticLinesAreStructured(t *testing.T) {
	root := FromValue(map[string]any{"a": map[string]any{"b": 1}})
	lgr, lines := captureReporter()
	r := New(WithReporter(lgr))

	r.Resolve(root, Path{"a", "missing"})
	require.Len(t, *lines, 1)
	for _, key := range []string{"segment", "segment_index", "path", "parent"} {
		assert.True(t, strings.Contains((*lines)[0], `"`+key+`"`), "missing %q in %s", key, (*lines)[0])
	}
}
