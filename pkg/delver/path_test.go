package delver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitPath(t *testing.T) {
	tests := []struct {
		name  string
		expr  string
		delim string
		want  Path
	}{
		{name: "slash delimited", expr: "a/b/c", delim: "/", want: Path{"a", "b", "c"}},
		{name: "dot delimited", expr: "data.rowData.values", delim: ".", want: Path{"data", "rowData", "values"}},
		{name: "single segment", expr: "a", delim: "/", want: Path{"a"}},
		{name: "empty expression", expr: "", delim: "/", want: Path{}},
		{name: "leading delimiter", expr: "/a/b", delim: "/", want: Path{"a", "b"}},
		{name: "trailing delimiter", expr: "a/b/", delim: "/", want: Path{"a", "b"}},
		{name: "doubled delimiter", expr: "a//b", delim: "/", want: Path{"a", "b"}},
		{name: "empty delimiter falls back to slash", expr: "a/b", delim: "", want: Path{"a", "b"}},
		{name: "segments may contain other punctuation", expr: "a.b/c.d", delim: "/", want: Path{"a.b", "c.d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitPath(tt.expr, tt.delim))
		})
	}
}

func TestPathString(t *testing.T) {
	assert.Equal(t, "a/b/c", Path{"a", "b", "c"}.String())
	assert.Equal(t, "", Path{}.String())
}
