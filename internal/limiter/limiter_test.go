package limiter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid limit only",
			cfg:     Config{Limit: 10},
			wantErr: false,
		},
		{
			name:    "valid offset only",
			cfg:     Config{Offset: 5},
			wantErr: false,
		},
		{
			name:    "valid limit and offset",
			cfg:     Config{Limit: 10, Offset: 5},
			wantErr: false,
		},
		{
			name:    "valid tail only",
			cfg:     Config{Tail: 10},
			wantErr: false,
		},
		{
			name:    "tail ignores offset (valid)",
			cfg:     Config{Tail: 10, Offset: 5},
			wantErr: false,
		},
		{
			name:    "limit and tail mutually exclusive",
			cfg:     Config{Limit: 10, Tail: 5},
			wantErr: true,
			errMsg:  "mutually exclusive",
		},
		{
			name:    "negative limit invalid",
			cfg:     Config{Limit: -1},
			wantErr: true,
			errMsg:  "non-negative",
		},
		{
			name:    "negative offset invalid",
			cfg:     Config{Offset: -1},
			wantErr: true,
			errMsg:  "non-negative",
		},
		{
			name:    "negative tail invalid",
			cfg:     Config{Tail: -1},
			wantErr: true,
			errMsg:  "non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfigIsActive(t *testing.T) {
	assert.False(t, Config{}.IsActive())
	assert.True(t, Config{Limit: 1}.IsActive())
	assert.True(t, Config{Offset: 1}.IsActive())
	assert.True(t, Config{Tail: 1}.IsActive())
}

func TestApplyToArray(t *testing.T) {
	data := []interface{}{"a", "b", "c", "d", "e"}

	tests := []struct {
		name string
		cfg  Config
		want []interface{}
	}{
		{
			name: "inactive passes through",
			cfg:  Config{},
			want: []interface{}{"a", "b", "c", "d", "e"},
		},
		{
			name: "limit",
			cfg:  Config{Limit: 2},
			want: []interface{}{"a", "b"},
		},
		{
			name: "offset",
			cfg:  Config{Offset: 3},
			want: []interface{}{"d", "e"},
		},
		{
			name: "limit and offset",
			cfg:  Config{Limit: 2, Offset: 1},
			want: []interface{}{"b", "c"},
		},
		{
			name: "tail",
			cfg:  Config{Tail: 2},
			want: []interface{}{"d", "e"},
		},
		{
			name: "tail larger than data",
			cfg:  Config{Tail: 10},
			want: []interface{}{"a", "b", "c", "d", "e"},
		},
		{
			name: "offset beyond data yields empty",
			cfg:  Config{Offset: 10},
			want: []interface{}{},
		},
		{
			name: "limit beyond data",
			cfg:  Config{Limit: 10},
			want: []interface{}{"a", "b", "c", "d", "e"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cfg.Apply(data)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyToMap(t *testing.T) {
	data := map[string]interface{}{"a": 1, "b": 2, "c": 3, "d": 4}

	got := Config{Limit: 2}.Apply(data)
	assert.Equal(t, map[string]interface{}{"a": 1, "b": 2}, got)

	got = Config{Tail: 1}.Apply(data)
	assert.Equal(t, map[string]interface{}{"d": 4}, got)

	got = Config{Offset: 3}.Apply(data)
	assert.Equal(t, map[string]interface{}{"d": 4}, got)
}

func TestApplyScalarUnchanged(t *testing.T) {
	got := Config{Limit: 1}.Apply("scalar")
	assert.Equal(t, "scalar", got)
}

func TestApplyToRows(t *testing.T) {
	rows := [][]string{
		{"1", "alpha"},
		{"2", "beta"},
		{"3", "gamma"},
	}

	assert.Equal(t, rows, Config{}.ApplyToRows(rows))
	assert.Equal(t, [][]string{{"1", "alpha"}}, Config{Limit: 1}.ApplyToRows(rows))
	assert.Equal(t, [][]string{{"3", "gamma"}}, Config{Tail: 1}.ApplyToRows(rows))
	assert.Equal(t, [][]string{{"2", "beta"}, {"3", "gamma"}}, Config{Offset: 1}.ApplyToRows(rows))
	assert.Empty(t, Config{Offset: 5}.ApplyToRows(rows))
}
