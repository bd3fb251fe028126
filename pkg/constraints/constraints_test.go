package constraints

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covertmark/covertmark/pkg/types"
)

func TestTypeEnv(t *testing.T) {
	env := TypeEnv(
		[]types.FixedParam{{Name: "test_recall", Value: false}},
		[]types.UserParam{{Name: "window_size", Type: types.ParamInt}, {Name: "tls_mode", Type: types.ParamString}},
	)

	assert.Equal(t, map[string]interface{}{
		"test_recall": false,
		"window_size": int64(0),
		"tls_mode":    "",
	}, env)
}

func TestCompile(t *testing.T) {
	env := TypeEnv(nil, []types.UserParam{
		{Name: "window_size", Type: types.ParamInt},
		{Name: "tls_mode", Type: types.ParamString},
	})

	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{"comparison", "window_size >= 10", ""},
		{"membership", `tls_mode in ["all", "only", "none", "guess"]`, ""},
		{"combined", `window_size >= 10 && tls_mode != ""`, ""},
		{"empty", "   ", "constraint is empty"},
		{"unknown identifier", "block_size > 4", "invalid constraint"},
		{"not boolean", "window_size + 1", "invalid constraint"},
		{"builtin call", "len(tls_mode) > 0", "invalid constraint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.src, env)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEval(t *testing.T) {
	ok, err := Eval("window_size >= 10", map[string]interface{}{"window_size": int64(25)})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Eval("window_size >= 10", map[string]interface{}{"window_size": int64(5)})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Eval(`tls_mode in ["all", "only"]`, map[string]interface{}{"tls_mode": "none"})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = Eval("missing > 1", map[string]interface{}{})
	assert.Error(t, err)
}
