package covertmark

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covertmark/covertmark/pkg/errors"
)

func TestConfigShow(t *testing.T) {
	res := execute(t, nil, "config", "show", "--map", "/tmp/map.yaml")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "[strategies]")
	assert.Contains(t, res.out, "/tmp/map.yaml")
	assert.Regexp(t, `negative_filter_policy = .warn.`, res.out)
}

func TestConfigInitPrints(t *testing.T) {
	res := execute(t, nil, "config", "init")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "[strategies]")
	assert.Contains(t, res.out, "# map = \"\"")
}

func TestConfigInitWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	res := execute(t, nil, "config", "init", "--write", "--config", path)
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[watch]")

	res = execute(t, nil, "config", "init", "--write", "--config", path)
	require.Error(t, res.err)
	assert.True(t, errors.IsErrorCode(res.err, errors.ErrAlreadyExists))
}

func TestConfigFileSelectsOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: yaml\n"), 0644))

	res := execute(t, nil, "strategies", "list", "--config", path)
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "strategies:\n")
	assert.Contains(t, res.out, "- name: entropy_dist")
}
