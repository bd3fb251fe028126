package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreateFile writes content to dir/name, creating parent directories
func CreateFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestMap is a strategy map file in a temporary directory
type TestMap struct {
	Dir  string
	Path string
}

// SetupTestMap writes content to a fresh map file named name
func SetupTestMap(t *testing.T, name string, content []byte) *TestMap {
	t.Helper()

	dir := t.TempDir()
	return &TestMap{
		Dir:  dir,
		Path: CreateFile(t, dir, name, string(content)),
	}
}

// Rewrite replaces the map file content
func (m *TestMap) Rewrite(t *testing.T, content []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(m.Path, content, 0644))
}
