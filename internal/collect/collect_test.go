package collect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCollector_Files(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main")
	writeFile(t, dir, "src/app.ts", "export {}")
	writeFile(t, dir, "README.md", "# readme")
	writeFile(t, dir, "node_modules/lib/index.js", "module.exports = {}")
	writeFile(t, dir, "vendor/dep/dep.go", "package dep")
	writeFile(t, dir, ".hidden/secret.py", "pass")

	files, err := New().Files(dir)
	require.NoError(t, err)

	assert.Len(t, files, 2)
	assert.Equal(t, "package main", files["main.go"])
	assert.Equal(t, "export {}", files["src/app.ts"])
}

func TestCollector_RespectsLimit(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.go", "b.go", "c.go", "d.go"} {
		writeFile(t, dir, name, "package x")
	}

	files, err := NewWithLimit(2).Files(dir)
	require.NoError(t, err)

	assert.Len(t, files, 2)
}

func TestCollector_EmptyDir(t *testing.T) {
	files, err := New().Files(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestCollector_ExtensionCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Main.GO", "package main")

	files, err := New().Files(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}
