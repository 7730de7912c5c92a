package project

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestFs 在内存文件系统中创建 files 中的文件
func newTestFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
	}
	return fs
}

func scanPaths(t *testing.T, fs afero.Fs, root string, opts map[string]any) []string {
	t.Helper()
	n, err := NewFSScanner(fs).Scan(context.Background(), root, NewOptions(opts))
	require.NoError(t, err)
	var paths []string
	require.NoError(t, Walk(n, VisitorFunc(func(n *Node, depth int) error {
		rel, err := filepath.Rel(root, n.Path)
		require.NoError(t, err)
		if n.IsDir() {
			rel += "/"
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})))
	return paths
}

func projectFiles() map[string]string {
	return map[string]string{
		"/proj/README.md":           "# readme",
		"/proj/main.go":             "package main",
		"/proj/app.log":             "log",
		"/proj/.env":                "SECRET=1",
		"/proj/src/util.go":         "package src",
		"/proj/src/deep/x.go":       "package deep",
		"/proj/build/out.bin":       "bin",
		"/proj/node_modules/m/i.js": "js",
	}
}

func TestScanAll(t *testing.T) {
	fs := newTestFs(t, projectFiles())
	assert.Equal(t, []string{
		"./",
		".env",
		"README.md",
		"app.log",
		"build/",
		"build/out.bin",
		"main.go",
		"node_modules/",
		"node_modules/m/",
		"node_modules/m/i.js",
		"src/",
		"src/deep/",
		"src/deep/x.go",
		"src/util.go",
	}, scanPaths(t, fs, "/proj", nil))
}

func TestScanFilters(t *testing.T) {
	fs := newTestFs(t, projectFiles())

	t.Run("exclude", func(t *testing.T) {
		paths := scanPaths(t, fs, "/proj", map[string]any{
			OptExclude: []string{"**/node_modules", "*.log"},
		})
		assert.NotContains(t, paths, "node_modules/")
		assert.NotContains(t, paths, "app.log")
		assert.Contains(t, paths, "main.go")
	})

	t.Run("extensions", func(t *testing.T) {
		paths := scanPaths(t, fs, "/proj", map[string]any{
			OptExtensions: "go",
			OptExclude:    "node_modules,build",
		})
		assert.Equal(t, []string{"./", "main.go", "src/", "src/deep/", "src/deep/x.go", "src/util.go"}, paths)
	})

	t.Run("hidden", func(t *testing.T) {
		paths := scanPaths(t, fs, "/proj", map[string]any{OptHidden: false})
		assert.NotContains(t, paths, ".env")
	})

	t.Run("depth", func(t *testing.T) {
		paths := scanPaths(t, fs, "/proj", map[string]any{OptDepth: 1, OptExclude: "node_modules"})
		assert.Contains(t, paths, "src/")
		assert.NotContains(t, paths, "src/util.go")
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := NewFSScanner(fs).Scan(context.Background(), "/proj", NewOptions(map[string]any{OptExclude: "[a"}))
		assert.Error(t, err)
	})
}

func TestScanGitignore(t *testing.T) {
	files := projectFiles()
	files["/proj/.gitignore"] = "*.log\nbuild/\n# comment\n"
	files["/proj/src/.gitignore"] = "deep/\n"
	files["/proj/.git/HEAD"] = "ref"
	fs := newTestFs(t, files)

	paths := scanPaths(t, fs, "/proj", map[string]any{OptGitignore: true})
	assert.NotContains(t, paths, "app.log")
	assert.NotContains(t, paths, "build/")
	assert.NotContains(t, paths, ".git/")
	assert.NotContains(t, paths, "src/deep/")
	assert.Contains(t, paths, "src/util.go")
	assert.Contains(t, paths, "main.go")

	withoutIgnore := scanPaths(t, fs, "/proj", nil)
	assert.Contains(t, withoutIgnore, "app.log")
}

func TestScanSkip(t *testing.T) {
	fs := newTestFs(t, projectFiles())
	s := NewFSScanner(fs)
	s.Skip = func(path string, isDir bool) bool {
		return isDir && filepath.Base(path) == "src"
	}
	n, err := s.Scan(context.Background(), "/proj", Options{})
	require.NoError(t, err)
	for _, child := range n.Children() {
		assert.NotEqual(t, "src", child.Name)
	}
}

func TestScanAttributes(t *testing.T) {
	fs := newTestFs(t, map[string]string{
		"/r/a.TXT":   "abc",
		"/r/d/b.txt": "12345",
	})

	n, err := NewFSScanner(fs).Scan(context.Background(), "/r", Options{})
	require.NoError(t, err)

	size, _ := n.Attrs.Get(AttrSize)
	assert.Equal(t, int64(8), size)
	_, hasExt := n.Attrs.Get(AttrExtension)
	assert.False(t, hasExt, "directories carry no extension")

	file := n.Children()[0]
	assert.Equal(t, "a.TXT", file.Name)
	ext, _ := file.Attrs.Get(AttrExtension)
	assert.Equal(t, ".txt", ext)

	n, err = NewFSScanner(fs).Scan(context.Background(), "/r", NewOptions(map[string]any{
		OptAttributes: []string{AttrMode, AttrModified},
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{AttrMode, AttrModified}, n.Children()[0].Attrs.Keys())
}

func TestScanFileRoot(t *testing.T) {
	fs := newTestFs(t, map[string]string{"/only.txt": "x"})
	n, err := NewFSScanner(fs).Scan(context.Background(), "/only.txt", Options{})
	require.NoError(t, err)
	assert.Equal(t, KindFile, n.Kind())
	assert.Equal(t, "only.txt", n.Name)
}

func TestScanMissingRoot(t *testing.T) {
	_, err := NewFSScanner(afero.NewMemMapFs()).Scan(context.Background(), "/missing", Options{})
	assert.Error(t, err)
}

func TestScanCancelled(t *testing.T) {
	fs := newTestFs(t, projectFiles())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFSScanner(fs).Scan(ctx, "/proj", Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
