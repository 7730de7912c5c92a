package manifest

import (
	"path/filepath"
	"testing"

	"github.com/sjzsdu/dirtree/helper/testfs"
	"github.com/sjzsdu/dirtree/project"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleForest(t *testing.T) *project.Forest {
	t.Helper()
	file := project.NewFile(filepath.Join("src", "a.md"))
	require.NoError(t, file.Attrs.Set("size", int64(5)))
	return project.NewForest(false, project.NewDirectory("src", file))
}

func TestWriteIdempotent(t *testing.T) {
	fs := testfs.New(nil)
	w := NewWriter(fs, "/out/tree.json")

	written, err := w.Write(sampleForest(t))
	require.NoError(t, err)
	assert.True(t, written, "missing file counts as empty")
	assert.Equal(t, 1, fs.Writes("/out/tree.json"))

	written, err = w.Write(sampleForest(t))
	require.NoError(t, err)
	assert.False(t, written)
	assert.Equal(t, 1, fs.Writes("/out/tree.json"))

	changed := sampleForest(t)
	require.NoError(t, changed.Root().Attrs.Set("note", "x"))
	written, err = w.Write(changed)
	require.NoError(t, err)
	assert.True(t, written)
	assert.Equal(t, 2, fs.Writes("/out/tree.json"))
}

func TestWriteNoTempFilesLeft(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := NewWriter(fs, "/out/tree.json").Write(sampleForest(t))
	require.NoError(t, err)

	entries, err := afero.ReadDir(fs, "/out")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "tree.json", entries[0].Name())
}

func TestWriteFailure(t *testing.T) {
	fs := testfs.New(nil)
	fs.FailOn("/locked")

	written, err := NewWriter(fs, "/locked/tree.json").Write(sampleForest(t))
	assert.False(t, written)
	var werr *WriteError
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, "write", werr.Op)
	assert.ErrorIs(t, err, testfs.ErrInjected)
}

func TestLoadRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	original := sampleForest(t)
	_, err := NewWriter(fs, "tree.json").Write(original)
	require.NoError(t, err)

	loaded, err := Load(fs, "tree.json")
	require.NoError(t, err)
	assert.Equal(t, original.FilePaths(), loaded.FilePaths())

	want, err := Encode(original)
	require.NoError(t, err)
	got, err := Encode(loaded)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestEncodeNoHTMLEscape(t *testing.T) {
	data, err := Encode(project.NewForest(false, project.NewFile("a&<b>.txt")))
	require.NoError(t, err)
	assert.Equal(t, `{"path":"a&<b>.txt","name":"a&<b>.txt","kind":"file"}`, string(data))

	data, err = Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode([]byte(`{"path":"x","kind":"file","children":[]}`))
	assert.ErrorIs(t, err, project.ErrChildOfFile)

	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)

	_, err = Load(afero.NewMemMapFs(), "missing.json")
	assert.Error(t, err)
}
