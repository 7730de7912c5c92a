package helper

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptYesNo(t *testing.T) {
	tests := []struct {
		input   string
		def     bool
		want    bool
		wantErr error
	}{
		{"y\n", false, true, nil},
		{"No\r\n", true, false, nil},
		{"\n", true, true, nil},
		{"ｙ\n", false, true, nil},
		{"是\n", false, true, nil},
		{"maybe\nn\n", true, false, nil},
		{"", true, true, io.EOF},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		got, err := PromptYesNo(strings.NewReader(tt.input), &out, "overwrite? ", tt.def)
		assert.Equal(t, tt.want, got, tt.input)
		assert.Equal(t, tt.wantErr, err, tt.input)
		assert.True(t, strings.HasPrefix(out.String(), "overwrite? "))
	}
}

func TestProgress(t *testing.T) {
	var out bytes.Buffer
	p := NewProgress(&out, "mirror", 0, WithWidth(4))
	p.Increment()
	assert.Empty(t, out.String(), "nothing to render without a total")

	p.SetTotal(2)
	p.Increment()
	assert.Contains(t, out.String(), "[████] 100.0% (2/2)")
	p.Finish()
	p.Finish()
	assert.Equal(t, 1, strings.Count(out.String(), "\n"))

	assert.Equal(t, "1m5s", formatDuration(65*time.Second))
	assert.Equal(t, "2h3m", formatDuration(2*time.Hour+3*time.Minute))
}

func TestWriteFileAtomic(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := filepath.Join("/a", "b", "c.json")

	require.NoError(t, WriteFileAtomic(fs, path, []byte("one")))
	require.NoError(t, WriteFileAtomic(fs, path, []byte("two")))

	data, ok, err := ReadFileIfExists(fs, path)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", string(data))

	entries, err := afero.ReadDir(fs, filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, ok, err = ReadFileIfExists(fs, "/missing")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "src/a", StandardizePath("./src/a"))
	assert.Equal(t, "", StandardizePath("."))
	assert.Equal(t, filepath.Join("/base", "x"), ResolvePath("/base", "x"))
	assert.Equal(t, "/abs", ResolvePath("/base", "/abs/"))
	assert.True(t, IsOutside(".."))
	assert.True(t, IsOutside(filepath.Join("..", "x")))
	assert.False(t, IsOutside("..x"))
}
