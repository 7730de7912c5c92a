package project

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codecSample(t *testing.T) *Node {
	t.Helper()
	file := NewFile("src/<a&b>.md")
	require.NoError(t, file.Attrs.Set("size", int64(3)))
	require.NoError(t, file.Attrs.Set("extension", ".md"))
	dir := NewDirectory("src", file)
	require.NoError(t, dir.Attrs.Set("size", int64(3)))
	return dir
}

func TestEncodeCanonical(t *testing.T) {
	data, err := codecSample(t).MarshalJSON()
	require.NoError(t, err)

	want := `{"path":"src","name":"src","kind":"directory","children":[` +
		`{"path":"src/<a&b>.md","name":"<a&b>.md","kind":"file","size":3,"extension":".md"}` +
		`],"size":3}`
	assert.Equal(t, want, string(data))
}

func TestForestEncoding(t *testing.T) {
	a, b := NewFile("a"), NewFile("b")

	single, err := NewForest(false, a).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"path":"a","name":"a","kind":"file"}`, string(single))

	multi, err := NewForest(true, a, b).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `[{"path":"a","name":"a","kind":"file"},{"path":"b","name":"b","kind":"file"}]`, string(multi))

	oneOfMany, err := NewForest(true, a).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `[{"path":"a","name":"a","kind":"file"}]`, string(oneOfMany))

	empty, err := (&Forest{}).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(empty))
}

func TestCodecRoundTrip(t *testing.T) {
	original := NewForest(true, codecSample(t), NewDirectory("empty"))
	data, err := original.MarshalJSON()
	require.NoError(t, err)

	var decoded Forest
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Multi)
	require.Len(t, decoded.Roots, 2)
	assert.NoError(t, decoded.Validate())

	again, err := decoded.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))

	empty := decoded.Roots[1]
	assert.True(t, empty.IsDir())
	assert.NotNil(t, empty.Children())
	assert.Empty(t, empty.Children())
}

func TestDecodeAttributeOrder(t *testing.T) {
	var n Node
	require.NoError(t, json.Unmarshal([]byte(`{"z":1,"path":"f","a":"x","name":"f","kind":"file","m":true}`), &n))
	assert.Equal(t, []string{"z", "a", "m"}, n.Attrs.Keys())

	v, _ := n.Attrs.Get("z")
	assert.Equal(t, json.Number("1"), v)
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"file with children", `{"path":"f","name":"f","kind":"file","children":[]}`, ErrChildOfFile},
		{"unknown kind", `{"path":"f","name":"f","kind":"socket"}`, ErrInvalidKind},
		{"children not array", `{"path":"d","name":"d","kind":"directory","children":{}}`, nil},
		{"not an object", `"text"`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f Forest
			err := json.Unmarshal([]byte(tt.input), &f)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestDecodeInfersKind(t *testing.T) {
	var f Forest
	require.NoError(t, json.Unmarshal([]byte(`{"path":"d","name":"d","children":[{"path":"d/x","name":"x"}]}`), &f))

	root := f.Root()
	require.NotNil(t, root)
	assert.False(t, f.Multi)
	assert.Equal(t, KindDirectory, root.Kind())
	require.Len(t, root.Children(), 1)
	assert.Equal(t, KindFile, root.Children()[0].Kind())
}
