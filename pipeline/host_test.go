package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostRunsPluginCycle(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/work/src/a.md":   "a",
		"/work/src/b/c.md": "c",
	})
	p := newTestPlugin(t, watchConfig(), fs)
	host := NewHost()
	p.Apply(host)

	c, err := host.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, c.Cycle)
	assert.Equal(t, []string{"/work/src/a.md", "/work/src/b/c.md"}, c.FileDependencies())

	exists, err := afero.Exists(fs, "/work/.watch/src__b__c.md")
	require.NoError(t, err)
	assert.True(t, exists)

	c, err = host.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, c.Cycle)
	assert.Zero(t, host.DuplicateDone())
}

func TestHostCompileError(t *testing.T) {
	boom := errors.New("boom")
	host := NewHost()
	emitted := false
	host.OnCompile("failing", func(ctx context.Context) error { return boom })
	host.OnEmit("never", func(ctx context.Context, c *Compilation, done func(error)) {
		emitted = true
		done(nil)
	})

	_, err := host.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.False(t, emitted)
}

func TestHostDuplicateDone(t *testing.T) {
	host := NewHost()
	host.OnEmit("twice", func(ctx context.Context, c *Compilation, done func(error)) {
		done(nil)
		done(errors.New("late"))
	})

	_, err := host.Run(context.Background())
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return host.DuplicateDone() == 1 }, time.Second, 5*time.Millisecond)
}

func TestHostEmitError(t *testing.T) {
	boom := errors.New("boom")
	host := NewHost()
	host.OnEmit("failing", func(ctx context.Context, c *Compilation, done func(error)) {
		done(boom)
	})

	_, err := host.Run(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestHostWaitsForAsyncDone(t *testing.T) {
	host := NewHost()
	host.OnEmit("async", func(ctx context.Context, c *Compilation, done func(error)) {
		go func() {
			time.Sleep(10 * time.Millisecond)
			c.AddFileDependencies("x")
			done(nil)
		}()
	})

	c, err := host.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, c.FileDependencies())
}

func TestHostCancelledWhileWaiting(t *testing.T) {
	host := NewHost()
	host.DoneGrace = 10 * time.Millisecond
	host.OnEmit("stuck", func(ctx context.Context, c *Compilation, done func(error)) {})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := host.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHostWaitsForDoneAfterCancel(t *testing.T) {
	host := NewHost()
	var finished atomic.Bool
	host.OnEmit("slow", func(ctx context.Context, c *Compilation, done func(error)) {
		<-ctx.Done()
		time.Sleep(30 * time.Millisecond)
		finished.Store(true)
		done(ctx.Err())
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := host.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, finished.Load(), "the cycle lock is held until done")
	assert.Equal(t, int64(0), host.DuplicateDone())
}

func TestCompilationDependencies(t *testing.T) {
	c := NewCompilation(1)
	c.AddFileDependencies("a", "b")
	c.AddFileDependencies("a")

	deps := c.FileDependencies()
	assert.Equal(t, []string{"a", "b", "a"}, deps)
	deps[0] = "changed"
	assert.Equal(t, "a", c.FileDependencies()[0])
}

func TestWatchFilters(t *testing.T) {
	ignore := []string{filepath.FromSlash("/work/tree.json"), filepath.FromSlash("/work/.watch")}

	assert.True(t, ignored(ignore, filepath.FromSlash("/work/tree.json")))
	assert.True(t, ignored(ignore, filepath.FromSlash("/work/.watch/a.md")))
	assert.False(t, ignored(ignore, filepath.FromSlash("/work/.watchers/a.md")))
	assert.False(t, ignored(ignore, filepath.FromSlash("/work/src/a.md")))

	assert.True(t, isTempFile("/work/.tree.json.tmp-12345"))
	assert.False(t, isTempFile("/work/tree.json"))
	assert.False(t, isTempFile("/work/.env"))
}
