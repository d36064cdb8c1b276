package preview

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegraph/internal/testutil"
)

func TestShouldIgnoreEvent(t *testing.T) {
	require.True(t, shouldIgnoreEvent("/tmp/.hidden.md"))
	require.True(t, shouldIgnoreEvent("/tmp/#foo#"))
	require.True(t, shouldIgnoreEvent("/tmp/foo.swp"))
	require.True(t, shouldIgnoreEvent("/tmp/foo.md~"))
	require.True(t, shouldIgnoreEvent("/tmp/.DS_Store"))
	require.True(t, shouldIgnoreEvent("/tmp/.content.json.123"))
	require.False(t, shouldIgnoreEvent("/tmp/visible.md"))
	require.False(t, shouldIgnoreEvent("/tmp/.stackbit/models.yaml"))
}

func TestWithin(t *testing.T) {
	dir := filepath.FromSlash("/srv/site")
	assert.True(t, within(dir, dir))
	assert.True(t, within(filepath.Join(dir, "content", "a.md"), dir))
	assert.False(t, within(filepath.FromSlash("/srv/site2/a.md"), dir))
	assert.False(t, within(filepath.FromSlash("/srv"), dir))
	assert.True(t, within(filepath.Join(dir, "..data"), dir))
}

func TestWatchRoots(t *testing.T) {
	cfg := testConfig(t, "")
	roots, err := watchRoots(cfg)
	require.NoError(t, err)
	abs, err := filepath.Abs(cfg.Content.Root)
	require.NoError(t, err)
	assert.Equal(t, []string{abs}, roots)

	outside := t.TempDir()
	cfg.Schema.Path = filepath.Join(outside, "models.yaml")
	testutil.WriteTree(t, outside, map[string]string{"models.yaml": models})
	roots, err = watchRoots(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{abs, outside}, roots)
}

func TestWatchRoots_MissingRoot(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.Content.Root = filepath.Join(t.TempDir(), "does-not-exist")
	_, err := watchRoots(cfg)
	require.Error(t, err)
}

func TestRebuildDebouncer_Coalesces(t *testing.T) {
	d := newRebuildDebouncer(t.Context(), 20*time.Millisecond)
	for range 5 {
		d.trigger()
	}

	select {
	case <-d.req:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced rebuild was not requested")
	}

	select {
	case <-d.req:
		t.Fatal("burst of triggers produced more than one rebuild")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRebuildDebouncer_ShutdownWithPendingTimer(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	d := newRebuildDebouncer(ctx, 50*time.Millisecond)

	d.trigger()
	cancel()
	require.NoError(t, handleShutdown(&http.Server{}, d))

	time.Sleep(200 * time.Millisecond)
	select {
	case <-d.req:
		t.Fatal("rebuild requested after shutdown")
	default:
	}
}

func TestRebuildDebouncer_RequestAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	d := newRebuildDebouncer(ctx, time.Millisecond)
	cancel()

	assert.NotPanics(t, func() {
		d.request()
		d.trigger()
		d.stop()
	})
	assert.Empty(t, d.req)
}
