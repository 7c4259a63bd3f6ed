package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snippets.csv")
	other := filepath.Join(dir, "other.csv")
	require.NoError(t, os.WriteFile(path, []byte("A,Greeting,Hello\n"), 0644))

	var changes atomic.Int32
	w := New(path, 50*time.Millisecond, func() { changes.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	// Give the watcher time to subscribe
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0644))
	for i := range 5 {
		require.NoError(t, os.WriteFile(path, []byte("A,Greeting,Hello "+string(rune('0'+i))+"\n"), 0644))
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return changes.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), changes.Load())
}

func TestWatcherMissingDirectory(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "nope", "snippets.csv"), time.Millisecond, func() {})
	assert.Error(t, w.Run(context.Background()))
}
