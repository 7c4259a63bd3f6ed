package eventloop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markestedt/typeitown/hotkey"
)

func startLoop(t *testing.T) (*Loop, context.CancelFunc) {
	t.Helper()
	l := New("test")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = l.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return l, cancel
}

type recorder struct {
	mu  sync.Mutex
	got []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, s)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.got...)
}

func TestPostRunsInOrder(t *testing.T) {
	l, _ := startLoop(t)
	rec := &recorder{}

	want := make([]string, 0, 1000)
	for i := range 1000 {
		s := string(rune('a' + i%26))
		want = append(want, s)
		require.True(t, l.Post(func() { rec.add(s) }))
	}

	require.Eventually(t, func() bool { return len(rec.list()) == 1000 }, 2*time.Second, time.Millisecond)
	assert.Equal(t, want, rec.list())
}

func TestPostDoesNotBlockWhileLoopIsBusy(t *testing.T) {
	l, _ := startLoop(t)

	release := make(chan struct{})
	l.Post(func() { <-release })
	defer close(release)

	start := time.Now()
	for range 10000 {
		l.Post(func() {})
	}
	assert.Less(t, time.Since(start), time.Second)
}

func TestTasksRunOnSingleGoroutine(t *testing.T) {
	l, _ := startLoop(t)

	var active, overlaps int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				l.Post(func() {
					mu.Lock()
					active++
					if active > 1 {
						overlaps++
					}
					mu.Unlock()
					time.Sleep(10 * time.Microsecond)
					mu.Lock()
					active--
					mu.Unlock()
				})
			}
		}()
	}
	wg.Wait()

	done := make(chan struct{})
	l.Post(func() { close(done) })
	<-done
	assert.Zero(t, overlaps)
}

func TestAfterFuncFiresAfterDelayInScheduleOrder(t *testing.T) {
	l, _ := startLoop(t)
	rec := &recorder{}

	start := time.Now()
	var firstAt time.Time
	l.Post(func() { rec.add("now") })
	l.AfterFunc(30*time.Millisecond, func() {
		firstAt = time.Now()
		rec.add("K1")
	})
	l.AfterFunc(30*time.Millisecond, func() { rec.add("K2") })
	l.AfterFunc(5*time.Millisecond, func() { rec.add("early") })

	require.Eventually(t, func() bool { return len(rec.list()) == 4 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"now", "early", "K1", "K2"}, rec.list())
	assert.GreaterOrEqual(t, firstAt.Sub(start), 30*time.Millisecond)
}

func TestPanickingTaskDoesNotStopLoop(t *testing.T) {
	l, _ := startLoop(t)
	rec := &recorder{}

	l.Post(func() { panic("boom") })
	l.Post(func() { rec.add("after") })

	require.Eventually(t, func() bool { return len(rec.list()) == 1 }, time.Second, time.Millisecond)
}

func TestPostAfterStopIsRejected(t *testing.T) {
	l := New("test")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = l.Run(ctx)
	}()

	fired := make(chan struct{}, 1)
	l.AfterFunc(time.Hour, func() { fired <- struct{}{} })
	cancel()
	<-done

	assert.False(t, l.Post(func() {}))
	assert.False(t, l.AfterFunc(0, func() {}))
}

func TestBridgeDeliversFIFO(t *testing.T) {
	l, _ := startLoop(t)
	rec := &recorder{}
	b := NewBridge(l, func(ev hotkey.RawKeyEvent) { rec.add(ev.Symbol) })

	for _, s := range []string{"K", "1", "K", "2"} {
		b.Post(hotkey.RawKeyEvent{Symbol: s, At: time.Now()})
	}

	require.Eventually(t, func() bool { return len(rec.list()) == 4 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"K", "1", "K", "2"}, rec.list())
	assert.Zero(t, b.Dropped())
}

func TestBridgeCountsDroppedAfterStop(t *testing.T) {
	l := New("test")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, l.Run(ctx))

	b := NewBridge(l, func(hotkey.RawKeyEvent) {})
	b.Post(hotkey.RawKeyEvent{Symbol: "A"})
	assert.Equal(t, uint64(1), b.Dropped())
}
