package inject

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTyper struct {
	mu      sync.Mutex
	texts   []string
	at      []time.Time
	active  int
	overlap bool
	hold    time.Duration
	err     error
}

func (f *fakeTyper) Type(text string) error {
	f.mu.Lock()
	f.active++
	if f.active > 1 {
		f.overlap = true
	}
	f.mu.Unlock()

	time.Sleep(f.hold)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.active--
	if f.err != nil {
		return f.err
	}
	f.texts = append(f.texts, text)
	f.at = append(f.at, time.Now())
	return nil
}

func (f *fakeTyper) typed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.texts...)
}

func run(t *testing.T, i *Injector) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = i.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestInjectWaitsSettleDelay(t *testing.T) {
	typer := &fakeTyper{}
	i := New(typer, 40*time.Millisecond)
	run(t, i)

	start := time.Now()
	require.True(t, i.Inject("Hello there"))

	require.Eventually(t, func() bool { return len(typer.typed()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"Hello there"}, typer.typed())

	typer.mu.Lock()
	elapsed := typer.at[0].Sub(start)
	typer.mu.Unlock()
	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)

	typed, failed := i.Stats()
	assert.Equal(t, uint64(1), typed)
	assert.Zero(t, failed)
}

func TestInjectIsNonBlocking(t *testing.T) {
	i := New(&fakeTyper{}, time.Hour)
	release := make(chan struct{})
	i.sleep = func(time.Duration) { <-release }
	run(t, i)
	defer close(release)

	start := time.Now()
	for range 100 {
		i.Inject("x")
	}
	assert.Less(t, time.Since(start), time.Second)
}

func TestInjectSerializesInOrder(t *testing.T) {
	typer := &fakeTyper{hold: 5 * time.Millisecond}
	i := New(typer, time.Millisecond)
	run(t, i)

	want := []string{"K1", "K2", "K3", "K4"}
	for _, s := range want {
		i.Inject(s)
	}

	require.Eventually(t, func() bool { return len(typer.typed()) == len(want) }, time.Second, time.Millisecond)
	assert.Equal(t, want, typer.typed())
	assert.False(t, typer.overlap)
}

func TestInjectFailureIsCounted(t *testing.T) {
	typer := &fakeTyper{err: errors.New("no foreground window")}
	i := New(typer, 0)
	run(t, i)

	i.Inject("lost")
	require.Eventually(t, func() bool {
		_, failed := i.Stats()
		return failed == 1
	}, time.Second, time.Millisecond)
}

func TestInjectUsesSleepForSettle(t *testing.T) {
	typer := &fakeTyper{}
	i := New(typer, 1500*time.Millisecond)

	var slept []time.Duration
	var mu sync.Mutex
	i.sleep = func(d time.Duration) {
		mu.Lock()
		slept = append(slept, d)
		mu.Unlock()
	}
	run(t, i)

	i.Inject("a")
	require.Eventually(t, func() bool { return len(typer.typed()) == 1 }, time.Second, time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []time.Duration{1500 * time.Millisecond}, slept)
}
