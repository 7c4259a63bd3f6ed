// Package eventloop provides the serial run loop that owns all UI state, and
// the bridge that carries hotkey events into it.
package eventloop

import (
	"container/heap"
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

// Loop runs posted tasks and deferred timers one at a time on the goroutine
// that calls Run. Posting never blocks.
type Loop struct {
	name string

	mu     sync.Mutex
	tasks  []func()
	timers timerQueue
	seq    uint64
	closed bool

	wake chan struct{}
}

// New creates a loop. name is used in log lines only.
func New(name string) *Loop {
	return &Loop{
		name: name,
		wake: make(chan struct{}, 1),
	}
}

// Post queues fn to run on the loop after every task posted before it.
// It returns false once the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()

	l.signal()
	return true
}

// AfterFunc queues fn to run on the loop once d has elapsed. Timers that
// come due together run in the order they were scheduled.
func (l *Loop) AfterFunc(d time.Duration, fn func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.seq++
	heap.Push(&l.timers, &timer{at: time.Now().Add(d), seq: l.seq, fn: fn})
	l.mu.Unlock()

	l.signal()
	return true
}

// Run processes tasks until ctx is cancelled. Work still queued at that
// point is discarded.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stop()

	for {
		batch, next := l.take(time.Now())
		for _, fn := range batch {
			l.run(fn)
		}
		if len(batch) > 0 {
			if ctx.Err() != nil {
				return nil
			}
			continue
		}

		var fire <-chan time.Time
		var t *time.Timer
		if !next.IsZero() {
			t = time.NewTimer(time.Until(next))
			fire = t.C
		}

		select {
		case <-ctx.Done():
			if t != nil {
				t.Stop()
			}
			return nil
		case <-l.wake:
		case <-fire:
		}

		if t != nil {
			t.Stop()
		}
	}
}

// take moves due timers onto the task queue and hands back everything
// runnable, plus the deadline of the next pending timer.
func (l *Loop) take(now time.Time) ([]func(), time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for l.timers.Len() > 0 && !l.timers[0].at.After(now) {
		t := heap.Pop(&l.timers).(*timer)
		l.tasks = append(l.tasks, t.fn)
	}

	batch := l.tasks
	l.tasks = nil

	var next time.Time
	if l.timers.Len() > 0 {
		next = l.timers[0].at
	}
	return batch, next
}

func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Task panicked", "loop", l.name, "panic", r, "stack", string(debug.Stack()))
		}
	}()
	fn()
}

func (l *Loop) stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	l.tasks = nil
	l.timers = nil
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

type timer struct {
	at  time.Time
	seq uint64
	fn  func()
}

type timerQueue []*timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].at.Equal(q[j].at) {
		return q[i].seq < q[j].seq
	}
	return q[i].at.Before(q[j].at)
}

func (q timerQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *timerQueue) Push(x any) { *q = append(*q, x.(*timer)) }

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}
