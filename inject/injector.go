// Package inject types snippets into the foreground application from a
// background worker.
package inject

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"markestedt/typeitown/eventloop"
	"markestedt/typeitown/platform"
)

// Injector runs injections one after another on its own worker so that
// overlapping requests never interleave their keystrokes.
type Injector struct {
	typer  platform.Typer
	settle time.Duration
	worker *eventloop.Loop
	sleep  func(time.Duration)

	typed  atomic.Uint64
	failed atomic.Uint64
}

// New creates an injector that waits settle before typing each snippet
func New(typer platform.Typer, settle time.Duration) *Injector {
	return &Injector{
		typer:  typer,
		settle: settle,
		worker: eventloop.New("injector"),
		sleep:  time.Sleep,
	}
}

// Run processes queued injections until ctx is cancelled
func (i *Injector) Run(ctx context.Context) error {
	return i.worker.Run(ctx)
}

// Inject queues text for typing and returns immediately. Typing is best
// effort: failures are logged and counted, never reported to the caller.
func (i *Injector) Inject(text string) bool {
	queued := i.worker.Post(func() {
		// Let the target window settle its focus first
		i.sleep(i.settle)

		start := time.Now()
		if err := i.typer.Type(text); err != nil {
			i.failed.Add(1)
			slog.Error("Failed to inject text", "error", err, "chars", len([]rune(text)))
			return
		}
		i.typed.Add(1)
		slog.Info("Injected text", "chars", len([]rune(text)), "duration", time.Since(start))
	})
	if !queued {
		slog.Warn("Injector stopped, dropping text")
	}
	return queued
}

// Stats returns the number of successful and failed injections
func (i *Injector) Stats() (typed, failed uint64) {
	return i.typed.Load(), i.failed.Load()
}
