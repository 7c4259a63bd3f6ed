package eventloop

import (
	"log/slog"
	"sync/atomic"

	"markestedt/typeitown/hotkey"
)

// Bridge carries hotkey events from the capture goroutines onto a Loop.
// It satisfies hotkey.Sink.
type Bridge struct {
	loop    *Loop
	handle  func(hotkey.RawKeyEvent)
	dropped atomic.Uint64
}

// NewBridge creates a bridge that calls handle on loop for every event
func NewBridge(loop *Loop, handle func(hotkey.RawKeyEvent)) *Bridge {
	return &Bridge{loop: loop, handle: handle}
}

// Post enqueues ev and returns immediately
func (b *Bridge) Post(ev hotkey.RawKeyEvent) {
	if !b.loop.Post(func() { b.handle(ev) }) {
		b.dropped.Add(1)
		slog.Debug("Loop stopped, dropping key event", "symbol", ev.Symbol)
	}
}

// Dropped counts events posted after the loop stopped
func (b *Bridge) Dropped() uint64 {
	return b.dropped.Load()
}
