// Package hotkey registers one global hotkey per shortcut symbol and turns
// key-down notifications into RawKeyEvents.
package hotkey

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

)

// RawKeyEvent is emitted on the capture side when a bound combination is pressed
type RawKeyEvent struct {
	Symbol string
	At     time.Time
}

// Sink receives raw events. Post must not block.
type Sink interface {
	Post(ev RawKeyEvent)
}

// Event is a single key-down notification from a binding
type Event struct{}

// Binding is a single OS-level global hotkey. Keydown is valid after
// Register and is closed by Unregister.
type Binding interface {
	Register() error
	Unregister() error
	Keydown() <-chan Event
}

// Factory creates the binding for a symbol
type Factory func(symbol string) (Binding, error)

// State of a single binding
type State int

const (
	Unregistered State = iota
	Registered
)

func (s State) String() string {
	if s == Registered {
		return "registered"
	}
	return "unregistered"
}

// Conflict records a binding the OS refused
type Conflict struct {
	Symbol string
	Err    error
}

var ErrAlreadyRegistered = errors.New("hotkeys already registered")

type binding struct {
	symbol string
	hk     Binding
	state  State
	stop   chan struct{}
}

// Listener owns the set of snippet hotkeys
type Listener struct {
	sink       Sink
	newBinding Factory

	mu        sync.Mutex
	bindings  []*binding
	enabled   bool
	conflicts map[string]error
}

// NewListener creates a listener that forwards events to sink
func NewListener(sink Sink, factory Factory) *Listener {
	return &Listener{
		sink:       sink,
		newBinding: factory,
		conflicts:  make(map[string]error),
	}
}

// Register creates a binding per symbol and enables all of them. A binding
// the OS refuses is skipped; the remaining ones are still registered.
func (l *Listener) Register(symbols []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.bindings != nil {
		return ErrAlreadyRegistered
	}

	l.bindings = make([]*binding, 0, len(symbols))
	for _, s := range symbols {
		hk, err := l.newBinding(s)
		if err != nil {
			l.conflicts[s] = err
			slog.Warn("Cannot create hotkey", "symbol", s, "error", err)
			continue
		}
		l.bindings = append(l.bindings, &binding{symbol: s, hk: hk})
	}

	l.enableLocked()
	return nil
}

// EnableAll registers every binding that is not registered yet
func (l *Listener) EnableAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enableLocked()
}

// DisableAll unregisters every registered binding. Already scheduled work
// downstream is not affected.
func (l *Listener) DisableAll() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, b := range l.bindings {
		if b.state != Registered {
			continue
		}
		close(b.stop)
		if err := b.hk.Unregister(); err != nil {
			slog.Warn("Failed to unregister hotkey", "symbol", b.symbol, "error", err)
		}
		b.state = Unregistered
	}

	if l.enabled {
		slog.Info("Hotkeys disabled")
	}
	l.enabled = false
}

// Close releases every binding
func (l *Listener) Close() {
	l.DisableAll()
}

// Enabled reports whether hotkeys are switched on
func (l *Listener) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

// State returns the registration state of symbol
func (l *Listener) State(symbol string) State {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, b := range l.bindings {
		if b.symbol == symbol {
			return b.state
		}
	}
	return Unregistered
}

// Conflicts lists the bindings that could not be registered, by symbol
func (l *Listener) Conflicts() []Conflict {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Conflict, 0, len(l.conflicts))
	for s, err := range l.conflicts {
		out = append(out, Conflict{Symbol: s, Err: err})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

func (l *Listener) enableLocked() {
	registered := 0
	for _, b := range l.bindings {
		if b.state == Registered {
			registered++
			continue
		}
		if err := b.hk.Register(); err != nil {
			l.conflicts[b.symbol] = err
			slog.Warn("Hotkey already claimed, skipping", "symbol", b.symbol, "error", err)
			continue
		}
		delete(l.conflicts, b.symbol)

		b.state = Registered
		b.stop = make(chan struct{})
		registered++
		// Keydown must be read after Register; Unregister replaces the channel.
		go l.forward(b.symbol, b.hk.Keydown(), b.stop)
	}

	if !l.enabled {
		slog.Info("Hotkeys enabled", "registered", registered, "skipped", len(l.conflicts))
	}
	l.enabled = true
}

func (l *Listener) forward(symbol string, keydown <-chan Event, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case _, ok := <-keydown:
			if !ok {
				return
			}
			select {
			case <-stop:
				return
			default:
			}
			l.sink.Post(RawKeyEvent{Symbol: symbol, At: time.Now()})
		}
	}
}

// String describes a conflict for diagnostics output
func (c Conflict) String() string {
	return fmt.Sprintf("%s: %v", c.Symbol, c.Err)
}
