package hotkey

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markestedt/typeitown/catalog"
)

var errClaimed = errors.New("hotkey already registered by another process")

// fakeBinding mimics x/hotkey: Unregister closes the keydown channel and
// Register hands out a fresh one.
type fakeBinding struct {
	mu         sync.Mutex
	refuse     bool
	registered bool
	keydown    chan Event
	registers  int
}

func (f *fakeBinding) Register() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refuse {
		return errClaimed
	}
	f.registered = true
	f.registers++
	f.keydown = make(chan Event, 4)
	return nil
}

func (f *fakeBinding) Unregister() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered = false
	close(f.keydown)
	return nil
}

func (f *fakeBinding) Keydown() <-chan Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.keydown
}

// press simulates the OS delivering the combination; it is dropped when the
// binding is not registered, like a real unregistered hotkey.
func (f *fakeBinding) press() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.registered {
		return false
	}
	f.keydown <- Event{}
	return true
}

type recordingSink struct {
	mu     sync.Mutex
	events []RawKeyEvent
}

func (s *recordingSink) Post(ev RawKeyEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) symbols() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.events))
	for i, ev := range s.events {
		out[i] = ev.Symbol
	}
	return out
}

type fakeOS struct {
	bindings map[string]*fakeBinding
	refuse   map[string]bool
}

func newFakeOS(refuse ...string) *fakeOS {
	f := &fakeOS{bindings: make(map[string]*fakeBinding), refuse: make(map[string]bool)}
	for _, s := range refuse {
		f.refuse[s] = true
	}
	return f
}

func (f *fakeOS) factory(symbol string) (Binding, error) {
	b := &fakeBinding{refuse: f.refuse[symbol]}
	f.bindings[symbol] = b
	return b, nil
}

func allSymbols() []string {
	out := make([]string, 0, len(catalog.Symbols))
	for _, r := range catalog.Symbols {
		out = append(out, string(r))
	}
	return out
}

func TestRegisterAllBindings(t *testing.T) {
	os := newFakeOS()
	sink := &recordingSink{}
	l := NewListener(sink, os.factory)

	require.NoError(t, l.Register(allSymbols()))
	defer l.Close()

	assert.True(t, l.Enabled())
	assert.Len(t, os.bindings, 36)
	for _, s := range allSymbols() {
		assert.Equal(t, Registered, l.State(s), s)
	}
	assert.Empty(t, l.Conflicts())

	assert.ErrorIs(t, l.Register(allSymbols()), ErrAlreadyRegistered)
}

func TestRegisterSkipsConflicts(t *testing.T) {
	os := newFakeOS("C", "7")
	sink := &recordingSink{}
	l := NewListener(sink, os.factory)

	require.NoError(t, l.Register(allSymbols()))
	defer l.Close()

	assert.Equal(t, Unregistered, l.State("C"))
	assert.Equal(t, Unregistered, l.State("7"))
	assert.Equal(t, Registered, l.State("D"))

	conflicts := l.Conflicts()
	require.Len(t, conflicts, 2)
	assert.Equal(t, "7", conflicts[0].Symbol)
	assert.Equal(t, "C", conflicts[1].Symbol)
	assert.ErrorIs(t, conflicts[0].Err, errClaimed)

	registered := 0
	for _, b := range os.bindings {
		if b.registered {
			registered++
		}
	}
	assert.Equal(t, 34, registered)
}

func TestKeydownForwardsInOrder(t *testing.T) {
	os := newFakeOS()
	sink := &recordingSink{}
	l := NewListener(sink, os.factory)
	require.NoError(t, l.Register([]string{"A", "B"}))
	defer l.Close()

	require.True(t, os.bindings["A"].press())
	require.Eventually(t, func() bool { return len(sink.symbols()) == 1 }, time.Second, time.Millisecond)
	require.True(t, os.bindings["B"].press())
	require.Eventually(t, func() bool { return len(sink.symbols()) == 2 }, time.Second, time.Millisecond)

	assert.Equal(t, []string{"A", "B"}, sink.symbols())
}

func TestDisableAllStopsEvents(t *testing.T) {
	os := newFakeOS()
	sink := &recordingSink{}
	l := NewListener(sink, os.factory)
	require.NoError(t, l.Register(allSymbols()))

	l.DisableAll()
	l.DisableAll()

	assert.False(t, l.Enabled())
	for _, s := range allSymbols() {
		assert.Equal(t, Unregistered, l.State(s))
		assert.False(t, os.bindings[s].press(), "disabled hotkey must not fire")
	}

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, sink.symbols())
}

func TestEnableAllIsIdempotent(t *testing.T) {
	os := newFakeOS()
	sink := &recordingSink{}
	l := NewListener(sink, os.factory)
	require.NoError(t, l.Register([]string{"A"}))
	defer l.Close()

	l.EnableAll()
	l.EnableAll()
	assert.Equal(t, 1, os.bindings["A"].registers)

	l.DisableAll()
	l.EnableAll()
	assert.Equal(t, 2, os.bindings["A"].registers)
	assert.Equal(t, Registered, l.State("A"))

	require.True(t, os.bindings["A"].press())
	require.Eventually(t, func() bool { return len(sink.symbols()) == 1 }, time.Second, time.Millisecond)
}

func TestConcurrentToggle(t *testing.T) {
	os := newFakeOS()
	l := NewListener(&recordingSink{}, os.factory)
	require.NoError(t, l.Register(allSymbols()))
	defer l.Close()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				l.DisableAll()
			} else {
				l.EnableAll()
			}
		}()
	}
	wg.Wait()

	l.EnableAll()
	for _, s := range allSymbols() {
		assert.Equal(t, Registered, l.State(s))
	}
}
