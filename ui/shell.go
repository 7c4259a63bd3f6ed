// Package ui holds the state the user sees: the status line, the snippet
// buttons and notifications. Mutations happen on the UI loop only; other
// goroutines read snapshots.
package ui

import (
	"log/slog"
	"sync"
	"time"

	"markestedt/typeitown/catalog"
	"markestedt/typeitown/platform"
)

const InitialStatus = "Select a button"

// Button is one of the 36 snippet buttons
type Button struct {
	Symbol  string `json:"symbol"`
	Text    string `json:"text"`
	Row     int    `json:"row"`
	Enabled bool   `json:"enabled"`
}

// Group is a column of buttons for a key range
type Group struct {
	Name    string   `json:"name"`
	Buttons []Button `json:"buttons"`
}

// Notice is a user-visible message
type Notice struct {
	Title   string    `json:"title"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// State is a copy of everything the UI renders
type State struct {
	Status         string   `json:"status"`
	Source         string   `json:"source"`
	Groups         []Group  `json:"groups"`
	HotkeysEnabled bool     `json:"hotkeysEnabled"`
	Conflicts      []string `json:"conflicts"`
	Reloading      bool     `json:"reloading"`
}

// Publisher pushes changes to attached views
type Publisher interface {
	PublishState(s State)
	PublishNotice(n Notice)
}

type Shell struct {
	notifier platform.Notifier

	mu        sync.RWMutex
	state     State
	publisher Publisher
}

// NewShell creates the shell with the initial status line
func NewShell(notifier platform.Notifier, source string) *Shell {
	return &Shell{
		notifier: notifier,
		state: State{
			Status: InitialStatus,
			Source: source,
			Groups: BuildGroups(catalog.Build(nil)),
		},
	}
}

// SetPublisher attaches a view. Only one view is supported.
func (s *Shell) SetPublisher(p Publisher) {
	s.mu.Lock()
	s.publisher = p
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state
func (s *Shell) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

// SetStatus replaces the status line
func (s *Shell) SetStatus(text string) {
	s.update(func(st *State) { st.Status = text })
}

// ShowCatalog rebuilds the buttons from c
func (s *Shell) ShowCatalog(c *catalog.Catalog) {
	groups := BuildGroups(c)
	s.update(func(st *State) { st.Groups = groups })
}

// SetHotkeys records the listener state for display
func (s *Shell) SetHotkeys(enabled bool, conflicts []string) {
	s.update(func(st *State) {
		st.HotkeysEnabled = enabled
		st.Conflicts = append([]string(nil), conflicts...)
	})
}

// SetReloading marks a reload as running or finished
func (s *Shell) SetReloading(busy bool) {
	s.update(func(st *State) { st.Reloading = busy })
}

// Notify shows a non-blocking notification
func (s *Shell) Notify(title, message string) {
	n := Notice{Title: title, Message: message, At: time.Now()}

	s.mu.RLock()
	p := s.publisher
	s.mu.RUnlock()
	if p != nil {
		p.PublishNotice(n)
	}

	slog.Warn("Notification", "title", title, "message", message)
	if s.notifier != nil {
		go s.notifier.Alert(title, message)
	}
}

func (s *Shell) update(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	snapshot := s.copyLocked()
	p := s.publisher
	s.mu.Unlock()

	if p != nil {
		p.PublishState(snapshot)
	}
}

func (s *Shell) copyLocked() State {
	st := s.state
	st.Groups = make([]Group, len(s.state.Groups))
	for i, g := range s.state.Groups {
		st.Groups[i] = Group{Name: g.Name, Buttons: append([]Button(nil), g.Buttons...)}
	}
	st.Conflicts = append([]string(nil), s.state.Conflicts...)
	return st
}

// BuildGroups lays out one button per symbol in three columns: 0-9, A-M
// and N-Z. Symbols without a bound entry get a disabled button.
func BuildGroups(c *catalog.Catalog) []Group {
	ranges := []struct {
		name    string
		symbols string
	}{
		{"0-9", catalog.Symbols[:10]},
		{"A-M", catalog.Symbols[10:23]},
		{"N-Z", catalog.Symbols[23:]},
	}

	groups := make([]Group, 0, len(ranges))
	for _, r := range ranges {
		g := Group{Name: r.name, Buttons: make([]Button, 0, len(r.symbols))}
		for _, sym := range r.symbols {
			b := Button{Symbol: string(sym), Text: "N/A"}
			if e, ok := c.Lookup(string(sym)); ok {
				b.Text = e.DisplayName()
				b.Row = e.Row
				b.Enabled = e.Bound
			}
			g.Buttons = append(g.Buttons, b)
		}
		groups = append(groups, g)
	}
	return groups
}
