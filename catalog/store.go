package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
)

// ErrReloadInProgress is returned when a reload is requested while another
// one has not finished yet.
var ErrReloadInProgress = errors.New("catalog reload already in progress")

// Store holds the current catalog and swaps it wholesale on reload
type Store struct {
	current atomic.Pointer[Catalog]
	busy    atomic.Bool
}

// NewStore creates a store with an initial catalog
func NewStore(initial *Catalog) *Store {
	s := &Store{}
	if initial == nil {
		initial = Build(nil)
	}
	s.current.Store(initial)
	return s
}

// Current returns the installed catalog. Callers may keep using it after a
// reload; it is never modified.
func (s *Store) Current() *Catalog {
	return s.current.Load()
}

// Reload loads src and installs the result. On failure the previous catalog
// stays installed. Concurrent calls are rejected with ErrReloadInProgress.
func (s *Store) Reload(ctx context.Context, src Source) (*Catalog, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrReloadInProgress
	}
	defer s.busy.Store(false)

	c, err := Load(ctx, src)
	if err != nil {
		return nil, err
	}

	s.current.Store(c)
	slog.Info("Catalog reloaded", "source", src.Name(), "entries", c.Len())
	return c, nil
}

// Reloading reports whether a reload is currently running
func (s *Store) Reloading() bool {
	return s.busy.Load()
}
