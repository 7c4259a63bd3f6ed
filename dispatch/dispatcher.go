// Package dispatch resolves hotkey triggers and button clicks against the
// current catalog and schedules the resulting injections.
//
// Every method of Dispatcher must be called on the UI loop.
package dispatch

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"markestedt/typeitown/catalog"
	"markestedt/typeitown/hotkey"
)

var (
	// ErrNotFound means nothing is bound to the key or row. It is never shown
	// to the user.
	ErrNotFound = errors.New("no entry for trigger")

	// ErrNoDataFound means the entry exists but has nothing to inject
	ErrNoDataFound = errors.New("no data found")
)

const (
	NoDataTitle   = "Error"
	NoDataMessage = "No Data Found !!!"
)

// Shell is the user-facing side of the UI loop
type Shell interface {
	SetStatus(text string)
	Notify(title, message string)
}

// Scheduler runs deferred work on the UI loop
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) bool
}

// Injector accepts text for background typing
type Injector interface {
	Inject(text string) bool
}

// Catalogs provides the catalog installed right now
type Catalogs interface {
	Current() *catalog.Catalog
}

// Context describes one trigger from resolution to scheduled injection
type Context struct {
	ID          uuid.UUID
	Key         string
	Row         int
	Entry       *catalog.Entry
	ScheduledAt time.Time
	FireAt      time.Time
}

type Dispatcher struct {
	catalogs Catalogs
	shell    Shell
	sched    Scheduler
	injector Injector
	delay    time.Duration
	now      func() time.Time
}

// New creates a dispatcher that injects delay after resolution
func New(catalogs Catalogs, shell Shell, sched Scheduler, injector Injector, delay time.Duration) *Dispatcher {
	return &Dispatcher{
		catalogs: catalogs,
		shell:    shell,
		sched:    sched,
		injector: injector,
		delay:    delay,
		now:      time.Now,
	}
}

// HandleKey is the bridge entry point for hotkey events
func (d *Dispatcher) HandleKey(ev hotkey.RawKeyEvent) {
	if _, err := d.OnTrigger(ev.Symbol); err != nil && !errors.Is(err, ErrNotFound) {
		slog.Warn("Hotkey trigger failed", "symbol", ev.Symbol, "error", err)
	}
}

// OnTrigger resolves a hotkey symbol
func (d *Dispatcher) OnTrigger(key string) (Context, error) {
	dc := Context{ID: uuid.New(), Key: key}
	if e, ok := d.catalogs.Current().Lookup(key); ok {
		dc.Entry = &e
		dc.Row = e.Row
	}
	return dc, d.dispatch(&dc)
}

// OnButtonClick resolves a button by the source row it was built from
func (d *Dispatcher) OnButtonClick(row int) (Context, error) {
	dc := Context{ID: uuid.New(), Row: row}
	if e, ok := d.catalogs.Current().LookupRow(row); ok {
		dc.Entry = &e
		dc.Key = e.Key
	}
	return dc, d.dispatch(&dc)
}

func (d *Dispatcher) dispatch(dc *Context) error {
	log := slog.With("dispatch_id", dc.ID.String(), "key", dc.Key, "row", dc.Row)

	if dc.Entry == nil {
		log.Debug("Trigger not bound, ignoring")
		return ErrNotFound
	}

	if !dc.Entry.Usable() {
		log.Warn("Entry has no data")
		d.shell.Notify(NoDataTitle, NoDataMessage)
		return fmt.Errorf("%s: %w", dc.Entry.DisplayName(), ErrNoDataFound)
	}

	d.shell.SetStatus(SelectedStatus(dc.Entry.Label))

	payload := dc.Entry.Payload
	dc.ScheduledAt = d.now()
	dc.FireAt = dc.ScheduledAt.Add(d.delay)

	id := dc.ID.String()
	d.sched.AfterFunc(d.delay, func() {
		slog.Debug("Handing snippet to injector", "dispatch_id", id)
		d.injector.Inject(payload)
	})

	log.Info("Snippet scheduled", "label", dc.Entry.Label, "fire_at", dc.FireAt.Format(time.TimeOnly))
	return nil
}

// SelectedStatus is the status line shown after a successful selection
func SelectedStatus(label string) string {
	return `Selected: "` + label + `"`
}
