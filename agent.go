package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"markestedt/typeitown/catalog"
	"markestedt/typeitown/config"
	"markestedt/typeitown/dispatch"
	"markestedt/typeitown/eventloop"
	"markestedt/typeitown/hotkey"
	"markestedt/typeitown/inject"
	"markestedt/typeitown/platform"
	"markestedt/typeitown/systray"
	"markestedt/typeitown/ui"
	"markestedt/typeitown/watch"
	"markestedt/typeitown/web"
)

const (
	ErrorTitle           = "Error"
	MissingDataMessage   = "The required data file is missing !!!"
	MalformedDataMessage = "The data file could not be read !!!"
)

// Deps are the OS-facing pieces of the agent
type Deps struct {
	Source   catalog.Source
	Hotkeys  hotkey.Factory
	Typer    platform.Typer
	Notifier platform.Notifier
	Tray     bool
	Icon     []byte
}

// Agent coordinates hotkeys, the UI loop, and the injector
type Agent struct {
	cfg        *config.Config
	source     catalog.Source
	store      *catalog.Store
	loop       *eventloop.Loop
	bridge     *eventloop.Bridge
	listener   *hotkey.Listener
	injector   *inject.Injector
	dispatcher *dispatch.Dispatcher
	shell      *ui.Shell
	server     *web.Server
	watcher    *watch.FileWatcher
	tray       *systray.Tray
}

// OpenInitialCatalog opens the data source at path and loads it before
// anything else starts. Every failure is reported with a blocking alert.
func OpenInitialCatalog(ctx context.Context, path string, notifier platform.Notifier) (catalog.Source, *catalog.Catalog, error) {
	src, err := catalog.Open(path)
	if err != nil {
		alertStartup(notifier, err)
		return nil, nil, fmt.Errorf("failed to open data source: %w", err)
	}
	c, err := LoadInitialCatalog(ctx, src, notifier)
	if err != nil {
		return nil, nil, err
	}
	return src, c, nil
}

// LoadInitialCatalog reads the data source before anything else starts.
// A failure is reported with a blocking alert.
func LoadInitialCatalog(ctx context.Context, src catalog.Source, notifier platform.Notifier) (*catalog.Catalog, error) {
	c, err := catalog.Load(ctx, src)
	if err != nil {
		alertStartup(notifier, err)
		return nil, fmt.Errorf("failed to load data source: %w", err)
	}
	return c, nil
}

func alertStartup(notifier platform.Notifier, err error) {
	if notifier == nil {
		return
	}
	if errors.Is(err, catalog.ErrDataSourceMissing) {
		notifier.Alert(ErrorTitle, MissingDataMessage)
		return
	}
	notifier.Alert(ErrorTitle, MalformedDataMessage)
}

// NewAgent creates a new agent around an already loaded catalog
func NewAgent(cfg *config.Config, initial *catalog.Catalog, deps Deps) (*Agent, error) {
	if deps.Source == nil || deps.Hotkeys == nil || deps.Typer == nil {
		return nil, errors.New("source, hotkeys and typer are required")
	}

	a := &Agent{
		cfg:    cfg,
		source: deps.Source,
		store:  catalog.NewStore(initial),
		loop:   eventloop.New("ui"),
		shell:  ui.NewShell(deps.Notifier, deps.Source.Name()),
	}

	a.injector = inject.New(deps.Typer, cfg.Dispatch.Settle())
	a.dispatcher = dispatch.New(a.store, a.shell, a.loop, a.injector, cfg.Dispatch.Delay())
	a.bridge = eventloop.NewBridge(a.loop, a.dispatcher.HandleKey)
	a.listener = hotkey.NewListener(a.bridge, deps.Hotkeys)

	if cfg.Web.Enabled {
		a.server = web.NewServer(a.shell, a, cfg.Web.Port)
	}
	if cfg.DataSource.Watch {
		a.watcher = watch.New(cfg.DataSource.Path, watch.DefaultDebounce, a.Reload)
	}
	if deps.Tray {
		url := ""
		if a.server != nil {
			url = a.server.URL()
		}
		a.tray = systray.New(url, deps.Icon, a)
	}

	return a, nil
}

// Run starts the agent and blocks until ctx is cancelled or the user quits
func (a *Agent) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	start := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				slog.Error("Component stopped", "component", name, "error", err)
			}
		}()
	}

	start("injector", a.injector.Run)

	symbols := strings.Split(catalog.Symbols, "")
	if err := a.listener.Register(symbols); err != nil {
		return fmt.Errorf("failed to register hotkeys: %w", err)
	}
	defer a.listener.Close()

	a.loop.Post(func() {
		a.shell.ShowCatalog(a.store.Current())
		a.shell.SetHotkeys(a.listener.Enabled(), a.conflicts())
	})

	if a.server != nil {
		start("web", a.server.Start)
	}
	if a.watcher != nil {
		start("watcher", a.watcher.Run)
	}
	if a.tray != nil {
		go a.tray.Run()
		go func() {
			select {
			case <-a.tray.Quit():
				cancel()
			case <-ctx.Done():
				a.tray.Stop()
			}
		}()
	}

	slog.Info("TypeItOwn started",
		"source", a.source.Name(),
		"entries", a.store.Current().Len(),
		"modifiers", a.cfg.Hotkey.Modifiers,
		"conflicts", len(a.listener.Conflicts()))

	err := a.loop.Run(ctx)
	cancel()
	wg.Wait()
	return err
}

// Click presses the button built from row
func (a *Agent) Click(row int) {
	a.loop.Post(func() {
		if _, err := a.dispatcher.OnButtonClick(row); err != nil && !errors.Is(err, dispatch.ErrNotFound) {
			slog.Warn("Button click failed", "row", row, "error", err)
		}
	})
}

// Reload reads the data source again off the UI loop and refreshes the
// buttons when it succeeds. The previous catalog stays on failure.
func (a *Agent) Reload() {
	if a.store.Reloading() {
		slog.Info("Reload already running, ignoring request")
		return
	}

	a.loop.Post(func() { a.shell.SetReloading(true) })
	go func() {
		c, err := a.store.Reload(context.Background(), a.source)
		if errors.Is(err, catalog.ErrReloadInProgress) {
			// The running reload clears the flag when it finishes
			slog.Info("Reload already running, ignoring request")
			return
		}
		a.loop.Post(func() {
			defer a.shell.SetReloading(false)
			switch {
			case errors.Is(err, catalog.ErrDataSourceMissing):
				slog.Warn("Reload failed, keeping current catalog", "error", err)
				a.shell.Notify(ErrorTitle, MissingDataMessage)
			case err != nil:
				slog.Warn("Reload failed, keeping current catalog", "error", err)
				a.shell.Notify(ErrorTitle, MalformedDataMessage)
			default:
				a.shell.ShowCatalog(c)
			}
		})
	}()
}

// SetHotkeysEnabled switches the global hotkeys on or off
func (a *Agent) SetHotkeysEnabled(enabled bool) {
	if enabled {
		a.listener.EnableAll()
	} else {
		a.listener.DisableAll()
	}
	on := a.listener.Enabled()
	conflicts := a.conflicts()
	a.loop.Post(func() { a.shell.SetHotkeys(on, conflicts) })
}

// HotkeysEnabled reports whether the global hotkeys are switched on
func (a *Agent) HotkeysEnabled() bool {
	return a.listener.Enabled()
}

// Diagnostics reports the agent's health for the dashboard
func (a *Agent) Diagnostics() web.Diagnostics {
	typed, failed := a.injector.Stats()
	return web.Diagnostics{
		HotkeysEnabled: a.listener.Enabled(),
		Conflicts:      a.conflicts(),
		Entries:        a.store.Current().Len(),
		Injected:       typed,
		InjectFailed:   failed,
		DroppedEvents:  a.bridge.Dropped(),
	}
}

func (a *Agent) conflicts() []string {
	cs := a.listener.Conflicts()
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.String())
	}
	return out
}
