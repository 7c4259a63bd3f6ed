package main

import (
	"context"
	_ "embed"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"golang.design/x/hotkey/mainthread"

	"markestedt/typeitown/config"
	"markestedt/typeitown/hotkey/oshotkey"
	"markestedt/typeitown/platform"
	"markestedt/typeitown/singleinstance"
)

//go:embed icon.ico
var iconData []byte

func main() {
	// Hotkeys on macOS must be registered from the main thread
	mainthread.Init(func() { os.Exit(run()) })
}

func run() int {
	// Setup logging
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		return 1
	}
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		slog.Warn("Unknown log level, using info", "log_level", cfg.LogLevel)
	}

	configPath, _ := config.ConfigPath()
	slog.Info("Configuration loaded", "path", configPath)

	lock, err := singleinstance.TryLock(singleinstance.DefaultName)
	if errors.Is(err, singleinstance.ErrAlreadyRunning) {
		slog.Error("TypeItOwn is already running")
		return 1
	}
	if err != nil {
		slog.Error("Failed to acquire instance lock", "error", err)
		return 1
	}
	defer lock.Release()

	mods, err := config.ParseModifiers(cfg.Hotkey.Modifiers)
	if err != nil {
		slog.Error("Invalid hotkey modifiers", "error", err)
		return 1
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	notifier := platform.NewNotifier()

	src, initial, err := OpenInitialCatalog(ctx, cfg.DataSource.Path, notifier)
	if err != nil {
		slog.Error("Cannot start without data", "path", cfg.DataSource.Path, "error", err)
		return 1
	}

	// Create agent
	agent, err := NewAgent(cfg, initial, Deps{
		Source:   src,
		Hotkeys:  oshotkey.NewFactory(mods),
		Typer:    platform.NewTyper(),
		Notifier: notifier,
		// Outside Windows the tray wants the main thread, which hotkeys own
		Tray: runtime.GOOS == "windows",
		Icon: iconData,
	})
	if err != nil {
		slog.Error("Failed to create agent", "error", err)
		return 1
	}

	// Run agent
	if err := agent.Run(ctx); err != nil {
		slog.Error("Agent error", "error", err)
		return 1
	}

	slog.Info("TypeItOwn stopped")
	return 0
}
