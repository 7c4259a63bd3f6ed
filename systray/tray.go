// Package systray puts the app in the notification area.
package systray

import (
	"log/slog"
	"os/exec"
	"runtime"
	"sync"

	"github.com/getlantern/systray"
)

// Actions are the commands reachable from the tray menu
type Actions interface {
	Reload()
	SetHotkeysEnabled(enabled bool)
	HotkeysEnabled() bool
}

// Tray manages the tray icon and its menu
type Tray struct {
	url      string
	iconData []byte
	actions  Actions

	quit     chan struct{}
	quitOnce sync.Once
}

// New creates a tray whose "Open" item points at url
func New(url string, iconData []byte, actions Actions) *Tray {
	return &Tray{
		url:      url,
		iconData: iconData,
		actions:  actions,
		quit:     make(chan struct{}),
	}
}

// Run shows the tray icon. It blocks until Stop is called or the user quits.
func (t *Tray) Run() {
	// The tray window and its message loop must share one OS thread
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	systray.Run(t.onReady, t.onExit)
}

// Stop removes the tray icon
func (t *Tray) Stop() {
	systray.Quit()
}

// Quit is closed when the user picks Quit from the menu
func (t *Tray) Quit() <-chan struct{} {
	return t.quit
}

func (t *Tray) onReady() {
	if len(t.iconData) > 0 {
		systray.SetIcon(t.iconData)
	}
	systray.SetTitle("TypeItOwn")
	systray.SetTooltip("TypeItOwn - Snippet hotkeys")

	mOpen := systray.AddMenuItem("Open snippets", "Open the snippet buttons in the browser")
	mReload := systray.AddMenuItem("Reload data", "Read the data file again")
	mHotkeys := systray.AddMenuItemCheckbox("Hotkeys enabled", "Switch the global hotkeys on or off", t.actions.HotkeysEnabled())
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Exit TypeItOwn")

	go func() {
		for {
			select {
			case <-mOpen.ClickedCh:
				OpenBrowser(t.url)
			case <-mReload.ClickedCh:
				t.actions.Reload()
			case <-mHotkeys.ClickedCh:
				if t.toggleHotkeys() {
					mHotkeys.Check()
				} else {
					mHotkeys.Uncheck()
				}
			case <-mQuit.ClickedCh:
				slog.Info("User requested quit from system tray")
				t.quitOnce.Do(func() { close(t.quit) })
				systray.Quit()
				return
			}
		}
	}()
}

// toggleHotkeys flips the hotkeys from their live state, which the
// dashboard may have changed since the menu was last drawn
func (t *Tray) toggleHotkeys() bool {
	t.actions.SetHotkeysEnabled(!t.actions.HotkeysEnabled())
	return t.actions.HotkeysEnabled()
}

func (t *Tray) onExit() {
	slog.Info("System tray exited")
}

// OpenBrowser opens url in the default browser
func OpenBrowser(url string) {
	slog.Info("Opening web UI", "url", url)

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	default:
		slog.Error("Unsupported platform for opening browser", "platform", runtime.GOOS)
		return
	}

	if err := cmd.Start(); err != nil {
		slog.Error("Failed to open web UI", "error", err)
	}
}
