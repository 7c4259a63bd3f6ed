//go:build windows

package platform

import (
	"log/slog"

	"golang.org/x/sys/windows"
)

const (
	mbOK            = 0x00000000
	mbIconError     = 0x00000010
	mbSetForeground = 0x00010000
	mbTopmost       = 0x00040000
)

// WindowsNotifier shows a MessageBox
type WindowsNotifier struct{}

// NewNotifier creates a new Windows notifier
func NewNotifier() Notifier {
	return &WindowsNotifier{}
}

// Alert shows an error message box and waits for it to be closed
func (n *WindowsNotifier) Alert(title, message string) {
	t, err := windows.UTF16PtrFromString(title)
	if err != nil {
		slog.Error("Invalid alert title", "error", err)
		return
	}
	m, err := windows.UTF16PtrFromString(message)
	if err != nil {
		slog.Error("Invalid alert message", "error", err)
		return
	}

	if _, err := windows.MessageBox(0, m, t, mbOK|mbIconError|mbSetForeground|mbTopmost); err != nil {
		slog.Error("MessageBox failed", "error", err, "title", title, "message", message)
	}
}
