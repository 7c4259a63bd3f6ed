//go:build !windows

package platform

import (
	"log/slog"
)

// LogNotifier reports alerts through the log. The dashboard shows the same
// alerts through its websocket feed.
type LogNotifier struct{}

// NewNotifier creates a new notifier
func NewNotifier() Notifier {
	return &LogNotifier{}
}

// Alert logs the message
func (n *LogNotifier) Alert(title, message string) {
	slog.Error(message, "title", title)
}
