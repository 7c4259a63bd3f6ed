//go:build !windows

package platform

import (
	"github.com/go-vgo/robotgo"
)

// RobotTyper implements the Typer interface with robotgo
type RobotTyper struct{}

// NewTyper creates a new typer instance
func NewTyper() Typer {
	return &RobotTyper{}
}

// Type sends text as keystrokes. robotgo reports no errors for typing.
func (t *RobotTyper) Type(text string) error {
	if text == "" {
		return nil
	}
	robotgo.TypeStr(text)
	return nil
}
