//go:build windows

package oshotkey

import xhotkey "golang.design/x/hotkey"

const (
	modCtrl  = xhotkey.ModCtrl
	modShift = xhotkey.ModShift
	modAlt   = xhotkey.ModAlt
	modWin   = xhotkey.ModWin
)
