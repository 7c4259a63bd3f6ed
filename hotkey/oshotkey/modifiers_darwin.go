//go:build darwin

package oshotkey

import xhotkey "golang.design/x/hotkey"

const (
	modCtrl  = xhotkey.ModCtrl
	modShift = xhotkey.ModShift
	modAlt   = xhotkey.ModOption
	modWin   = xhotkey.ModCmd
)
