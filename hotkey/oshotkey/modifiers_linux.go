//go:build linux

package oshotkey

import xhotkey "golang.design/x/hotkey"

// Alt is Mod1 and Super is Mod4 on X11
const (
	modCtrl  = xhotkey.ModCtrl
	modShift = xhotkey.ModShift
	modAlt   = xhotkey.Mod1
	modWin   = xhotkey.Mod4
)
