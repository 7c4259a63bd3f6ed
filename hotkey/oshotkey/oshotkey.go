// Package oshotkey backs hotkey.Binding with real global hotkeys.
package oshotkey

import (
	"fmt"
	"strings"

	xhotkey "golang.design/x/hotkey"

	"markestedt/typeitown/config"
	"markestedt/typeitown/hotkey"
)

var symbolKeys = map[string]xhotkey.Key{
	"0": xhotkey.Key0, "1": xhotkey.Key1, "2": xhotkey.Key2, "3": xhotkey.Key3, "4": xhotkey.Key4,
	"5": xhotkey.Key5, "6": xhotkey.Key6, "7": xhotkey.Key7, "8": xhotkey.Key8, "9": xhotkey.Key9,
	"A": xhotkey.KeyA, "B": xhotkey.KeyB, "C": xhotkey.KeyC, "D": xhotkey.KeyD, "E": xhotkey.KeyE,
	"F": xhotkey.KeyF, "G": xhotkey.KeyG, "H": xhotkey.KeyH, "I": xhotkey.KeyI, "J": xhotkey.KeyJ,
	"K": xhotkey.KeyK, "L": xhotkey.KeyL, "M": xhotkey.KeyM, "N": xhotkey.KeyN, "O": xhotkey.KeyO,
	"P": xhotkey.KeyP, "Q": xhotkey.KeyQ, "R": xhotkey.KeyR, "S": xhotkey.KeyS, "T": xhotkey.KeyT,
	"U": xhotkey.KeyU, "V": xhotkey.KeyV, "W": xhotkey.KeyW, "X": xhotkey.KeyX, "Y": xhotkey.KeyY,
	"Z": xhotkey.KeyZ,
}

// KeyFor returns the OS key for a shortcut symbol
func KeyFor(symbol string) (xhotkey.Key, error) {
	k, ok := symbolKeys[strings.ToUpper(symbol)]
	if !ok {
		return 0, fmt.Errorf("unknown symbol: %q", symbol)
	}
	return k, nil
}

// ModifiersFor converts the configured prefix to OS modifiers
func ModifiersFor(m config.Modifiers) []xhotkey.Modifier {
	var mods []xhotkey.Modifier
	if m.Ctrl {
		mods = append(mods, modCtrl)
	}
	if m.Shift {
		mods = append(mods, modShift)
	}
	if m.Alt {
		mods = append(mods, modAlt)
	}
	if m.Win {
		mods = append(mods, modWin)
	}
	return mods
}

// NewFactory creates real global hotkeys under the given modifier prefix
func NewFactory(m config.Modifiers) hotkey.Factory {
	mods := ModifiersFor(m)
	return func(symbol string) (hotkey.Binding, error) {
		key, err := KeyFor(symbol)
		if err != nil {
			return nil, err
		}
		return &binding{hk: xhotkey.New(mods, key)}, nil
	}
}

// binding adapts an x/hotkey hotkey to hotkey.Binding
type binding struct {
	hk      *xhotkey.Hotkey
	keydown chan hotkey.Event
}

func (b *binding) Register() error {
	if err := b.hk.Register(); err != nil {
		return err
	}
	// Keydown must be read after Register; Unregister closes it.
	b.keydown = make(chan hotkey.Event, 1)
	go pump(b.hk.Keydown(), b.keydown)
	return nil
}

func (b *binding) Unregister() error {
	return b.hk.Unregister()
}

func (b *binding) Keydown() <-chan hotkey.Event {
	return b.keydown
}

// pump converts OS events until src closes. Presses that arrive while the
// previous one is still pending are dropped.
func pump(src <-chan xhotkey.Event, dst chan<- hotkey.Event) {
	defer close(dst)
	for range src {
		select {
		case dst <- hotkey.Event{}:
		default:
		}
	}
}
