package oshotkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xhotkey "golang.design/x/hotkey"

	"markestedt/typeitown/config"
	"markestedt/typeitown/hotkey"
)

func TestKeyFor(t *testing.T) {
	k, err := KeyFor("a")
	require.NoError(t, err)
	assert.Equal(t, xhotkey.KeyA, k)

	k, err = KeyFor("9")
	require.NoError(t, err)
	assert.Equal(t, xhotkey.Key9, k)

	_, err = KeyFor("F1")
	assert.Error(t, err)
}

func TestModifiersFor(t *testing.T) {
	mods := ModifiersFor(config.Modifiers{Ctrl: true, Shift: true})
	assert.Equal(t, []xhotkey.Modifier{modCtrl, modShift}, mods)
}

func TestPumpConvertsUntilClosed(t *testing.T) {
	src := make(chan xhotkey.Event)
	dst := make(chan hotkey.Event, 1)
	done := make(chan struct{})
	go func() {
		pump(src, dst)
		close(done)
	}()

	src <- xhotkey.Event{}
	<-dst
	close(src)
	<-done

	_, ok := <-dst
	assert.False(t, ok)
}
