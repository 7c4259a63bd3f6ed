package systray

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeActions struct {
	mu      sync.Mutex
	enabled bool
}

func (a *fakeActions) Reload() {}

func (a *fakeActions) SetHotkeysEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

func (a *fakeActions) HotkeysEnabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.enabled
}

func TestToggleHotkeysFollowsLiveState(t *testing.T) {
	actions := &fakeActions{enabled: true}
	tray := New("http://localhost:8377", nil, actions)

	assert.False(t, tray.toggleHotkeys())
	assert.False(t, actions.HotkeysEnabled())

	// Switched back on elsewhere, e.g. from the dashboard
	actions.SetHotkeysEnabled(true)

	assert.False(t, tray.toggleHotkeys(), "one click turns them off again")
	assert.True(t, tray.toggleHotkeys())
	assert.True(t, actions.HotkeysEnabled())
}
