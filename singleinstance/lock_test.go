package singleinstance

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryLock(t *testing.T) {
	name := fmt.Sprintf("typeitown-test-%d", time.Now().UnixNano())

	first, err := TryLock(name)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := TryLock(name)
	assert.ErrorIs(t, err, ErrAlreadyRunning)
	assert.Nil(t, second)

	require.NoError(t, first.Release())
	require.NoError(t, first.Release())

	again, err := TryLock(name)
	require.NoError(t, err)
	require.NoError(t, again.Release())
}

func TestTryLockRequiresName(t *testing.T) {
	_, err := TryLock("")
	assert.Error(t, err)
}

func TestReleaseNil(t *testing.T) {
	var l *Lock
	assert.NoError(t, l.Release())
}
