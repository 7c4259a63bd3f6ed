// Package singleinstance keeps a second copy of the app from registering the
// same global hotkeys.
package singleinstance

import "errors"

// ErrAlreadyRunning is returned by TryLock when another instance holds the lock
var ErrAlreadyRunning = errors.New("another instance is already running")

// DefaultName is the lock name used by the app
const DefaultName = "typeitown"
