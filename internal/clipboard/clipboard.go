// Package clipboard is the shared text slot behind copy and paste. It
// prefers the system clipboard and falls back to an in-process slot when no
// clipboard utility is available, so copy/paste keeps working over SSH.
package clipboard

import (
	"sync"

	"github.com/atotto/clipboard"
)

var (
	mu       sync.Mutex
	fallback string
	memOnly  = clipboard.Unsupported
)

// Write stores text in the shared slot.
func Write(text string) error {
	mu.Lock()
	defer mu.Unlock()
	fallback = text
	if memOnly {
		return nil
	}
	if err := clipboard.WriteAll(text); err != nil {
		memOnly = true
	}
	return nil
}

// Read returns the current slot contents.
func Read() (string, error) {
	mu.Lock()
	defer mu.Unlock()
	if memOnly {
		return fallback, nil
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		memOnly = true
		return fallback, nil
	}
	return text, nil
}

// SetMemoryOnly forces the in-process slot. Tests use it to stay off the
// real system clipboard.
func SetMemoryOnly(on bool) {
	mu.Lock()
	defer mu.Unlock()
	memOnly = on
}
