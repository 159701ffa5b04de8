package testkit

import (
	"sync"
	"testing"
)

var seams sync.Mutex

// Swap points a package-level seam at replacement until t finishes
func Swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	prev := *target
	*target = replacement
	t.Cleanup(func() { *target = prev })
}

// Serial holds a process-wide lock until t finishes; tests that Swap shared seams take it first
func Serial(t *testing.T) {
	t.Helper()
	seams.Lock()
	t.Cleanup(seams.Unlock)
}
