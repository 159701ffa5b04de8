// Package testkit holds assertions shared by package tests
package testkit

import (
	"strings"
	"testing"
	"time"
)

// MustPanic fails t unless fn panics
func MustPanic(t *testing.T, fn func()) {
	t.Helper()
	if !panics(fn) {
		t.Fatalf("expected panic, got none")
	}
}

// MustNotPanic fails t if fn panics
func MustNotPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	fn()
}

func panics(fn func()) (did bool) {
	defer func() { did = recover() != nil }()
	fn()
	return false
}

// MustContain fails t when needle is absent; long output is trimmed in the message
func MustContain(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		return
	}
	const keep = 2048
	if len(haystack) > keep {
		haystack = haystack[:keep] + "...(truncated)"
	}
	t.Fatalf("expected output to contain %q\noutput:\n%s", needle, haystack)
}

// pollEvery is the Eventually polling interval
const pollEvery = 2 * time.Millisecond

// Eventually polls cond until it holds or within elapses, then fails t naming what
func Eventually(t *testing.T, what string, within time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(within)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out after %s waiting for %s", within, what)
		}
		time.Sleep(pollEvery)
	}
}
