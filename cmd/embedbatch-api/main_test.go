package main

import (
	"os"
	"testing"

	kit "embedbatch/internal/platform/testkit"
)

func TestMustSetEnv(t *testing.T) {
	t.Setenv("CORE_BATCH_MAX_SIZE", "8")

	mustSetEnv("CORE_BATCH_MAX_SIZE", "")
	if got := os.Getenv("CORE_BATCH_MAX_SIZE"); got != "8" {
		t.Fatalf("empty flag overwrote env: %q", got)
	}

	mustSetEnv("CORE_BATCH_MAX_SIZE", "16")
	if got := os.Getenv("CORE_BATCH_MAX_SIZE"); got != "16" {
		t.Fatalf("flag not exported: %q", got)
	}

	kit.MustPanic(t, func() { mustSetEnv("BAD=KEY", "1") })
}
