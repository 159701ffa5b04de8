package module

import (
	"testing"

	phttp "embedbatch/internal/platform/net/http"
	kit "embedbatch/internal/platform/testkit"
)

type stubModule struct{ ports any }

func (s stubModule) MountRoutes(phttp.Router) {}
func (s stubModule) Ports() any               { return s.ports }
func (s stubModule) Name() string             { return "stub" }

type Stats interface{ Submitted() int64 }
type Closer interface{ Close() }

type statsImpl struct{ n int64 }

func (s statsImpl) Submitted() int64 { return s.n }

type bundle struct {
	hidden Stats
	Stats  Stats
	Count  int
}

func TestPortsOf(t *testing.T) {
	direct := stubModule{ports: statsImpl{n: 3}}
	if s, ok := PortsOf[Stats](direct); !ok || s.Submitted() != 3 {
		t.Fatalf("direct bundle: %v %v", s, ok)
	}

	fielded := stubModule{ports: bundle{hidden: statsImpl{n: 1}, Stats: statsImpl{n: 9}}}
	if s, ok := PortsOf[Stats](fielded); !ok || s.Submitted() != 9 {
		t.Fatalf("exported field should win over unexported: %v %v", s, ok)
	}

	misses := []stubModule{{ports: nil}, {ports: 42}, {ports: bundle{}}}
	for _, m := range misses {
		if _, ok := PortsOf[Closer](m); ok {
			t.Fatalf("unexpected hit on %#v", m.ports)
		}
	}
}

func TestMustPortsOf(t *testing.T) {
	m := stubModule{ports: bundle{Stats: statsImpl{n: 2}}}
	if MustPortsOf[Stats](m).Submitted() != 2 {
		t.Fatalf("wrong port")
	}
	kit.MustPanic(t, func() { _ = MustPortsOf[Closer](m) })
}
