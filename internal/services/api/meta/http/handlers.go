// Package http serves the meta routes: liveness, readiness, build and uptime
package http

import (
	"context"
	"net/http"
	"time"

	"embedbatch/internal/core/version"
	"embedbatch/internal/modkit/httpkit"
	bdom "embedbatch/internal/services/batcher/domain"
)

// readyTimeout bounds all dependency pings of one readiness probe
const readyTimeout = 2 * time.Second

// Pinger is satisfied by store adapters
type Pinger interface {
	Ping(context.Context) error
}

// Worker reports the aggregator loop state
type Worker interface {
	State() bdom.State
	QueueClosed() bool
}

// Deps are the handler dependencies; nil PG, CH or Worker are reported as skipped
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Worker      Worker
	PG          any
	CH          any
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Started string `json:"started"`
	Now     string `json:"now"`
}

// ReadyCheck is one dependency verdict: ok, fail, skipped or unknown
type ReadyCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ReadyResponse is fail when any check failed
type ReadyResponse struct {
	Status string       `json:"status"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"`
}

// ServiceResponse reports uptime in whole seconds
type ServiceResponse struct {
	Name    string `json:"name"`
	Started string `json:"started"`
	Uptime  int64  `json:"uptime"`
}

// Register mounts /health, /ready, /version and /service on r
func Register(r httpkit.Router, d Deps) {
	httpkit.Get(r, "/health", func(*http.Request) (any, error) {
		return HealthResponse{OK: true, Service: d.ServiceName, Started: stamp(d.StartedAt), Now: stamp(time.Now())}, nil
	})
	httpkit.Get(r, "/ready", func(r *http.Request) (any, error) {
		return d.ready(r.Context()), nil
	})
	httpkit.Get(r, "/version", func(*http.Request) (any, error) {
		return version.Info(), nil
	})
	httpkit.Get(r, "/service", func(*http.Request) (any, error) {
		return ServiceResponse{
			Name:    d.ServiceName,
			Started: stamp(d.StartedAt),
			Uptime:  int64(time.Since(d.StartedAt) / time.Second),
		}, nil
	})
}

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func (d Deps) ready(ctx context.Context) ReadyResponse {
	ctx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()

	out := ReadyResponse{Status: "ok", Now: stamp(time.Now())}
	out.Checks = []ReadyCheck{d.workerCheck(), ping(ctx, "pg", d.PG), ping(ctx, "ch", d.CH)}
	for _, c := range out.Checks {
		if c.Status == "fail" {
			out.Status = "fail"
		}
	}
	return out
}

// workerCheck passes while the aggregator loop runs
func (d Deps) workerCheck() ReadyCheck {
	c := ReadyCheck{Name: "batcher", Status: "skipped"}
	if d.Worker == nil {
		return c
	}
	st := d.Worker.State()
	c.Detail = st.String()
	switch {
	case !st.Running():
		c.Status = "fail"
	case d.Worker.QueueClosed():
		c.Status, c.Detail = "fail", "draining"
	default:
		c.Status = "ok"
	}
	return c
}

func ping(ctx context.Context, name string, dep any) ReadyCheck {
	c := ReadyCheck{Name: name}
	switch p, ok := dep.(Pinger); {
	case dep == nil:
		c.Status = "skipped"
	case !ok:
		c.Status = "unknown"
	default:
		if err := p.Ping(ctx); err != nil {
			c.Status, c.Error = "fail", err.Error()
		} else {
			c.Status = "ok"
		}
	}
	return c
}
