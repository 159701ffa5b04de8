package service

import (
	perr "embedbatch/internal/platform/errors"
	"embedbatch/internal/platform/metrics"

	dom "embedbatch/internal/services/batcher/domain"
)

// MetricsObserver feeds batch observations into the prometheus collector
func MetricsObserver(c *metrics.Collector) dom.Observer {
	return dom.ObserverFunc(func(o dom.Observation) {
		c.ObserveBatch(string(o.Reason), o.Size, o.Window, o.Backend)
		c.QueueDepth(o.QueueDepth)
		c.Replies("delivered", o.Outcome.Delivered)
		c.Replies("failed", o.Outcome.Failed)
		c.Replies("aborted", o.Outcome.Aborted)
		if o.Outcome.Err != nil {
			c.BackendFailure(FailureKind(o.Outcome.Err))
		}
	})
}

// FailureKind labels a backend error as transport or parse
func FailureKind(err error) string {
	switch perr.CodeOf(err) {
	case perr.ErrorCodeBadGateway:
		return "transport"
	case perr.ErrorCodeBadUpstream:
		return "parse"
	default:
		return "other"
	}
}
