package store

import "embedbatch/internal/platform/logger"

// Option adjusts a Store before any client opens
type Option func(*Store) error

// WithLogger routes adapter logs, including the pg query tracer, to log
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}
