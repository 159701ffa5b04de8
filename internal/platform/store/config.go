package store

import "time"

// Config aggregates per backend configuration
type Config struct {
	// AppName is reported as the pg application_name and the default ch client name
	AppName string

	PG PGConfig
	CH CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// ConnectRetries bounds boot pings, backing off from 150ms to 2s; zero means 6
	ConnectRetries int
	// PingTimeout bounds each boot ping; zero means 5s
	PingTimeout time.Duration
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled bool
	URL     string

	// ClientName is the process role, ClientTag usually the build version
	ClientName string
	ClientTag  string
}
