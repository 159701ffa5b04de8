// Package version provides information about the build version of the service.
package version

// BuildInfo holds version information about the service build.
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information. The version, commit, and date variables
// are intended to be set at build time using -ldflags.
func Info() BuildInfo {
	// Set via -ldflags "-X 'embedbatch/internal/core/version.version=v0.1.0'
	// -X 'embedbatch/internal/core/version.commit=abcd' -X 'embedbatch/internal/core/version.date=2025-09-02'"
	return BuildInfo{
		Service: Service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// Service names the binary in build info and meta responses
const Service = "embedbatch-api"

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
