package ch

import (
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"embedbatch/internal/core/version"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// clientInfo labels connections in system.query_log; tag overrides the build version
func clientInfo(role, tag string) clickhouse.ClientInfo {
	bi := version.Info()
	if tag = strings.TrimSpace(tag); tag == "" {
		tag = bi.Version
	}
	commit := bi.Commit
	if commit == "" || commit == "none" {
		commit = vcsRevision()
	}
	host, _ := os.Hostname()

	info := clickhouse.ClientInfo{}
	for _, p := range [][2]string{
		{"embedbatch", tag},
		{"role", role},
		{"go", runtime.Version()},
		{"commit", commit},
		{"host", host},
	} {
		info.Products = append(info.Products, struct{ Name, Version string }{p[0], strings.TrimSpace(p[1])})
	}
	return info
}

func vcsRevision() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return s.Value[:7]
		}
	}
	return "unknown"
}
