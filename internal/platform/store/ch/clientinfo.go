package ch

import (
	"os"
	"runtime"
	"strings"

	"tripstats/internal/core/version"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// ClientInfo tags the exporting process in system.query_log
// role says why the connection exists ("export", "serve")
func ClientInfo(role, tag string) clickhouse.ClientInfo {
	host, _ := os.Hostname()
	products := []struct{ Name, Version string }{
		{"tripstats", strings.TrimSpace(tag)},
		{"role", strings.TrimSpace(role)},
		{"go", runtime.Version()},
		{"build", version.Commit()},
		{"host", host},
	}
	return clickhouse.ClientInfo{Products: products}
}
