// Package version names the running tripstats build. It shows up in every log
// line, in the ClickHouse client info and on /meta/version.
package version

import (
	"runtime/debug"
	"sync"
)

// release and commit may be stamped with
// -ldflags "-X tripstats/internal/core/version.release=v0.3.0 -X tripstats/internal/core/version.commit=abc1234".
// An unstamped commit falls back to the vcs.revision the go tool embeds.
var (
	release = "dev"
	commit  = ""
)

type Build struct {
	Service string `json:"service"`
	Release string `json:"release"`
	Commit  string `json:"commit"`
	Built   string `json:"built,omitempty"`
	Go      string `json:"go"`
}

var current = sync.OnceValue(func() Build {
	b := Build{Service: "tripstats", Release: release, Commit: commit}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return finish(b)
	}
	b.Go = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if b.Commit == "" && len(s.Value) >= 7 {
				b.Commit = s.Value[:7]
			}
		case "vcs.time":
			b.Built = s.Value
		}
	}
	return finish(b)
})

func finish(b Build) Build {
	if b.Commit == "" {
		b.Commit = "none"
	}
	return b
}

func Get() Build { return current() }

// Commit is the short commit id, "none" when the build carries none
func Commit() string { return current().Commit }
