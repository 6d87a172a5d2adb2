package logger

import (
	"bytes"
	"context"
	"testing"

	kit "tripstats/internal/platform/testkit"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"warning", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, c := range cases {
		if got := parseLevel(c.in); got != c.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

// Init is process wide, so this is the only test that calls it
func TestInit_NamedAndRequestScoped(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "debug", Format: "json", Writer: &buf})
	Init(Options{Level: "off"}) // ignored

	Get().Debug().Msg("root-msg")
	Named("ingest").Info().Int64("lines", 3).Msg("named-msg")
	C(WithRequest(context.Background(), "req-123")).Info().Msg("ctx-msg")
	C(WithRequest(context.Background(), "")).Info().Msg("ctx-empty")

	out := buf.String()
	kit.MustContain(t, out, `"message":"root-msg"`)
	kit.MustContain(t, out, `"component":"ingest"`)
	kit.MustContain(t, out, `"lines":3`)
	kit.MustContain(t, out, `"request_id":"req-123"`)
	kit.MustContain(t, out, `"service":"tripstats"`)
	kit.MustContain(t, out, `"commit":"none"`)
	kit.MustContain(t, out, "ctx-empty")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", " WARN ")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_CALLER", "yes")
	if o := FromEnv(); o.Level != "warn" || o.Format != "json" || !o.Caller {
		t.Fatalf("FromEnv = %+v", o)
	}

	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("LOG_CALLER", "")
	if o := FromEnv(); o.Level != "info" || o.Format != "console" || o.Caller {
		t.Fatalf("defaults = %+v", o)
	}
}
