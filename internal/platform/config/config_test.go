package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	perr "tripstats/internal/platform/errors"
)

func TestPrefixAndKey(t *testing.T) {
	ing := New().Prefix("CORE_").Prefix("INGEST_")
	if got := ing.key("WORKERS"); got != "CORE_INGEST_WORKERS" {
		t.Fatalf("key() = %q", got)
	}
}

func TestMay_DefaultsAndParsing(t *testing.T) {
	c := New().Prefix("CORE_INGEST_")
	t.Setenv("CORE_INGEST_WORKERS", "4")
	t.Setenv("CORE_INGEST_BAD_INT", "four")
	t.Setenv("CORE_INGEST_FLAG", "true")
	t.Setenv("CORE_INGEST_BAD_FLAG", "maybe")
	t.Setenv("CORE_INGEST_WAIT", "250ms")
	t.Setenv("CORE_INGEST_BAD_WAIT", "soon")

	if got := c.MayInt("WORKERS", 1); got != 4 {
		t.Fatalf("MayInt = %d", got)
	}
	if got := c.MayInt("BAD_INT", 1); got != 1 {
		t.Fatalf("MayInt invalid = %d", got)
	}
	if got := c.MayInt("MISSING", 3); got != 3 {
		t.Fatalf("MayInt missing = %d", got)
	}
	if !c.MayBool("FLAG", false) || !c.MayBool("BAD_FLAG", true) || c.MayBool("MISSING", false) {
		t.Fatalf("MayBool mismatch")
	}
	if got := c.MayDuration("WAIT", time.Second); got != 250*time.Millisecond {
		t.Fatalf("MayDuration = %v", got)
	}
	if got := c.MayDuration("BAD_WAIT", time.Second); got != time.Second {
		t.Fatalf("MayDuration invalid = %v", got)
	}
	if got := c.MayString("MISSING", "d"); got != "d" {
		t.Fatalf("MayString = %q", got)
	}
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "test.env")
	if err := os.WriteFile(p, []byte("TRIPSTATS_DOTENV_A=file\nTRIPSTATS_DOTENV_B=file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TRIPSTATS_DOTENV_A", "env")
	t.Setenv("TRIPSTATS_DOTENV_B", "")
	_ = os.Unsetenv("TRIPSTATS_DOTENV_B")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), p); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("TRIPSTATS_DOTENV_A"); got != "env" {
		t.Fatalf("existing env overridden: %q", got)
	}
	if got := os.Getenv("TRIPSTATS_DOTENV_B"); got != "file" {
		t.Fatalf("file value not loaded: %q", got)
	}
}

type testProfile struct {
	Input string `yaml:"input" validate:"required"`
	Zones int    `yaml:"zones" validate:"min=0,max=1000"`
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yml")
	bad := filepath.Join(dir, "bad.yml")
	broken := filepath.Join(dir, "broken.yml")
	_ = os.WriteFile(good, []byte("input: trips.csv\nzones: 5\n"), 0o600)
	_ = os.WriteFile(bad, []byte("zones: 5000\n"), 0o600)
	_ = os.WriteFile(broken, []byte("zones: [\n"), 0o600)

	var p testProfile
	if err := LoadProfile(good, &p); err != nil {
		t.Fatalf("LoadProfile(good): %v", err)
	}
	if p.Input != "trips.csv" || p.Zones != 5 {
		t.Fatalf("decoded %+v", p)
	}

	if err := LoadProfile(bad, &testProfile{}); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("bad profile err = %v", err)
	}
	if err := LoadProfile(broken, &testProfile{}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("broken profile err = %v", err)
	}
	if err := LoadProfile(filepath.Join(dir, "none.yml"), &testProfile{}); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("missing profile err = %v", err)
	}
}
