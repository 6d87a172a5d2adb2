// Package testkit holds assertions and trip log fixtures shared by tests
package testkit

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

var seams sync.Mutex

// Swap points a package-level seam at replacement until the test ends
func Swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	orig := *target
	*target = replacement
	t.Cleanup(func() { *target = orig })
}

// Serial holds a process lock for the rest of the test; take it before Swap
// in tests whose seams other tests also swap
func Serial(t *testing.T) {
	t.Helper()
	seams.Lock()
	t.Cleanup(seams.Unlock)
}

func recovered(fn func()) (v any) {
	defer func() { v = recover() }()
	fn()
	return nil
}

func MustPanic(t *testing.T, fn func()) {
	t.Helper()
	if recovered(fn) == nil {
		t.Fatalf("expected panic, got none")
	}
}

func MustNotPanic(t *testing.T, fn func()) {
	t.Helper()
	if v := recovered(fn); v != nil {
		t.Fatalf("unexpected panic: %v", v)
	}
}

func MustContain(t *testing.T, out, want string) {
	t.Helper()
	if !strings.Contains(out, want) {
		t.Fatalf("missing %q in:\n%s", want, out)
	}
}

func MustNotContain(t *testing.T, out, unwanted string) {
	t.Helper()
	if strings.Contains(out, unwanted) {
		t.Fatalf("unexpected %q in:\n%s", unwanted, out)
	}
}

// WriteLines writes a trip log, lines joined by '\n' with no trailing newline,
// into the test's temp dir and returns its path
func WriteLines(t *testing.T, name string, lines ...string) string {
	t.Helper()
	return write(t, name, []byte(strings.Join(lines, "\n")))
}

// WriteGzipLines is WriteLines for a gzip compressed log
func WriteGzipLines(t *testing.T, name string, lines ...string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = zw.Write([]byte(strings.Join(lines, "\n")))
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip %s: %v", name, err)
	}
	return write(t, name, buf.Bytes())
}

func write(t *testing.T, name string, b []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, b, 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
