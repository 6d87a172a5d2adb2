package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	perr "tripstats/internal/platform/errors"
	kit "tripstats/internal/platform/testkit"
	"tripstats/internal/services/report/domain"
)

var exampleLines = []string{
	"A,x,2024-01-01 14:05:00,x,x,x",
	"A,x,2024-01-01 14:45:00,x,x,x",
	"B,x,2024-01-01 09:30:00,x,x,x",
}

func cleanEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CORE_INGEST_WORKERS", "CORE_INGEST_ZONE_COLUMN", "CORE_INGEST_TIME_COLUMN",
		"SERVICE_PGSQL_DBURL", "SERVICE_CLICKHOUSE_DBURL",
	} {
		t.Setenv(k, "")
	}
}

func TestRun_TableReport(t *testing.T) {
	cleanEnv(t)
	path := kit.WriteLines(t, "trips.csv", exampleLines...)

	var out bytes.Buffer
	err := run(context.Background(), []string{"-in", path, "-zone-col", "0", "-time-col", "2"}, nil, &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	got := out.String()
	kit.MustContain(t, got, "Top 2 zones")
	kit.MustContain(t, got, "Top 2 slots")
	kit.MustContain(t, got, "3 trips across 2 zones and 2 slots")
}

func TestRun_JSONFromStdinSharded(t *testing.T) {
	cleanEnv(t)
	stdin := strings.NewReader(strings.Join(exampleLines, "\n"))

	var out bytes.Buffer
	args := []string{"-in", "-", "-format", "json", "-workers", "3", "-zone-col", "0", "-time-col", "2", "-slots", "1"}
	if err := run(context.Background(), args, stdin, &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	var rep domain.Report
	if err := json.Unmarshal(out.Bytes(), &rep); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
	if len(rep.Zones) != 2 || rep.Zones[0].Zone != "A" || rep.Zones[0].Trips != 2 {
		t.Fatalf("zones = %+v", rep.Zones)
	}
	if len(rep.Slots) != 1 || rep.Slots[0].Zone != "A" || rep.Slots[0].Hour != 14 {
		t.Fatalf("slots = %+v", rep.Slots)
	}
	if rep.Summary.Run == nil || rep.Summary.Run.Source != "stdin" || rep.Summary.Run.Lines != 3 {
		t.Fatalf("run = %+v", rep.Summary.Run)
	}
}

func TestRun_MissingInput(t *testing.T) {
	cleanEnv(t)
	missing := filepath.Join(t.TempDir(), "nope.csv")

	var out bytes.Buffer
	if err := run(context.Background(), []string{"-in", missing}, nil, &out); err != nil {
		t.Fatalf("non strict run should report an empty store, got %v", err)
	}
	kit.MustContain(t, out.String(), "0 trips across 0 zones and 0 slots")

	out.Reset()
	err := run(context.Background(), []string{"-in", missing, "-strict"}, nil, &out)
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("strict err = %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("strict run printed a report: %q", out.String())
	}
}

func TestRun_ProfileAndFlagPrecedence(t *testing.T) {
	cleanEnv(t)
	path := kit.WriteLines(t, "trips.csv", exampleLines...)
	prof := filepath.Join(t.TempDir(), "run.yml")
	body := "input: " + path + "\nzones: 1\nslots: 0\nformat: json\nzone_column: 0\ntime_column: 2\n"
	if err := os.WriteFile(prof, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := run(context.Background(), []string{"-profile", prof, "-format", "csv"}, nil, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := out.String()
	kit.MustContain(t, got, "report,rank,zone,hour,trips")
	kit.MustContain(t, got, "zones,1,A,,2")
	kit.MustNotContain(t, got, "zones,2,")
	kit.MustNotContain(t, got, "slots,")
}

func TestRun_BadInvocations(t *testing.T) {
	cleanEnv(t)
	path := kit.WriteLines(t, "trips.csv", exampleLines...)
	badProfile := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(badProfile, []byte("format: xml\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		args []string
		code perr.ErrorCode
	}{
		{"missing in", nil, perr.ErrorCodeInvalidArgument},
		{"negative zones", []string{"-in", path, "-zones", "-1"}, perr.ErrorCodeInvalidArgument},
		{"unknown format", []string{"-in", path, "-format", "xml"}, perr.ErrorCodeInvalidArgument},
		{"column out of range", []string{"-in", path, "-zone-col", "7"}, perr.ErrorCodeInvalidArgument},
		{"invalid profile", []string{"-in", path, "-profile", badProfile}, perr.ErrorCodeValidation},
		{"export without backends", []string{"-in", path, "-export"}, perr.ErrorCodeUnavailable},
	}
	for _, c := range cases {
		var out bytes.Buffer
		err := run(context.Background(), c.args, nil, &out)
		if !perr.IsCode(err, c.code) {
			t.Fatalf("%s: err = %v, want code %v", c.name, err, c.code)
		}
	}
}

func TestRun_CanceledContext(t *testing.T) {
	cleanEnv(t)
	many := make([]string, 0, 5000)
	for len(many) < cap(many) {
		many = append(many, exampleLines...)
	}
	path := kit.WriteLines(t, "trips.csv", many...)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := run(ctx, []string{"-in", path, "-zone-col", "0", "-time-col", "2"}, nil, &out)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("canceled run err = %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("canceled run printed a report")
	}
}

func TestRun_Help(t *testing.T) {
	if err := run(context.Background(), []string{"-h"}, nil, &bytes.Buffer{}); err != nil {
		t.Fatalf("-h: %v", err)
	}
}

func TestParseFlags_UsageNamesZoneFirstLayout(t *testing.T) {
	var usage bytes.Buffer
	if _, err := parseFlags([]string{"-h"}, &usage); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("-h err = %v", err)
	}
	kit.MustContain(t, usage.String(), "zone-first logs need -zone-col 0 -time-col 2")
}
