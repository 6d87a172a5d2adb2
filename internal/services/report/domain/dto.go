// Package domain holds report DTOs and ports
package domain

import "time"

// TopInput is the query for the ranked reports
type TopInput struct {
	N int `query:"n" json:"n" default:"10" validate:"min=0"`
}

// ZoneRow is one entry of the busiest zones report
type ZoneRow struct {
	Rank  int    `json:"rank"`
	Zone  string `json:"zone"`
	Trips int64  `json:"trips"`
}

// SlotRow is one entry of the busiest slots report
type SlotRow struct {
	Rank  int    `json:"rank"`
	Zone  string `json:"zone"`
	Hour  int    `json:"hour"`
	Trips int64  `json:"trips"`
}

// ZoneDetail is the full histogram of one zone
type ZoneDetail struct {
	Zone     string    `json:"zone"`
	Trips    int64     `json:"trips"`
	PeakHour int       `json:"peak_hour"`
	Hourly   [24]int64 `json:"hourly"`
}

// Summary describes the finished store
type Summary struct {
	Zones int   `json:"zones"`
	Slots int   `json:"slots"`
	Trips int64 `json:"trips"`
	Run   *Run  `json:"run,omitempty"`
}

// Run is the ingest run a report was built from
type Run struct {
	ID         string        `json:"id"`
	Source     string        `json:"source"`
	Lines      int64         `json:"lines"`
	Recorded   int64         `json:"recorded"`
	Skipped    int64         `json:"skipped"`
	Faults     int64         `json:"faults"`
	Bytes      int64         `json:"bytes"`
	Elapsed    time.Duration `json:"elapsed_ns"`
	FinishedAt time.Time     `json:"finished_at"`
}

// Report bundles what the renderers print
type Report struct {
	Zones   []ZoneRow `json:"zones"`
	Slots   []SlotRow `json:"slots"`
	Summary Summary   `json:"summary"`
}
