// Package domain holds ingest types and ports
package domain

import (
	"time"

	"tripstats/internal/core/fields"
	"tripstats/internal/core/tally"
	perr "tripstats/internal/platform/errors"
)

// Layout names the columns the pipeline consumes, counted from 0
// column k lies between delimiter k-1 and delimiter k
type Layout struct {
	ZoneColumn int
	TimeColumn int
}

// DefaultLayout reads the zone from column 1 and the pickup time from column 3
var DefaultLayout = Layout{ZoneColumn: 1, TimeColumn: 3}

// Validate keeps both columns inside the guaranteed minimum of delimiters
func (l Layout) Validate() error {
	if l.ZoneColumn < 0 || l.ZoneColumn >= fields.MinDelims {
		return perr.WithField(perr.InvalidArgf("zone column must be in [0,%d]", fields.MinDelims-1), "zone_column")
	}
	if l.TimeColumn < 0 || l.TimeColumn >= fields.MinDelims {
		return perr.WithField(perr.InvalidArgf("time column must be in [0,%d]", fields.MinDelims-1), "time_column")
	}
	return nil
}

// Outcome is what happened to one line
type Outcome uint8

// line outcomes, exactly one per line
const (
	Recorded Outcome = iota
	Empty
	Short
	NoZone
	BadHour
	OutOfRange
	Fault
	TooLong
)

var outcomeNames = [...]string{"recorded", "empty", "short", "no_zone", "bad_hour", "out_of_range", "fault", "too_long"}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "unknown"
}

// Stats counts line outcomes for one run
// Lines always equals Recorded plus every skip counter
type Stats struct {
	Lines      int64         `json:"lines"`
	Empty      int64         `json:"empty"`
	Short      int64         `json:"short"`
	NoZone     int64         `json:"no_zone"`
	BadHour    int64         `json:"bad_hour"`
	OutOfRange int64         `json:"out_of_range"`
	Faults     int64         `json:"faults"`
	TooLong    int64         `json:"too_long"`
	Recorded   int64         `json:"recorded"`
	Bytes      int64         `json:"bytes"`
	Elapsed    time.Duration `json:"elapsed_ns"`
}

// Count adds one line with outcome o
func (s *Stats) Count(o Outcome) {
	s.Lines++
	switch o {
	case Recorded:
		s.Recorded++
	case Empty:
		s.Empty++
	case Short:
		s.Short++
	case NoZone:
		s.NoZone++
	case BadHour:
		s.BadHour++
	case OutOfRange:
		s.OutOfRange++
	case TooLong:
		s.TooLong++
	default:
		s.Faults++
	}
}

// Merge sums the counters of o into s, Elapsed keeps the longer of the two
func (s *Stats) Merge(o Stats) {
	s.Lines += o.Lines
	s.Empty += o.Empty
	s.Short += o.Short
	s.NoZone += o.NoZone
	s.BadHour += o.BadHour
	s.OutOfRange += o.OutOfRange
	s.Faults += o.Faults
	s.TooLong += o.TooLong
	s.Recorded += o.Recorded
	s.Bytes += o.Bytes
	s.Elapsed = max(s.Elapsed, o.Elapsed)
}

// Skipped returns the number of lines that were not recorded
func (s Stats) Skipped() int64 {
	return s.Empty + s.Short + s.NoZone + s.BadHour + s.OutOfRange + s.Faults + s.TooLong
}

// Balanced reports whether every line has exactly one outcome
func (s Stats) Balanced() bool { return s.Lines == s.Recorded+s.Skipped() }

// LinesPerSec is the throughput over Elapsed, 0 when nothing was timed
func (s Stats) LinesPerSec() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Lines) / s.Elapsed.Seconds()
}

// Result is a finished (or interrupted) ingest run
// Store is never nil, a run that could not open its source carries an empty store
type Result struct {
	RunID    string       `json:"run_id"`
	Source   string       `json:"source"`
	Workers  int          `json:"workers"`
	Started  time.Time    `json:"started_at"`
	Finished time.Time    `json:"finished_at"`
	Stats    Stats        `json:"stats"`
	Store    *tally.Store `json:"-"`
}
