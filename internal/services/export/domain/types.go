// Package domain holds export types and ports
package domain

import (
	"context"
	"time"

	"tripstats/internal/core/tally"

	"github.com/google/uuid"
)

// RunRecord is one persisted ingest run
type RunRecord struct {
	RunID      uuid.UUID
	Source     string
	Workers    int
	StartedAt  time.Time
	FinishedAt time.Time
	Lines      int64
	Recorded   int64
	Skipped    int64
	Faults     int64
	Bytes      int64
	Zones      int
	Trips      int64
}

// ZoneHour is one non-empty histogram cell
type ZoneHour struct {
	Zone  string
	Hour  int
	Trips int64
}

// Ranger walks every zone record of a finished store
type Ranger interface {
	Range(fn func(tally.ZoneRecord) bool)
}

// Input is what gets exported
type Input struct {
	Run   RunRecord
	Store Ranger
}

// Outcome reports which backends received the run
type Outcome struct {
	RunID      uuid.UUID `json:"run_id"`
	Rows       int       `json:"rows"`
	Postgres   bool      `json:"postgres"`
	ClickHouse bool      `json:"clickhouse"`
}

// ServicePort is consumed by the CLI
type ServicePort interface {
	Export(ctx context.Context, in Input) (Outcome, error)
}
