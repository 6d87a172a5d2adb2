package domain

import (
	"context"

	"tripstats/internal/core/tally"
)

// Snapshot is the read side of a finished aggregation store
type Snapshot interface {
	TopZones(n int) []tally.ZoneCount
	TopBusySlots(n int) []tally.SlotCount
	Zone(name string) (tally.ZoneRecord, bool)
	Summary() tally.Summary
}

// ServicePort is consumed by handlers and the CLI
type ServicePort interface {
	TopZones(ctx context.Context, in TopInput) ([]ZoneRow, error)
	TopSlots(ctx context.Context, in TopInput) ([]SlotRow, error)
	Zone(ctx context.Context, name string) (ZoneDetail, error)
	Summary(ctx context.Context) (Summary, error)
	Build(ctx context.Context, zones, slots int) (Report, error)
}

// Inputs is what the report module needs from the ingest side
// it is handed over with modkit.WithPorts
type Inputs struct {
	Store Snapshot
	Run   *Run
}
