package repo

import (
	"context"

	"tripstats/internal/modkit/repokit"
	"tripstats/internal/services/export/domain"
)

const chZoneHours = "trip_zone_hours"

const chSchema = `CREATE TABLE IF NOT EXISTS trip_zone_hours (
	run_id      UUID,
	source      String,
	finished_at DateTime64(3, 'UTC'),
	zone        String,
	hour        UInt8,
	trips       UInt64
) ENGINE = MergeTree
ORDER BY (run_id, zone, hour)`

// Columnar is the ClickHouse side of an export
type Columnar interface {
	EnsureSchema(ctx context.Context) error
	InsertZoneHours(ctx context.Context, r domain.RunRecord, xs []domain.ZoneHour) error
}

type ch struct{ c repokit.Columnar }

// NewCH binds the ClickHouse repo to c
func NewCH(c repokit.Columnar) Columnar { return &ch{c: c} }

// EnsureSchema creates the zone hour table when missing
func (s *ch) EnsureSchema(ctx context.Context) error {
	return s.c.Exec(ctx, chSchema)
}

// InsertZoneHours sends every cell as one batch
func (s *ch) InsertZoneHours(ctx context.Context, r domain.RunRecord, xs []domain.ZoneHour) error {
	if len(xs) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(xs))
	finished := r.FinishedAt.UTC()
	for _, zh := range xs {
		rows = append(rows, []any{r.RunID, r.Source, finished, zh.Zone, uint8(zh.Hour), uint64(zh.Trips)})
	}
	return s.c.Insert(ctx, chZoneHours, rows)
}
