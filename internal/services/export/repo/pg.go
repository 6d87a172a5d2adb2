// Package repo persists exported runs to Postgres and ClickHouse
package repo

import (
	"context"
	"fmt"
	"strings"

	"tripstats/internal/modkit/repokit"
	"tripstats/internal/services/export/domain"
)

// pgRowsPerInsert keeps one statement well under the 65535 parameter limit
const pgRowsPerInsert = 1000

var pgSchema = []string{
	`CREATE TABLE IF NOT EXISTS trip_runs (
		run_id      uuid PRIMARY KEY,
		source      text        NOT NULL,
		workers     integer     NOT NULL,
		started_at  timestamptz NOT NULL,
		finished_at timestamptz NOT NULL,
		lines       bigint      NOT NULL,
		recorded    bigint      NOT NULL,
		skipped     bigint      NOT NULL,
		faults      bigint      NOT NULL,
		bytes       bigint      NOT NULL,
		zones       integer     NOT NULL,
		trips       bigint      NOT NULL,
		CHECK (lines = recorded + skipped)
	)`,
	`CREATE TABLE IF NOT EXISTS trip_zone_hours (
		run_id uuid     NOT NULL REFERENCES trip_runs (run_id) ON DELETE CASCADE,
		zone   text     NOT NULL,
		hour   smallint NOT NULL CHECK (hour BETWEEN 0 AND 23),
		trips  bigint   NOT NULL CHECK (trips > 0),
		PRIMARY KEY (run_id, zone, hour)
	)`,
}

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// Storage is the Postgres side of an export
type Storage interface {
	EnsureSchema(ctx context.Context) error
	InsertRun(ctx context.Context, r domain.RunRecord) error
	InsertZoneHours(ctx context.Context, r domain.RunRecord, xs []domain.ZoneHour) error
	CountZoneHours(ctx context.Context, r domain.RunRecord) (int64, error)
}

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// EnsureSchema creates the export tables when missing
func (s *pg) EnsureSchema(ctx context.Context) error {
	for _, stmt := range pgSchema {
		if _, err := s.q.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun writes the run header
func (s *pg) InsertRun(ctx context.Context, r domain.RunRecord) error {
	_, err := s.q.Exec(ctx, `INSERT INTO trip_runs
		(run_id, source, workers, started_at, finished_at, lines, recorded, skipped, faults, bytes, zones, trips)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		r.RunID, r.Source, r.Workers, r.StartedAt, r.FinishedAt,
		r.Lines, r.Recorded, r.Skipped, r.Faults, r.Bytes, r.Zones, r.Trips,
	)
	return err
}

// InsertZoneHours writes histogram cells in multi-row statements
func (s *pg) InsertZoneHours(ctx context.Context, r domain.RunRecord, xs []domain.ZoneHour) error {
	for start := 0; start < len(xs); start += pgRowsPerInsert {
		chunk := xs[start:min(start+pgRowsPerInsert, len(xs))]

		var sb strings.Builder
		sb.WriteString(`INSERT INTO trip_zone_hours (run_id, zone, hour, trips) VALUES `)
		args := make([]any, 0, len(chunk)*4)
		for i, zh := range chunk {
			if i > 0 {
				sb.WriteByte(',')
			}
			base := i*4 + 1
			fmt.Fprintf(&sb, "($%d,$%d,$%d,$%d)", base, base+1, base+2, base+3)
			args = append(args, r.RunID, zh.Zone, zh.Hour, zh.Trips)
		}
		if _, err := s.q.Exec(ctx, sb.String(), args...); err != nil {
			return err
		}
	}
	return nil
}

// CountZoneHours returns how many cells are stored for the run
func (s *pg) CountZoneHours(ctx context.Context, r domain.RunRecord) (int64, error) {
	var n int64
	err := s.q.QueryRow(ctx, `SELECT count(*) FROM trip_zone_hours WHERE run_id = $1`, r.RunID).Scan(&n)
	return n, err
}
