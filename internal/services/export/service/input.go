package service

import (
	perr "tripstats/internal/platform/errors"
	"tripstats/internal/services/export/domain"
	ingest "tripstats/internal/services/ingest/domain"

	"github.com/google/uuid"
)

// InputFrom maps a finished ingest run to an export input
func InputFrom(res ingest.Result) (domain.Input, error) {
	id, err := uuid.Parse(res.RunID)
	if err != nil {
		return domain.Input{}, perr.WithField(perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "run id %q", res.RunID), "run_id")
	}
	if res.Store == nil {
		return domain.Input{}, perr.WithField(perr.InvalidArgf("run %s has no store", res.RunID), "store")
	}
	sum := res.Store.Summary()
	return domain.Input{
		Run: domain.RunRecord{
			RunID:      id,
			Source:     res.Source,
			Workers:    res.Workers,
			StartedAt:  res.Started,
			FinishedAt: res.Finished,
			Lines:      res.Stats.Lines,
			Recorded:   res.Stats.Recorded,
			Skipped:    res.Stats.Skipped(),
			Faults:     res.Stats.Faults,
			Bytes:      res.Stats.Bytes,
			Zones:      sum.Zones,
			Trips:      sum.Trips,
		},
		Store: res.Store,
	}, nil
}
