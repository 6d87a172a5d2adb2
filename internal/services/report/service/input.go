package service

import (
	ingest "tripstats/internal/services/ingest/domain"
	"tripstats/internal/services/report/domain"
)

// InputsFrom maps a finished ingest run to report inputs
// a run without a store yields Inputs with a nil Store
func InputsFrom(res ingest.Result) domain.Inputs {
	in := domain.Inputs{
		Run: &domain.Run{
			ID:         res.RunID,
			Source:     res.Source,
			Lines:      res.Stats.Lines,
			Recorded:   res.Stats.Recorded,
			Skipped:    res.Stats.Skipped(),
			Faults:     res.Stats.Faults,
			Bytes:      res.Stats.Bytes,
			Elapsed:    res.Stats.Elapsed,
			FinishedAt: res.Finished,
		},
	}
	if res.Store != nil {
		in.Store = res.Store
	}
	return in
}
