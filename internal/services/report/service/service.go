// Package service answers report queries from a finished aggregation store
package service

import (
	"context"
	"strconv"

	perr "tripstats/internal/platform/errors"
	"tripstats/internal/platform/net/http/bind"
	"tripstats/internal/services/report/domain"
)

// DefaultMaxN caps n on the HTTP reports
const DefaultMaxN = 1000

// Service defines the report service contract
type Service interface {
	domain.ServicePort
}

// Config holds report settings
type Config struct {
	MaxN int
	Run  *domain.Run
}

// Svc implements the report service
// the snapshot is read only, reports may run concurrently
type Svc struct {
	snap  domain.Snapshot
	cfg   Config
	bound string
}

// New constructs a report service over snap
func New(snap domain.Snapshot, cfg Config) *Svc {
	if snap == nil {
		panic("report.Service requires a non nil Snapshot")
	}
	if cfg.MaxN <= 0 {
		cfg.MaxN = DefaultMaxN
	}
	return &Svc{snap: snap, cfg: cfg, bound: "min=0,max=" + strconv.Itoa(cfg.MaxN)}
}

// MaxN returns the largest accepted n
func (s *Svc) MaxN() int { return s.cfg.MaxN }

// TopZones returns the n busiest zones
func (s *Svc) TopZones(ctx context.Context, in domain.TopInput) ([]domain.ZoneRow, error) {
	if err := bind.Var("n", in.N, s.bound); err != nil {
		return nil, err
	}
	return s.zones(ctx, in.N)
}

// TopSlots returns the n busiest zone and hour slots
func (s *Svc) TopSlots(ctx context.Context, in domain.TopInput) ([]domain.SlotRow, error) {
	if err := bind.Var("n", in.N, s.bound); err != nil {
		return nil, err
	}
	return s.slots(ctx, in.N)
}

func (s *Svc) zones(ctx context.Context, n int) ([]domain.ZoneRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, perr.Canceled(err, "report.zones")
	}
	top := s.snap.TopZones(n)
	out := make([]domain.ZoneRow, 0, len(top))
	for i, z := range top {
		out = append(out, domain.ZoneRow{Rank: i + 1, Zone: z.Zone, Trips: z.Count})
	}
	return out, nil
}

func (s *Svc) slots(ctx context.Context, n int) ([]domain.SlotRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, perr.Canceled(err, "report.slots")
	}
	top := s.snap.TopBusySlots(n)
	out := make([]domain.SlotRow, 0, len(top))
	for i, sl := range top {
		out = append(out, domain.SlotRow{Rank: i + 1, Zone: sl.Zone, Hour: sl.Hour, Trips: sl.Count})
	}
	return out, nil
}

// Zone returns the histogram of one zone
func (s *Svc) Zone(_ context.Context, name string) (domain.ZoneDetail, error) {
	if name == "" {
		return domain.ZoneDetail{}, perr.WithField(perr.InvalidArgf("zone is required"), "zone")
	}
	rec, ok := s.snap.Zone(name)
	if !ok {
		return domain.ZoneDetail{}, perr.WithField(perr.NotFoundf("zone %q not found", name), "zone")
	}
	peak := 0
	for h, c := range rec.Hourly {
		if c > rec.Hourly[peak] {
			peak = h
		}
	}
	return domain.ZoneDetail{Zone: rec.Name, Trips: rec.Total, PeakHour: peak, Hourly: rec.Hourly}, nil
}

// Summary returns store size and the run it came from
func (s *Svc) Summary(context.Context) (domain.Summary, error) {
	sum := s.snap.Summary()
	return domain.Summary{Zones: sum.Zones, Slots: sum.Slots, Trips: sum.Trips, Run: s.cfg.Run}, nil
}

// Build assembles the CLI report, n is only checked for sign here
func (s *Svc) Build(ctx context.Context, zones, slots int) (domain.Report, error) {
	if err := bind.Var("zones", zones, "min=0"); err != nil {
		return domain.Report{}, err
	}
	if err := bind.Var("slots", slots, "min=0"); err != nil {
		return domain.Report{}, err
	}
	zr, err := s.zones(ctx, zones)
	if err != nil {
		return domain.Report{}, err
	}
	sr, err := s.slots(ctx, slots)
	if err != nil {
		return domain.Report{}, err
	}
	sum, _ := s.Summary(ctx)
	return domain.Report{Zones: zr, Slots: sr, Summary: sum}, nil
}
