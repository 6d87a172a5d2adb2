package service

import (
	"tripstats/internal/core/fields"
	"tripstats/internal/core/hourofday"
	"tripstats/internal/core/tally"
	"tripstats/internal/services/ingest/domain"
)

// classify runs one raw line through the validity gate
// zone is a view into line and only meaningful when the outcome is Recorded
func classify(line []byte, l domain.Layout) (zone []byte, hour int, o domain.Outcome) {
	if len(line) == 0 {
		return nil, 0, domain.Empty
	}
	pos := fields.Scan(line, fields.Comma)
	if !pos.Valid() {
		return nil, 0, domain.Short
	}
	zf, _ := pos.Field(line, l.ZoneColumn)
	zone = fields.Trim(zf)
	if len(zone) == 0 {
		return nil, 0, domain.NoZone
	}
	tf, _ := pos.Field(line, l.TimeColumn)
	hour = hourofday.Extract(fields.Trim(tf))
	if hour == hourofday.Invalid {
		return nil, 0, domain.BadHour
	}
	if !hourofday.InRange(hour) {
		return nil, 0, domain.OutOfRange
	}
	return zone, hour, domain.Recorded
}

// record is the store update, a seam for fault injection in tests
var record = func(s *tally.Store, zone []byte, hour int) { s.Record(zone, hour) }

// pass is one worker's private store and counters
type pass struct {
	layout domain.Layout
	store  *tally.Store
	stats  domain.Stats
}

func newPass(l domain.Layout) *pass {
	return &pass{layout: l, store: tally.New()}
}

// feed ingests one line, a panic while handling it counts as a fault
func (p *pass) feed(line []byte) {
	p.stats.Count(p.apply(line))
}

func (p *pass) apply(line []byte) (o domain.Outcome) {
	defer func() {
		if recover() != nil {
			o = domain.Fault
		}
	}()
	zone, hour, o := classify(line, p.layout)
	if o == domain.Recorded {
		record(p.store, zone, hour)
	}
	return o
}
