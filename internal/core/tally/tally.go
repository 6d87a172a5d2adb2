// Package tally is the in-memory aggregation store for trip counts
// One ZoneRecord per zone identifier, each with a running total and a 24 slot hour histogram
// Records are created lazily and never removed, the store only grows
// A Store is not safe for concurrent use, shard with one Store per goroutine and Merge
package tally

// HoursPerDay is the histogram width
const HoursPerDay = 24

// ZoneRecord aggregates the trips seen for one zone
// Total always equals the sum of Hourly
type ZoneRecord struct {
	Name   string
	Total  int64
	Hourly [HoursPerDay]int64
}

// Summary describes the size of a store
type Summary struct {
	Zones int   `json:"zones"`
	Slots int   `json:"slots"`
	Trips int64 `json:"trips"`
}

// Store maps zone identifiers to their records
type Store struct {
	zones map[string]*ZoneRecord
}

// New returns an empty store
func New() *Store {
	return &Store{zones: make(map[string]*ZoneRecord)}
}

// Record counts one trip for zone at hour
// zone must be non-empty and trimmed, hour must be in [0,23]; callers enforce both
// the key string is only allocated the first time a zone is seen
func (s *Store) Record(zone []byte, hour int) {
	rec, ok := s.zones[string(zone)]
	if !ok {
		name := string(zone)
		rec = &ZoneRecord{Name: name}
		s.zones[name] = rec
	}
	rec.Total++
	rec.Hourly[hour]++
}

// Len returns the number of distinct zones
func (s *Store) Len() int { return len(s.zones) }

// Zone returns a copy of the record for name
func (s *Store) Zone(name string) (ZoneRecord, bool) {
	rec, ok := s.zones[name]
	if !ok {
		return ZoneRecord{}, false
	}
	return *rec, true
}

// Range calls fn with a copy of every record until fn returns false
// iteration order is unspecified
func (s *Store) Range(fn func(ZoneRecord) bool) {
	for _, rec := range s.zones {
		if !fn(*rec) {
			return
		}
	}
}

// Merge adds every record of other into s by summing totals and histograms
// merging is commutative and associative; other is left untouched
func (s *Store) Merge(other *Store) {
	if other == nil {
		return
	}
	for name, o := range other.zones {
		rec, ok := s.zones[name]
		if !ok {
			rec = &ZoneRecord{Name: name}
			s.zones[name] = rec
		}
		rec.Total += o.Total
		for h := range o.Hourly {
			rec.Hourly[h] += o.Hourly[h]
		}
	}
}

// Summary counts zones, non-empty (zone, hour) slots and trips
func (s *Store) Summary() Summary {
	var sum Summary
	sum.Zones = len(s.zones)
	for _, rec := range s.zones {
		sum.Trips += rec.Total
		for _, c := range rec.Hourly {
			if c > 0 {
				sum.Slots++
			}
		}
	}
	return sum
}
