package tally

import "tripstats/internal/core/rank"

// ZoneCount is one row of the busiest zones report
type ZoneCount struct {
	Zone  string `json:"zone"`
	Count int64  `json:"count"`
}

// SlotCount is one row of the busiest (zone, hour) report
type SlotCount struct {
	Zone  string `json:"zone"`
	Hour  int    `json:"hour"`
	Count int64  `json:"count"`
}

// zoneLess orders by count desc then zone asc
func zoneLess(a, b ZoneCount) bool {
	if a.Count != b.Count {
		return a.Count > b.Count
	}
	return a.Zone < b.Zone
}

// slotLess orders by count desc, zone asc, hour asc
func slotLess(a, b SlotCount) bool {
	if a.Count != b.Count {
		return a.Count > b.Count
	}
	if a.Zone != b.Zone {
		return a.Zone < b.Zone
	}
	return a.Hour < b.Hour
}

// TopZones returns at most n zones ranked by total trips
// n larger than the zone count is clamped, n <= 0 yields an empty slice
func (s *Store) TopZones(n int) []ZoneCount {
	if n <= 0 || len(s.zones) == 0 {
		return []ZoneCount{}
	}
	all := make([]ZoneCount, 0, len(s.zones))
	for _, rec := range s.zones {
		all = append(all, ZoneCount{Zone: rec.Name, Count: rec.Total})
	}
	top := rank.Top(all, n, zoneLess)
	out := make([]ZoneCount, len(top))
	copy(out, top)
	return out
}

// TopBusySlots returns at most n (zone, hour) slots ranked by trips
// only slots with at least one trip are candidates
func (s *Store) TopBusySlots(n int) []SlotCount {
	if n <= 0 || len(s.zones) == 0 {
		return []SlotCount{}
	}
	all := make([]SlotCount, 0, len(s.zones)*HoursPerDay)
	for _, rec := range s.zones {
		for h, c := range rec.Hourly {
			if c > 0 {
				all = append(all, SlotCount{Zone: rec.Name, Hour: h, Count: c})
			}
		}
	}
	top := rank.Top(all, n, slotLess)
	out := make([]SlotCount, len(top))
	copy(out, top)
	return out
}
