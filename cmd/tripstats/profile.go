package main

import "tripstats/internal/platform/config"

// profile is the YAML run profile accepted by -profile
// unset keys leave the flag defaults alone, explicit flags always win
type profile struct {
	Input      string `yaml:"input"`
	Zones      *int   `yaml:"zones" validate:"omitempty,min=0"`
	Slots      *int   `yaml:"slots" validate:"omitempty,min=0"`
	Format     string `yaml:"format" validate:"omitempty,oneof=table json csv"`
	Workers    *int   `yaml:"workers" validate:"omitempty,min=1"`
	ZoneColumn *int   `yaml:"zone_column" validate:"omitempty,min=0,max=4"`
	TimeColumn *int   `yaml:"time_column" validate:"omitempty,min=0,max=4"`
	Strict     *bool  `yaml:"strict"`
	Export     *bool  `yaml:"export"`
	Serve      string `yaml:"serve"`
}

func loadProfile(path string) (profile, error) {
	var p profile
	if err := config.LoadProfile(path, &p); err != nil {
		return profile{}, err
	}
	return p, nil
}

// apply copies profile values into o for every flag not named in set
func (p profile) apply(o *options, set map[string]bool) {
	str := func(name string, dst *string, v string) {
		if v != "" && !set[name] {
			*dst = v
		}
	}
	num := func(name string, dst *int, v *int) {
		if v != nil && !set[name] {
			*dst = *v
		}
	}
	toggle := func(name string, dst *bool, v *bool) {
		if v != nil && !set[name] {
			*dst = *v
		}
	}
	str("in", &o.in, p.Input)
	str("format", &o.format, p.Format)
	str("serve", &o.serve, p.Serve)
	num("zones", &o.zones, p.Zones)
	num("slots", &o.slots, p.Slots)
	num("workers", &o.workers, p.Workers)
	num("zone-col", &o.zoneCol, p.ZoneColumn)
	num("time-col", &o.timeCol, p.TimeColumn)
	toggle("strict", &o.strict, p.Strict)
	toggle("export", &o.export, p.Export)
}
