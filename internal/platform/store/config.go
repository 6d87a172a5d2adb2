package store

import "time"

// Config selects the export backends, an empty URL leaves a backend disabled
type Config struct {
	App string

	// readiness wait at open, zero means 20 attempts of 3s each
	Attempts    int
	PingTimeout time.Duration

	Postgres   Postgres
	ClickHouse ClickHouse
}

// Postgres configures the run header and cell tables backend
type Postgres struct {
	URL      string
	MaxConns int32
	Slow     time.Duration
	LogSQL   bool
}

// ClickHouse configures the histogram backend
type ClickHouse struct {
	URL    string
	LogSQL bool
}
