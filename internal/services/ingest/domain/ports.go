package domain

import "context"

// LineSource delivers raw lines in order
// Bytes is only valid until the next Scan
type LineSource interface {
	Scan() bool
	Bytes() []byte
	Err() error
	Close() error
}

// Oversizer is implemented by sources that skip lines over a length limit
// Oversized is the discarded byte count of the current line, 0 for a normal line
type Oversizer interface {
	Oversized() int
}

// Opener opens a named line source, typically a file path
type Opener func(name string) (LineSource, error)

// ServicePort is consumed by the CLI and other modules
type ServicePort interface {
	// Ingest drains src into a fresh store and closes it
	Ingest(ctx context.Context, name string, src LineSource) (Result, error)
	// IngestFile opens name with the configured Opener and ingests it
	IngestFile(ctx context.Context, name string) (Result, error)
}
