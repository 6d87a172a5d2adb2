package modkit

import (
	"strings"
)

// Built is a module's resolved mount settings
type Built struct {
	Name   string
	Prefix string // "/" + trimmed prefix, no trailing slash
	Ports  any    // input handed over by an earlier stage, e.g. report.Inputs after ingest
}

// Option adjusts Built
type Option func(*Built)

func WithName(name string) Option { return func(b *Built) { b.Name = name } }

func WithPrefix(prefix string) Option { return func(b *Built) { b.Prefix = prefix } }

// WithPorts hands p to the module being built; the module asserts the type it expects
func WithPorts[T any](p T) Option { return func(b *Built) { b.Ports = p } }

// Build applies opts in order, later options win
func Build(opts ...Option) Built {
	var b Built
	for _, o := range opts {
		o(&b)
	}
	b.Prefix = "/" + strings.Trim(strings.TrimSpace(b.Prefix), "/")
	return b
}
