package service

import (
	"context"

	"tripstats/internal/core/tally"
	"tripstats/internal/platform/logger"
	"tripstats/internal/services/ingest/domain"

	"golang.org/x/sync/errgroup"
)

// batch holds copies of up to BatchLines lines in one backing buffer
type batch struct {
	buf  []byte
	ends []int
}

func newBatch(lines int) *batch {
	return &batch{buf: make([]byte, 0, lines*64), ends: make([]int, 0, lines)}
}

func (b *batch) add(line []byte) {
	b.buf = append(b.buf, line...)
	b.ends = append(b.ends, len(b.buf))
}

func (b *batch) len() int { return len(b.ends) }

func (b *batch) each(fn func([]byte)) {
	start := 0
	for _, end := range b.ends {
		fn(b.buf[start:end:end])
		start = end
	}
}

// sharded reads on one goroutine and fans batches out to Workers passes
// every shard owns its store, the results are merged once all shards finish
func (s *Svc) sharded(ctx context.Context, src domain.LineSource, log *logger.Logger) (*tally.Store, domain.Stats, error) {
	g, gctx := errgroup.WithContext(ctx)
	batches := make(chan *batch, s.cfg.Workers)

	// the producer counts oversized lines itself, they never reach a shard
	var read domain.Stats
	g.Go(func() error {
		defer close(batches)
		over, _ := src.(domain.Oversizer)
		b := newBatch(s.cfg.BatchLines)
		sampled := false
		var n int64
		for src.Scan() {
			if n%ctxEvery == 0 && gctx.Err() != nil {
				return gctx.Err()
			}
			n++
			if skip := oversized(over); skip > 0 {
				read.Bytes += int64(skip)
				read.Count(domain.TooLong)
				continue
			}
			line := src.Bytes()
			if !sampled && len(line) > 0 {
				sampled = true
				sample(log, line)
			}
			read.Bytes += int64(len(line) + 1)
			b.add(line)
			if b.len() < s.cfg.BatchLines {
				continue
			}
			if err := send(gctx, batches, b); err != nil {
				return err
			}
			b = newBatch(s.cfg.BatchLines)
		}
		if b.len() > 0 {
			if err := send(gctx, batches, b); err != nil {
				return err
			}
		}
		return readErr(src)
	})

	passes := make([]*pass, s.cfg.Workers)
	for i := range passes {
		p := newPass(s.cfg.Layout)
		passes[i] = p
		g.Go(func() error {
			for b := range batches {
				b.each(p.feed)
			}
			return nil
		})
	}

	err := g.Wait()

	out := tally.New()
	stats := read
	for _, p := range passes {
		out.Merge(p.store)
		stats.Merge(p.stats)
	}
	return out, stats, err
}

// send hands b to a shard unless the group is already canceled
func send(ctx context.Context, batches chan<- *batch, b *batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case batches <- b:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
