package async

import (
	"context"
	"log/slog"
	"sync"

	"github.com/joseph-ayodele/orders-analytics/internal/entity"
	"github.com/joseph-ayodele/orders-analytics/internal/transform"
)

// RowFunc transforms one raw row. It must not touch shared mutable state.
type RowFunc func(entity.RawRecord) transform.Result

// Job is one row waiting for a worker, tagged with its input position.
type Job struct {
	Index int
	Row   entity.RawRecord
}

// RowPool fans rows out to a fixed set of workers and collects the results
// in input order.
type RowPool struct {
	logger    *slog.Logger
	workers   int
	queueSize int
}

type Option func(*RowPool)

func WithWorkers(n int) Option {
	return func(p *RowPool) {
		if n > 0 {
			p.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(p *RowPool) {
		if n > 0 {
			p.queueSize = n
		}
	}
}

func NewRowPool(logger *slog.Logger, opts ...Option) *RowPool {
	if logger == nil {
		logger = slog.Default()
	}
	p := &RowPool{
		logger:    logger,
		workers:   4,
		queueSize: 256,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *RowPool) Workers() int { return p.workers }

// Run applies fn to every row and returns the results indexed like rows.
// If ctx is cancelled before every row is queued, Run waits for in-flight
// rows and returns ctx.Err() with no results.
func (p *RowPool) Run(ctx context.Context, rows []entity.RawRecord, fn RowFunc) ([]transform.Result, error) {
	results := make([]transform.Result, len(rows))
	if len(rows) == 0 {
		return results, nil
	}

	workers := min(p.workers, len(rows))
	ch := make(chan Job, p.queueSize)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			n := 0
			for job := range ch {
				// each index is written by exactly one worker
				results[job.Index] = fn(job.Row)
				n++
			}
			p.logger.Debug("row worker stopped", "worker_id", workerID, "rows", n)
		}(i + 1)
	}

	var cancelled error
feed:
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		case ch <- Job{Index: i, Row: row}:
		}
	}
	close(ch)
	wg.Wait()

	if cancelled != nil {
		p.logger.Warn("row pool interrupted by context", "queued", len(rows), "error", cancelled)
		return nil, cancelled
	}
	return results, nil
}
