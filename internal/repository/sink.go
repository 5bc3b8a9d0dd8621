package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/joseph-ayodele/orders-analytics/internal/entity"
)

// Sink receives the finished output of one cleaning run. The cleaner calls
// Write once per successful batch and never after a batch-fatal error.
type Sink interface {
	Write(ctx context.Context, b *entity.Batch) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, b *entity.Batch) error

func (f SinkFunc) Write(ctx context.Context, b *entity.Batch) error { return f(ctx, b) }

// NamedSink pairs a sink with a label for logs and errors.
type NamedSink struct {
	Name string
	Sink Sink
}

// MultiSink writes to each sink in order and stops at the first failure.
type MultiSink []NamedSink

func (m MultiSink) Write(ctx context.Context, b *entity.Batch) error {
	if b == nil || b.Table == nil || b.QA == nil {
		return errors.New("incomplete batch")
	}
	for _, s := range m {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Sink.Write(ctx, b); err != nil {
			return fmt.Errorf("sink %s: %w", s.Name, err)
		}
	}
	return nil
}
