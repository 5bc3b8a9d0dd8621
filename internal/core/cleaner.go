// Package core runs a cleaning batch end to end: load, transform, filter,
// flag duplicates, report.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/orders-analytics/constants"
	"github.com/joseph-ayodele/orders-analytics/internal/common"
	"github.com/joseph-ayodele/orders-analytics/internal/core/async"
	"github.com/joseph-ayodele/orders-analytics/internal/entity"
	"github.com/joseph-ayodele/orders-analytics/internal/ingest"
	"github.com/joseph-ayodele/orders-analytics/internal/report"
	"github.com/joseph-ayodele/orders-analytics/internal/repository"
	"github.com/joseph-ayodele/orders-analytics/internal/resolve"
	"github.com/joseph-ayodele/orders-analytics/internal/transform"
)

// Cleaner is the dataset cleaning orchestrator.
type Cleaner struct {
	logger       *slog.Logger
	reader       ingest.Reader
	pool         *async.RowPool
	sink         repository.Sink
	aliases      resolve.Aliases
	topN         int
	extractLimit int
}

func NewCleaner(
	logger *slog.Logger,
	reader ingest.Reader,
	pool *async.RowPool,
	sink repository.Sink,
	aliases resolve.Aliases,
	topN int,
	extractLimit int,
) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	if pool == nil {
		pool = async.NewRowPool(logger)
	}
	if aliases == nil {
		aliases = resolve.DefaultAliases()
	}
	if topN <= 0 {
		topN = 5
	}
	if extractLimit <= 0 {
		extractLimit = 50
	}
	return &Cleaner{
		logger:       logger,
		reader:       reader,
		pool:         pool,
		sink:         sink,
		aliases:      aliases,
		topN:         topN,
		extractLimit: extractLimit,
	}
}

// Run cleans the file at path and hands the result to the sink exactly once.
// On a batch-fatal error nothing is written.
func (c *Cleaner) Run(ctx context.Context, path string) (*entity.Batch, error) {
	start := time.Now()
	runID := uuid.NewString()
	ctx = common.WithSourcePath(common.WithRunID(ctx, runID), path)
	log := c.logger.With("run_id", runID)
	log.Info("cleaner.run.start", "path", path, "workers", c.pool.Workers())

	src, err := c.reader.Read(ctx, path)
	if err != nil {
		log.Error("cleaner.load.failed", "path", path, "err", err)
		return nil, err
	}
	log.Info("cleaner.stage.done", "stage", "load", "rows", len(src.Rows))

	batch, err := c.Clean(ctx, src)
	if err != nil {
		log.Error("cleaner.clean.failed", "err", err)
		return nil, err
	}

	if c.sink != nil {
		if err := c.sink.Write(ctx, batch); err != nil {
			batch.QA.Status = constants.RunStatusFailed
			log.Error("cleaner.sink.failed", "err", err)
			return batch, common.NewAppError(common.CodeSink, "write outputs", err)
		}
		batch.QA.Status = constants.RunStatusWritten
	}

	log.Info("cleaner.run.done",
		"rows_before", batch.QA.RowsBefore,
		"rows_after", batch.QA.RowsAfter,
		"dropped_invalid_dates", batch.QA.RowsDroppedInvalidDates,
		"possible_duplicates", batch.QA.PossibleDuplicates,
		"status", batch.QA.Status,
		"elapsed", time.Since(start).String(),
	)
	return batch, nil
}

// Clean runs the transform, filter, duplicate and report stages over an
// already loaded source. It writes nothing.
func (c *Cleaner) Clean(ctx context.Context, src *ingest.Source) (*entity.Batch, error) {
	runID := common.RunIDFromContext(ctx)
	if runID == "" {
		runID = uuid.NewString()
	}
	log := c.logger.With("run_id", runID)

	sourcePath := src.Path
	if sourcePath == "" {
		sourcePath = common.SourcePathFromContext(ctx)
	}

	res := resolve.New(src.Headers, c.aliases)
	if err := res.Validate(); err != nil {
		return nil, err
	}
	if missing := res.Missing(); len(missing) > 0 {
		log.Debug("cleaner.resolve.defaults", "fields", missing)
	}

	tr := transform.New(res)
	results, err := c.pool.Run(ctx, src.Rows, tr.Transform)
	if err != nil {
		return nil, fmt.Errorf("transform rows: %w", err)
	}
	log.Info("cleaner.stage.done", "stage", "transform", "rows", len(results))

	qa := &entity.QAReport{
		RunID:        runID,
		SourcePath:   sourcePath,
		SourceSHA256: src.SHA256,
		Status:       constants.RunStatusRunning,
		RowsBefore:   len(src.Rows),
	}

	kept := make([]entity.CanonicalRecord, 0, len(results))
	for _, r := range results {
		if !r.DateValid {
			continue
		}
		r.Issues.Add(&qa.FieldIssues)
		kept = append(kept, r.Record)
	}
	qa.RowsAfter = len(kept)
	qa.RowsDroppedInvalidDates = qa.RowsBefore - qa.RowsAfter
	log.Info("cleaner.stage.done", "stage", "filter", "kept", qa.RowsAfter, "dropped", qa.RowsDroppedInvalidDates)

	if res.Has(resolve.CustomerID) && res.Has(resolve.ProductID) {
		qa.PossibleDuplicates = FlagDuplicates(kept)
	} else {
		log.Info("cleaner.duplicates.skipped", "reason", "customer or product id column absent")
	}
	log.Info("cleaner.stage.done", "stage", "duplicates", "flagged", qa.PossibleDuplicates)

	table := entity.NewCanonicalTable(kept)
	categories := make([]string, len(kept))
	cities := make([]string, len(kept))
	payments := make([]string, len(kept))
	for i, r := range kept {
		categories[i] = string(r.Category)
		cities[i] = r.City
		payments[i] = string(r.PaymentMethod)
	}
	qa.TopCategory = report.TopCounts(categories, c.topN)
	qa.TopCity = report.TopCounts(cities, c.topN)
	qa.TopPaymentMethod = report.TopCounts(payments, c.topN)
	qa.Status = constants.RunStatusCleaned

	summary := report.Build(table, c.extractLimit)
	extracts := summary.Extracts()
	log.Info("cleaner.stage.done", "stage", "report", "extracts", len(extracts))

	return &entity.Batch{
		Table:    table,
		QA:       qa,
		Extracts: extracts,
		Insights: summary.Insights.Lines(),
	}, nil
}
