package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"entgo.io/ent/dialect"

	"github.com/joseph-ayodele/orders-analytics/internal/common"
	"github.com/joseph-ayodele/orders-analytics/internal/core"
	"github.com/joseph-ayodele/orders-analytics/internal/core/async"
	"github.com/joseph-ayodele/orders-analytics/internal/export"
	"github.com/joseph-ayodele/orders-analytics/internal/ingest"
	repo "github.com/joseph-ayodele/orders-analytics/internal/repository"
	"github.com/joseph-ayodele/orders-analytics/internal/resolve"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	cfg := common.LoadConfig()

	var (
		input     = flag.String("input", "", "input CSV or XLSX file (required)")
		out       = flag.String("out", cfg.Output.Dir, "output directory")
		sqlite    = flag.String("sqlite", "", "SQLite database path (default <out>/orders_analytics.db)")
		exportCSV = flag.Bool("export-csv", cfg.Output.ExportCSV, "also write the cleaned table as CSV")
		noXLSX    = flag.Bool("no-xlsx", !cfg.Output.ExportXLSX, "skip the extracts workbook")
		workers   = flag.Int("workers", cfg.Cleaning.Workers, "row transform workers")
		aliases   = flag.String("aliases", cfg.Cleaning.AliasesFile, "YAML column alias overrides")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *input == "" {
		printError("Error: --input is required\n")
		os.Exit(2)
	}

	cfg.Output.Dir = *out
	switch {
	case *sqlite != "":
		cfg.Output.SQLitePath = *sqlite
	case os.Getenv("ORDERS_SQLITE_PATH") == "":
		cfg.Output.SQLitePath = filepath.Join(*out, "orders_analytics.db")
	}
	cfg.Output.ExportCSV = *exportCSV
	cfg.Output.ExportXLSX = !*noXLSX
	cfg.Cleaning.Workers = *workers
	cfg.Cleaning.AliasesFile = *aliases
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, *input, logger); err != nil {
		logger.Error("clean-orders failed", "error", err, "fatal", common.IsBatchFatal(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *common.Config, input string, logger *slog.Logger) error {
	aliases, err := resolve.LoadAliases(cfg.Cleaning.AliasesFile)
	if err != nil {
		return err
	}

	sqliteDB, err := repo.OpenSQLite(cfg.Output.SQLitePath)
	if err != nil {
		return err
	}
	sqliteStore := repo.NewSQLStore(sqliteDB, dialect.SQLite, logger)
	defer func() {
		if err := sqliteStore.Close(); err != nil {
			logger.Error("closing sqlite", "error", err)
		}
	}()

	sinks := repo.MultiSink{{Name: "sqlite", Sink: sqliteStore}}

	if cfg.Database.DSN != "" {
		db, pool, err := repo.Open(ctx, repo.Config{
			DSN:              cfg.Database.DSN,
			MaxConns:         cfg.Database.MaxConns,
			MinConns:         cfg.Database.MinConns,
			MaxConnLifetime:  cfg.Database.MaxConnLifetime,
			MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
			DialTimeout:      cfg.Database.DialTimeout,
			StatementTimeout: cfg.Database.StatementTimeout,
		}, logger)
		if err != nil {
			return common.NewAppError(common.CodeSink, "open postgres", err)
		}
		defer repo.Close(db, pool, logger)
		if err := repo.HealthCheck(ctx, pool, cfg.Database.DialTimeout, logger); err != nil {
			return common.NewAppError(common.CodeSink, "postgres health", err)
		}
		sinks = append(sinks, repo.NamedSink{Name: "postgres", Sink: repo.NewSQLStore(db, dialect.Postgres, logger)})
	}

	sinks = append(sinks, repo.NamedSink{
		Name: "files",
		Sink: export.NewDirSink(cfg.Output.Dir, cfg.Output.ExportCSV, cfg.Output.ExportXLSX, export.NewService(logger), logger),
	})

	pool := async.NewRowPool(logger, async.WithWorkers(cfg.Cleaning.Workers))
	cleaner := core.NewCleaner(logger, ingest.NewFileReader(logger), pool, sinks, aliases, cfg.Cleaning.TopN, cfg.Cleaning.ExtractLimit)

	batch, err := cleaner.Run(ctx, input)
	if err != nil {
		return err
	}

	fmt.Printf("Cleaning complete!\n")
	fmt.Printf("- Rows before: %d\n", batch.QA.RowsBefore)
	fmt.Printf("- Rows after: %d\n", batch.QA.RowsAfter)
	fmt.Printf("- Dropped (invalid dates): %d\n", batch.QA.RowsDroppedInvalidDates)
	fmt.Printf("- Possible duplicates: %d\n", batch.QA.PossibleDuplicates)
	fmt.Printf("- SQLite: %s\n", cfg.Output.SQLitePath)
	fmt.Printf("- Output: %s\n", cfg.Output.Dir)
	return nil
}
