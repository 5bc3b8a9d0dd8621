package repository

import (
	"context"
	stdsql "database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/orders-analytics/internal/common"
	"github.com/joseph-ayodele/orders-analytics/internal/entity"
)

const (
	TransactionsTable = "transactions"
	QASummaryTable    = "qa_summary"

	insertBatchRows = 500
)

// RevenueFields are the columns RevenueBy may group on.
var RevenueFields = []string{
	"category",
	"city",
	"payment_method",
	"order_year",
	"month_label",
	"order_value_segment",
	"is_prime",
}

// transactionIndexes maps index name to column.
var transactionIndexes = [][2]string{
	{"idx_tx_year", "order_year"},
	{"idx_tx_city", "city"},
	{"idx_tx_cat", "category"},
	{"idx_tx_cust", "customer_id"},
	{"idx_tx_prod", "product_id"},
}

// ExtractStore answers read-only queries over a written canonical table.
type ExtractStore interface {
	RevenueBy(ctx context.Context, field string) ([]entity.RevenueGroup, error)
	QASummary(ctx context.Context) ([]entity.Metric, error)
	Ping(ctx context.Context) error
}

// SQLStore persists canonical tables in SQLite or Postgres. Each Write
// replaces the previous table inside one transaction.
type SQLStore struct {
	db      *stdsql.DB
	dialect string
	logger  *slog.Logger
}

// NewSQLStore wraps db. d is dialect.SQLite or dialect.Postgres.
func NewSQLStore(db *stdsql.DB, d string, logger *slog.Logger) *SQLStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLStore{db: db, dialect: d, logger: logger}
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Write stores the canonical table with its indexes and the QA summary.
func (s *SQLStore) Write(ctx context.Context, b *entity.Batch) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapDB("begin", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, stdsql.ErrTxDone) {
				s.logger.Error("rollback failed", "error", rbErr)
			}
		}
	}()

	if err = s.writeTransactions(ctx, tx, b.Table); err != nil {
		return err
	}
	if err = s.writeQA(ctx, tx, b.QA); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return wrapDB("commit", err)
	}
	s.logger.Info("sql store written", "dialect", s.dialect, "rows", b.Table.Len())
	return nil
}

func (s *SQLStore) writeTransactions(ctx context.Context, tx *stdsql.Tx, table *entity.CanonicalTable) error {
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+TransactionsTable); err != nil {
		return wrapDB("drop transactions", err)
	}

	b := sql.Dialect(s.dialect)
	create := b.CreateTable(TransactionsTable)
	for _, col := range entity.CanonicalColumns {
		create.Columns(sql.Column(col).Type(s.columnType(col)))
	}
	if err := s.exec(ctx, tx, create, "create transactions"); err != nil {
		return err
	}

	recs := table.Records()
	for start := 0; start < len(recs); start += insertBatchRows {
		end := min(start+insertBatchRows, len(recs))
		ins := b.Insert(TransactionsTable).Columns(entity.CanonicalColumns...)
		for _, r := range recs[start:end] {
			ins.Values(r.Values()...)
		}
		if err := s.exec(ctx, tx, ins, "insert transactions"); err != nil {
			return err
		}
	}

	for _, idx := range transactionIndexes {
		ci := b.CreateIndex(idx[0]).Table(TransactionsTable).Columns(idx[1])
		if err := s.exec(ctx, tx, ci, "create index "+idx[0]); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLStore) writeQA(ctx context.Context, tx *stdsql.Tx, qa *entity.QAReport) error {
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+QASummaryTable); err != nil {
		return wrapDB("drop qa summary", err)
	}
	b := sql.Dialect(s.dialect)
	create := b.CreateTable(QASummaryTable).Columns(
		sql.Column("position").Type("INTEGER"),
		sql.Column("metric").Type("TEXT"),
		sql.Column("value").Type("TEXT"),
	)
	if err := s.exec(ctx, tx, create, "create qa summary"); err != nil {
		return err
	}

	metrics := append([]entity.Metric{
		{Name: "run_id", Value: qa.RunID},
		{Name: "source_path", Value: qa.SourcePath},
		{Name: "source_sha256", Value: qa.SourceSHA256},
		{Name: "status", Value: string(qa.Status)},
	}, qa.Metrics()...)
	ins := b.Insert(QASummaryTable).Columns("position", "metric", "value")
	for i, m := range metrics {
		ins.Values(int64(i), m.Name, m.Value)
	}
	return s.exec(ctx, tx, ins, "insert qa summary")
}

func (s *SQLStore) columnType(col string) string {
	switch col {
	case "final_amount_inr", "unit_price_inr", "quantity", "customer_rating", "delivery_days":
		if s.dialect == dialect.Postgres {
			return "DOUBLE PRECISION"
		}
		return "REAL"
	case "order_year", "order_month_num", "order_quarter", "is_prime", "is_possible_duplicate":
		return "INTEGER"
	case "order_date":
		if s.dialect == dialect.Postgres {
			return "DATE"
		}
		return "TEXT"
	default:
		return "TEXT"
	}
}

type querier interface {
	Query() (string, []any)
}

func (s *SQLStore) exec(ctx context.Context, tx *stdsql.Tx, q querier, what string) error {
	query, args := q.Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return wrapDB(what, err)
	}
	return nil
}

// RevenueBy groups the stored table by field and sums final_amount_inr,
// largest revenue first.
func (s *SQLStore) RevenueBy(ctx context.Context, field string) ([]entity.RevenueGroup, error) {
	if !slices.Contains(RevenueFields, field) {
		return nil, common.NewAppError(common.CodeExtractQuery,
			fmt.Sprintf("cannot group by %q", field), common.ErrInvalidInput)
	}
	q := sql.Dialect(s.dialect).
		Select(field, sql.As(sql.Count("*"), "orders"), sql.As(sql.Sum("final_amount_inr"), "revenue")).
		From(sql.Table(TransactionsTable)).
		GroupBy(field).
		OrderBy(sql.Desc("revenue"), field)
	query, args := q.Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDB("revenue by "+field, err)
	}
	defer rows.Close()

	var out []entity.RevenueGroup
	for rows.Next() {
		var (
			key     stdsql.NullString
			orders  int64
			revenue stdsql.NullFloat64
		)
		if err := rows.Scan(&key, &orders, &revenue); err != nil {
			return nil, wrapDB("scan revenue", err)
		}
		g := entity.RevenueGroup{
			Key:     key.String,
			Count:   int(orders),
			Revenue: decimal.NewFromFloat(revenue.Float64).Round(2),
		}
		if field == "is_prime" {
			g.Key = flagKey(key.String)
		}
		if orders > 0 {
			g.Avg = g.Revenue.DivRound(decimal.NewFromInt(orders), 2)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDB("iterate revenue", err)
	}
	return out, nil
}

// QASummary returns the stored QA metrics in write order.
func (s *SQLStore) QASummary(ctx context.Context) ([]entity.Metric, error) {
	query, args := sql.Dialect(s.dialect).
		Select("metric", "value").
		From(sql.Table(QASummaryTable)).
		OrderBy("position").
		Query()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDB("qa summary", err)
	}
	defer rows.Close()

	var out []entity.Metric
	for rows.Next() {
		var m entity.Metric
		if err := rows.Scan(&m.Name, &m.Value); err != nil {
			return nil, wrapDB("scan qa summary", err)
		}
		out = append(out, m)
	}
	return out, wrapDB("iterate qa summary", rows.Err())
}

// flagKey renders a stored 0/1 flag the way the extracts render booleans.
func flagKey(v string) string {
	switch v {
	case "1", "true":
		return "true"
	case "0", "false":
		return "false"
	default:
		return v
	}
}

func wrapDB(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", what, common.ErrDatabase, err)
}
