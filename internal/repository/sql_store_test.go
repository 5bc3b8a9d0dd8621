package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"entgo.io/ent/dialect"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/orders-analytics/constants"
	"github.com/joseph-ayodele/orders-analytics/internal/common"
	"github.com/joseph-ayodele/orders-analytics/internal/entity"
	"github.com/joseph-ayodele/orders-analytics/internal/repository"
)

func rec(id, city string, amount int64, prime bool) entity.CanonicalRecord {
	d := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	return entity.CanonicalRecord{
		TransactionID:     id,
		CustomerID:        "C-" + id,
		ProductID:         "P1",
		OrderDate:         d,
		FinalAmountINR:    decimal.NewFromInt(amount),
		Category:          constants.Laptops,
		City:              city,
		PaymentMethod:     constants.PaymentCOD,
		IsPrime:           prime,
		OrderYear:         2024,
		OrderMonthNum:     2,
		OrderQuarter:      1,
		MonthLabel:        "2024-02",
		OrderValueSegment: constants.SegmentLow,
	}
}

func batch(records ...entity.CanonicalRecord) *entity.Batch {
	return &entity.Batch{
		Table: entity.NewCanonicalTable(records),
		QA: &entity.QAReport{
			RunID:      "run-1",
			Status:     constants.RunStatusCleaned,
			RowsBefore: len(records) + 1,
			RowsAfter:  len(records),
			TopCity:    []entity.ValueCount{{Value: "Pune", Count: 2}},
		},
	}
}

func openSQLite(t *testing.T) *repository.SQLStore {
	t.Helper()
	db, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "nested", "orders.db"))
	require.NoError(t, err)
	store := repository.NewSQLStore(db, dialect.SQLite, nil)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLStore_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openSQLite(t)
	require.NoError(t, store.Ping(ctx))

	require.NoError(t, store.Write(ctx, batch(
		rec("T1", "Pune", 1000, true),
		rec("T2", "Pune", 500, false),
		rec("T3", "Delhi", 2000, false),
	)))

	byCity, err := store.RevenueBy(ctx, "city")
	require.NoError(t, err)
	require.Len(t, byCity, 2)
	assert.Equal(t, "Delhi", byCity[0].Key)
	assert.True(t, decimal.NewFromInt(2000).Equal(byCity[0].Revenue))
	assert.Equal(t, "Pune", byCity[1].Key)
	assert.Equal(t, 2, byCity[1].Count)
	assert.True(t, decimal.NewFromInt(750).Equal(byCity[1].Avg))

	byPrime, err := store.RevenueBy(ctx, "is_prime")
	require.NoError(t, err)
	require.Len(t, byPrime, 2)
	assert.Equal(t, "false", byPrime[0].Key)
	assert.Equal(t, "true", byPrime[1].Key)

	byYear, err := store.RevenueBy(ctx, "order_year")
	require.NoError(t, err)
	require.Len(t, byYear, 1)
	assert.Equal(t, "2024", byYear[0].Key)

	qa, err := store.QASummary(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, qa)
	assert.Equal(t, entity.Metric{Name: "run_id", Value: "run-1"}, qa[0])
	assert.Contains(t, qa, entity.Metric{Name: "rows_after", Value: "3"})
	assert.Contains(t, qa, entity.Metric{Name: "top_city_after", Value: "Pune(2)"})
}

func TestSQLStore_WriteReplacesTable(t *testing.T) {
	ctx := context.Background()
	store := openSQLite(t)

	require.NoError(t, store.Write(ctx, batch(rec("T1", "Pune", 1, false), rec("T2", "Pune", 1, false))))
	require.NoError(t, store.Write(ctx, batch(rec("T9", "Agra", 7, false))))

	byCity, err := store.RevenueBy(ctx, "city")
	require.NoError(t, err)
	require.Len(t, byCity, 1)
	assert.Equal(t, "Agra", byCity[0].Key)
}

func TestSQLStore_ManyRowsAreChunked(t *testing.T) {
	ctx := context.Background()
	store := openSQLite(t)

	records := make([]entity.CanonicalRecord, 1234)
	for i := range records {
		records[i] = rec("T", "Pune", 1, false)
	}
	require.NoError(t, store.Write(ctx, batch(records...)))

	byCity, err := store.RevenueBy(ctx, "city")
	require.NoError(t, err)
	require.Len(t, byCity, 1)
	assert.Equal(t, 1234, byCity[0].Count)
}

func TestSQLStore_RejectsUnknownField(t *testing.T) {
	_, err := openSQLite(t).RevenueBy(context.Background(), "customer_id; DROP TABLE transactions")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
}

func TestSQLStore_PostgresWrite(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ok := sqlmock.NewResult(0, 0)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE IF EXISTS transactions")).WillReturnResult(ok)
	mock.ExpectExec(`CREATE TABLE .*transactions.*order_date.*DATE`).WillReturnResult(ok)
	mock.ExpectExec(`INSERT INTO "transactions" .*VALUES \(\$1`).WillReturnResult(sqlmock.NewResult(0, 2))
	for _, idx := range []string{"idx_tx_year", "idx_tx_city", "idx_tx_cat", "idx_tx_cust", "idx_tx_prod"} {
		mock.ExpectExec(`CREATE INDEX .*` + idx).WillReturnResult(ok)
	}
	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE IF EXISTS qa_summary")).WillReturnResult(ok)
	mock.ExpectExec(`CREATE TABLE .*qa_summary`).WillReturnResult(ok)
	mock.ExpectExec(`INSERT INTO "qa_summary"`).WillReturnResult(ok)
	mock.ExpectCommit()

	store := repository.NewSQLStore(db, dialect.Postgres, nil)
	require.NoError(t, store.Write(context.Background(), batch(rec("T1", "Pune", 10, true), rec("T2", "Agra", 5, false))))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_PostgresWriteRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ok := sqlmock.NewResult(0, 0)
	mock.ExpectBegin()
	mock.ExpectExec(`DROP TABLE IF EXISTS transactions`).WillReturnResult(ok)
	mock.ExpectExec(`CREATE TABLE`).WillReturnResult(ok)
	mock.ExpectExec(`INSERT INTO "transactions"`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	store := repository.NewSQLStore(db, dialect.Postgres, nil)
	err = store.Write(context.Background(), batch(rec("T1", "Pune", 10, true)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrDatabase))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_PostgresRevenueBy(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .*payment_method.*COUNT\(\*\).*SUM\(.*final_amount_inr.*\).* FROM "transactions" GROUP BY .*payment_method`).
		WillReturnRows(sqlmock.NewRows([]string{"payment_method", "orders", "revenue"}).
			AddRow("UPI", int64(3), 4500.5).
			AddRow("COD", int64(1), 100.0))

	got, err := repository.NewSQLStore(db, dialect.Postgres, nil).RevenueBy(context.Background(), "payment_method")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "UPI", got[0].Key)
	assert.Equal(t, 3, got[0].Count)
	assert.True(t, decimal.RequireFromString("4500.5").Equal(got[0].Revenue))
	assert.True(t, decimal.RequireFromString("1500.17").Equal(got[0].Avg))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMultiSink(t *testing.T) {
	var calls []string
	record := func(name string, err error) repository.NamedSink {
		return repository.NamedSink{Name: name, Sink: repository.SinkFunc(func(context.Context, *entity.Batch) error {
			calls = append(calls, name)
			return err
		})}
	}

	ms := repository.MultiSink{record("files", nil), record("sqlite", errors.New("locked")), record("postgres", nil)}
	err := ms.Write(context.Background(), batch(rec("T1", "Pune", 1, false)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink sqlite")
	assert.Equal(t, []string{"files", "sqlite"}, calls)

	assert.Error(t, repository.MultiSink{}.Write(context.Background(), &entity.Batch{}))
}
