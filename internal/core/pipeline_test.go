package core_test

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"entgo.io/ent/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/orders-analytics/constants"
	"github.com/joseph-ayodele/orders-analytics/internal/core"
	"github.com/joseph-ayodele/orders-analytics/internal/core/async"
	"github.com/joseph-ayodele/orders-analytics/internal/entity"
	"github.com/joseph-ayodele/orders-analytics/internal/export"
	"github.com/joseph-ayodele/orders-analytics/internal/ingest"
	"github.com/joseph-ayodele/orders-analytics/internal/repository"
)

const ordersCSV = `transaction_id,customer_id,product_id,order_date,final_amount_inr,category,city,payment_method
T1,C1,P1,2024-01-05,"₹1,000",Mobiles,bangalore,UPI
T2,C1,P1,05/01/2024,1000,Smartphones,Bengaluru,gpay
T3,C2,P2,not-a-date,500,Audio,Pune,COD
T4,C3,P3,2024-02-10,25000,Laptops,delhi,Credit Card
T5,C1,P1,2024-01-05,999,Mobiles,Pune,c.o.d
`

func TestRun_FileToSQLiteAndFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	input := filepath.Join(dir, "orders.csv")
	require.NoError(t, os.WriteFile(input, []byte(ordersCSV), 0o644))

	db, err := repository.OpenSQLite(filepath.Join(dir, "out", "orders_analytics.db"))
	require.NoError(t, err)
	store := repository.NewSQLStore(db, dialect.SQLite, nil)
	t.Cleanup(func() { _ = store.Close() })

	outDir := filepath.Join(dir, "out")
	sink := repository.MultiSink{
		{Name: "sqlite", Sink: store},
		{Name: "files", Sink: export.NewDirSink(outDir, true, true, nil, nil)},
	}
	cleaner := core.NewCleaner(nil, ingest.NewFileReader(nil), async.NewRowPool(nil, async.WithWorkers(2)), sink, nil, 5, 50)

	batch, err := cleaner.Run(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, constants.RunStatusWritten, batch.QA.Status)
	assert.Len(t, batch.QA.SourceSHA256, 64)
	assert.Equal(t, 4, batch.QA.RowsAfter)

	byCity, err := store.RevenueBy(ctx, "city")
	require.NoError(t, err)
	keys := make([]string, 0, len(byCity))
	for _, g := range byCity {
		keys = append(keys, g.Key)
	}
	assert.Equal(t, []string{"Delhi", "Bengaluru", "Pune"}, keys)

	qa, err := store.QASummary(ctx)
	require.NoError(t, err)
	assert.Contains(t, qa, entity.Metric{Name: "rows_dropped_due_to_invalid_dates", Value: "1"})
	assert.Contains(t, qa, entity.Metric{Name: "possible_duplicates", Value: "2"})

	summary := readCSV(t, filepath.Join(outDir, export.QADir, export.QASummaryFile))
	assert.Equal(t, []string{"metric", "value"}, summary[0])
	assert.Contains(t, summary, []string{"top_payment_method_after", "UPI(2); COD(1); Credit Card(1)"})

	for _, name := range []string{"category_performance", "city_revenue", "payment_share", "sales_by_year",
		"monthly_revenue", "top_products", "top_customers", "prime_vs_nonprime"} {
		assert.FileExists(t, filepath.Join(outDir, export.EDADir, name+".csv"))
	}
	insights, err := os.ReadFile(filepath.Join(outDir, export.EDADir, export.InsightsFile))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(insights), "Top city: Delhi"), string(insights))

	cleaned := readCSV(t, filepath.Join(outDir, export.CleanedCSVFile))
	require.Len(t, cleaned, 5)
	assert.Equal(t, entity.CanonicalColumns, cleaned[0])
	assert.FileExists(t, filepath.Join(outDir, export.ExtractsFile))
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
