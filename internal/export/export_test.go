package export_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/orders-analytics/constants"
	"github.com/joseph-ayodele/orders-analytics/internal/entity"
	"github.com/joseph-ayodele/orders-analytics/internal/export"
)

func sampleBatch() *entity.Batch {
	rating := 4.5
	return &entity.Batch{
		Table: entity.NewCanonicalTable([]entity.CanonicalRecord{{
			TransactionID:  "T1",
			OrderDate:      time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			FinalAmountINR: decimal.RequireFromString("1499.50"),
			Category:       constants.Audio,
			City:           "Pune",
			PaymentMethod:  constants.PaymentUPI,
			IsPrime:        true,
			CustomerRating: &rating,
			OrderYear:      2024,
			OrderMonthNum:  5,
			OrderQuarter:   2,
			MonthLabel:     "2024-05",
		}}),
		QA: &entity.QAReport{
			RowsBefore:              2,
			RowsAfter:               1,
			RowsDroppedInvalidDates: 1,
			TopCategory:             []entity.ValueCount{{Value: "Audio", Count: 1}},
			TopCity:                 []entity.ValueCount{{Value: "Pune", Count: 1}},
			TopPaymentMethod:        []entity.ValueCount{{Value: "UPI", Count: 1}},
		},
		Extracts: []entity.Extract{
			{Name: "city_revenue", Columns: []string{"city", "revenue"}, Rows: [][]string{{"Pune", "1499.5"}}},
			{Name: "category_performance", Columns: []string{"category", "count", "revenue", "avg"}, Rows: [][]string{{"Audio", "1", "1499.5", "1499.5"}}},
		},
		Insights: []string{"Total orders: 1"},
	}
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

func TestWriteQACSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteQACSV(&buf, sampleBatch().QA))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "metric,value", lines[0])
	assert.Equal(t, "rows_before,2", lines[1])
	assert.Equal(t, "rows_after,1", lines[2])
	assert.Equal(t, "rows_dropped_due_to_invalid_dates,1", lines[3])
	assert.Equal(t, "top_category_after,Audio(1)", lines[4])
}

func TestWriteTableCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteTableCSV(&buf, sampleBatch().Table))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, entity.CanonicalColumns, rows[0])

	row := map[string]string{}
	for i, c := range rows[0] {
		row[c] = rows[1][i]
	}
	assert.Equal(t, "2024-05-01", row["order_date"])
	assert.Equal(t, "1499.5", row["final_amount_inr"])
	assert.Equal(t, "", row["unit_price_inr"])
	assert.Equal(t, "4.5", row["customer_rating"])
	assert.Equal(t, "true", row["is_prime"])
	assert.Equal(t, "false", row["is_possible_duplicate"])
}

func TestDirSink_Write(t *testing.T) {
	dir := t.TempDir()
	sink := export.NewDirSink(dir, true, true, nil, nil)
	require.NoError(t, sink.Write(context.Background(), sampleBatch()))

	qa := readCSV(t, filepath.Join(dir, export.QADir, export.QASummaryFile))
	assert.Equal(t, []string{"rows_after", "1"}, qa[2])

	city := readCSV(t, filepath.Join(dir, export.EDADir, "city_revenue.csv"))
	assert.Equal(t, [][]string{{"city", "revenue"}, {"Pune", "1499.5"}}, city)

	insights, err := os.ReadFile(filepath.Join(dir, export.EDADir, export.InsightsFile))
	require.NoError(t, err)
	assert.Equal(t, "Total orders: 1\n", string(insights))

	assert.FileExists(t, filepath.Join(dir, export.CleanedCSVFile))
	assert.FileExists(t, filepath.Join(dir, export.ExtractsFile))

	entries, err := os.ReadDir(filepath.Join(dir, export.EDADir))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), "."), "temp file left behind: %s", e.Name())
	}
}

func TestDirSink_OptionalFilesOff(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, export.NewDirSink(dir, false, false, nil, nil).Write(context.Background(), sampleBatch()))
	assert.NoFileExists(t, filepath.Join(dir, export.CleanedCSVFile))
	assert.NoFileExists(t, filepath.Join(dir, export.ExtractsFile))
	assert.FileExists(t, filepath.Join(dir, export.QADir, export.QASummaryFile))
}

func TestExtractsXLSX(t *testing.T) {
	b := sampleBatch()
	data, err := export.NewService(nil).ExtractsXLSX(b.Extracts, b.QA)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"city_revenue", "category_performance", export.QASheet}, f.GetSheetList())

	rows, err := f.GetRows("category_performance")
	require.NoError(t, err)
	assert.Equal(t, []string{"category", "count", "revenue", "avg"}, rows[0])
	assert.Equal(t, "Audio", rows[1][0])
	assert.Equal(t, "1499.5", rows[1][2])

	qa, err := f.GetRows(export.QASheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"rows_before", "2"}, qa[1])
}

func TestExtractsXLSX_OnlyQA(t *testing.T) {
	data, err := export.NewService(nil).ExtractsXLSX(nil, sampleBatch().QA)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{export.QASheet}, f.GetSheetList())
}
