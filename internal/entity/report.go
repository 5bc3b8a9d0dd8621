package entity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/orders-analytics/constants"
)

// ValueCount is one entry of a top-N value distribution.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// FieldIssues counts field-level degradations recovered during cleaning.
// Only rows that survive the date filter are counted.
type FieldIssues struct {
	PriceUnparsed       int `json:"price_unparsed"`
	RatingInvalid       int `json:"rating_invalid"`
	DeliveryDaysInvalid int `json:"delivery_days_invalid"`
	CategoryOther       int `json:"category_other"`
	CityUnknown         int `json:"city_unknown"`
	PaymentOther        int `json:"payment_other"`
}

// QAReport is the before/after summary of a cleaning run.
type QAReport struct {
	RunID        string              `json:"run_id"`
	SourcePath   string              `json:"source_path"`
	SourceSHA256 string              `json:"source_sha256"`
	Status       constants.RunStatus `json:"status"`

	RowsBefore              int `json:"rows_before"`
	RowsAfter               int `json:"rows_after"`
	RowsDroppedInvalidDates int `json:"rows_dropped_due_to_invalid_dates"`
	PossibleDuplicates      int `json:"possible_duplicates"`

	TopCategory      []ValueCount `json:"top_category_after"`
	TopCity          []ValueCount `json:"top_city_after"`
	TopPaymentMethod []ValueCount `json:"top_payment_method_after"`

	FieldIssues FieldIssues `json:"field_issues"`
}

// Metric is one metric,value row of the QA summary.
type Metric struct {
	Name  string `json:"metric"`
	Value string `json:"value"`
}

// Metrics flattens the report into the metric,value rows of cleaning_summary.csv.
func (r *QAReport) Metrics() []Metric {
	itoa := strconv.Itoa
	return []Metric{
		{"rows_before", itoa(r.RowsBefore)},
		{"rows_after", itoa(r.RowsAfter)},
		{"rows_dropped_due_to_invalid_dates", itoa(r.RowsDroppedInvalidDates)},
		{"top_category_after", FormatCounts(r.TopCategory)},
		{"top_city_after", FormatCounts(r.TopCity)},
		{"top_payment_method_after", FormatCounts(r.TopPaymentMethod)},
		{"possible_duplicates", itoa(r.PossibleDuplicates)},
		{"price_unparsed", itoa(r.FieldIssues.PriceUnparsed)},
		{"rating_invalid", itoa(r.FieldIssues.RatingInvalid)},
		{"delivery_days_invalid", itoa(r.FieldIssues.DeliveryDaysInvalid)},
		{"category_other", itoa(r.FieldIssues.CategoryOther)},
		{"city_unknown", itoa(r.FieldIssues.CityUnknown)},
		{"payment_other", itoa(r.FieldIssues.PaymentOther)},
	}
}

// FormatCounts renders a distribution as "label(count); label(count)".
func FormatCounts(counts []ValueCount) string {
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s(%d)", c.Value, c.Count))
	}
	return strings.Join(parts, "; ")
}

// Extract is a named, already-rendered aggregate table handed to sinks.
type Extract struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// RevenueGroup is one row of a group-by over final_amount_inr.
type RevenueGroup struct {
	Key     string          `json:"key"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
	Avg     decimal.Decimal `json:"avg"`
}

// Batch is everything a finished cleaning run hands to its sink.
type Batch struct {
	Table    *CanonicalTable
	QA       *QAReport
	Extracts []Extract
	Insights []string
}
