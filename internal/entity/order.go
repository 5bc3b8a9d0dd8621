package entity

import (
	"slices"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/orders-analytics/constants"
)

// RawRecord is one input row keyed by source column name. Values are string,
// float64, int64, bool, time.Time (date-formatted spreadsheet cells) or nil;
// nil means the cell was empty or a null token.
type RawRecord map[string]any

// CanonicalRecord is the cleaned, fully typed order row.
type CanonicalRecord struct {
	TransactionID string `json:"transaction_id"`
	CustomerID    string `json:"customer_id"`
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	Brand         string `json:"brand"`

	OrderDate      time.Time           `json:"order_date"`
	FinalAmountINR decimal.Decimal     `json:"final_amount_inr"`
	UnitPriceINR   decimal.NullDecimal `json:"unit_price_inr"`
	Quantity       *float64            `json:"quantity,omitempty"`

	Category       constants.Category      `json:"category"`
	City           string                  `json:"city"`
	PaymentMethod  constants.PaymentMethod `json:"payment_method"`
	IsPrime        bool                    `json:"is_prime"`
	CustomerRating *float64                `json:"customer_rating,omitempty"`
	DeliveryDays   *float64                `json:"delivery_days,omitempty"`

	OrderYear         int                    `json:"order_year"`
	OrderMonthNum     int                    `json:"order_month_num"`
	OrderQuarter      int                    `json:"order_quarter"`
	MonthLabel        string                 `json:"month_label"`
	OrderValueSegment constants.ValueSegment `json:"order_value_segment"`

	IsPossibleDuplicate bool `json:"is_possible_duplicate"`
}

// CanonicalColumns is the fixed column order of the canonical table.
var CanonicalColumns = []string{
	"transaction_id",
	"customer_id",
	"product_id",
	"product_name",
	"brand",
	"order_date",
	"final_amount_inr",
	"unit_price_inr",
	"quantity",
	"category",
	"city",
	"payment_method",
	"is_prime",
	"customer_rating",
	"delivery_days",
	"order_year",
	"order_month_num",
	"order_quarter",
	"month_label",
	"order_value_segment",
	"is_possible_duplicate",
}

// DateLayout is how order_date is rendered in text sinks.
const DateLayout = "2006-01-02"

// Values returns the record in CanonicalColumns order using SQL-friendly types:
// strings, float64, int64 and nil. Booleans become 0/1.
func (r CanonicalRecord) Values() []any {
	return []any{
		r.TransactionID,
		r.CustomerID,
		r.ProductID,
		r.ProductName,
		r.Brand,
		r.OrderDate.Format(DateLayout),
		r.FinalAmountINR.InexactFloat64(),
		nullDecimal(r.UnitPriceINR),
		nullFloat(r.Quantity),
		string(r.Category),
		r.City,
		string(r.PaymentMethod),
		boolInt(r.IsPrime),
		nullFloat(r.CustomerRating),
		nullFloat(r.DeliveryDays),
		int64(r.OrderYear),
		int64(r.OrderMonthNum),
		int64(r.OrderQuarter),
		r.MonthLabel,
		string(r.OrderValueSegment),
		boolInt(r.IsPossibleDuplicate),
	}
}

// Strings renders the record in CanonicalColumns order for CSV output.
// Missing values are empty strings.
func (r CanonicalRecord) Strings() []string {
	return []string{
		r.TransactionID,
		r.CustomerID,
		r.ProductID,
		r.ProductName,
		r.Brand,
		r.OrderDate.Format(DateLayout),
		r.FinalAmountINR.String(),
		nullDecimalString(r.UnitPriceINR),
		nullFloatString(r.Quantity),
		string(r.Category),
		r.City,
		string(r.PaymentMethod),
		strconv.FormatBool(r.IsPrime),
		nullFloatString(r.CustomerRating),
		nullFloatString(r.DeliveryDays),
		strconv.Itoa(r.OrderYear),
		strconv.Itoa(r.OrderMonthNum),
		strconv.Itoa(r.OrderQuarter),
		r.MonthLabel,
		string(r.OrderValueSegment),
		strconv.FormatBool(r.IsPossibleDuplicate),
	}
}

// CanonicalTable is the immutable output of one cleaning run.
type CanonicalTable struct {
	records []CanonicalRecord
}

func NewCanonicalTable(records []CanonicalRecord) *CanonicalTable {
	return &CanonicalTable{records: slices.Clone(records)}
}

func (t *CanonicalTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Records returns a copy of all records in table order.
func (t *CanonicalTable) Records() []CanonicalRecord {
	if t == nil {
		return nil
	}
	return slices.Clone(t.records)
}

func nullFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullDecimal(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.InexactFloat64()
}

func nullFloatString(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func nullDecimalString(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
