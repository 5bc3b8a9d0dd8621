// Package resolve maps logical order fields onto the columns a source actually has.
package resolve

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/orders-analytics/internal/common"
	"github.com/joseph-ayodele/orders-analytics/internal/entity"
	"github.com/joseph-ayodele/orders-analytics/internal/normalize"
)

// Resolver binds every logical field to at most one source column. It is
// built once per batch and is safe for concurrent reads.
type Resolver struct {
	columns map[Field]string
}

// New picks, for each field, the first alias present in headers. Header
// matching ignores case and surrounding whitespace; when a header repeats,
// its first occurrence is used.
func New(headers []string, aliases Aliases) *Resolver {
	if aliases == nil {
		aliases = DefaultAliases()
	}
	present := make(map[string]string, len(headers))
	for _, h := range headers {
		k := key(h)
		if _, dup := present[k]; !dup && k != "" {
			present[k] = h
		}
	}

	r := &Resolver{columns: make(map[Field]string, len(aliases))}
	for f, names := range aliases {
		for _, n := range names {
			if col, ok := present[key(n)]; ok {
				r.columns[f] = col
				break
			}
		}
	}
	return r
}

func key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Column returns the source column bound to f.
func (r *Resolver) Column(f Field) (string, bool) {
	col, ok := r.columns[f]
	return col, ok
}

func (r *Resolver) Has(f Field) bool {
	_, ok := r.columns[f]
	return ok
}

// Value returns the raw cell for f, or nil when the batch has no column for it.
func (r *Resolver) Value(rec entity.RawRecord, f Field) any {
	col, ok := r.columns[f]
	if !ok {
		return nil
	}
	return rec[col]
}

// Text returns the trimmed text of f, empty when missing.
func (r *Resolver) Text(rec entity.RawRecord, f Field) string {
	s, ok := normalize.Text(r.Value(rec, f))
	if !ok {
		return ""
	}
	return normalize.Space(s)
}

// Quantity returns the parsed quantity, nil when missing or not a number.
func (r *Resolver) Quantity(rec entity.RawRecord) *float64 {
	q := normalize.Price(r.Value(rec, Quantity))
	if !q.Valid {
		return nil
	}
	f := q.Decimal.InexactFloat64()
	return &f
}

// UnitPrice reads the unit price column when present and otherwise derives
// it as amount / quantity. A zero, negative or missing quantity yields missing.
func (r *Resolver) UnitPrice(rec entity.RawRecord, amount decimal.Decimal) decimal.NullDecimal {
	if r.Has(UnitPrice) {
		if p := normalize.Price(r.Value(rec, UnitPrice)); p.Valid {
			return p
		}
	}
	q := normalize.Price(r.Value(rec, Quantity))
	if !q.Valid || !q.Decimal.IsPositive() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(amount.DivRound(q.Decimal, 2))
}

// Missing lists the fields with no bound column, in Fields order.
func (r *Resolver) Missing() []Field {
	var out []Field
	for _, f := range Fields() {
		if !r.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// Validate fails when a field the batch cannot do without has no column.
// Only order_date qualifies; every other field falls back to a default.
func (r *Resolver) Validate() error {
	v := common.NewValidator()
	col, _ := r.Column(OrderDate)
	v.Field(string(OrderDate), col, common.Required)
	if v.HasErrors() {
		return common.NewAppError(common.CodeSchema, v.ErrorMessage(), common.ErrMissingColumn)
	}
	return nil
}
