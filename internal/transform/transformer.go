// Package transform turns one raw input row into a canonical order record.
package transform

import (
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/orders-analytics/constants"
	"github.com/joseph-ayodele/orders-analytics/internal/entity"
	"github.com/joseph-ayodele/orders-analytics/internal/normalize"
	"github.com/joseph-ayodele/orders-analytics/internal/resolve"
)

// amountChain is the fallback order for final_amount_inr.
var amountChain = []resolve.Field{
	resolve.FinalAmount,
	resolve.DiscountedPrice,
	resolve.Subtotal,
	resolve.OriginalPrice,
}

// Issues records which fields of a row degraded to a default.
type Issues struct {
	PriceUnparsed       bool
	RatingInvalid       bool
	DeliveryDaysInvalid bool
	CategoryOther       bool
	CityUnknown         bool
	PaymentOther        bool
}

// Add folds one row's issues into the batch counters.
func (i Issues) Add(into *entity.FieldIssues) {
	into.PriceUnparsed += b2i(i.PriceUnparsed)
	into.RatingInvalid += b2i(i.RatingInvalid)
	into.DeliveryDaysInvalid += b2i(i.DeliveryDaysInvalid)
	into.CategoryOther += b2i(i.CategoryOther)
	into.CityUnknown += b2i(i.CityUnknown)
	into.PaymentOther += b2i(i.PaymentOther)
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Result is the outcome of transforming one row. When DateValid is false the
// record carries no date parts and must be dropped by the caller.
type Result struct {
	Record    entity.CanonicalRecord
	DateValid bool
	Issues    Issues
}

// Transformer applies the field normalizers through a batch's resolver.
// It holds no mutable state and may be shared across goroutines.
type Transformer struct {
	res *resolve.Resolver
}

func New(res *resolve.Resolver) *Transformer {
	return &Transformer{res: res}
}

// Transform normalizes a single row. It never fails.
func (t *Transformer) Transform(rec entity.RawRecord) Result {
	r := t.res
	var out Result

	amount, priceIssue := t.finalAmount(rec)
	out.Issues.PriceUnparsed = priceIssue

	c := entity.CanonicalRecord{
		TransactionID:  r.Text(rec, resolve.TransactionID),
		CustomerID:     r.Text(rec, resolve.CustomerID),
		ProductID:      r.Text(rec, resolve.ProductID),
		ProductName:    r.Text(rec, resolve.ProductName),
		Brand:          r.Text(rec, resolve.Brand),
		FinalAmountINR: amount,
		UnitPriceINR:   r.UnitPrice(rec, amount),
		Quantity:       r.Quantity(rec),
		Category: normalize.Category(
			r.Value(rec, resolve.Category),
			r.Value(rec, resolve.Subcategory),
			r.Value(rec, resolve.ProductName),
		),
		City:              normalize.City(r.Value(rec, resolve.City)),
		PaymentMethod:     normalize.Payment(r.Value(rec, resolve.PaymentMethod)),
		IsPrime:           normalize.Bool(r.Value(rec, resolve.IsPrime)),
		CustomerRating:    normalize.Rating(r.Value(rec, resolve.CustomerRating)),
		DeliveryDays:      normalize.DeliveryDays(r.Value(rec, resolve.DeliveryDays)),
		OrderValueSegment: normalize.Segment(decimal.NewNullDecimal(amount)),
	}

	out.Issues.RatingInvalid = c.CustomerRating == nil && normalize.Present(r.Value(rec, resolve.CustomerRating))
	out.Issues.DeliveryDaysInvalid = c.DeliveryDays == nil && normalize.Present(r.Value(rec, resolve.DeliveryDays))
	out.Issues.CategoryOther = c.Category == constants.OtherCategory
	out.Issues.CityUnknown = c.City == constants.UnknownCity
	out.Issues.PaymentOther = c.PaymentMethod == constants.PaymentOther

	if d, ok := normalize.ParseDate(r.Value(rec, resolve.OrderDate)); ok {
		p := normalize.PartsOf(d)
		c.OrderDate = d
		c.OrderYear = p.Year
		c.OrderMonthNum = p.Month
		c.OrderQuarter = p.Quarter
		c.MonthLabel = p.MonthLabel
		out.DateValid = true
	}

	out.Record = c
	return out
}

// finalAmount walks amountChain and returns the first usable price, or zero.
// unparsed reports a non-empty price cell that could not be read before a
// usable one was found; columns after the winning one are not inspected.
func (t *Transformer) finalAmount(rec entity.RawRecord) (amount decimal.Decimal, unparsed bool) {
	for _, f := range amountChain {
		raw := t.res.Value(rec, f)
		p := normalize.Price(raw)
		if !p.Valid {
			if normalize.Present(raw) {
				unparsed = true
			}
			continue
		}
		// negative prices are treated as unusable candidates
		if p.Decimal.IsNegative() {
			unparsed = true
			continue
		}
		return p.Decimal, unparsed
	}
	return decimal.Zero, unparsed
}
