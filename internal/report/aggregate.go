// Package report computes the QA distributions and revenue extracts of a
// cleaned order table. Everything here is a pure projection.
package report

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/orders-analytics/internal/entity"
)

// KeyFunc extracts a group key from a record. ok=false leaves the record
// out of the grouping.
type KeyFunc func(r entity.CanonicalRecord) (key string, ok bool)

var (
	ByCategory      KeyFunc = func(r entity.CanonicalRecord) (string, bool) { return string(r.Category), true }
	ByCity          KeyFunc = func(r entity.CanonicalRecord) (string, bool) { return r.City, true }
	ByPaymentMethod KeyFunc = func(r entity.CanonicalRecord) (string, bool) { return string(r.PaymentMethod), true }
	ByYear          KeyFunc = func(r entity.CanonicalRecord) (string, bool) { return strconv.Itoa(r.OrderYear), true }
	ByMonth         KeyFunc = func(r entity.CanonicalRecord) (string, bool) { return r.MonthLabel, true }
	ByPrime         KeyFunc = func(r entity.CanonicalRecord) (string, bool) { return strconv.FormatBool(r.IsPrime), true }
	ByCustomer      KeyFunc = func(r entity.CanonicalRecord) (string, bool) { return r.CustomerID, r.CustomerID != "" }
)

// GroupRevenue sums final_amount_inr per key. Groups come back sorted by key.
func GroupRevenue(records []entity.CanonicalRecord, key KeyFunc) []entity.RevenueGroup {
	idx := make(map[string]int)
	var groups []entity.RevenueGroup
	for _, r := range records {
		k, ok := key(r)
		if !ok {
			continue
		}
		i, seen := idx[k]
		if !seen {
			i = len(groups)
			idx[k] = i
			groups = append(groups, entity.RevenueGroup{Key: k})
		}
		groups[i].Count++
		groups[i].Revenue = groups[i].Revenue.Add(r.FinalAmountINR)
	}
	for i := range groups {
		groups[i].Avg = groups[i].Revenue.DivRound(decimal.NewFromInt(int64(groups[i].Count)), 2)
	}
	slices.SortFunc(groups, func(a, b entity.RevenueGroup) int { return cmp.Compare(a.Key, b.Key) })
	return groups
}

// SortByRevenue orders groups by revenue descending, then key ascending.
func SortByRevenue(groups []entity.RevenueGroup) {
	slices.SortStableFunc(groups, func(a, b entity.RevenueGroup) int {
		if c := b.Revenue.Cmp(a.Revenue); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
}

// Head returns at most n leading groups.
func Head[T any](s []T, n int) []T {
	if n >= 0 && len(s) > n {
		return s[:n]
	}
	return s
}

// ProductRevenue is a top-products row.
type ProductRevenue struct {
	ProductID   string
	ProductName string
	Revenue     decimal.Decimal
}

// TopProducts ranks products by revenue. Rows without a product id are skipped.
func TopProducts(records []entity.CanonicalRecord, n int) []ProductRevenue {
	type pkey struct{ id, name string }
	sums := make(map[pkey]decimal.Decimal)
	for _, r := range records {
		if r.ProductID == "" {
			continue
		}
		k := pkey{r.ProductID, r.ProductName}
		sums[k] = sums[k].Add(r.FinalAmountINR)
	}
	out := make([]ProductRevenue, 0, len(sums))
	for k, v := range sums {
		out = append(out, ProductRevenue{ProductID: k.id, ProductName: k.name, Revenue: v})
	}
	slices.SortFunc(out, func(a, b ProductRevenue) int {
		if c := b.Revenue.Cmp(a.Revenue); c != 0 {
			return c
		}
		if c := cmp.Compare(a.ProductID, b.ProductID); c != 0 {
			return c
		}
		return cmp.Compare(a.ProductName, b.ProductName)
	})
	return Head(out, n)
}

// TopCounts returns the n most frequent values, count descending then value
// ascending.
func TopCounts(values []string, n int) []entity.ValueCount {
	counts := make(map[string]int)
	for _, v := range values {
		counts[v]++
	}
	out := make([]entity.ValueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, entity.ValueCount{Value: v, Count: c})
	}
	slices.SortFunc(out, func(a, b entity.ValueCount) int {
		if a.Count != b.Count {
			return cmp.Compare(b.Count, a.Count)
		}
		return cmp.Compare(a.Value, b.Value)
	})
	return Head(out, n)
}
