package core

import "github.com/joseph-ayodele/orders-analytics/internal/entity"

type dupKey struct {
	customer string
	product  string
	date     string
	amount   string
}

// FlagDuplicates marks every record whose (customer, product, order date,
// final amount) key is shared with another record, and returns how many
// were marked. Records with a blank customer or product id are never marked.
//
// Two separate orders of the same item at the same price on the same day
// are flagged too; no transaction id is consulted.
func FlagDuplicates(records []entity.CanonicalRecord) int {
	keyOf := func(r entity.CanonicalRecord) (dupKey, bool) {
		if r.CustomerID == "" || r.ProductID == "" {
			return dupKey{}, false
		}
		return dupKey{
			customer: r.CustomerID,
			product:  r.ProductID,
			date:     r.OrderDate.Format(entity.DateLayout),
			amount:   r.FinalAmountINR.String(),
		}, true
	}

	counts := make(map[dupKey]int, len(records))
	for _, r := range records {
		if k, ok := keyOf(r); ok {
			counts[k]++
		}
	}
	flagged := 0
	for i := range records {
		k, ok := keyOf(records[i])
		if ok && counts[k] > 1 {
			records[i].IsPossibleDuplicate = true
			flagged++
		}
	}
	return flagged
}
