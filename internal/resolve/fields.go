package resolve

import "slices"

// Field is a logical input field, independent of how a source names its column.
type Field string

const (
	OrderDate       Field = "order_date"
	FinalAmount     Field = "final_amount_inr"
	DiscountedPrice Field = "discounted_price_inr"
	Subtotal        Field = "subtotal_inr"
	OriginalPrice   Field = "original_price_inr"
	UnitPrice       Field = "unit_price_inr"
	Quantity        Field = "quantity"
	Category        Field = "category"
	Subcategory     Field = "subcategory"
	ProductName     Field = "product_name"
	City            Field = "city"
	PaymentMethod   Field = "payment_method"
	IsPrime         Field = "is_prime"
	CustomerRating  Field = "customer_rating"
	DeliveryDays    Field = "delivery_days"
	TransactionID   Field = "transaction_id"
	CustomerID      Field = "customer_id"
	ProductID       Field = "product_id"
	Brand           Field = "brand"
)

// Fields lists every logical field in a stable order.
func Fields() []Field {
	return []Field{
		OrderDate, FinalAmount, DiscountedPrice, Subtotal, OriginalPrice,
		UnitPrice, Quantity, Category, Subcategory, ProductName, City,
		PaymentMethod, IsPrime, CustomerRating, DeliveryDays,
		TransactionID, CustomerID, ProductID, Brand,
	}
}

// IsField reports whether s names a known logical field.
func IsField(s string) bool {
	return slices.Contains(Fields(), Field(s))
}

// Aliases maps each logical field to its candidate column names, highest
// priority first.
type Aliases map[Field][]string

// DefaultAliases returns a fresh copy of the built-in alias table.
func DefaultAliases() Aliases {
	return Aliases{
		OrderDate:       {"order_date", "order_datetime", "purchase_date", "date"},
		FinalAmount:     {"final_amount_inr", "order_amount"},
		DiscountedPrice: {"discounted_price_inr", "discounted_price"},
		Subtotal:        {"subtotal_inr", "subtotal", "revenue"},
		OriginalPrice:   {"original_price_inr", "original_price", "mrp"},
		UnitPrice:       {"unit_price_inr", "unit_price"},
		Quantity:        {"quantity", "qty"},
		Category:        {"category"},
		Subcategory:     {"subcategory", "sub_category"},
		ProductName:     {"product_name", "product_title"},
		City:            {"city", "customer_city"},
		PaymentMethod:   {"payment_method", "payment_mode", "payment_type"},
		IsPrime:         {"is_prime_member", "is_prime", "is_prime_eligible"},
		CustomerRating:  {"customer_rating", "rating"},
		DeliveryDays:    {"delivery_days", "delivery_time"},
		TransactionID:   {"transaction_id", "order_id"},
		CustomerID:      {"customer_id"},
		ProductID:       {"product_id"},
		Brand:           {"brand"},
	}
}

// Merge returns a new table where the aliases in over are consulted before
// the ones already in a. Repeated names keep their first position.
func (a Aliases) Merge(over Aliases) Aliases {
	out := make(Aliases, len(a))
	for _, f := range Fields() {
		names := append(slices.Clone(over[f]), a[f]...)
		out[f] = dedupe(names)
	}
	return out
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := names[:0]
	for _, n := range names {
		k := key(n)
		if _, ok := seen[k]; ok || k == "" {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, n)
	}
	return out
}
