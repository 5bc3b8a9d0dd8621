package report

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joseph-ayodele/orders-analytics/constants"
	"github.com/joseph-ayodele/orders-analytics/internal/entity"
)

// Extract names, also used as file and sheet names by the exporters.
const (
	ExtractCategoryPerformance = "category_performance"
	ExtractCityRevenue         = "city_revenue"
	ExtractPaymentShare        = "payment_share"
	ExtractSalesByYear         = "sales_by_year"
	ExtractMonthlyRevenue      = "monthly_revenue"
	ExtractTopProducts         = "top_products"
	ExtractTopCustomers        = "top_customers"
	ExtractPrimeVsNonPrime     = "prime_vs_nonprime"
)

// Summary holds every aggregate extract of one canonical table.
type Summary struct {
	CategoryPerformance []entity.RevenueGroup
	CityRevenue         []entity.RevenueGroup
	PaymentShare        []entity.RevenueGroup
	SalesByYear         []entity.RevenueGroup
	MonthlyRevenue      []entity.RevenueGroup
	TopProducts         []ProductRevenue
	TopCustomers        []entity.RevenueGroup
	PrimeVsNonPrime     []entity.RevenueGroup
	Insights            Insights
}

// Insights is the short headline summary written next to the extracts.
type Insights struct {
	TotalRevenue  decimal.Decimal
	TotalOrders   int
	AvgOrderValue decimal.Decimal
	TopCity       string
	TopCategory   string
}

// Build computes all extracts. limit caps the top products and customers.
func Build(table *entity.CanonicalTable, limit int) *Summary {
	recs := table.Records()
	s := &Summary{
		CategoryPerformance: GroupRevenue(recs, ByCategory),
		CityRevenue:         GroupRevenue(recs, ByCity),
		PaymentShare:        GroupRevenue(recs, ByPaymentMethod),
		SalesByYear:         GroupRevenue(recs, ByYear),
		MonthlyRevenue:      GroupRevenue(recs, ByMonth),
		TopProducts:         TopProducts(recs, limit),
		TopCustomers:        GroupRevenue(recs, ByCustomer),
		PrimeVsNonPrime:     GroupRevenue(recs, ByPrime),
	}
	SortByRevenue(s.CategoryPerformance)
	SortByRevenue(s.CityRevenue)
	SortByRevenue(s.PaymentShare)
	SortByRevenue(s.TopCustomers)
	s.TopCustomers = Head(s.TopCustomers, limit)

	in := Insights{TotalOrders: len(recs), TopCity: constants.UnknownCity, TopCategory: string(constants.OtherCategory)}
	for _, r := range recs {
		in.TotalRevenue = in.TotalRevenue.Add(r.FinalAmountINR)
	}
	if in.TotalOrders > 0 {
		in.AvgOrderValue = in.TotalRevenue.DivRound(decimal.NewFromInt(int64(in.TotalOrders)), 2)
	}
	if len(s.CityRevenue) > 0 {
		in.TopCity = s.CityRevenue[0].Key
	}
	if len(s.CategoryPerformance) > 0 {
		in.TopCategory = s.CategoryPerformance[0].Key
	}
	s.Insights = in
	return s
}

// Extracts renders the summary as named tables in a fixed order.
func (s *Summary) Extracts() []entity.Extract {
	revenueOnly := func(name, keyCol string, groups []entity.RevenueGroup) entity.Extract {
		e := entity.Extract{Name: name, Columns: []string{keyCol, "revenue"}}
		for _, g := range groups {
			e.Rows = append(e.Rows, []string{g.Key, g.Revenue.String()})
		}
		return e
	}

	perf := entity.Extract{Name: ExtractCategoryPerformance, Columns: []string{"category", "count", "revenue", "avg"}}
	for _, g := range s.CategoryPerformance {
		perf.Rows = append(perf.Rows, []string{g.Key, fmt.Sprint(g.Count), g.Revenue.String(), g.Avg.String()})
	}

	products := entity.Extract{Name: ExtractTopProducts, Columns: []string{"product_id", "product_name", "revenue"}}
	for _, p := range s.TopProducts {
		products.Rows = append(products.Rows, []string{p.ProductID, p.ProductName, p.Revenue.String()})
	}

	return []entity.Extract{
		perf,
		revenueOnly(ExtractCityRevenue, "city", s.CityRevenue),
		revenueOnly(ExtractPaymentShare, "payment_method", s.PaymentShare),
		revenueOnly(ExtractSalesByYear, "order_year", s.SalesByYear),
		revenueOnly(ExtractMonthlyRevenue, "month_label", s.MonthlyRevenue),
		products,
		revenueOnly(ExtractTopCustomers, "customer_id", s.TopCustomers),
		revenueOnly(ExtractPrimeVsNonPrime, "is_prime", s.PrimeVsNonPrime),
	}
}

// Lines renders the insights as text lines with Indian rupee amounts
// rounded to whole rupees.
func (in Insights) Lines() []string {
	p := message.NewPrinter(language.English)
	return []string{
		p.Sprintf("Total revenue: ₹%d", in.TotalRevenue.Round(0).IntPart()),
		p.Sprintf("Total orders: %d", in.TotalOrders),
		p.Sprintf("Avg order value: ₹%d", in.AvgOrderValue.Round(0).IntPart()),
		"Top city: " + in.TopCity,
		"Top category: " + in.TopCategory,
	}
}
