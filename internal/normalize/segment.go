package normalize

import (
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/orders-analytics/constants"
)

type segmentBound struct {
	upTo    decimal.Decimal
	segment constants.ValueSegment
}

// Upper bounds are inclusive.
var segmentBounds = []segmentBound{
	{decimal.NewFromInt(5_000), constants.SegmentLow},
	{decimal.NewFromInt(20_000), constants.SegmentMid},
	{decimal.NewFromInt(50_000), constants.SegmentHigh},
	{decimal.NewFromInt(100_000), constants.SegmentPremium},
}

// Segment buckets an order amount. A missing amount is Unknown.
func Segment(amount decimal.NullDecimal) constants.ValueSegment {
	if !amount.Valid {
		return constants.SegmentUnknown
	}
	for _, b := range segmentBounds {
		if amount.Decimal.LessThanOrEqual(b.upTo) {
			return b.segment
		}
	}
	return constants.SegmentLuxury
}
