package constants

// ValueSegment buckets an order by its final amount.
type ValueSegment string

const (
	SegmentUnknown ValueSegment = "Unknown"
	SegmentLow     ValueSegment = "Low"
	SegmentMid     ValueSegment = "Mid"
	SegmentHigh    ValueSegment = "High"
	SegmentPremium ValueSegment = "Premium"
	SegmentLuxury  ValueSegment = "Luxury"
)

var allSegments = []ValueSegment{
	SegmentUnknown,
	SegmentLow,
	SegmentMid,
	SegmentHigh,
	SegmentPremium,
	SegmentLuxury,
}

func ValueSegments() []ValueSegment {
	out := make([]ValueSegment, len(allSegments))
	copy(out, allSegments)
	return out
}

func IsValueSegment(s string) bool {
	for _, seg := range allSegments {
		if s == string(seg) {
			return true
		}
	}
	return false
}

// UnknownCity is the canonical city for missing or blank input.
const UnknownCity = "Unknown"
