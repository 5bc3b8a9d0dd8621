package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// MaxDeliveryDays is the largest delivery estimate accepted as real.
const MaxDeliveryDays = 30

var (
	reDayRange   = regexp.MustCompile(`^(\d+)\s*-\s*(\d+)`)
	reLeadingInt = regexp.MustCompile(`^(\d+)`)
)

// DeliveryDays parses estimates like "3", "3-5", "same day" or "2 days".
// Ranges become their midpoint. Results outside [0, MaxDeliveryDays] are nil.
func DeliveryDays(v any) *float64 {
	s, ok := Text(v)
	if !ok {
		return nil
	}
	s = strings.ToLower(strings.TrimSpace(s))

	var days float64
	switch {
	case s == "same day" || s == "same-day" || s == "today":
		days = 0
	case reDayRange.MatchString(s):
		m := reDayRange.FindStringSubmatch(s)
		a, errA := strconv.Atoi(m[1])
		b, errB := strconv.Atoi(m[2])
		if errA != nil || errB != nil {
			return nil
		}
		days = float64(a+b) / 2
	case reLeadingInt.MatchString(s):
		n, err := strconv.Atoi(reLeadingInt.FindString(s))
		if err != nil {
			return nil
		}
		days = float64(n)
	default:
		return nil
	}

	if days < 0 || days > MaxDeliveryDays {
		return nil
	}
	return &days
}
