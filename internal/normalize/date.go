package normalize

import (
	"strings"
	"time"
)

// Year-first and named-month layouts are unambiguous and tried in both passes.
var unambiguousLayouts = []string{
	"2006-01-02",
	"2006/1/2",
	"2006.1.2",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2 Jan 2006",
	"2 January 2006",
	"2-Jan-2006",
	"2-Jan-06",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
}

var dayFirstLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2/1/2006 15:04",
	"2/1/2006 15:04:05",
	"2-1-2006 15:04",
	"2-1-2006 15:04:05",
	"2/1/06",
	"2-1-06",
}

var monthFirstLayouts = []string{
	"1/2/2006",
	"1-2-2006",
	"1.2.2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1-2-2006 15:04",
	"1-2-2006 15:04:05",
	"1/2/06",
	"1-2-06",
}

// ParseDate reads an order date, trying a day-first interpretation before a
// month-first one. The result is a calendar date at midnight UTC; the wall
// clock date of zoned inputs is kept.
func ParseDate(v any) (time.Time, bool) {
	if t, ok := v.(time.Time); ok {
		return truncateDate(t), !t.IsZero()
	}
	// numbers are never dates here
	if _, isNum := number(v); isNum {
		return time.Time{}, false
	}
	s, ok := Text(v)
	if !ok {
		return time.Time{}, false
	}
	s = Space(s)
	if t, ok := parseWith(s, unambiguousLayouts, dayFirstLayouts); ok {
		return t, true
	}
	return parseWith(s, monthFirstLayouts)
}

// ParseDayFirst applies only the day-first pass.
func ParseDayFirst(s string) (time.Time, bool) {
	return parseWith(Space(s), unambiguousLayouts, dayFirstLayouts)
}

// ParseMonthFirst applies only the month-first pass.
func ParseMonthFirst(s string) (time.Time, bool) {
	return parseWith(Space(s), unambiguousLayouts, monthFirstLayouts)
}

func parseWith(s string, layoutSets ...[]string) (time.Time, bool) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, false
	}
	for _, layouts := range layoutSets {
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				return truncateDate(t), true
			}
		}
	}
	return time.Time{}, false
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateParts holds the fields derived from an order date.
type DateParts struct {
	Year       int
	Month      int
	Quarter    int
	MonthLabel string
}

func PartsOf(d time.Time) DateParts {
	m := int(d.Month())
	return DateParts{
		Year:       d.Year(),
		Month:      m,
		Quarter:    (m-1)/3 + 1,
		MonthLabel: d.Format("2006-01"),
	}
}
