package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const maxRating = 5.0

var (
	ratingWords    = strings.NewReplacer("stars", "", "star", "")
	ratingSuffixes = []string{"/5.0", "/5", "out of 5"}
	reRatio        = regexp.MustCompile(`^(\d+(?:\.\d+)?) */ *(\d+(?:\.\d+)?)`)
)

// Rating returns a rating in (0, 5] or nil. Textual decorations such as
// "stars" or "out of 5" are stripped; ratios like "8/10" are rescaled to
// five points and rounded to two decimals.
func Rating(v any) *float64 {
	s, ok := Text(v)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(ratingWords.Replace(strings.ToLower(strings.TrimSpace(s))))
	for _, suffix := range ratingSuffixes {
		s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
	}

	if val, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(val) || val <= 0 {
			return nil
		}
		val = math.Min(val, maxRating)
		return &val
	}

	m := reRatio.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	num, _ := strconv.ParseFloat(m[1], 64)
	den, _ := strconv.ParseFloat(m[2], 64)
	if den <= 0 {
		return nil
	}
	val := math.Round(math.Min(num/den*maxRating, maxRating)*100) / 100
	if val <= 0 {
		return nil
	}
	return &val
}
