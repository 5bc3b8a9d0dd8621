package normalize

import "regexp"

// Rule pairs a predicate with the canonical label it assigns.
type Rule[L ~string] struct {
	Name  string
	Match func(string) bool
	Label L
}

// RuleTable is evaluated top to bottom; the first matching rule wins.
type RuleTable[L ~string] []Rule[L]

// Apply returns the label of the first rule matching s.
func (t RuleTable[L]) Apply(s string) (L, bool) {
	for _, r := range t {
		if r.Match(s) {
			return r.Label, true
		}
	}
	var zero L
	return zero, false
}

// Labels lists the labels in evaluation order, duplicates included.
func (t RuleTable[L]) Labels() []L {
	out := make([]L, len(t))
	for i, r := range t {
		out[i] = r.Label
	}
	return out
}

func pattern(expr string) func(string) bool {
	re := regexp.MustCompile(expr)
	return re.MatchString
}

func exact(want string) func(string) bool {
	return func(s string) bool { return s == want }
}
