package constants

type Category string

const (
	Smartphones        Category = "Smartphones"
	Laptops            Category = "Laptops"
	Tablets            Category = "Tablets"
	SmartWatches       Category = "Smart Watches"
	TVAndEntertainment Category = "TV & Entertainment"
	Audio              Category = "Audio"
	OtherCategory      Category = "Other"
)

var allCategories = []Category{
	Smartphones,
	Laptops,
	Tablets,
	SmartWatches,
	TVAndEntertainment,
	Audio,
	OtherCategory,
}

// Categories returns the closed set of canonical category labels.
func Categories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// IsCategory reports whether s is exactly one of the canonical labels.
func IsCategory(s string) bool {
	for _, cat := range allCategories {
		if s == string(cat) {
			return true
		}
	}
	return false
}
