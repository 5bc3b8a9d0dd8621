package normalize

import (
	"strings"

	"github.com/joseph-ayodele/orders-analytics/constants"
)

// CategoryRules is the ordered rule table for category reconciliation.
// Keyword rules come first; the exact compound labels seen in source
// exports are consulted only when no keyword matched.
var CategoryRules = RuleTable[constants.Category]{
	{Name: "smartphones", Match: pattern(`(?i)(smartphone|mobile|phone)`), Label: constants.Smartphones},
	{Name: "laptops", Match: pattern(`(?i)(laptop|notebook|ultrabook)`), Label: constants.Laptops},
	{Name: "tablets", Match: pattern(`(?i)(tablet|ipad)`), Label: constants.Tablets},
	{Name: "watches", Match: pattern(`(?i)(watch|wearable)`), Label: constants.SmartWatches},
	{Name: "tv", Match: pattern(`(?i)(tv|television|entertain)`), Label: constants.TVAndEntertainment},
	{Name: "audio", Match: pattern(`(?i)(audio|headphone|earbud|earphone|speaker|soundbar)`), Label: constants.Audio},

	{Name: "exact:smartphones", Match: exact("electronics smartphones"), Label: constants.Smartphones},
	{Name: "exact:laptops", Match: exact("electronics laptops"), Label: constants.Laptops},
	{Name: "exact:tablets", Match: exact("electronics tablets"), Label: constants.Tablets},
	{Name: "exact:smart watch", Match: exact("electronics smart watch"), Label: constants.SmartWatches},
	{Name: "exact:tv", Match: exact("electronics tv and entertainment"), Label: constants.TVAndEntertainment},
	{Name: "exact:audio", Match: exact("electronics audio"), Label: constants.Audio},
}

var categorySeparators = strings.NewReplacer("&", " ", "/", " ", "-", " ")

// Category reconciles up to three sources in priority order (category,
// subcategory, product name). The first source matching any rule wins;
// when none does the result is Other.
func Category(sources ...any) constants.Category {
	for _, src := range sources {
		s, ok := Text(src)
		if !ok {
			continue
		}
		s = Space(categorySeparators.Replace(strings.ToLower(Space(s))))
		if label, ok := CategoryRules.Apply(s); ok {
			return label
		}
	}
	return constants.OtherCategory
}
