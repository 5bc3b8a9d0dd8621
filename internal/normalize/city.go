package normalize

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/joseph-ayodele/orders-analytics/constants"
)

// CityAliases maps title-cased spellings to the canonical city name.
var CityAliases = map[string]string{
	"Bangalore": "Bengaluru",
	"Banglore":  "Bengaluru",
	"Bengalore": "Bengaluru",
	"Calcutta":  "Kolkata",
	"Madras":    "Chennai",
	"Delhi Ncr": "Delhi",
	"Chenai":    "Chennai",
}

// City title-cases the input and applies CityAliases. Missing or blank
// input becomes "Unknown".
func City(v any) string {
	s, ok := Text(v)
	if !ok {
		return constants.UnknownCity
	}
	// cases.Caser keeps state, so one per call.
	s = cases.Title(language.Und).String(Space(s))
	if canon, ok := CityAliases[s]; ok {
		return canon
	}
	return s
}
