// Package geo holds the world-map plumbing for the macro panel: the
// base map dataset (registered once, remote primary with a bundled
// fallback), country display names, and the metric color scale.
package geo

import "strings"

// countryNames maps ISO alpha-2 codes to display names for the macro
// panel. Codes outside the table render as the raw code.
var countryNames = map[string]string{
	"US": "United States",
	"CA": "Canada",
	"MX": "Mexico",
	"BR": "Brazil",
	"AR": "Argentina",
	"CL": "Chile",
	"GB": "United Kingdom",
	"DE": "Germany",
	"FR": "France",
	"IT": "Italy",
	"ES": "Spain",
	"PT": "Portugal",
	"NL": "Netherlands",
	"BE": "Belgium",
	"CH": "Switzerland",
	"AT": "Austria",
	"SE": "Sweden",
	"NO": "Norway",
	"DK": "Denmark",
	"FI": "Finland",
	"PL": "Poland",
	"GR": "Greece",
	"IE": "Ireland",
	"RU": "Russia",
	"TR": "Turkey",
	"CN": "China",
	"JP": "Japan",
	"KR": "South Korea",
	"IN": "India",
	"ID": "Indonesia",
	"TH": "Thailand",
	"VN": "Vietnam",
	"MY": "Malaysia",
	"SG": "Singapore",
	"PH": "Philippines",
	"TW": "Taiwan",
	"HK": "Hong Kong",
	"AU": "Australia",
	"NZ": "New Zealand",
	"ZA": "South Africa",
	"NG": "Nigeria",
	"EG": "Egypt",
	"SA": "Saudi Arabia",
	"AE": "United Arab Emirates",
	"IL": "Israel",
}

// DisplayName returns the country name for an ISO code, falling back
// to the raw code when unknown.
func DisplayName(code string) string {
	if name, ok := countryNames[strings.ToUpper(code)]; ok {
		return name
	}
	return code
}
