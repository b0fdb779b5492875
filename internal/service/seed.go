package service

import "strings"

// SeedAddress is one curated registered-agent address.
type SeedAddress struct {
	StreetAddress string
	City          string
	ZipCode       string
	PhoneNumber   string
	BusinessHours string
}

// AddressSeed maps a full state name to its curated address. The registry only serves
// states present here.
type AddressSeed map[string]SeedAddress

const standardHours = "Monday-Friday 9:00 AM - 5:00 PM"

// DefaultAddressSeed returns the curated address table shipped with the service.
func DefaultAddressSeed() AddressSeed {
	return AddressSeed{
		"Delaware": {
			StreetAddress: "1000 N West Street, Suite 1200",
			City:          "Wilmington",
			ZipCode:       "19801",
			PhoneNumber:   "(302) 555-0142",
			BusinessHours: standardHours,
		},
		"Wyoming": {
			StreetAddress: "30 N Gould Street, Suite 2900",
			City:          "Sheridan",
			ZipCode:       "82801",
			PhoneNumber:   "(307) 555-0117",
			BusinessHours: standardHours,
		},
		"Nevada": {
			StreetAddress: "401 Ryland Street, Suite 200-A",
			City:          "Reno",
			ZipCode:       "89502",
			PhoneNumber:   "(775) 555-0163",
			BusinessHours: standardHours,
		},
		"California": {
			StreetAddress: "2108 N Street, Suite 4100",
			City:          "Sacramento",
			ZipCode:       "95816",
			PhoneNumber:   "(916) 555-0188",
			BusinessHours: "Monday-Friday 8:00 AM - 5:00 PM",
		},
		"Texas": {
			StreetAddress: "700 Lavaca Street, Suite 1401",
			City:          "Austin",
			ZipCode:       "78701",
			PhoneNumber:   "(512) 555-0131",
			BusinessHours: standardHours,
		},
		"Florida": {
			StreetAddress: "1400 Village Square Blvd, Suite 3",
			City:          "Tallahassee",
			ZipCode:       "32312",
			PhoneNumber:   "(850) 555-0175",
			BusinessHours: standardHours,
		},
		"New York": {
			StreetAddress: "90 State Street, Suite 700",
			City:          "Albany",
			ZipCode:       "12207",
			PhoneNumber:   "(518) 555-0109",
			BusinessHours: standardHours,
		},
	}
}

var stateNames = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas", "CA": "California",
	"CO": "Colorado", "CT": "Connecticut", "DE": "Delaware", "DC": "District of Columbia",
	"FL": "Florida", "GA": "Georgia", "HI": "Hawaii", "ID": "Idaho", "IL": "Illinois",
	"IN": "Indiana", "IA": "Iowa", "KS": "Kansas", "KY": "Kentucky", "LA": "Louisiana",
	"ME": "Maine", "MD": "Maryland", "MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota",
	"MS": "Mississippi", "MO": "Missouri", "MT": "Montana", "NE": "Nebraska", "NV": "Nevada",
	"NH": "New Hampshire", "NJ": "New Jersey", "NM": "New Mexico", "NY": "New York",
	"NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio", "OK": "Oklahoma", "OR": "Oregon",
	"PA": "Pennsylvania", "RI": "Rhode Island", "SC": "South Carolina", "SD": "South Dakota",
	"TN": "Tennessee", "TX": "Texas", "UT": "Utah", "VT": "Vermont", "VA": "Virginia",
	"WA": "Washington", "WV": "West Virginia", "WI": "Wisconsin", "WY": "Wyoming",
}

var stateByLowerName = func() map[string]string {
	m := make(map[string]string, len(stateNames))
	for _, name := range stateNames {
		m[strings.ToLower(name)] = name
	}
	return m
}()

// NormalizeState maps a USPS code or a full state name in any case to the canonical full name.
func NormalizeState(input string) (string, bool) {
	s := strings.Join(strings.Fields(input), " ")
	if s == "" {
		return "", false
	}
	if len(s) == 2 {
		name, ok := stateNames[strings.ToUpper(s)]
		return name, ok
	}
	name, ok := stateByLowerName[strings.ToLower(s)]
	return name, ok
}

// Abbreviation returns the USPS code for a full state name, or "" when unknown.
func Abbreviation(state string) string {
	for code, name := range stateNames {
		if name == state {
			return code
		}
	}
	return ""
}
