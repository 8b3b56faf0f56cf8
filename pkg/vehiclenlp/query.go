// Package vehiclenlp pulls a make and a model year out of short free text
// such as "2019 chevy" or "vw '21". Make names come back in their canonical
// spelling so they can be matched against the vPIC makes list.
package vehiclenlp

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Query is what a free-text lookup asks for. Empty fields were not found.
type Query struct {
	Make string // canonical make name, or the leftover text when no alias matched
	Year string // four digits
}

// makeAliases maps abbreviations and nicknames to canonical make names.
var makeAliases = map[string]string{
	"chevy":         "Chevrolet",
	"chevrolet":     "Chevrolet",
	"merc":          "Mercedes-Benz",
	"benz":          "Mercedes-Benz",
	"mercedes":      "Mercedes-Benz",
	"mercedes-benz": "Mercedes-Benz",
	"vw":            "Volkswagen",
	"volkswagen":    "Volkswagen",
	"toyota":        "Toyota",
	"honda":         "Honda",
	"ford":          "Ford",
	"bmw":           "BMW",
	"audi":          "Audi",
	"nissan":        "Nissan",
	"hyundai":       "Hyundai",
	"kia":           "Kia",
	"subaru":        "Subaru",
	"mazda":         "Mazda",
	"jeep":          "Jeep",
	"ram":           "Ram",
	"gmc":           "GMC",
	"dodge":         "Dodge",
	"lexus":         "Lexus",
	"acura":         "Acura",
	"tesla":         "Tesla",
	"porsche":       "Porsche",
	"volvo":         "Volvo",
	"buick":         "Buick",
	"cadillac":      "Cadillac",
	"caddy":         "Cadillac",
	"lincoln":       "Lincoln",
	"infiniti":      "Infiniti",
	"genesis":       "Genesis",
	"mitsubishi":    "Mitsubishi",
	"chrysler":      "Chrysler",
	"land rover":    "Land Rover",
	"jaguar":        "Jaguar",
	"alfa romeo":    "Alfa Romeo",
	"alfa":          "Alfa Romeo",
	"fiat":          "Fiat",
	"mini":          "Mini",
	"rivian":        "Rivian",
	"lucid":         "Lucid",
	"polestar":      "Polestar",
}

var (
	makeRe     *regexp.Regexp
	yearFullRe = regexp.MustCompile(`\b((?:19|20)\d{2})\b`)
	yearAbbrRe = regexp.MustCompile(`(?:^|\s)'(\d{2})\b`)
)

func init() {
	names := make([]string, 0, len(makeAliases))
	for alias := range makeAliases {
		names = append(names, regexp.QuoteMeta(alias))
	}
	// Longest first so "land rover" wins over shorter alternatives.
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	makeRe = regexp.MustCompile(`(?i)\b(` + strings.Join(names, "|") + `)(?:'s)?\b`)
}

// Canonical returns the canonical make for an alias, or "" when s is not a
// known alias.
func Canonical(s string) string {
	return makeAliases[strings.ToLower(strings.TrimSpace(s))]
}

// ParseQuery extracts a make and a model year from text. When no known
// alias is present, whatever is left after removing the year becomes Make,
// so callers can still match it against the live makes list.
func ParseQuery(text string) Query {
	var q Query
	rest := text

	if m := yearFullRe.FindStringSubmatchIndex(rest); m != nil {
		q.Year = rest[m[2]:m[3]]
		rest = rest[:m[0]] + " " + rest[m[1]:]
	} else if m := yearAbbrRe.FindStringSubmatchIndex(rest); m != nil {
		q.Year = expandYear(rest[m[2]:m[3]])
		rest = rest[:m[0]] + " " + rest[m[1]:]
	}

	if m := makeRe.FindStringSubmatchIndex(rest); m != nil {
		q.Make = makeAliases[strings.ToLower(rest[m[2]:m[3]])]
		return q
	}
	q.Make = strings.Join(strings.Fields(rest), " ")
	return q
}

// expandYear turns a two-digit year into four digits: 00-30 are 20xx and
// 80-99 are 19xx. Anything else is not a plausible model year.
func expandYear(yy string) string {
	n, err := strconv.Atoi(yy)
	switch {
	case err != nil:
		return ""
	case n <= 30:
		return strconv.Itoa(2000 + n)
	case n >= 80:
		return strconv.Itoa(1900 + n)
	}
	return ""
}
