package domain

import (
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

const maxSuggestions = 3

// ResolveMake finds the make a free-typed query refers to: a numeric id, or
// a case-insensitive name. When nothing matches it returns an
// *UnknownMakeError carrying the nearest names by edit distance.
func ResolveMake(makes []Make, query string) (Make, error) {
	q := strings.TrimSpace(query)
	if id, err := strconv.Atoi(q); err == nil {
		for _, m := range makes {
			if m.ID == id {
				return m, nil
			}
		}
		return Make{}, &UnknownMakeError{Query: query}
	}

	needle := strings.ToUpper(q)
	for _, m := range makes {
		if strings.ToUpper(strings.TrimSpace(m.Name)) == needle {
			return m, nil
		}
	}

	type candidate struct {
		name string
		dist int
	}
	limit := len(needle)/3 + 1
	if limit < 2 {
		limit = 2
	}
	var near []candidate
	for _, m := range makes {
		name := strings.TrimSpace(m.Name)
		d := levenshtein.ComputeDistance(needle, strings.ToUpper(name))
		if d <= limit {
			near = append(near, candidate{name: name, dist: d})
		}
	}
	sort.SliceStable(near, func(i, j int) bool { return near[i].dist < near[j].dist })
	if len(near) > maxSuggestions {
		near = near[:maxSuggestions]
	}
	err := &UnknownMakeError{Query: query}
	for _, c := range near {
		err.Suggestions = append(err.Suggestions, c.name)
	}
	return Make{}, err
}
