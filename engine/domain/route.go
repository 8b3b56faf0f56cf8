package domain

import (
	"net/url"
	"strconv"
	"strings"
)

// SelectorPath is where the wizard starts.
const SelectorPath = "/"

// ResultsPrefix is the path prefix of the results view.
const ResultsPrefix = "/result/"

// ResultsPath encodes a selection as the results view's path,
// /result/{makeId}/{year}.
func ResultsPath(sel Selection) string {
	return ResultsPrefix + url.PathEscape(sel.MakeID) + "/" + url.PathEscape(sel.Year)
}

// ParseResultsPath splits a results path back into its selection. Missing
// segments come back empty; it never fails.
func ParseResultsPath(path string) Selection {
	rest, ok := strings.CutPrefix(path, ResultsPrefix)
	if !ok {
		return Selection{}
	}
	parts := strings.SplitN(strings.Trim(rest, "/"), "/", 3)
	var sel Selection
	if len(parts) > 0 {
		sel.MakeID, _ = url.PathUnescape(parts[0])
	}
	if len(parts) > 1 {
		sel.Year, _ = url.PathUnescape(parts[1])
	}
	return sel
}

// ParseSelection checks the raw results parameters and returns them as
// integers. A missing parameter is reported as ErrMissingParam so callers
// can treat it as "not ready yet" rather than invalid.
func ParseSelection(sel Selection) (makeID, year int, err error) {
	if sel.MakeID == "" {
		return 0, 0, NewValidationError("make_id", sel.MakeID, ErrMissingParam)
	}
	if sel.Year == "" {
		return 0, 0, NewValidationError("year", sel.Year, ErrMissingParam)
	}
	makeID, err = strconv.Atoi(sel.MakeID)
	// Identifiers must survive int -> string -> int unchanged, so "007" and
	// "+7" are rejected along with non-numbers.
	if err != nil || makeID <= 0 || strconv.Itoa(makeID) != sel.MakeID {
		return 0, 0, NewValidationError("make_id", sel.MakeID, ErrInvalidMakeID)
	}
	year, err = strconv.Atoi(sel.Year)
	if err != nil || len(sel.Year) != 4 || strconv.Itoa(year) != sel.Year {
		return 0, 0, NewValidationError("year", sel.Year, ErrInvalidYear)
	}
	return makeID, year, nil
}
