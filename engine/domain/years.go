package domain

import (
	"strconv"
	"time"
)

// YearFloor is the exclusive lower bound of the offered model years. The
// oldest year the selector lists is YearFloor+1.
const YearFloor = 2014

// YearRange returns the model years from current down to floor+1, newest
// first. It is empty when current <= floor.
func YearRange(current, floor int) []string {
	if current <= floor {
		return []string{}
	}
	years := make([]string, 0, current-floor)
	for y := current; y > floor; y-- {
		years = append(years, strconv.Itoa(y))
	}
	return years
}

// Years returns the selector's year range for the calendar year of now.
func Years(now time.Time) []string {
	return YearRange(now.Year(), YearFloor)
}
