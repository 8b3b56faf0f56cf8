package domain

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestYearRange_CountAndOrder(t *testing.T) {
	for _, tc := range []struct{ current, floor int }{
		{2024, 2014}, {2015, 2014}, {2030, 1999}, {2014, 2014},
	} {
		years := YearRange(tc.current, tc.floor)
		if len(years) != tc.current-tc.floor {
			t.Fatalf("YearRange(%d,%d): expected %d entries, got %d", tc.current, tc.floor, tc.current-tc.floor, len(years))
		}
		if len(years) == 0 {
			continue
		}
		if years[0] != strconv.Itoa(tc.current) {
			t.Fatalf("expected first year %d, got %s", tc.current, years[0])
		}
		for i := 1; i < len(years); i++ {
			prev, _ := strconv.Atoi(years[i-1])
			cur, _ := strconv.Atoi(years[i])
			if cur != prev-1 {
				t.Fatalf("not strictly descending at %d: %v", i, years)
			}
		}
		if last := years[len(years)-1]; last != strconv.Itoa(tc.floor+1) {
			t.Fatalf("expected last year %d, got %s", tc.floor+1, last)
		}
	}
}

func TestYearRange_CurrentBeforeFloor(t *testing.T) {
	if got := YearRange(2010, 2014); len(got) != 0 {
		t.Fatalf("expected empty range, got %v", got)
	}
}

func TestYears_UsesCalendarYear(t *testing.T) {
	years := Years(time.Date(2020, time.December, 31, 23, 59, 0, 0, time.UTC))
	if len(years) != 6 || years[0] != "2020" || years[5] != "2015" {
		t.Fatalf("unexpected years: %v", years)
	}
}

func TestResultsPath_RoundTrip(t *testing.T) {
	sel := Selection{MakeID: "2", Year: "2020"}
	path := ResultsPath(sel)
	if path != "/result/2/2020" {
		t.Fatalf("unexpected path %q", path)
	}
	if got := ParseResultsPath(path); got != sel {
		t.Fatalf("round trip lost data: %+v", got)
	}
	makeID, year, err := ParseSelection(ParseResultsPath(path))
	if err != nil || makeID != 2 || year != 2020 {
		t.Fatalf("ParseSelection: %d %d %v", makeID, year, err)
	}
}

func TestParseResultsPath_Partial(t *testing.T) {
	if got := ParseResultsPath("/result/448"); got.MakeID != "448" || got.Year != "" {
		t.Fatalf("unexpected %+v", got)
	}
	if got := ParseResultsPath("/other/448/2020"); got.Complete() {
		t.Fatalf("expected empty selection, got %+v", got)
	}
}

func TestParseSelection_Errors(t *testing.T) {
	cases := []struct {
		sel  Selection
		want error
	}{
		{Selection{Year: "2020"}, ErrMissingParam},
		{Selection{MakeID: "2"}, ErrMissingParam},
		{Selection{MakeID: "abc", Year: "2020"}, ErrInvalidMakeID},
		{Selection{MakeID: "007", Year: "2020"}, ErrInvalidMakeID},
		{Selection{MakeID: "-1", Year: "2020"}, ErrInvalidMakeID},
		{Selection{MakeID: "2", Year: "20x0"}, ErrInvalidYear},
		{Selection{MakeID: "2", Year: "202"}, ErrInvalidYear},
	}
	for _, tc := range cases {
		_, _, err := ParseSelection(tc.sel)
		if !errors.Is(err, tc.want) {
			t.Errorf("%+v: expected %v, got %v", tc.sel, tc.want, err)
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("%+v: expected *ValidationError, got %T", tc.sel, err)
		}
	}
}

func TestValidationError_Error(t *testing.T) {
	ve := NewValidationError("year", "20x0", ErrInvalidYear)
	s := ve.Error()
	if !strings.Contains(s, "year") || !strings.Contains(s, "20x0") || !strings.Contains(s, "invalid model year") {
		t.Fatalf("unexpected error string: %s", s)
	}
}

func TestResolveMake(t *testing.T) {
	makes := []Make{{448, "TOYOTA"}, {474, "HONDA"}, {460, "FORD"}}

	m, err := ResolveMake(makes, "474")
	if err != nil || m.Name != "HONDA" {
		t.Fatalf("by id: %+v %v", m, err)
	}
	m, err = ResolveMake(makes, " toyota ")
	if err != nil || m.ID != 448 {
		t.Fatalf("by name: %+v %v", m, err)
	}

	_, err = ResolveMake(makes, "toyta")
	var ue *UnknownMakeError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UnknownMakeError, got %v", err)
	}
	if len(ue.Suggestions) != 1 || ue.Suggestions[0] != "TOYOTA" {
		t.Fatalf("unexpected suggestions %v", ue.Suggestions)
	}
	if !errors.Is(err, ErrUnknownMake) || !strings.Contains(err.Error(), "did you mean TOYOTA") {
		t.Fatalf("unexpected error %v", err)
	}

	_, err = ResolveMake(makes, "999")
	if !errors.Is(err, ErrUnknownMake) {
		t.Fatalf("expected ErrUnknownMake for unknown id, got %v", err)
	}
}
