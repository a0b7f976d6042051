package daywindow

import (
	"testing"
	"time"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("tzdata for %s unavailable: %v", name, err)
	}
	return loc
}

func TestForDate_UTCExample(t *testing.T) {
	w := ForDate(2024, time.March, 1, time.UTC)

	gt, lt := QueryBounds(w)
	if gt != "2024-03-01T00:00:00" {
		t.Errorf("gt = %q; want 2024-03-01T00:00:00", gt)
	}
	if lt != "2024-03-02T00:00:00" {
		t.Errorf("lt = %q; want 2024-03-02T00:00:00", lt)
	}
	if w.StartUnix() != 1709251200 || w.EndUnix() != 1709337600 {
		t.Errorf("unix bounds = [%d, %d)", w.StartUnix(), w.EndUnix())
	}
}

func TestForDate_Is24HoursOnRegularDays(t *testing.T) {
	la := mustLoad(t, "America/Los_Angeles")
	tests := []struct {
		name  string
		y     int
		m     time.Month
		d     int
		loc   *time.Location
		start string
		end   string
	}{
		{name: "mid month", y: 2024, m: time.June, d: 15, loc: time.UTC, start: "2024-06-15", end: "2024-06-16"},
		{name: "month rollover", y: 2024, m: time.April, d: 30, loc: la, start: "2024-04-30", end: "2024-05-01"},
		{name: "leap day", y: 2024, m: time.February, d: 29, loc: time.UTC, start: "2024-02-29", end: "2024-03-01"},
		{name: "year rollover", y: 2023, m: time.December, d: 31, loc: la, start: "2023-12-31", end: "2024-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ForDate(tt.y, tt.m, tt.d, tt.loc)
			if got := w.End.Sub(w.Start); got != 24*time.Hour {
				t.Errorf("window length = %v; want 24h", got)
			}
			if got := w.Start.Format(time.DateOnly); got != tt.start {
				t.Errorf("start = %s; want %s", got, tt.start)
			}
			if got := w.End.Format(time.DateOnly); got != tt.end {
				t.Errorf("end = %s; want %s", got, tt.end)
			}
			if w.Start.Hour() != 0 || w.End.Hour() != 0 {
				t.Errorf("bounds not at local midnight: %v, %v", w.Start, w.End)
			}
		})
	}
}

func TestForDate_DSTTransitionFollowsLocalCalendar(t *testing.T) {
	la := mustLoad(t, "America/Los_Angeles")

	spring := ForDate(2024, time.March, 10, la)
	if got := spring.End.Sub(spring.Start); got != 23*time.Hour {
		t.Errorf("spring-forward day = %v; want 23h", got)
	}
	fall := ForDate(2024, time.November, 3, la)
	if got := fall.End.Sub(fall.Start); got != 25*time.Hour {
		t.Errorf("fall-back day = %v; want 25h", got)
	}
}

func TestQueryBounds_LocalMidnightAsGMTString(t *testing.T) {
	la := mustLoad(t, "America/Los_Angeles")

	gt, lt := QueryBounds(ForDate(2024, time.March, 1, la))
	// PST is UTC-8: local midnight is 08:00 GMT.
	if gt != "2024-03-01T08:00:00" || lt != "2024-03-02T08:00:00" {
		t.Errorf("bounds = %q, %q; want 08:00 GMT strings", gt, lt)
	}
}

func TestParse(t *testing.T) {
	w, err := Parse("2024-03-01", time.UTC)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !w.Start.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", w.Start)
	}

	for _, bad := range []string{"", "2024-3-1", "2024-02-30", "01/03/2024", "2024-03-01T00:00:00"} {
		if _, err := Parse(bad, time.UTC); err == nil {
			t.Errorf("Parse(%q) = nil error; want error", bad)
		}
	}
}

func TestLabel(t *testing.T) {
	if got := Label(ForDate(2024, time.March, 1, time.UTC)); got != "Mar 1, 2024" {
		t.Errorf("Label = %q; want %q", got, "Mar 1, 2024")
	}
	if got := Label(ForDate(2021, time.December, 25, time.UTC)); got != "Dec 25, 2021" {
		t.Errorf("Label = %q; want %q", got, "Dec 25, 2021")
	}
}

func TestShift(t *testing.T) {
	w := ForDate(2024, time.January, 1, time.UTC)
	if got := Shift(w, -1).Date(); got != "2023-12-31" {
		t.Errorf("Shift(-1) = %s", got)
	}
	if got := Shift(w, 60).Date(); got != "2024-03-01" {
		t.Errorf("Shift(60) = %s", got)
	}
}

func TestPageDate(t *testing.T) {
	now := time.Date(2024, time.March, 1, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		index int
		want  string
	}{
		{index: 99, want: "2024-03-01"},
		{index: 98, want: "2024-02-29"},
		{index: 0, want: "2023-11-23"},
	}
	for _, tt := range tests {
		w, err := PageDate(now, tt.index, 100, time.UTC)
		if err != nil {
			t.Fatalf("PageDate(%d): %v", tt.index, err)
		}
		if got := w.Date(); got != tt.want {
			t.Errorf("PageDate(%d) = %s; want %s", tt.index, got, tt.want)
		}
		idx, ok := PageIndex(now, w, 100)
		if !ok || idx != tt.index {
			t.Errorf("PageIndex(%s) = %d, %v; want %d, true", tt.want, idx, ok, tt.index)
		}
	}

	for _, bad := range []int{-1, 100} {
		if _, err := PageDate(now, bad, 100, time.UTC); err == nil {
			t.Errorf("PageDate(%d) = nil error; want out of range", bad)
		}
	}
	if _, err := PageDate(now, 0, 0, time.UTC); err == nil {
		t.Error("PageDate(count=0) = nil error")
	}
}

func TestPageIndex_OutsidePager(t *testing.T) {
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	if _, ok := PageIndex(now, ForDate(2024, time.March, 2, time.UTC), 100); ok {
		t.Error("tomorrow reported inside pager")
	}
	if _, ok := PageIndex(now, ForDate(2020, time.January, 1, time.UTC), 100); ok {
		t.Error("2020 reported inside pager")
	}
}

func TestPageIndex_AcrossDST(t *testing.T) {
	la := mustLoad(t, "America/Los_Angeles")
	now := time.Date(2024, time.March, 11, 9, 0, 0, 0, la)

	idx, ok := PageIndex(now, ForDate(2024, time.March, 9, la), 10)
	if !ok || idx != 7 {
		t.Errorf("PageIndex = %d, %v; want 7, true", idx, ok)
	}
}
