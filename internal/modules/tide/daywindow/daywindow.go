// Package daywindow turns calendar dates into the [midnight, next midnight)
// interval that one chart page covers, and formats the bounds for the
// sensor-data query.
package daywindow

import (
	"fmt"
	"time"

	"tidegauge-server/internal/modules/tide/types"
)

// QueryLayout is the upstream timestamp form: no zone suffix.
const QueryLayout = "2006-01-02T15:04:05"

// LabelLayout is the page heading, e.g. "Mar 1, 2024".
const LabelLayout = "Jan 2, 2006"

// ForDate returns the window for year-month-day in loc. Out-of-range days and
// months normalize the way time.Date does, so Feb 30 is Mar 1 or Mar 2.
func ForDate(year int, month time.Month, day int, loc *time.Location) types.DayWindow {
	return types.DayWindow{
		Start: time.Date(year, month, day, 0, 0, 0, 0, loc),
		End:   time.Date(year, month, day+1, 0, 0, 0, 0, loc),
	}
}

// ForTime returns the window of the calendar day containing t in loc.
func ForTime(t time.Time, loc *time.Location) types.DayWindow {
	y, m, d := t.In(loc).Date()
	return ForDate(y, m, d, loc)
}

// Parse reads a YYYY-MM-DD page date in loc. Unlike ForDate it rejects
// out-of-range components.
func Parse(s string, loc *time.Location) (types.DayWindow, error) {
	t, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return types.DayWindow{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return ForTime(t, loc), nil
}

// QueryBounds formats the window for timestamp_gt/timestamp_lt. The bounds
// are local midnights but are written as UTC wall-clock strings without a
// zone suffix. The sensor API stores naive UTC timestamps, so for any
// location other than UTC the queried interval is shifted by the zone offset.
// This is kept as-is until the API contract says otherwise.
func QueryBounds(w types.DayWindow) (gt, lt string) {
	return w.Start.UTC().Format(QueryLayout), w.End.UTC().Format(QueryLayout)
}

func Label(w types.DayWindow) string {
	return w.Start.Format(LabelLayout)
}

// Shift returns the window n calendar days away from w.
func Shift(w types.DayWindow, n int) types.DayWindow {
	y, m, d := w.Start.Date()
	return ForDate(y, m, d+n, w.Start.Location())
}

// PageDate returns the window shown at pager position index out of count
// pages, where the last position is today.
func PageDate(now time.Time, index, count int, loc *time.Location) (types.DayWindow, error) {
	if count < 1 {
		return types.DayWindow{}, fmt.Errorf("page count must be >= 1, got %d", count)
	}
	if index < 0 || index >= count {
		return types.DayWindow{}, fmt.Errorf("page %d out of range [0, %d)", index, count)
	}
	return Shift(ForTime(now, loc), index-(count-1)), nil
}

// PageIndex is the inverse of PageDate. ok is false when w falls outside the
// pager.
func PageIndex(now time.Time, w types.DayWindow, count int) (index int, ok bool) {
	today := ForTime(now, w.Start.Location())
	ty, tm, td := today.Start.Date()
	wy, wm, wd := w.Start.Date()
	// Compare as UTC dates so DST-length days still count as one.
	days := int(time.Date(wy, wm, wd, 0, 0, 0, 0, time.UTC).Sub(time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)) / (24 * time.Hour))
	index = count - 1 + days
	if index < 0 || index >= count {
		return index, false
	}
	return index, true
}
