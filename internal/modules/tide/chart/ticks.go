package chart

import (
	"time"

	"tidegauge-server/internal/modules/tide/types"
)

// TickLayout is the 12-hour hh:mm axis label.
const TickLayout = "03:04"

// TickStep is the spacing of window ticks.
const TickStep = 2 * time.Hour

// fixedTicks is the legacy hard-coded axis: 2021-04-06 in US Pacific time,
// every two hours, plus one trailing 23:05 mark. It is shown unchanged on
// every page in fixed mode, so on any other day all of it falls outside the
// axis range.
var fixedTicks = []int64{
	1617692400, 1617699600, 1617706800, 1617714000, 1617721200,
	1617728400, 1617735600, 1617742800, 1617750000, 1617757200,
	1617764400, 1617771600, 1617775500,
}

// FixedTicks returns a copy of the legacy tick table.
func FixedTicks() []int64 {
	out := make([]int64, len(fixedTicks))
	copy(out, fixedTicks)
	return out
}

// WindowTicks returns w.Start, w.Start+step, ... up to and including w.End.
// Steps are absolute, so on DST days local labels skip or repeat an hour.
func WindowTicks(w types.DayWindow, step time.Duration) []int64 {
	if step <= 0 {
		return nil
	}
	var out []int64
	for t := w.Start; !t.After(w.End); t = t.Add(step) {
		out = append(out, t.Unix())
	}
	return out
}

// TickLabel formats unix seconds as hh:mm in loc.
func TickLabel(unix int64, loc *time.Location) string {
	return time.Unix(unix, 0).In(loc).Format(TickLayout)
}
