package types

import (
	"fmt"
	"time"
)

// SensorReading is one element of the upstream sensor-data array.
type SensorReading struct {
	TimestampUTC time.Time `json:"timestamp"`
	Distance     int       `json:"distance"`
}

// ChartPoint is a reading placed on the chart: unix seconds against value.
type ChartPoint struct {
	UnixSeconds int64   `json:"x"`
	Value       float64 `json:"y"`
}

// DayWindow is the half-open interval [Start, End) of one local calendar day.
// On DST-transition days it is 23 or 25 hours long.
type DayWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (w DayWindow) StartUnix() int64 { return w.Start.Unix() }
func (w DayWindow) EndUnix() int64   { return w.End.Unix() }

// Date returns the calendar date of the window in its own location.
func (w DayWindow) Date() string { return w.Start.Format(time.DateOnly) }

// ErrorKind classifies why a page has no data.
type ErrorKind string

const (
	KindTransport ErrorKind = "transport"
	KindStatus    ErrorKind = "status"
	KindDecode    ErrorKind = "decode"
	KindTimestamp ErrorKind = "timestamp"
)

type FetchError struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("sensor api %s: http %d", e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("sensor api %s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// PageState is what a day page shows besides its axes.
type PageState string

const (
	StateOK    PageState = "ok"
	StateEmpty PageState = "empty"
	StateError PageState = "error"
)

// FetchRecord is one upstream fetch outcome, stored in the fetch log and
// published as an event.
type FetchRecord struct {
	ID          int64     `json:"id,omitempty"`
	Day         string    `json:"day"`
	WindowStart time.Time `json:"windowStart"`
	WindowEnd   time.Time `json:"windowEnd"`
	QueryGT     string    `json:"queryGt"`
	QueryLT     string    `json:"queryLt"`
	Outcome     string    `json:"outcome"`
	HTTPStatus  int       `json:"httpStatus,omitempty"`
	Points      int       `json:"points"`
	DurationMs  int64     `json:"durationMs"`
	Error       string    `json:"error,omitempty"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// OutcomeOK is the Outcome of a fetch that produced a full set of points.
const OutcomeOK = "ok"
