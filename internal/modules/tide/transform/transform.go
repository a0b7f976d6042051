// Package transform turns the sensor-data JSON body into chart points.
// A page is all-or-nothing: one malformed element rejects the whole body.
package transform

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"tidegauge-server/internal/modules/tide/types"
)

// TimestampLayout is the upstream reading timestamp, UTC without a zone
// suffix. Trailing fractional seconds are accepted and dropped.
const TimestampLayout = "2006-01-02T15:04:05"

// Distance decodes as a number so that integral floats such as 5.0 pass;
// fractional values are rejected below.
type rawReading struct {
	Distance  *float64 `json:"distance"`
	Timestamp *string  `json:"timestamp"`
}

// ParseReadings decodes body as a JSON array of readings in array order.
// Malformed JSON or a missing or mistyped field is a decode error. A
// timestamp that does not match TimestampLayout is a timestamp error.
func ParseReadings(body []byte) ([]types.SensorReading, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(body, &elems); err != nil {
		return nil, decodeErr(err)
	}
	if elems == nil {
		return nil, decodeErr(errors.New("expected a JSON array, got null"))
	}

	out := make([]types.SensorReading, 0, len(elems))
	for i, raw := range elems {
		var r rawReading
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, decodeErr(fmt.Errorf("element %d: %w", i, err))
		}
		if r.Distance == nil {
			return nil, decodeErr(fmt.Errorf("element %d: missing distance", i))
		}
		distance, ok := integral(*r.Distance)
		if !ok {
			return nil, decodeErr(fmt.Errorf("element %d: distance %v is not an integer", i, *r.Distance))
		}
		if r.Timestamp == nil {
			return nil, decodeErr(fmt.Errorf("element %d: missing timestamp", i))
		}
		ts, err := time.Parse(TimestampLayout, *r.Timestamp)
		if err != nil {
			return nil, &types.FetchError{
				Kind: types.KindTimestamp,
				Err:  fmt.Errorf("element %d: %w", i, err),
			}
		}
		out = append(out, types.SensorReading{TimestampUTC: ts, Distance: distance})
	}
	return out, nil
}

// ToPoints maps readings to chart points in the same order. X is unix
// seconds floored, Y is the distance.
func ToPoints(readings []types.SensorReading) []types.ChartPoint {
	out := make([]types.ChartPoint, len(readings))
	for i, r := range readings {
		out[i] = types.ChartPoint{
			UnixSeconds: r.TimestampUTC.Unix(),
			Value:       float64(r.Distance),
		}
	}
	return out
}

// Points is ParseReadings followed by ToPoints.
func Points(body []byte) ([]types.ChartPoint, error) {
	readings, err := ParseReadings(body)
	if err != nil {
		return nil, err
	}
	return ToPoints(readings), nil
}

func decodeErr(err error) error {
	return &types.FetchError{Kind: types.KindDecode, Err: err}
}

func integral(f float64) (int, bool) {
	if f != math.Trunc(f) || f < math.MinInt || f >= math.MaxInt {
		return 0, false
	}
	return int(f), true
}
