package transform

import (
	"errors"
	"testing"

	"tidegauge-server/internal/modules/tide/types"
)

func TestPoints_Example(t *testing.T) {
	pts, err := Points([]byte(`[{"distance":5,"timestamp":"2024-03-01T06:00:00"}]`))
	if err != nil {
		t.Fatalf("Points: %v", err)
	}
	if len(pts) != 1 {
		t.Fatalf("len = %d; want 1", len(pts))
	}
	if pts[0].UnixSeconds != 1709272800 || pts[0].Value != 5 {
		t.Errorf("point = %+v; want {1709272800 5}", pts[0])
	}
}

func TestPoints_EmptyArray(t *testing.T) {
	pts, err := Points([]byte(`[]`))
	if err != nil {
		t.Fatalf("Points: %v", err)
	}
	if len(pts) != 0 {
		t.Errorf("len = %d; want 0", len(pts))
	}
}

func TestPoints_PreservesOrderAndDuplicates(t *testing.T) {
	body := `[
		{"distance":-3,"timestamp":"2024-03-01T10:00:00"},
		{"distance":7,"timestamp":"2024-03-01T02:00:00","sensor":"pier"},
		{"distance":7,"timestamp":"2024-03-01T02:00:00"}
	]`
	pts, err := Points([]byte(body))
	if err != nil {
		t.Fatalf("Points: %v", err)
	}
	want := []types.ChartPoint{
		{UnixSeconds: 1709287200, Value: -3},
		{UnixSeconds: 1709258400, Value: 7},
		{UnixSeconds: 1709258400, Value: 7},
	}
	if len(pts) != len(want) {
		t.Fatalf("len = %d; want %d", len(pts), len(want))
	}
	for i := range want {
		if pts[i] != want[i] {
			t.Errorf("pts[%d] = %+v; want %+v", i, pts[i], want[i])
		}
	}
}

func TestPoints_FractionalSecondsTruncate(t *testing.T) {
	pts, err := Points([]byte(`[{"distance":1,"timestamp":"2024-03-01T06:00:00.999"}]`))
	if err != nil {
		t.Fatalf("Points: %v", err)
	}
	if pts[0].UnixSeconds != 1709272800 {
		t.Errorf("UnixSeconds = %d; want 1709272800", pts[0].UnixSeconds)
	}
}

func TestToPoints_FloorsBeforeEpoch(t *testing.T) {
	pts, err := Points([]byte(`[{"distance":0,"timestamp":"1969-12-31T23:59:59.5"}]`))
	if err != nil {
		t.Fatalf("Points: %v", err)
	}
	if pts[0].UnixSeconds != -1 {
		t.Errorf("UnixSeconds = %d; want -1", pts[0].UnixSeconds)
	}
}

func TestParseReadings_IntegralFloatDistance(t *testing.T) {
	for _, raw := range []string{"5.0", "5e0", "5"} {
		readings, err := ParseReadings([]byte(`[{"distance":` + raw + `,"timestamp":"2024-03-01T06:00:00"}]`))
		if err != nil {
			t.Errorf("distance %s: %v", raw, err)
			continue
		}
		if readings[0].Distance != 5 {
			t.Errorf("distance %s = %d; want 5", raw, readings[0].Distance)
		}
	}
}

func TestParseReadings_Failures(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind types.ErrorKind
	}{
		{name: "not json", body: `<html>`, kind: types.KindDecode},
		{name: "object not array", body: `{"distance":1}`, kind: types.KindDecode},
		{name: "null", body: `null`, kind: types.KindDecode},
		{name: "missing distance", body: `[{"timestamp":"2024-03-01T06:00:00"}]`, kind: types.KindDecode},
		{name: "float distance", body: `[{"distance":1.5,"timestamp":"2024-03-01T06:00:00"}]`, kind: types.KindDecode},
		{name: "out of range distance", body: `[{"distance":1e30,"timestamp":"2024-03-01T06:00:00"}]`, kind: types.KindDecode},
		{name: "string distance", body: `[{"distance":"1","timestamp":"2024-03-01T06:00:00"}]`, kind: types.KindDecode},
		{name: "missing timestamp", body: `[{"distance":1}]`, kind: types.KindDecode},
		{name: "null element", body: `[null]`, kind: types.KindDecode},
		{name: "bad timestamp", body: `[{"distance":1,"timestamp":"03/01/2024 06:00"}]`, kind: types.KindTimestamp},
		{name: "zone suffix", body: `[{"distance":1,"timestamp":"2024-03-01T06:00:00Z"}]`, kind: types.KindTimestamp},
		{
			name: "one bad element fails the page",
			body: `[{"distance":1,"timestamp":"2024-03-01T06:00:00"},{"distance":2,"timestamp":"later"}]`,
			kind: types.KindTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			readings, err := ParseReadings([]byte(tt.body))
			if readings != nil {
				t.Errorf("readings = %v; want nil", readings)
			}
			var fe *types.FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("err = %v; want *FetchError", err)
			}
			if fe.Kind != tt.kind {
				t.Errorf("kind = %s; want %s", fe.Kind, tt.kind)
			}
		})
	}
}
