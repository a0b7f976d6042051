package controller

import (
	"errors"
	"net/http"
	"strconv"

	"tidegauge-server/internal/modules/tide/chart"
	"tidegauge-server/internal/modules/tide/types"
)

const (
	defaultFetchesLimit = 20
	maxFetchesLimit     = 500

	minChartSide = 100
	maxChartSide = 4000
)

func dayURL(w types.DayWindow) string {
	return "/days/" + w.Date()
}

func parseFetchesLimit(r *http.Request) (int, error) {
	s := r.URL.Query().Get("limit")
	if s == "" {
		return defaultFetchesLimit, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New("invalid 'limit' (expected integer)")
	}
	if n <= 0 {
		return 0, errors.New("'limit' must be > 0")
	}
	if n > maxFetchesLimit {
		return 0, errors.New("'limit' must be <= 500")
	}
	return n, nil
}

// parseChartSize reads optional w and h query parameters.
func parseChartSize(r *http.Request) (chart.Size, error) {
	size := chart.DefaultSize
	q := r.URL.Query()
	for _, p := range []struct {
		key string
		dst *int
	}{{"w", &size.Width}, {"h", &size.Height}} {
		s := q.Get(p.key)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return chart.Size{}, errors.New("invalid '" + p.key + "' (expected integer)")
		}
		if n < minChartSide || n > maxChartSide {
			return chart.Size{}, errors.New("'" + p.key + "' must be between 100 and 4000")
		}
		*p.dst = n
	}
	return size, nil
}
