package sensorapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"tidegauge-server/internal/modules/tide/daywindow"
	"tidegauge-server/internal/modules/tide/types"
)

func march1() types.DayWindow {
	return daywindow.ForDate(2024, time.March, 1, time.UTC)
}

func TestQueryString(t *testing.T) {
	want := "timestamp_gt=2024-03-01T00:00:00&timestamp_lt=2024-03-02T00:00:00"
	if got := QueryString(march1()); got != want {
		t.Errorf("QueryString = %q; want %q", got, want)
	}
}

func TestNewClient_RejectsRelativeURL(t *testing.T) {
	for _, bad := range []string{"", "sensor-data", "/sensor-data", "://x"} {
		if _, err := NewClient(bad, "k", time.Second); err == nil {
			t.Errorf("NewClient(%q) = nil error", bad)
		}
	}
}

func TestFetchDay(t *testing.T) {
	t.Run("sends raw query and api key and returns body", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			if r.Method != http.MethodGet {
				t.Errorf("method = %s; want GET", r.Method)
			}
			if r.URL.Path != "/sensor-data" {
				t.Errorf("path = %q", r.URL.Path)
			}
			if r.URL.RawQuery != "timestamp_gt=2024-03-01T00:00:00&timestamp_lt=2024-03-02T00:00:00" {
				t.Errorf("raw query = %q", r.URL.RawQuery)
			}
			if got := r.Header.Get("x-api-key"); got != "secret" {
				t.Errorf("x-api-key = %q; want secret", got)
			}
			_, _ = w.Write([]byte(`[{"distance":5,"timestamp":"2024-03-01T06:00:00"}]`))
		}))
		defer srv.Close()

		c, err := NewClient(srv.URL+"/sensor-data", "secret", time.Second)
		if err != nil {
			t.Fatalf("NewClient: %v", err)
		}
		body, err := c.FetchDay(context.Background(), march1())
		if err != nil {
			t.Fatalf("FetchDay: %v", err)
		}
		if string(body) != `[{"distance":5,"timestamp":"2024-03-01T06:00:00"}]` {
			t.Errorf("body = %s", body)
		}
		if calls.Load() != 1 {
			t.Errorf("upstream calls = %d; want 1", calls.Load())
		}
	})

	t.Run("non-2xx is a status error without retry", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, "forbidden", http.StatusForbidden)
		}))
		defer srv.Close()

		c, _ := NewClient(srv.URL, "bad", time.Second)
		_, err := c.FetchDay(context.Background(), march1())

		var fe *types.FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("err = %v; want *FetchError", err)
		}
		if fe.Kind != types.KindStatus || fe.StatusCode != http.StatusForbidden {
			t.Errorf("kind=%s status=%d; want status/403", fe.Kind, fe.StatusCode)
		}
		if calls.Load() != 1 {
			t.Errorf("upstream calls = %d; want 1", calls.Load())
		}
	})

	t.Run("unreachable host is a transport error", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c, _ := NewClient(url, "k", time.Second)
		_, err := c.FetchDay(context.Background(), march1())

		var fe *types.FetchError
		if !errors.As(err, &fe) || fe.Kind != types.KindTransport {
			t.Fatalf("err = %v; want transport FetchError", err)
		}
	})

	t.Run("cancelled context stops the fetch", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		c, _ := NewClient(srv.URL, "k", 5*time.Second)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := c.FetchDay(ctx, march1())
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v; want context.Canceled", err)
		}
	})
}
