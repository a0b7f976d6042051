// Package sensorapi fetches one day of raw readings from the tide-sensor
// HTTP endpoint.
package sensorapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"tidegauge-server/internal/modules/tide/daywindow"
	"tidegauge-server/internal/modules/tide/types"
)

// APIKeyHeader carries the upstream credential.
const APIKeyHeader = "x-api-key"

// maxBodyBytes bounds how much of a response is read into memory.
const maxBodyBytes = 8 << 20

type Fetcher interface {
	FetchDay(ctx context.Context, w types.DayWindow) ([]byte, error)
}

type Client struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse sensor api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("sensor api url %q must be absolute", baseURL)
	}
	return &Client{
		baseURL:    u,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// QueryString is the raw query sent for w. The bounds are written verbatim
// without percent-encoding.
func QueryString(w types.DayWindow) string {
	gt, lt := daywindow.QueryBounds(w)
	return "timestamp_gt=" + gt + "&timestamp_lt=" + lt
}

// FetchDay issues exactly one GET for w and returns the 2xx body. Failures
// are *types.FetchError of kind transport or status.
func (c *Client) FetchDay(ctx context.Context, w types.DayWindow) ([]byte, error) {
	u := *c.baseURL
	u.RawQuery = QueryString(w)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &types.FetchError{Kind: types.KindTransport, Err: err}
	}
	req.Header.Set(APIKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &types.FetchError{Kind: types.KindTransport, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Debug("close sensor api body", "error", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &types.FetchError{
			Kind:       types.KindStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &types.FetchError{Kind: types.KindTransport, StatusCode: resp.StatusCode, Err: err}
	}
	return body, nil
}
