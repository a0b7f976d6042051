package status

import (
	"log/slog"
	"net/http"
	"time"
)

// RegisterFeature mounts /ws/status and returns the heartbeat for the caller
// to run and the hub for the caller to close on shutdown.
func RegisterFeature(mux *http.ServeMux, interval time.Duration, last LastFetcher, logger *slog.Logger) (*Heartbeat, *Hub) {
	hb := NewHeartbeat(interval, nil, last, logger)
	hub := NewHub(logger, func() any { return hb.Frame() })
	hb.hub = hub
	mux.HandleFunc("GET /ws/status", hub.handleStatus)
	return hb, hub
}
