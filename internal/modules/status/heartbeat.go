// Package status runs the periodic heartbeat and pushes status frames to
// WebSocket subscribers. It never touches page data.
package status

import (
	"context"
	"log/slog"
	"time"

	"tidegauge-server/internal/modules/tide/types"
)

// LastFetcher reports the most recent upstream fetch, if any.
type LastFetcher interface {
	LastFetch() (types.FetchRecord, bool)
}

type Frame struct {
	Time      time.Time          `json:"time"`
	Clients   int                `json:"clients"`
	LastFetch *types.FetchRecord `json:"lastFetch,omitempty"`
}

type Heartbeat struct {
	interval time.Duration
	hub      *Hub
	last     LastFetcher
	logger   *slog.Logger
	now      func() time.Time
}

func NewHeartbeat(interval time.Duration, hub *Hub, last LastFetcher, logger *slog.Logger) *Heartbeat {
	if logger == nil {
		logger = slog.Default()
	}
	return &Heartbeat{
		interval: interval,
		hub:      hub,
		last:     last,
		logger:   logger,
		now:      time.Now,
	}
}

// Frame is the current status snapshot.
func (h *Heartbeat) Frame() Frame {
	f := Frame{Time: h.now().UTC()}
	if h.hub != nil {
		f.Clients = h.hub.Len()
	}
	if h.last != nil {
		if rec, ok := h.last.LastFetch(); ok {
			f.LastFetch = &rec
		}
	}
	return f
}

// Run ticks until ctx is done and then returns ctx.Err().
func (h *Heartbeat) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			h.tick()
		}
	}
}

func (h *Heartbeat) tick() {
	frame := h.Frame()
	sent := 0
	if h.hub != nil {
		sent = h.hub.Broadcast(frame)
	}
	h.logger.Debug("update", "subscribers", sent)
}
