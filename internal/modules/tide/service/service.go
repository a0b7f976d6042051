// Package service runs one day page end to end: window, fetch, transform,
// chart plan. Each call is independent; nothing is cached between pages.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"tidegauge-server/internal/modules/tide/chart"
	"tidegauge-server/internal/modules/tide/daywindow"
	"tidegauge-server/internal/modules/tide/repository"
	"tidegauge-server/internal/modules/tide/sensorapi"
	"tidegauge-server/internal/modules/tide/transform"
	"tidegauge-server/internal/modules/tide/types"
	"tidegauge-server/internal/mqtt"
)

const (
	MessageEmpty       = "No readings for this day"
	MessageUnavailable = "Readings unavailable"
)

// Page is one loaded day. On failure Plan still carries the full-day axes
// and no points.
type Page struct {
	Window  types.DayWindow `json:"window"`
	Date    string          `json:"date"`
	Label   string          `json:"label"`
	QueryGT string          `json:"queryGt"`
	QueryLT string          `json:"queryLt"`
	State   types.PageState `json:"state"`
	ErrKind types.ErrorKind `json:"errorKind,omitempty"`
	Message string          `json:"message,omitempty"`
	Plan    chart.Plan      `json:"plan"`
	Err     error           `json:"-"`
}

// Canceled reports whether the page was abandoned because its request went
// away. Such pages must not be rendered.
func (p Page) Canceled() bool {
	return errors.Is(p.Err, context.Canceled)
}

type Service struct {
	fetcher   sensorapi.Fetcher
	repo      repository.FetchLogRepository
	publisher mqtt.FetchPublisher
	opts      chart.Options
	logger    *slog.Logger
	now       func() time.Time

	mu   sync.RWMutex
	last *types.FetchRecord
}

func NewService(
	fetcher sensorapi.Fetcher,
	repo repository.FetchLogRepository,
	publisher mqtt.FetchPublisher,
	opts chart.Options,
	logger *slog.Logger,
) *Service {
	if publisher == nil {
		publisher = mqtt.Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		fetcher:   fetcher,
		repo:      repo,
		publisher: publisher,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// LoadPage fetches and charts w. The fetch runs on the caller's goroutine and
// stops when ctx is cancelled.
func (s *Service) LoadPage(ctx context.Context, w types.DayWindow) Page {
	gt, lt := daywindow.QueryBounds(w)
	page := Page{
		Window:  w,
		Date:    w.Date(),
		Label:   daywindow.Label(w),
		QueryGT: gt,
		QueryLT: lt,
	}

	started := s.now()
	points, err := s.fetchPoints(ctx, w)
	elapsed := s.now().Sub(started)

	page.Plan = chart.Build(w, points, s.opts)
	switch {
	case err != nil:
		page.State = types.StateError
		page.Err = err
		page.Message = MessageUnavailable
		var fe *types.FetchError
		if errors.As(err, &fe) {
			page.ErrKind = fe.Kind
		}
	case len(points) == 0:
		page.State = types.StateEmpty
		page.Message = MessageEmpty
	default:
		page.State = types.StateOK
	}
	page.Plan.Caption = page.Message

	if page.Canceled() {
		s.logger.Debug("fetch abandoned", "day", page.Date)
		return page
	}

	rec := s.record(page, len(points), elapsed, started)
	if err != nil {
		s.logger.Warn("sensor fetch failed",
			"day", page.Date,
			"kind", page.ErrKind,
			"query_gt", gt,
			"query_lt", lt,
			"error", err,
		)
	} else {
		s.logger.Debug("sensor fetch ok", "day", page.Date, "points", len(points), "duration_ms", rec.DurationMs)
	}
	return page
}

func (s *Service) fetchPoints(ctx context.Context, w types.DayWindow) ([]types.ChartPoint, error) {
	body, err := s.fetcher.FetchDay(ctx, w)
	if err != nil {
		return nil, err
	}
	return transform.Points(body)
}

func (s *Service) record(page Page, points int, elapsed time.Duration, fetchedAt time.Time) types.FetchRecord {
	rec := types.FetchRecord{
		Day:         page.Date,
		WindowStart: page.Window.Start,
		WindowEnd:   page.Window.End,
		QueryGT:     page.QueryGT,
		QueryLT:     page.QueryLT,
		Outcome:     types.OutcomeOK,
		Points:      points,
		DurationMs:  elapsed.Milliseconds(),
		FetchedAt:   fetchedAt.UTC(),
	}
	if page.Err != nil {
		rec.Outcome = string(page.ErrKind)
		if rec.Outcome == "" {
			rec.Outcome = string(types.KindTransport)
		}
		rec.Error = page.Err.Error()
		var fe *types.FetchError
		if errors.As(page.Err, &fe) {
			rec.HTTPStatus = fe.StatusCode
		}
	}

	if s.repo != nil {
		id, err := s.repo.InsertFetch(rec)
		if err != nil {
			s.logger.Error("record fetch failed", "day", rec.Day, "error", err)
		} else {
			rec.ID = id
		}
	}
	if err := s.publisher.PublishFetch(rec); err != nil {
		s.logger.Warn("publish fetch event failed", "day", rec.Day, "error", err)
	}

	s.mu.Lock()
	s.last = &rec
	s.mu.Unlock()
	return rec
}

// LastFetch returns the most recent recorded fetch since start-up.
func (s *Service) LastFetch() (types.FetchRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return types.FetchRecord{}, false
	}
	return *s.last, true
}

// RecentFetches reads the fetch log, optionally for a single day.
func (s *Service) RecentFetches(day string, limit int) ([]types.FetchRecord, error) {
	if s.repo == nil {
		return []types.FetchRecord{}, nil
	}
	if day != "" {
		return s.repo.GetFetchesForDay(day, limit)
	}
	return s.repo.GetRecentFetches(limit)
}
