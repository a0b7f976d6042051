package controller

import (
	"context"
	"net/http"
	"time"

	"tidegauge-server/internal/modules/tide/service"
	"tidegauge-server/internal/modules/tide/types"
)

// PageLoader is the part of the service the handlers use.
type PageLoader interface {
	LoadPage(ctx context.Context, w types.DayWindow) service.Page
	RecentFetches(day string, limit int) ([]types.FetchRecord, error)
}

type TideController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type tideControllerImpl struct {
	pages     PageLoader
	loc       *time.Location
	pageCount int
	now       func() time.Time
}

func NewTideController(pages PageLoader, loc *time.Location, pageCount int) TideController {
	if loc == nil {
		loc = time.Local
	}
	return &tideControllerImpl{
		pages:     pages,
		loc:       loc,
		pageCount: pageCount,
		now:       time.Now,
	}
}

func (c *tideControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", c.handleToday)
	mux.HandleFunc("GET /pages/{index}", c.handlePage)
	mux.HandleFunc("GET /days/{date}", c.handleDay)
	mux.HandleFunc("GET /days/{date}/chart.svg", c.handleChartSVG)
	mux.HandleFunc("GET /days/{date}/chart.png", c.handleChartPNG)
	mux.HandleFunc("GET /api/v1/days/{date}", c.handleDayJSON)
	mux.HandleFunc("GET /api/v1/fetches", c.handleFetches)
}
