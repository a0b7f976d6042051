package controller

import (
	"bytes"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"tidegauge-server/internal/modules/tide/chart"
	"tidegauge-server/internal/modules/tide/daywindow"
	"tidegauge-server/internal/modules/tide/service"
	"tidegauge-server/internal/modules/tide/types"
	"tidegauge-server/internal/modules/tide/views"
	"tidegauge-server/internal/utils"
)

func (c *tideControllerImpl) handleToday(w http.ResponseWriter, r *http.Request) {
	c.renderDayPage(w, r, daywindow.ForTime(c.now(), c.loc))
}

func (c *tideControllerImpl) handlePage(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid page index (expected integer)")
		return
	}
	window, err := daywindow.PageDate(c.now(), index, c.pageCount, c.loc)
	if err != nil {
		utils.WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	c.renderDayPage(w, r, window)
}

func (c *tideControllerImpl) handleDay(w http.ResponseWriter, r *http.Request) {
	window, ok := c.parseDay(w, r)
	if !ok {
		return
	}
	c.renderDayPage(w, r, window)
}

func (c *tideControllerImpl) handleChartSVG(w http.ResponseWriter, r *http.Request) {
	c.renderChart(w, r, "image/svg+xml", chart.RenderSVG)
}

func (c *tideControllerImpl) handleChartPNG(w http.ResponseWriter, r *http.Request) {
	c.renderChart(w, r, "image/png", chart.RenderPNG)
}

func (c *tideControllerImpl) handleDayJSON(w http.ResponseWriter, r *http.Request) {
	window, ok := c.parseDay(w, r)
	if !ok {
		return
	}
	page := c.pages.LoadPage(r.Context(), window)
	if page.Canceled() {
		return
	}
	if page.State == types.StateError {
		utils.WriteJSON(w, http.StatusBadGateway, map[string]any{
			"error":   http.StatusText(http.StatusBadGateway),
			"message": page.Err.Error(),
			"kind":    page.ErrKind,
			"date":    page.Date,
		})
		return
	}
	utils.WriteJSON(w, http.StatusOK, page)
}

func (c *tideControllerImpl) handleFetches(w http.ResponseWriter, r *http.Request) {
	limit, err := parseFetchesLimit(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	day := r.URL.Query().Get("day")
	if day != "" {
		window, err := daywindow.Parse(day, c.loc)
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		day = window.Date()
	}

	fetches, err := c.pages.RecentFetches(day, limit)
	if err != nil {
		slog.Error("fetches: read fetch log failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load fetch log")
		return
	}
	utils.WriteJSON(w, http.StatusOK, fetches)
}

func (c *tideControllerImpl) parseDay(w http.ResponseWriter, r *http.Request) (types.DayWindow, bool) {
	window, err := daywindow.Parse(r.PathValue("date"), c.loc)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return types.DayWindow{}, false
	}
	return window, true
}

// renderDayPage never fails on upstream problems: the page shows the empty
// axes and a state banner instead.
func (c *tideControllerImpl) renderDayPage(w http.ResponseWriter, r *http.Request, window types.DayWindow) {
	page := c.pages.LoadPage(r.Context(), window)
	if page.Canceled() {
		return
	}

	var svg bytes.Buffer
	if err := chart.RenderSVG(&svg, page.Plan, chart.DefaultSize); err != nil {
		slog.Error("day page: chart render failed", "day", page.Date, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}

	data := c.dayPageData(page, template.HTML(svg.String()))
	var buf bytes.Buffer
	if err := views.RenderDay(&buf, data); err != nil {
		slog.Error("day page template render failed", "day", page.Date, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	utils.WriteBody(w, http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (c *tideControllerImpl) dayPageData(page service.Page, svg template.HTML) *views.DayPageData {
	data := &views.DayPageData{
		Label:    page.Label,
		Date:     page.Date,
		State:    page.State,
		Message:  page.Message,
		ErrKind:  page.ErrKind,
		QueryGT:  page.QueryGT,
		QueryLT:  page.QueryLT,
		ChartSVG: svg,
		PNGURL:   dayURL(page.Window) + "/chart.png",
		JSONURL:  "/api/v1/days/" + page.Date,
	}

	now := c.now()
	index, inPager := daywindow.PageIndex(now, page.Window, c.pageCount)
	data.InPager = inPager
	data.PageCount = c.pageCount
	if inPager {
		data.PageNumber = index + 1
	}

	// no link before the first pager page, none into the future
	if !inPager || index > 0 {
		data.PrevURL = dayURL(daywindow.Shift(page.Window, -1))
	}
	if next := daywindow.Shift(page.Window, 1); !next.Start.After(now) {
		data.NextURL = dayURL(next)
	}
	return data
}

func (c *tideControllerImpl) renderChart(
	w http.ResponseWriter,
	r *http.Request,
	contentType string,
	render func(w io.Writer, p chart.Plan, size chart.Size) error,
) {
	window, ok := c.parseDay(w, r)
	if !ok {
		return
	}
	size, err := parseChartSize(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	page := c.pages.LoadPage(r.Context(), window)
	if page.Canceled() {
		return
	}

	var buf bytes.Buffer
	if err := render(&buf, page.Plan, size); err != nil {
		slog.Error("chart render failed", "day", page.Date, "content_type", contentType, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	utils.WriteBody(w, http.StatusOK, contentType, buf.Bytes())
}
