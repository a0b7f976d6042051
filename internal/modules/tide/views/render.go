package views

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"io/fs"

	"tidegauge-server/internal/modules/tide/types"
)

//go:embed templates
var viewsFS embed.FS

var dayTmpl *template.Template

// loadTemplatesFromFS loads page templates from the given fs and dir.
// Used by LoadTemplates and by tests to simulate failure scenarios.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	dayTmpl, err = template.ParseFS(sub, "*.html")
	if err != nil {
		return err
	}
	return nil
}

// LoadTemplates loads embedded templates. Call during startup before
// serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// DayPageData is the view model for one day page.
type DayPageData struct {
	Label   string
	Date    string
	State   types.PageState
	Message string
	ErrKind types.ErrorKind
	QueryGT string
	QueryLT string

	// ChartSVG is the inline chart produced by the chart renderer.
	ChartSVG template.HTML

	PrevURL string // empty when there is no previous page
	NextURL string // empty on today's page
	PNGURL  string
	JSONURL string

	InPager    bool
	PageNumber int // 1-based
	PageCount  int
}

func RenderDay(w io.Writer, data *DayPageData) error {
	if dayTmpl == nil {
		return errors.New("day template not loaded: call views.LoadTemplates during startup")
	}
	return dayTmpl.ExecuteTemplate(w, "day.html", data)
}
