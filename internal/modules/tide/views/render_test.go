package views

import (
	"bytes"
	"html/template"
	"strings"
	"testing"
	"testing/fstest"

	"tidegauge-server/internal/modules/tide/types"
)

func TestLoadTemplates_success(t *testing.T) {
	if err := LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates() = %v; want nil", err)
	}
	if dayTmpl == nil {
		t.Fatal("LoadTemplates() left dayTmpl nil")
	}
}

func TestLoadTemplates_failure_sub(t *testing.T) {
	if err := loadTemplatesFromFS(fstest.MapFS{}, "templates"); err == nil {
		t.Fatal("loadTemplatesFromFS(emptyFS) = nil; want error")
	}
}

func TestLoadTemplates_failure_parse(t *testing.T) {
	prev := dayTmpl
	t.Cleanup(func() { dayTmpl = prev })

	badFS := fstest.MapFS{
		"templates/base.html": {Data: []byte("{{ .")},
	}
	if err := loadTemplatesFromFS(badFS, "templates"); err == nil {
		t.Fatal("loadTemplatesFromFS(badFS) = nil; want error")
	}
}

func TestRenderDay_notLoaded(t *testing.T) {
	prev := dayTmpl
	dayTmpl = nil
	t.Cleanup(func() { dayTmpl = prev })

	err := RenderDay(&bytes.Buffer{}, &DayPageData{})
	if err == nil || !strings.Contains(err.Error(), "not loaded") {
		t.Fatalf("RenderDay() = %v; want not loaded error", err)
	}
}

func TestRenderDay(t *testing.T) {
	if err := LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates(): %v", err)
	}

	base := DayPageData{
		Label:      "Mar 1, 2024",
		Date:       "2024-03-01",
		QueryGT:    "2024-03-01T00:00:00",
		QueryLT:    "2024-03-02T00:00:00",
		ChartSVG:   template.HTML(`<svg id="c"></svg>`),
		PrevURL:    "/days/2024-02-29",
		PNGURL:     "/days/2024-03-01/chart.png",
		JSONURL:    "/api/v1/days/2024-03-01",
		InPager:    true,
		PageNumber: 100,
		PageCount:  100,
	}

	t.Run("ok page", func(t *testing.T) {
		data := base
		data.State = types.StateOK

		var buf bytes.Buffer
		if err := RenderDay(&buf, &data); err != nil {
			t.Fatalf("RenderDay: %v", err)
		}
		out := buf.String()
		for _, want := range []string{
			"<!DOCTYPE html>",
			"Mar 1, 2024",
			`<svg id="c"></svg>`,
			`href="/days/2024-02-29"`,
			"Page 100 of 100",
			"timestamp_gt=2024-03-01T00:00:00",
			"/ws/status",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q", want)
			}
		}
		if strings.Contains(out, `rel="next"`) {
			t.Error("today's page should not link to a next day")
		}
		if strings.Contains(out, "state-error") || strings.Contains(out, "state-empty") {
			t.Error("ok page shows a state banner")
		}
	})

	t.Run("empty page", func(t *testing.T) {
		data := base
		data.State = types.StateEmpty
		data.Message = "No readings for this day"

		var buf bytes.Buffer
		if err := RenderDay(&buf, &data); err != nil {
			t.Fatalf("RenderDay: %v", err)
		}
		if !strings.Contains(buf.String(), "No readings for this day") {
			t.Error("empty message missing")
		}
	})

	t.Run("error page outside pager", func(t *testing.T) {
		data := base
		data.State = types.StateError
		data.Message = "Readings unavailable"
		data.ErrKind = types.KindStatus
		data.InPager = false
		data.PrevURL = ""
		data.NextURL = "/days/2024-03-02"

		var buf bytes.Buffer
		if err := RenderDay(&buf, &data); err != nil {
			t.Fatalf("RenderDay: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "Readings unavailable (status)") {
			t.Error("error banner missing kind")
		}
		if strings.Contains(out, "Page 100") {
			t.Error("page number shown outside the pager")
		}
		if !strings.Contains(out, `href="/days/2024-03-02"`) {
			t.Error("next link missing")
		}
	})

	t.Run("label is escaped", func(t *testing.T) {
		data := base
		data.Label = "<script>x</script>"

		var buf bytes.Buffer
		if err := RenderDay(&buf, &data); err != nil {
			t.Fatalf("RenderDay: %v", err)
		}
		if strings.Contains(buf.String(), "<script>x</script>") {
			t.Error("label not escaped")
		}
	})
}
