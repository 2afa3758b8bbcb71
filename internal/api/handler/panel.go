package handler

import (
	_ "embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/aqicn/aqicn/internal/airquality"
	"github.com/aqicn/aqicn/internal/api/response"
	"github.com/aqicn/aqicn/internal/geocode"
	"github.com/aqicn/aqicn/internal/render"
)

// PanelTitle is the page heading of the web panel.
const PanelTitle = "AQICN Air Quality"

// maxFieldBytes covers the location fields and form encoding overhead.
const maxFieldBytes = 16 << 10

//go:embed templates/panel.html
var panelHTML string

var panelTemplate = template.Must(template.New("panel").Parse(panelHTML))

// panelPage is the template data of the panel page.
type panelPage struct {
	Title   string
	City    string
	State   string
	Country string
	Output  string
}

// PanelHandler serves the browser panel. The accumulated output travels
// with each form post, so the handler keeps no per-user state.
type PanelHandler struct {
	service Looker
	limit   int
}

// NewPanelHandler creates a new PanelHandler. A non-positive limit selects
// render.DefaultPanelLimit.
func NewPanelHandler(service Looker, limit int) *PanelHandler {
	if limit <= 0 {
		limit = render.DefaultPanelLimit
	}
	return &PanelHandler{service: service, limit: limit}
}

// Show handles GET / - an empty panel.
func (h *PanelHandler) Show(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, geocode.Query{}, render.NewPanel(h.limit))
}

// Current handles POST /panel/current.
func (h *PanelHandler) Current(w http.ResponseWriter, r *http.Request) {
	h.lookup(w, r, airquality.KindCurrent)
}

// Forecast handles POST /panel/forecast.
func (h *PanelHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	h.lookup(w, r, airquality.KindForecast)
}

// Clear handles POST /panel/clear. Entered fields are kept.
func (h *PanelHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	h.write(w, r, queryFromValues(r.PostForm), render.NewPanel(h.limit))
}

func (h *PanelHandler) lookup(w http.ResponseWriter, r *http.Request, kind string) {
	if !h.parseForm(w, r) {
		return
	}

	q := queryFromValues(r.PostForm)
	panel := render.RestorePanel(r.PostForm.Get("output"), h.limit)
	out := render.NewPanelRenderer(panel)

	switch kind {
	case airquality.KindForecast:
		forecast, err := h.service.Forecast(r.Context(), q)
		if err != nil {
			_ = out.Failure(err)
			break
		}
		_ = out.Forecast(forecast)
	default:
		report, err := h.service.Current(r.Context(), q)
		if err != nil {
			_ = out.Failure(err)
			break
		}
		_ = out.Current(report)
	}

	h.write(w, r, q, panel)
}

// parseForm bounds and parses the posted form, writing a problem on failure.
func (h *PanelHandler) parseForm(w http.ResponseWriter, r *http.Request) bool {
	// Percent-encoding can grow UTF-8 output up to three times.
	r.Body = http.MaxBytesReader(w, r.Body, int64(3*h.limit+maxFieldBytes))
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.BadRequest(w, r, "Form submission is too large", nil)
			return false
		}
		response.BadRequest(w, r, "Invalid form submission", nil)
		return false
	}
	return true
}

func (h *PanelHandler) write(w http.ResponseWriter, r *http.Request, q geocode.Query, panel *render.Panel) {
	response.HTML(w, r, http.StatusOK, panelTemplate, "panel", panelPage{
		Title:   PanelTitle,
		City:    q.City,
		State:   q.State,
		Country: q.Country,
		Output:  panel.String(),
	})
}
