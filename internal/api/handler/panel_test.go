package handler_test

import (
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqicn/aqicn/internal/api/handler"
	"github.com/aqicn/aqicn/internal/geocode"
	"github.com/aqicn/aqicn/internal/render"
)

var outputPattern = regexp.MustCompile(`(?s)<textarea name="output"[^>]*>\n(.*?)</textarea>`)

// panelOutput extracts the text a browser would show in the output area.
func panelOutput(t *testing.T, body string) string {
	t.Helper()
	m := outputPattern.FindStringSubmatch(body)
	require.Len(t, m, 2, "output textarea not found")
	return html.UnescapeString(m[1])
}

func postPanel(h http.HandlerFunc, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestPanelHandler_Show(t *testing.T) {
	h := handler.NewPanelHandler(&mockLooker{}, 0)

	w := httptest.NewRecorder()
	h.Show(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, "<title>"+handler.PanelTitle+"</title>")
	assert.Contains(t, body, `formaction="/panel/current">Current AQI</button>`)
	assert.Contains(t, body, `formaction="/panel/forecast">AQI Forecast</button>`)
	assert.Contains(t, body, `formaction="/panel/clear">Clear</button>`)
	assert.Empty(t, panelOutput(t, body))
}

func TestPanelHandler_CurrentAppendsReport(t *testing.T) {
	looker := &mockLooker{}
	h := handler.NewPanelHandler(looker, 0)

	w := postPanel(h.Current, "/panel/current", url.Values{"city": {"Lincoln"}, "state": {"Nebraska"}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []geocode.Query{{City: "Lincoln", State: "Nebraska"}}, looker.calls())

	body := w.Body.String()
	assert.Contains(t, body, `name="city" value="Lincoln"`)
	assert.Contains(t, body, `name="state" value="Nebraska"`)

	out := panelOutput(t, body)
	assert.Contains(t, out, "Lincoln, Nebraska, United States")
	assert.Contains(t, out, "42 Good")
}

func TestPanelHandler_AccumulatesBlocks(t *testing.T) {
	h := handler.NewPanelHandler(&mockLooker{}, 0)

	first := panelOutput(t, postPanel(h.Current, "/panel/current", url.Values{"city": {"Lincoln"}}).Body.String())

	// Browsers submit textarea line breaks as CRLF.
	w := postPanel(h.Forecast, "/panel/forecast", url.Values{
		"city":   {"Lincoln"},
		"output": {strings.ReplaceAll(first, "\n", "\r\n")},
	})

	out := panelOutput(t, w.Body.String())
	assert.True(t, strings.HasPrefix(out, first+"\n\n"), "previous block should be kept first")
	assert.Contains(t, out, "2024-06-01:   20    30")
	assert.NotContains(t, out, "\r")
}

func TestPanelHandler_FailureMessage(t *testing.T) {
	h := handler.NewPanelHandler(&mockLooker{currentErr: geocode.ErrLocationNotFound}, 0)

	w := postPanel(h.Current, "/panel/current", url.Values{"city": {"Atlantis"}, "output": {"earlier"}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "earlier\n\n[-] Location not found. Check the location and try again.", panelOutput(t, w.Body.String()))
}

func TestPanelHandler_EmptyQuery(t *testing.T) {
	h := handler.NewPanelHandler(&mockLooker{}, 0)

	w := postPanel(h.Forecast, "/panel/forecast", url.Values{"city": {"  "}})

	assert.Equal(t, render.EmptyQueryMessage, panelOutput(t, w.Body.String()))
}

func TestPanelHandler_ClearKeepsFields(t *testing.T) {
	looker := &mockLooker{}
	h := handler.NewPanelHandler(looker, 0)

	w := postPanel(h.Clear, "/panel/clear", url.Values{"country": {"USA"}, "output": {"old report"}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, looker.calls())
	assert.Empty(t, panelOutput(t, w.Body.String()))
	assert.Contains(t, w.Body.String(), `name="country" value="USA"`)
}

func TestPanelHandler_TrimsOldestBlocks(t *testing.T) {
	h := handler.NewPanelHandler(&mockLooker{currentErr: geocode.ErrLocationNotFound}, 80)

	w := postPanel(h.Current, "/panel/current", url.Values{
		"city":   {"Atlantis"},
		"output": {strings.Repeat("a", 40) + "\n\n" + strings.Repeat("b", 20)},
	})

	out := panelOutput(t, w.Body.String())
	assert.NotContains(t, out, "aaaa")
	assert.True(t, strings.HasPrefix(out, strings.Repeat("b", 20)+"\n\n[-] Location not found"))
}

func TestPanelHandler_EscapesOutput(t *testing.T) {
	h := handler.NewPanelHandler(&mockLooker{}, 0)

	w := postPanel(h.Clear, "/panel/clear", url.Values{"city": {`"><script>alert(1)</script>`}})

	assert.NotContains(t, w.Body.String(), "<script>")
}

func TestPanelHandler_RejectsOversizedForm(t *testing.T) {
	h := handler.NewPanelHandler(&mockLooker{}, 16)

	w := postPanel(h.Current, "/panel/current", url.Values{
		"city":   {"Lincoln"},
		"output": {strings.Repeat("x", 64<<10)},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "too large")
}
