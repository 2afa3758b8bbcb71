package response_test

import (
	"encoding/json"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aqicn/aqicn/internal/api/middleware"
	"github.com/aqicn/aqicn/internal/api/models"
	"github.com/aqicn/aqicn/internal/api/response"
)

// requestWithContext returns a request that has passed through the RequestID
// middleware, so its context carries a request ID.
func requestWithContext(t *testing.T, method, path string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	var processedReq *http.Request
	handler := middleware.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		processedReq = r
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(method, path, http.NoBody))

	return processedReq, httptest.NewRecorder()
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) models.Problem {
	t.Helper()
	var problem models.Problem
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("failed to decode problem: %v", err)
	}
	return problem
}

func TestJSON_IncludesRequestID(t *testing.T) {
	req, rec := requestWithContext(t, http.MethodGet, "/v1/air-quality/current")

	response.JSON(rec, req, http.StatusOK, map[string]string{"message": "hello"})

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-Request-Id"); !strings.HasPrefix(got, "req_") {
		t.Errorf("expected X-Request-Id header, got %q", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("expected Content-Type application/json, got %q", got)
	}
}

func TestJSON_WithoutRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	rec := httptest.NewRecorder()

	response.JSON(rec, req, http.StatusOK, nil)

	if got := rec.Header().Get("X-Request-Id"); got != "" {
		t.Errorf("expected no X-Request-Id header, got %q", got)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body for nil data, got %q", rec.Body.String())
	}
}

func TestHTML_RendersTemplate(t *testing.T) {
	tmpl := template.Must(template.New("page").Parse(`<p>{{.}}</p>`))
	req, rec := requestWithContext(t, http.MethodGet, "/")

	response.HTML(rec, req, http.StatusOK, tmpl, "page", "<AQI>")

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Errorf("expected html content type, got %q", got)
	}
	if got := rec.Body.String(); got != "<p>&lt;AQI&gt;</p>" {
		t.Errorf("expected escaped output, got %q", got)
	}
}

func TestHTML_TemplateErrorBecomesProblem(t *testing.T) {
	tmpl := template.Must(template.New("page").Parse(`{{template "missing"}}`))
	req, rec := requestWithContext(t, http.MethodGet, "/")

	response.HTML(rec, req, http.StatusOK, tmpl, "page", nil)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/problem+json" {
		t.Errorf("expected problem content type, got %q", got)
	}
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name        string
		write       func(http.ResponseWriter, *http.Request)
		status      int
		problemType string
	}{
		{
			name: "bad request",
			write: func(w http.ResponseWriter, r *http.Request) {
				response.BadRequest(w, r, "Invalid location", []models.FieldError{{Field: "city", Code: "REQUIRED", Message: "required"}})
			},
			status:      http.StatusBadRequest,
			problemType: models.ProblemTypeValidation,
		},
		{
			name:        "not found",
			write:       func(w http.ResponseWriter, r *http.Request) { response.NotFound(w, r, "no match") },
			status:      http.StatusNotFound,
			problemType: models.ProblemTypeNotFound,
		},
		{
			name:        "too many requests",
			write:       func(w http.ResponseWriter, r *http.Request) { response.TooManyRequests(w, r, "slow down") },
			status:      http.StatusTooManyRequests,
			problemType: models.ProblemTypeTooManyRequests,
		},
		{
			name:        "internal error",
			write:       func(w http.ResponseWriter, r *http.Request) { response.InternalError(w, r, "boom") },
			status:      http.StatusInternalServerError,
			problemType: models.ProblemTypeInternal,
		},
		{
			name:        "bad gateway",
			write:       func(w http.ResponseWriter, r *http.Request) { response.BadGateway(w, r, "status 500") },
			status:      http.StatusBadGateway,
			problemType: models.ProblemTypeUpstream,
		},
		{
			name:        "service unavailable",
			write:       func(w http.ResponseWriter, r *http.Request) { response.ServiceUnavailable(w, r, "geocoder down") },
			status:      http.StatusServiceUnavailable,
			problemType: models.ProblemTypeUnavailable,
		},
		{
			name:        "gateway timeout",
			write:       func(w http.ResponseWriter, r *http.Request) { response.GatewayTimeout(w, r, "too slow") },
			status:      http.StatusGatewayTimeout,
			problemType: models.ProblemTypeTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := requestWithContext(t, http.MethodGet, "/v1/air-quality/current")

			tt.write(rec, req)

			if rec.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, rec.Code)
			}
			problem := decodeProblem(t, rec)
			if problem.Type != tt.problemType {
				t.Errorf("expected type %q, got %q", tt.problemType, problem.Type)
			}
			if problem.Instance != "/v1/air-quality/current" {
				t.Errorf("expected instance to be request path, got %q", problem.Instance)
			}
			if problem.TraceID == "" || problem.TraceID != rec.Header().Get("X-Request-Id") {
				t.Errorf("expected traceId to match X-Request-Id, got %q", problem.TraceID)
			}
		})
	}
}

func TestServiceUnavailable_SetsRetryAfter(t *testing.T) {
	req, rec := requestWithContext(t, http.MethodGet, "/readyz")

	response.ServiceUnavailable(rec, req, "circuit open")

	if got := rec.Header().Get("Retry-After"); got != "30" {
		t.Errorf("expected Retry-After 30, got %q", got)
	}
}
