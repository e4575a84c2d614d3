package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ssh_admin/internal/domain"
)

func TestRouteGroup(t *testing.T) {
	cases := map[string]string{
		"/v1/approvals/{id}/approve": "approvals",
		"/v1/approvals":              "approvals",
		"/v1/shell/page/{page}":      "shell",
		"/v1/alert/{id}/dismiss":     "alert",
		"/healthz":                   "healthz",
		"/metrics":                   "metrics",
		"/v1/":                       unmatched,
		"/v1/{x}":                    unmatched,
	}
	for pattern, want := range cases {
		assert.Equal(t, want, routeGroup(pattern), pattern)
	}
}

func loggedRouter(buf *bytes.Buffer) *chi.Mux {
	l := zerolog.New(buf)
	m := chi.NewRouter()
	m.Use(chimw.RequestID)
	m.Use(Logger(l))
	m.Route("/v1", func(r chi.Router) {
		r.Post("/approvals/{id}/approve", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusAccepted) })
		r.Post("/alert/{id}", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
		r.Get("/overview", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) })
	})
	return m
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var out map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &out))
	return out
}

func TestLogger_CarriesRequestAndHotelIDs(t *testing.T) {
	var buf bytes.Buffer
	m := loggedRouter(&buf)

	req := httptest.NewRequest(http.MethodPost, "/v1/approvals/42/approve", nil)
	req.Header.Set("X-Request-Id", "req-abc")
	m.ServeHTTP(httptest.NewRecorder(), req)

	line := lastLine(t, &buf)
	assert.Equal(t, "req-abc", line["request_id"])
	assert.Equal(t, "approvals", line["group"])
	assert.Equal(t, "/v1/approvals/{id}/approve", line["route"])
	assert.Equal(t, "42", line["hotel_id"])
	assert.EqualValues(t, 202, line["status"])
	assert.Equal(t, "info", line["level"])
	assert.NotContains(t, line, "alert_id")
}

func TestLogger_AlertIDAndErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	m := loggedRouter(&buf)

	m.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/alert/7", nil))
	line := lastLine(t, &buf)
	assert.Equal(t, "7", line["alert_id"])
	assert.NotContains(t, line, "hotel_id", "an alert id is not a hotel id")
	assert.NotEmpty(t, line["request_id"], "RequestID generates one when the header is absent")

	m.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/overview", nil))
	line = lastLine(t, &buf)
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "overview", line["group"])

	m.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/nowhere/9", nil))
	line = lastLine(t, &buf)
	assert.Equal(t, unmatched, line["route"], "raw paths never reach the log route field")
	assert.Equal(t, unmatched, line["group"])
}

func TestRecover_WritesProblem(t *testing.T) {
	h := Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/shell", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
	var p problem
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	assert.Equal(t, "Internal Error", p.Title)
}

func TestTimeout_WritesProblem(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	rr := httptest.NewRecorder()
	Timeout(20*time.Millisecond)(slow).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/overview", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
	var p problem
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	assert.Equal(t, "Timeout", p.Title)
	assert.Equal(t, http.StatusServiceUnavailable, p.Status)
}

func TestTimeout_PassesFastHandlerThrough(t *testing.T) {
	fast := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	rr := httptest.NewRecorder()
	Timeout(time.Second)(fast).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, "text/plain", rr.Header().Get("Content-Type"), "handler content type is kept")
}

func TestServer_UnknownRouteIsProblem(t *testing.T) {
	srv := New(time.Second)
	srv.MountHandlers(&Handlers{})
	rr := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/nothing-here", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))

	rr = httptest.NewRecorder()
	srv.Mux().ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/healthz", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestWriteError_RetryAfterOnTransientLoadFailure(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, &domain.PartialLoadError{
		Status: domain.StatusPending,
		Err:    &domain.NetworkError{Op: "list", Err: errors.New("connection refused"), Retryable: true},
	})
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Equal(t, retryAfterSeconds, rr.Header().Get("Retry-After"))

	rr = httptest.NewRecorder()
	writeError(rr, &domain.PartialLoadError{Status: domain.StatusPending, Err: &domain.BackendError{StatusCode: 500}})
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Empty(t, rr.Header().Get("Retry-After"), "backend rejections are not transient")
}
