package httpserver

import (
	"encoding/json"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ssh_admin/internal/adapters/observability"
)

// unmatched labels requests no route claimed, keeping raw paths out of metrics.
const unmatched = "unmatched"

// Timeout bounds each handler and answers 503 with a problem body when it fires.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	body, _ := json.Marshal(problem{
		Type: "about:blank", Title: "Timeout", Status: http.StatusServiceUnavailable,
		Detail: "the dashboard did not answer in time",
	})
	return func(next http.Handler) http.Handler {
		th := http.TimeoutHandler(next, d, string(body))
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			th.ServeHTTP(timeoutWriter{w}, r)
		})
	}
}

// timeoutWriter types the bare body http.TimeoutHandler writes on expiry.
type timeoutWriter struct{ http.ResponseWriter }

func (w timeoutWriter) WriteHeader(code int) {
	if code == http.StatusServiceUnavailable && w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/problem+json")
	}
	w.ResponseWriter.WriteHeader(code)
}

// Recover turns a handler panic into a 500 problem response.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			log.Error().
				Str("request_id", chimw.GetReqID(r.Context())).
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("handler panic")
			writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
		}()
		next.ServeHTTP(w, r)
	})
}

// ---- status-recording ResponseWriter ----

type srw struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (w *srw) WriteHeader(code int) {
	if !w.wrote {
		w.status = code
		w.wrote = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *srw) Write(b []byte) (int, error) {
	if !w.wrote {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *srw) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// routeOf returns the matched chi pattern and its group. It must run after
// the router has served r.
func routeOf(r *http.Request) (route, group string) {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		route = rc.RoutePattern()
	}
	// an unmatched /v1 path still records the subrouter's "/v1/*" pattern
	if group = routeGroup(route); group == unmatched {
		return unmatched, unmatched
	}
	return route, group
}

// routeGroup maps a pattern to the resource under /v1 it belongs to:
// "/v1/approvals/{id}/approve" is "approvals", "/healthz" is "healthz".
func routeGroup(pattern string) string {
	p := strings.TrimPrefix(pattern, "/v1")
	p = strings.TrimPrefix(p, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	if p == "" || p == "*" || strings.HasPrefix(p, "{") {
		return unmatched
	}
	return p
}

// ---- Metrics middleware ----

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &srw{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		route, group := routeOf(r)
		observability.ObserveHTTP(group, route, r.Method, sw.Status(), time.Since(start))
	})
}

// ---- Structured logging middleware ----

// Logger writes one line per request. Approval routes carry the hotel id and
// alert routes the modal id, so an operator action can be traced end to end.
func Logger(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &srw{ResponseWriter: w}
			next.ServeHTTP(sw, r)
			route, group := routeOf(r)

			ev := l.Info()
			if sw.Status() >= http.StatusInternalServerError {
				ev = l.Error()
			}
			ev = ev.
				Str("request_id", chimw.GetReqID(r.Context())).
				Str("group", group).
				Str("route", route).
				Str("method", r.Method).
				Int("status", sw.Status()).
				Dur("duration", time.Since(start)).
				Str("remote", remoteIP(r)).
				Str("ua", r.UserAgent())
			if id := chi.URLParam(r, "id"); id != "" {
				switch group {
				case "approvals":
					ev = ev.Str("hotel_id", id)
				case "alert":
					ev = ev.Str("alert_id", id)
				}
			}
			ev.Msg("http_request")
		})
	}
}

// Picks first X-Forwarded-For IP, else X-Real-IP, else RemoteAddr host.
func remoteIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
		return xrip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
