package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"ssh_admin/internal/adapters/alert"
	"ssh_admin/internal/app"
	"ssh_admin/internal/domain"
)

// retryAfterSeconds is the hint sent when a reload failed on a transient
// transport error.
const retryAfterSeconds = "5"

type Handlers struct {
	Shell  *app.Shell
	Alerts *alert.Service
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type accepted struct {
	HotelID domain.HotelID     `json:"hotelId"`
	Action  domain.AuditAction `json:"action"`
	Status  string             `json:"status"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/shell", h.getShell)
		r.Put("/shell/page/{page}", h.putPage)
		r.Put("/shell/tab/{tab}", h.putTab)

		r.Get("/overview", h.getOverview)
		r.Get("/overview/staff", h.getStaffForm)
		r.Post("/overview/staff", h.addStaff)
		r.Get("/pages/{page}", h.getPage)
		r.Get("/audit", h.listAudit)

		r.Get("/approvals", h.listApprovals)
		r.Post("/approvals/reload", h.reload)
		r.Delete("/approvals/selection", h.clearSelection)
		r.Get("/approvals/{id}", h.getDetail)
		r.Post("/approvals/{id}/approve", h.approve)
		r.Post("/approvals/{id}/reject", h.reject)
		r.Get("/approvals/{id}/message", h.openMessage)
		r.Post("/approvals/{id}/message", h.sendMessage)

		r.Get("/alert", h.getAlert)
		r.Post("/alert/{id}", h.respondAlert)
		r.Post("/alert/{id}/dismiss", h.dismissAlert)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain and alert errors onto problem responses.
func writeError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	var pe *domain.PartialLoadError
	switch {
	case errors.As(err, &ve):
		writeProblem(w, http.StatusBadRequest, "Invalid Request", ve.Reason)
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrInFlight), errors.Is(err, domain.ErrNotPending):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, alert.ErrNoModal):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, alert.ErrDismissDisabled), errors.Is(err, alert.ErrAlreadyAnswered):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.As(err, &pe):
		if domain.IsRetryable(err) {
			w.Header().Set("Retry-After", retryAfterSeconds)
		}
		writeProblem(w, http.StatusBadGateway, "Backend Unavailable", app.LoadErrorBanner)
	default:
		log.Error().Err(err).Msg("unhandled error")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCached serves v with a weak ETag and honours If-None-Match.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write cached body")
	}
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dst); err != nil {
		return &domain.ValidationError{Field: "body", Reason: "request body must be valid JSON"}
	}
	return nil
}

func hotelID(r *http.Request) domain.HotelID { return domain.HotelID(chi.URLParam(r, "id")) }

func (h *Handlers) getShell(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Shell.View())
}

func (h *Handlers) putPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Shell.Navigate(chi.URLParam(r, "page")))
}

func (h *Handlers) putTab(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Shell.SelectTab(chi.URLParam(r, "tab"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handlers) getOverview(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Shell.Overview(r.Context()))
}

func (h *Handlers) getStaffForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Shell.OpenStaffForm())
}

func (h *Handlers) addStaff(w http.ResponseWriter, r *http.Request) {
	var form app.StaffForm
	if err := decodeBody(r, &form); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.Shell.AddStaff(form)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handlers) getPage(w http.ResponseWriter, r *http.Request) {
	v, err := h.Shell.Page(chi.URLParam(r, "page"), r.URL.Query().Get("timeframe"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, v)
}

func (h *Handlers) listAudit(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		limit = l
	}
	out, err := h.Shell.Audit(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) listApprovals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Shell.Approvals())
}

func (h *Handlers) reload(w http.ResponseWriter, r *http.Request) {
	if err := h.Shell.Reload(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Shell.Approvals())
}

func (h *Handlers) clearSelection(w http.ResponseWriter, r *http.Request) {
	h.Shell.ClearSelection()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) getDetail(w http.ResponseWriter, r *http.Request) {
	d, err := h.Shell.Detail(hotelID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, d)
}

func (h *Handlers) approve(w http.ResponseWriter, r *http.Request) {
	id := hotelID(r)
	if err := h.Shell.StartApprove(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, accepted{HotelID: id, Action: domain.AuditApprove, Status: "awaiting confirmation"})
}

func (h *Handlers) reject(w http.ResponseWriter, r *http.Request) {
	id := hotelID(r)
	if err := h.Shell.StartReject(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, accepted{HotelID: id, Action: domain.AuditReject, Status: "awaiting reason"})
}

func (h *Handlers) openMessage(w http.ResponseWriter, r *http.Request) {
	form, err := h.Shell.OpenMessage(hotelID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (h *Handlers) sendMessage(w http.ResponseWriter, r *http.Request) {
	var form app.MessageForm
	if err := decodeBody(r, &form); err != nil {
		writeError(w, err)
		return
	}
	id := hotelID(r)
	if err := h.Shell.StartMessage(id, form); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, accepted{HotelID: id, Action: domain.AuditMessage, Status: "awaiting confirmation"})
}

func (h *Handlers) getAlert(w http.ResponseWriter, r *http.Request) {
	m, ok := h.Alerts.Current()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *Handlers) respondAlert(w http.ResponseWriter, r *http.Request) {
	var resp alert.Response
	if err := decodeBody(r, &resp); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Alerts.Respond(chi.URLParam(r, "id"), resp); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) dismissAlert(w http.ResponseWriter, r *http.Request) {
	if err := h.Alerts.Dismiss(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
