package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"ssh_admin/internal/adapters/observability"
	"ssh_admin/internal/domain"
)

// DefaultAdminEmail is the reply-to address offered in the message form.
const DefaultAdminEmail = "notifications@sshhotels.in"

// DetailView is the part of the page shell the workflow closes after an action.
type DetailView interface {
	CloseDetail()
	CloseMessage()
}

// Outcome reports how an action ended. Err mirrors the returned error.
type Outcome struct {
	Action  domain.AuditAction  `json:"action"`
	HotelID domain.HotelID      `json:"hotelId"`
	Result  domain.AuditOutcome `json:"result"`
	Err     error               `json:"-"`
}

type WorkflowConfig struct {
	AdminEmail     string
	RequestTimeout time.Duration
	// OnDecision runs after a status change has been applied and reconciled.
	OnDecision func(ctx context.Context)
}

// Workflow drives approve, reject and message actions for one operator.
// Local lists are never edited here: every successful decision is followed by
// a full reconciliation through the store.
type Workflow struct {
	store   *RegistrationStore
	backend domain.Backend
	prompt  domain.Prompter
	audit   domain.AuditLog
	view    DetailView
	cfg     WorkflowConfig

	mu       sync.Mutex
	inflight map[domain.HotelID]domain.AuditAction
}

func NewWorkflow(store *RegistrationStore, b domain.Backend, p domain.Prompter, audit domain.AuditLog, view DetailView, cfg WorkflowConfig) *Workflow {
	if cfg.AdminEmail == "" {
		cfg.AdminEmail = DefaultAdminEmail
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	if audit == nil {
		audit = NopAudit{}
	}
	return &Workflow{
		store: store, backend: b, prompt: p, audit: audit, view: view, cfg: cfg,
		inflight: map[domain.HotelID]domain.AuditAction{},
	}
}

// InFlight reports whether an action for id is running.
func (w *Workflow) InFlight(id domain.HotelID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.inflight[id]
	return ok
}

func (w *Workflow) begin(id domain.HotelID, a domain.AuditAction) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, busy := w.inflight[id]; busy {
		return false
	}
	w.inflight[id] = a
	return true
}

func (w *Workflow) end(id domain.HotelID) {
	w.mu.Lock()
	delete(w.inflight, id)
	w.mu.Unlock()
}

// Approve asks for confirmation, then marks h approved.
func (w *Workflow) Approve(ctx context.Context, h domain.HotelRegistration) (Outcome, error) {
	if !w.begin(h.ID, domain.AuditApprove) {
		return Outcome{Action: domain.AuditApprove, HotelID: h.ID, Err: domain.ErrInFlight}, domain.ErrInFlight
	}
	defer w.end(h.ID)
	return w.approve(ctx, h)
}

func (w *Workflow) approve(ctx context.Context, h domain.HotelRegistration) (Outcome, error) {
	ok, err := w.prompt.Confirm(ctx, "Approve Hotel", fmt.Sprintf(
		"Are you sure you want to approve %s?\n\nThis will:\n- Change status to \"Approved\"\n- Send approval email to partner\n- Make the hotel live on the platform",
		h.HotelName))
	if err != nil || !ok {
		return w.finish(ctx, h.ID, domain.AuditApprove, domain.OutcomeCancelled, "", err)
	}

	if err := w.updateStatus(ctx, h.ID, domain.StatusUpdate{Status: domain.StatusApproved}); err != nil {
		w.notify(ctx, domain.NoticeError, "Approval Failed", "Error approving hotel: "+domain.UserMessage(err))
		return w.finish(ctx, h.ID, domain.AuditApprove, domain.OutcomeFailed, domain.UserMessage(err), err)
	}

	w.reconcile(ctx)
	w.view.CloseDetail()
	w.notify(ctx, domain.NoticeSuccess, "Hotel Approved", fmt.Sprintf(
		"Hotel %q approved successfully!\n\nApproval email sent to %s", h.HotelName, h.Partner.Email))
	return w.finish(ctx, h.ID, domain.AuditApprove, domain.OutcomeDone, "", nil)
}

// Reject collects a reason, asks for confirmation, then marks h rejected.
func (w *Workflow) Reject(ctx context.Context, h domain.HotelRegistration) (Outcome, error) {
	if !w.begin(h.ID, domain.AuditReject) {
		return Outcome{Action: domain.AuditReject, HotelID: h.ID, Err: domain.ErrInFlight}, domain.ErrInFlight
	}
	defer w.end(h.ID)
	return w.reject(ctx, h)
}

func (w *Workflow) reject(ctx context.Context, h domain.HotelRegistration) (Outcome, error) {
	reason, err := w.prompt.Prompt(ctx, "Reject Hotel",
		"Enter rejection reason:\n\n(This will be sent to the partner via email)", "")
	if err != nil {
		return w.finish(ctx, h.ID, domain.AuditReject, domain.OutcomeCancelled, "", err)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		verr := &domain.ValidationError{Field: "reason", Reason: "Rejection cancelled. Reason is required."}
		w.notify(ctx, domain.NoticeWarning, "Cancelled", verr.Reason)
		return w.finish(ctx, h.ID, domain.AuditReject, domain.OutcomeInvalid, "", verr)
	}

	ok, err := w.prompt.Confirm(ctx, "Confirm Rejection", fmt.Sprintf(
		"Are you sure you want to reject %s?\n\nReason: %s\n\nThis will send a rejection email to the partner.",
		h.HotelName, reason))
	if err != nil || !ok {
		return w.finish(ctx, h.ID, domain.AuditReject, domain.OutcomeCancelled, reason, err)
	}

	upd := domain.StatusUpdate{Status: domain.StatusRejected, Reason: reason}
	if err := w.updateStatus(ctx, h.ID, upd); err != nil {
		w.notify(ctx, domain.NoticeError, "Rejection Failed", "Error rejecting hotel: "+domain.UserMessage(err))
		return w.finish(ctx, h.ID, domain.AuditReject, domain.OutcomeFailed, domain.UserMessage(err), err)
	}

	w.reconcile(ctx)
	w.view.CloseDetail()
	w.notify(ctx, domain.NoticeSuccess, "Hotel Rejected", fmt.Sprintf(
		"Hotel %q rejected.\n\nRejection email with reason sent to %s", h.HotelName, h.Partner.Email))
	return w.finish(ctx, h.ID, domain.AuditReject, domain.OutcomeDone, reason, nil)
}

// SendMessage emails the partner. It never touches the registration status.
func (w *Workflow) SendMessage(ctx context.Context, h domain.HotelRegistration, form MessageForm) (Outcome, error) {
	if !w.begin(h.ID, domain.AuditMessage) {
		return Outcome{Action: domain.AuditMessage, HotelID: h.ID, Err: domain.ErrInFlight}, domain.ErrInFlight
	}
	defer w.end(h.ID)
	return w.sendMessage(ctx, h, form)
}

func (w *Workflow) sendMessage(ctx context.Context, h domain.HotelRegistration, form MessageForm) (Outcome, error) {
	if strings.TrimSpace(form.Subject) == "" || strings.TrimSpace(form.Message) == "" {
		verr := &domain.ValidationError{Field: "message", Reason: "Please fill in both subject and message"}
		w.notify(ctx, domain.NoticeWarning, "Missing Information", verr.Reason)
		return w.finish(ctx, h.ID, domain.AuditMessage, domain.OutcomeInvalid, "", verr)
	}
	if strings.TrimSpace(form.AdminEmail) == "" {
		form.AdminEmail = w.cfg.AdminEmail
	}

	ok, err := w.prompt.Confirm(ctx, "Send Message", fmt.Sprintf(
		"Send this message to %s?\n\nSubject: %s\n\nThe partner can reply to: %s",
		recipientName(h), form.Subject, form.AdminEmail))
	if err != nil || !ok {
		return w.finish(ctx, h.ID, domain.AuditMessage, domain.OutcomeCancelled, form.Subject, err)
	}

	rctx, cancel := context.WithTimeout(ctx, w.cfg.RequestTimeout)
	err = w.backend.SendMessage(rctx, h.ID, domain.Message{
		Subject: form.Subject, Message: form.Message, AdminEmail: form.AdminEmail,
	})
	cancel()
	if err != nil {
		w.notify(ctx, domain.NoticeError, "Send Failed", "Error sending message: "+domain.UserMessage(err))
		return w.finish(ctx, h.ID, domain.AuditMessage, domain.OutcomeFailed, domain.UserMessage(err), err)
	}

	w.notify(ctx, domain.NoticeSuccess, "Message Sent", fmt.Sprintf(
		"Message sent successfully!\n\nEmail sent to %s\nPartner can reply to %s", h.Partner.Email, form.AdminEmail))
	w.view.CloseMessage()
	return w.finish(ctx, h.ID, domain.AuditMessage, domain.OutcomeDone, form.Subject, nil)
}

func (w *Workflow) updateStatus(ctx context.Context, id domain.HotelID, upd domain.StatusUpdate) error {
	rctx, cancel := context.WithTimeout(ctx, w.cfg.RequestTimeout)
	defer cancel()
	return w.backend.UpdateStatus(rctx, id, upd)
}

// reconcile resyncs the lists after a decision. A failed reload is left to
// the store's error banner; the decision itself already succeeded.
func (w *Workflow) reconcile(ctx context.Context) {
	if err := w.store.LoadAll(ctx); err != nil {
		log.Warn().Err(err).Msg("reload after decision failed")
	}
	if w.cfg.OnDecision != nil {
		w.cfg.OnDecision(ctx)
	}
}

func (w *Workflow) notify(ctx context.Context, kind domain.NoticeKind, title, msg string) {
	if err := w.prompt.Notify(ctx, kind, title, msg); err != nil {
		log.Debug().Err(err).Str("title", title).Msg("notice not acknowledged")
	}
}

func (w *Workflow) finish(ctx context.Context, id domain.HotelID, a domain.AuditAction, res domain.AuditOutcome, detail string, err error) (Outcome, error) {
	observability.ObserveAction(string(a), string(res))
	ev := log.Info()
	if err != nil {
		ev = log.Warn().Err(err)
	}
	ev.Str("hotel_id", id.String()).Str("action", string(a)).Str("outcome", string(res)).Msg("moderation action")

	if res != domain.OutcomeCancelled {
		entry := domain.AuditEntry{HotelID: id, Action: a, Outcome: res, Detail: detail, CreatedAt: time.Now().UTC()}
		if aerr := w.audit.Record(context.WithoutCancel(ctx), entry); aerr != nil {
			log.Error().Err(aerr).Str("hotel_id", id.String()).Msg("audit record failed")
		}
	}
	return Outcome{Action: a, HotelID: id, Result: res, Err: err}, err
}

func recipientName(h domain.HotelRegistration) string {
	if h.Partner.OwnerName != "" {
		return h.Partner.OwnerName
	}
	return h.Partner.Email
}

// NopAudit discards audit entries.
type NopAudit struct{}

func (NopAudit) Record(context.Context, domain.AuditEntry) error { return nil }
func (NopAudit) Recent(context.Context, int) ([]domain.AuditEntry, error) {
	return []domain.AuditEntry{}, nil
}
