// Package alert replaces blocking confirm/alert/prompt dialogs with modals the
// operator answers over HTTP. Exactly one modal is open at a time; callers
// that arrive while one is open wait their turn in arrival order.
package alert

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"ssh_admin/internal/adapters/observability"
	"ssh_admin/internal/domain"
)

type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindConfirm Kind = "confirm"
	KindPrompt  Kind = "prompt"
)

var (
	ErrNoModal         = errors.New("alert: no such open modal")
	ErrDismissDisabled = errors.New("alert: modal has a cancel action and cannot be dismissed")
	ErrAlreadyAnswered = errors.New("alert: modal already answered")
)

// Request describes a modal to show.
type Request struct {
	Kind         Kind
	Title        string
	Message      string
	ConfirmText  string
	CancelText   string
	ShowCancel   bool
	DefaultValue string
}

// Modal is the open modal as the page shell renders it.
type Modal struct {
	ID           string    `json:"id"`
	Kind         Kind      `json:"kind"`
	Title        string    `json:"title,omitempty"`
	Message      string    `json:"message"`
	ConfirmText  string    `json:"confirmText"`
	CancelText   string    `json:"cancelText,omitempty"`
	ShowCancel   bool      `json:"showCancel"`
	Dismissible  bool      `json:"dismissible"`
	DefaultValue string    `json:"defaultValue,omitempty"`
	OpenedAt     time.Time `json:"openedAt"`
}

// Response is the operator's answer. Confirmed=false means the cancel action.
type Response struct {
	Confirmed bool   `json:"confirmed"`
	Value     string `json:"value"`
}

// Result is what the waiting caller receives.
type Result struct {
	Confirmed bool
	Value     string
}

type pending struct {
	modal Modal
	done  chan Response
}

type Service struct {
	slot    chan struct{}
	timeout time.Duration

	mu      sync.Mutex
	current *pending
}

// New returns a Service. A positive timeout closes an unanswered modal as if
// it had been cancelled.
func New(timeout time.Duration) *Service {
	return &Service{slot: make(chan struct{}, 1), timeout: timeout}
}

// Show opens a modal and blocks until it is answered or ctx ends.
func (s *Service) Show(ctx context.Context, req Request) (Result, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	select {
	case s.slot <- struct{}{}:
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
	defer func() { <-s.slot }()

	p := &pending{modal: buildModal(req), done: make(chan Response, 1)}
	s.mu.Lock()
	s.current = p
	s.mu.Unlock()
	observability.ObserveAlert(string(p.modal.Kind))
	log.Debug().Str("modal", p.modal.ID).Str("kind", string(p.modal.Kind)).Msg("modal opened")

	select {
	case resp := <-p.done:
		return resolve(p.modal, resp), nil
	case <-ctx.Done():
		s.mu.Lock()
		if s.current == p {
			s.current = nil
		}
		s.mu.Unlock()
		log.Debug().Str("modal", p.modal.ID).Err(ctx.Err()).Msg("modal abandoned")
		return Result{}, ctx.Err()
	}
}

// Current returns the open modal, if any.
func (s *Service) Current() (Modal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Modal{}, false
	}
	return s.current.modal, true
}

// Respond answers the open modal with the given id and closes it.
func (s *Service) Respond(id string, resp Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.modal.ID != id {
		return ErrNoModal
	}
	select {
	case s.current.done <- resp:
	default:
		return ErrAlreadyAnswered
	}
	s.current = nil
	return nil
}

// Dismiss handles a backdrop click. It acts as the primary action and is only
// allowed when the modal offers no cancel action.
func (s *Service) Dismiss(id string) error {
	s.mu.Lock()
	cur := s.current
	s.mu.Unlock()
	if cur == nil || cur.modal.ID != id {
		return ErrNoModal
	}
	if cur.modal.ShowCancel {
		return ErrDismissDisabled
	}
	return s.Respond(id, Response{Confirmed: true})
}

func buildModal(req Request) Modal {
	m := Modal{
		ID:           uuid.NewString(),
		Kind:         req.Kind,
		Title:        req.Title,
		Message:      req.Message,
		ConfirmText:  req.ConfirmText,
		CancelText:   req.CancelText,
		ShowCancel:   req.ShowCancel,
		DefaultValue: req.DefaultValue,
		OpenedAt:     time.Now().UTC(),
	}
	if m.Kind == "" {
		m.Kind = KindInfo
	}
	if m.ConfirmText == "" {
		m.ConfirmText = "OK"
	}
	if m.ShowCancel && m.CancelText == "" {
		m.CancelText = "Cancel"
	}
	m.Dismissible = !m.ShowCancel
	return m
}

func resolve(m Modal, resp Response) Result {
	switch m.Kind {
	case KindConfirm:
		return Result{Confirmed: resp.Confirmed}
	case KindPrompt:
		if !resp.Confirmed {
			return Result{}
		}
		return Result{Confirmed: true, Value: resp.Value}
	default:
		// notices resolve true once acknowledged
		return Result{Confirmed: true}
	}
}

// ---- domain.Prompter ----

func (s *Service) Confirm(ctx context.Context, title, message string) (bool, error) {
	if title == "" {
		title = "Confirm"
	}
	r, err := s.Show(ctx, Request{
		Kind: KindConfirm, Title: title, Message: message,
		ConfirmText: "Yes", CancelText: "No", ShowCancel: true,
	})
	return r.Confirmed, err
}

func (s *Service) Prompt(ctx context.Context, title, message, defaultValue string) (string, error) {
	if title == "" {
		title = "Input Required"
	}
	r, err := s.Show(ctx, Request{
		Kind: KindPrompt, Title: title, Message: message,
		ConfirmText: "Submit", CancelText: "Cancel", ShowCancel: true,
		DefaultValue: defaultValue,
	})
	return r.Value, err
}

func (s *Service) Notify(ctx context.Context, kind domain.NoticeKind, title, message string) error {
	_, err := s.Show(ctx, Request{Kind: Kind(kind), Title: title, Message: message})
	return err
}

var _ domain.Prompter = (*Service)(nil)
