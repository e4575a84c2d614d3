package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"ssh_admin/internal/domain"
	"ssh_admin/internal/render"
)

// LoadErrorBanner is shown above the approval lists after a failed reload.
const LoadErrorBanner = "Failed to load hotels. Please check if the backend server is running."

// ApprovalsView is the hotel-approval page: tab badges plus the active tab's cards.
type ApprovalsView struct {
	ActiveTab domain.Status         `json:"activeTab"`
	Counts    map[domain.Status]int `json:"counts"`
	Hotels    []ApprovalCard        `json:"hotels"`
	Loading   bool                  `json:"loading"`
	Error     string                `json:"error,omitempty"`
	LoadedAt  *time.Time            `json:"loadedAt,omitempty"`
}

type ApprovalCard struct {
	render.Card
	InFlight bool `json:"inFlight"`
}

// Shell is the dashboard's page shell. Workflow actions are started in the
// background on the shell's base context; the operator answers their prompts
// through the alert service.
type Shell struct {
	view     *ViewState
	store    *RegistrationStore
	workflow *Workflow
	overview *OverviewService
	audit    domain.AuditLog

	base context.Context
	wg   sync.WaitGroup
}

func NewShell(base context.Context, view *ViewState, store *RegistrationStore, wf *Workflow, ov *OverviewService, audit domain.AuditLog) *Shell {
	if audit == nil {
		audit = NopAudit{}
	}
	return &Shell{view: view, store: store, workflow: wf, overview: ov, audit: audit, base: base}
}

func (s *Shell) View() ViewSnapshot { return s.view.Snapshot() }

// Navigate switches the sidebar page. Unknown names land on the overview.
func (s *Shell) Navigate(name string) ViewSnapshot {
	s.view.SetPage(ParsePage(name))
	return s.view.Snapshot()
}

func (s *Shell) SelectTab(tab string) (ViewSnapshot, error) {
	if err := s.view.SetTab(domain.Status(tab)); err != nil {
		return ViewSnapshot{}, err
	}
	return s.view.Snapshot(), nil
}

func (s *Shell) Approvals() ApprovalsView {
	snap := s.view.Snapshot()
	v := ApprovalsView{
		ActiveTab: snap.ActiveTab,
		Counts:    make(map[domain.Status]int, len(domain.Statuses)),
		Loading:   s.store.Loading(),
	}
	for _, st := range domain.Statuses {
		v.Counts[st] = s.store.RecordCount(st)
	}
	list := s.store.List(snap.ActiveTab)
	v.Hotels = make([]ApprovalCard, 0, len(list))
	for _, h := range list {
		v.Hotels = append(v.Hotels, ApprovalCard{Card: render.NewCard(h), InFlight: s.workflow.InFlight(h.ID)})
	}
	if s.store.LastError() != nil {
		v.Error = LoadErrorBanner
	}
	if at := s.store.LoadedAt(); !at.IsZero() {
		v.LoadedAt = &at
	}
	return v
}

// Reload resyncs the three lists.
func (s *Shell) Reload(ctx context.Context) error {
	return s.store.LoadAll(ctx)
}

// Detail selects id and returns its rendered review view.
func (s *Shell) Detail(id domain.HotelID) (render.Detail, error) {
	h, ok := s.store.Find(id)
	if !ok {
		return render.Detail{}, domain.ErrNotFound
	}
	s.view.Select(id)
	return render.NewDetail(h), nil
}

func (s *Shell) ClearSelection() {
	s.view.CloseDetail()
	s.view.CloseMessage()
}

// OpenMessage opens the message modal for a pending hotel with its defaults
// filled in.
func (s *Shell) OpenMessage(id domain.HotelID) (MessageForm, error) {
	h, err := s.pending(id)
	if err != nil {
		return MessageForm{}, err
	}
	return s.view.OpenMessage(h), nil
}

// StartApprove launches an approval for a pending hotel.
func (s *Shell) StartApprove(id domain.HotelID) error {
	h, err := s.pending(id)
	if err != nil {
		return err
	}
	return s.launch(id, domain.AuditApprove, func(ctx context.Context) (Outcome, error) { return s.workflow.approve(ctx, h) })
}

// StartReject launches a rejection for a pending hotel.
func (s *Shell) StartReject(id domain.HotelID) error {
	h, err := s.pending(id)
	if err != nil {
		return err
	}
	return s.launch(id, domain.AuditReject, func(ctx context.Context) (Outcome, error) { return s.workflow.reject(ctx, h) })
}

// StartMessage launches a partner message. Only pending hotels can be messaged.
func (s *Shell) StartMessage(id domain.HotelID, form MessageForm) error {
	h, err := s.pending(id)
	if err != nil {
		return err
	}
	return s.launch(id, domain.AuditMessage, func(ctx context.Context) (Outcome, error) { return s.workflow.sendMessage(ctx, h, form) })
}

func (s *Shell) pending(id domain.HotelID) (domain.HotelRegistration, error) {
	h, ok := s.store.Find(id)
	if !ok {
		return h, domain.ErrNotFound
	}
	if h.Status != domain.StatusPending {
		return h, domain.ErrNotPending
	}
	return h, nil
}

// launch reserves id before returning so a second submit is refused at once.
func (s *Shell) launch(id domain.HotelID, a domain.AuditAction, run func(ctx context.Context) (Outcome, error)) error {
	if !s.workflow.begin(id, a) {
		return domain.ErrInFlight
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.workflow.end(id)
		if _, err := run(s.base); err != nil {
			log.Debug().Err(err).Str("hotel_id", id.String()).Str("action", string(a)).Msg("background action ended with error")
		}
	}()
	return nil
}

// Wait blocks until every launched action has returned.
func (s *Shell) Wait() { s.wg.Wait() }

func (s *Shell) Overview(ctx context.Context) OverviewStats { return s.overview.Overview(ctx) }

// Page returns the dataset behind a read-only sidebar page.
func (s *Shell) Page(name, timeframe string) (any, error) {
	p := Page(name)
	if ParsePage(name) != p {
		return nil, domain.ErrNotFound
	}
	return StaticPage(p, timeframe)
}

// Audit lists the most recent moderation actions, newest first.
func (s *Shell) Audit(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.audit.Recent(ctx, limit)
}
