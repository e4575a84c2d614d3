package app_test

import (
	"context"
	"sync"

	"ssh_admin/internal/domain"
)

// ---- fakes ----

// fakeBackend keeps one registration per id and serves the lists by status.
type fakeBackend struct {
	mu       sync.Mutex
	hotels   map[domain.HotelID]domain.HotelRegistration
	order    []domain.HotelID
	listErr  map[domain.Status]error
	regErr   error
	writeErr error

	lists    int
	regs     int
	updates  []domain.StatusUpdate
	messages []domain.Message
}

func newFakeBackend(hs ...domain.HotelRegistration) *fakeBackend {
	f := &fakeBackend{hotels: map[domain.HotelID]domain.HotelRegistration{}, listErr: map[domain.Status]error{}}
	for _, h := range hs {
		f.hotels[h.ID] = h
		f.order = append(f.order, h.ID)
	}
	return f
}

func (f *fakeBackend) ListHotels(_ context.Context, st domain.Status) ([]domain.HotelRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if err := f.listErr[st]; err != nil {
		return nil, err
	}
	return f.byStatus(st), nil
}

func (f *fakeBackend) ListRegistrations(_ context.Context, st domain.Status) ([]domain.HotelRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regs++
	if f.regErr != nil {
		return nil, f.regErr
	}
	return f.byStatus(st), nil
}

func (f *fakeBackend) byStatus(st domain.Status) []domain.HotelRegistration {
	out := []domain.HotelRegistration{}
	for _, id := range f.order {
		if h := f.hotels[id]; h.Status == st {
			out = append(out, h)
		}
	}
	return out
}

func (f *fakeBackend) UpdateStatus(_ context.Context, id domain.HotelID, upd domain.StatusUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, upd)
	if f.writeErr != nil {
		return f.writeErr
	}
	h := f.hotels[id]
	h.Status = upd.Status
	h.RejectionReason = upd.Reason
	f.hotels[id] = h
	return nil
}

func (f *fakeBackend) SendMessage(_ context.Context, _ domain.HotelID, msg domain.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
	return f.writeErr
}

func (f *fakeBackend) writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates) + len(f.messages)
}

type notice struct {
	Kind    domain.NoticeKind
	Title   string
	Message string
}

// scriptedPrompter answers from queues; an exhausted queue answers no / cancel.
// When gate is set, Confirm blocks until it is closed.
type scriptedPrompter struct {
	mu       sync.Mutex
	confirms []bool
	prompts  []string
	notices  []notice
	asked    int
	gate     chan struct{}
}

func (p *scriptedPrompter) Confirm(ctx context.Context, _, _ string) (bool, error) {
	p.mu.Lock()
	p.asked++
	gate := p.gate
	p.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.confirms) == 0 {
		return false, nil
	}
	ok := p.confirms[0]
	p.confirms = p.confirms[1:]
	return ok, nil
}

func (p *scriptedPrompter) Prompt(context.Context, string, string, string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.asked++
	if len(p.prompts) == 0 {
		return "", nil
	}
	v := p.prompts[0]
	p.prompts = p.prompts[1:]
	return v, nil
}

func (p *scriptedPrompter) Notify(_ context.Context, kind domain.NoticeKind, title, msg string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notices = append(p.notices, notice{kind, title, msg})
	return nil
}

func (p *scriptedPrompter) lastNotice() notice {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.notices) == 0 {
		return notice{}
	}
	return p.notices[len(p.notices)-1]
}

func (p *scriptedPrompter) askedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.asked
}

type memAudit struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func (m *memAudit) Record(_ context.Context, e domain.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *memAudit) Recent(_ context.Context, limit int) ([]domain.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.AuditEntry{}
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

func (m *memAudit) all() []domain.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.AuditEntry(nil), m.entries...)
}

func hotel(id string, st domain.Status) domain.HotelRegistration {
	return domain.HotelRegistration{
		ID:        domain.HotelID(id),
		Status:    st,
		HotelName: "Hotel " + id,
		City:      "Mumbai",
		Partner:   domain.Partner{OwnerName: "Owner " + id, Email: "owner" + id + "@example.com"},
	}
}
