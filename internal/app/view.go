package app

import (
	"fmt"
	"sync"

	"ssh_admin/internal/domain"
)

// Page is a sidebar entry.
type Page string

const (
	PageOverview      Page = "overview"
	PageHotelApproval Page = "hotel-approval"
	PageAnalytics     Page = "analytics"
	PageCommission    Page = "commission"
	PageUserSupport   Page = "user-support"
	PageMarketing     Page = "marketing"
)

var Pages = []Page{PageOverview, PageHotelApproval, PageAnalytics, PageCommission, PageUserSupport, PageMarketing}

// ParsePage maps unknown names to the overview, like the sidebar does.
func ParsePage(s string) Page {
	for _, p := range Pages {
		if string(p) == s {
			return p
		}
	}
	return PageOverview
}

// MessageForm is the partner-message modal's form.
type MessageForm struct {
	Subject    string `json:"subject"`
	Message    string `json:"message"`
	AdminEmail string `json:"adminEmail"`
}

// ViewSnapshot is a point-in-time copy of ViewState.
type ViewSnapshot struct {
	Page             Page           `json:"page"`
	ActiveTab        domain.Status  `json:"activeTab"`
	SelectedHotelID  domain.HotelID `json:"selectedHotelId,omitempty"`
	DetailOpen       bool           `json:"detailOpen"`
	MessageModalOpen bool           `json:"messageModalOpen"`
	MessageForm      MessageForm    `json:"messageForm"`
}

// ViewState is the dashboard's UI state: current page, approval tab, the
// hotel under review and the message modal.
type ViewState struct {
	adminEmail string

	mu   sync.Mutex
	snap ViewSnapshot
}

func NewViewState(adminEmail string) *ViewState {
	return &ViewState{
		adminEmail: adminEmail,
		snap: ViewSnapshot{
			Page:        PageOverview,
			ActiveTab:   domain.StatusPending,
			MessageForm: MessageForm{AdminEmail: adminEmail},
		},
	}
}

func (v *ViewState) Snapshot() ViewSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snap
}

func (v *ViewState) SetPage(p Page) {
	v.mu.Lock()
	v.snap.Page = p
	v.mu.Unlock()
}

func (v *ViewState) SetTab(st domain.Status) error {
	if !st.Valid() {
		return &domain.ValidationError{Field: "tab", Reason: fmt.Sprintf("unknown tab %q", st)}
	}
	v.mu.Lock()
	v.snap.ActiveTab = st
	v.mu.Unlock()
	return nil
}

// Select opens the detail view for id.
func (v *ViewState) Select(id domain.HotelID) {
	v.mu.Lock()
	v.snap.SelectedHotelID = id
	v.snap.DetailOpen = true
	v.mu.Unlock()
}

// CloseDetail closes the detail view and forgets the selection.
func (v *ViewState) CloseDetail() {
	v.mu.Lock()
	v.snap.DetailOpen = false
	if !v.snap.MessageModalOpen {
		v.snap.SelectedHotelID = ""
	}
	v.mu.Unlock()
}

// OpenMessage selects h and pre-fills the message form.
func (v *ViewState) OpenMessage(h domain.HotelRegistration) MessageForm {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.snap.SelectedHotelID = h.ID
	v.snap.DetailOpen = false
	v.snap.MessageModalOpen = true
	v.snap.MessageForm = MessageForm{
		Subject:    "Important Update: " + h.HotelName,
		AdminEmail: v.adminEmail,
	}
	return v.snap.MessageForm
}

// CloseMessage closes the message modal and resets its form.
func (v *ViewState) CloseMessage() {
	v.mu.Lock()
	v.snap.MessageModalOpen = false
	v.snap.MessageForm = MessageForm{AdminEmail: v.adminEmail}
	if !v.snap.DetailOpen {
		v.snap.SelectedHotelID = ""
	}
	v.mu.Unlock()
}
