package app_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ssh_admin/internal/app"
	"ssh_admin/internal/domain"
)

type harness struct {
	backend   *fakeBackend
	prompt    *scriptedPrompter
	store     *app.RegistrationStore
	view      *app.ViewState
	audit     *memAudit
	wf        *app.Workflow
	decisions *atomic.Int32
}

func newHarness(t *testing.T, hs ...domain.HotelRegistration) *harness {
	t.Helper()
	h := &harness{
		backend:   newFakeBackend(hs...),
		prompt:    &scriptedPrompter{},
		view:      app.NewViewState(app.DefaultAdminEmail),
		audit:     &memAudit{},
		decisions: &atomic.Int32{},
	}
	h.store = app.NewRegistrationStore(h.backend)
	h.wf = app.NewWorkflow(h.store, h.backend, h.prompt, h.audit, h.view, app.WorkflowConfig{
		RequestTimeout: time.Second,
		OnDecision:     func(context.Context) { h.decisions.Add(1) },
	})
	require.NoError(t, h.store.LoadAll(context.Background()))
	return h
}

func ids(hs []domain.HotelRegistration) []domain.HotelID {
	out := make([]domain.HotelID, 0, len(hs))
	for _, h := range hs {
		out = append(out, h.ID)
	}
	return out
}

func TestApprove_SuccessReconcilesAndNotifies(t *testing.T) {
	h := newHarness(t, hotel("42", domain.StatusPending), hotel("43", domain.StatusPending))
	h.prompt.confirms = []bool{true}
	h.view.Select("42")
	reg, _ := h.store.Find("42")

	out, err := h.wf.Approve(context.Background(), reg)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeDone, out.Result)

	require.Len(t, h.backend.updates, 1)
	assert.Equal(t, domain.StatusUpdate{Status: domain.StatusApproved}, h.backend.updates[0])

	assert.NotContains(t, ids(h.store.List(domain.StatusPending)), domain.HotelID("42"))
	assert.Equal(t, []domain.HotelID{"42"}, ids(h.store.List(domain.StatusApproved)))
	assert.NotContains(t, ids(h.store.List(domain.StatusRejected)), domain.HotelID("42"))

	n := h.prompt.lastNotice()
	assert.Equal(t, domain.NoticeSuccess, n.Kind)
	assert.Contains(t, n.Message, "owner42@example.com")
	assert.False(t, h.view.Snapshot().DetailOpen)
	assert.EqualValues(t, 1, h.decisions.Load())

	entries := h.audit.all()
	require.Len(t, entries, 1)
	assert.Equal(t, domain.AuditApprove, entries[0].Action)
	assert.Equal(t, domain.OutcomeDone, entries[0].Outcome)
}

func TestApprove_BackendRefusalKeepsHotelPending(t *testing.T) {
	h := newHarness(t, hotel("42", domain.StatusPending))
	h.prompt.confirms = []bool{true}
	h.backend.writeErr = &domain.BackendError{StatusCode: 200, Message: "Hotel already processed"}
	reg, _ := h.store.Find("42")

	out, err := h.wf.Approve(context.Background(), reg)
	var be *domain.BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, domain.OutcomeFailed, out.Result)

	got, _ := h.store.Find("42")
	assert.Equal(t, domain.StatusPending, got.Status)
	n := h.prompt.lastNotice()
	assert.Equal(t, domain.NoticeError, n.Kind)
	assert.Contains(t, n.Message, "already processed")
	assert.Zero(t, h.decisions.Load())
}

func TestApprove_DeclinedSendsNothing(t *testing.T) {
	h := newHarness(t, hotel("42", domain.StatusPending))
	reg, _ := h.store.Find("42")

	out, err := h.wf.Approve(context.Background(), reg)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCancelled, out.Result)
	assert.Zero(t, h.backend.writes())
	assert.Empty(t, h.audit.all(), "cancelled actions are not audited")
}

func TestReject_BlankReasonNeverCallsBackend(t *testing.T) {
	for _, reason := range []string{"", "   ", "\t\n"} {
		h := newHarness(t, hotel("42", domain.StatusPending))
		h.prompt.prompts = []string{reason}
		h.prompt.confirms = []bool{true}
		reg, _ := h.store.Find("42")

		out, err := h.wf.Reject(context.Background(), reg)
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, domain.OutcomeInvalid, out.Result)
		assert.Zero(t, h.backend.writes())
		assert.Equal(t, domain.NoticeWarning, h.prompt.lastNotice().Kind)
		assert.Equal(t, "Rejection cancelled. Reason is required.", h.prompt.lastNotice().Message)
	}
}

func TestReject_SendsTrimmedReason(t *testing.T) {
	h := newHarness(t, hotel("42", domain.StatusPending))
	h.prompt.prompts = []string{"  blurry photos  "}
	h.prompt.confirms = []bool{true}
	reg, _ := h.store.Find("42")

	_, err := h.wf.Reject(context.Background(), reg)
	require.NoError(t, err)
	require.Len(t, h.backend.updates, 1)
	assert.Equal(t, domain.StatusUpdate{Status: domain.StatusRejected, Reason: "blurry photos"}, h.backend.updates[0])

	got, ok := h.store.Find("42")
	require.True(t, ok)
	assert.Equal(t, domain.StatusRejected, got.Status)
	assert.Equal(t, 1, h.store.RecordCount(domain.StatusRejected))
	assert.Equal(t, 0, h.store.RecordCount(domain.StatusPending))
}

func TestWorkflow_SecondActionWhileInFlight(t *testing.T) {
	h := newHarness(t, hotel("42", domain.StatusPending))
	h.prompt.gate = make(chan struct{})
	h.prompt.confirms = []bool{true}
	reg, _ := h.store.Find("42")

	done := make(chan error, 1)
	go func() {
		_, err := h.wf.Approve(context.Background(), reg)
		done <- err
	}()
	require.Eventually(t, func() bool { return h.wf.InFlight("42") }, time.Second, 5*time.Millisecond)

	_, err := h.wf.Reject(context.Background(), reg)
	assert.ErrorIs(t, err, domain.ErrInFlight)
	_, err = h.wf.Approve(context.Background(), reg)
	assert.ErrorIs(t, err, domain.ErrInFlight)
	assert.Equal(t, 1, h.prompt.askedCount(), "guarded calls must not prompt")

	close(h.prompt.gate)
	require.NoError(t, <-done)
	assert.False(t, h.wf.InFlight("42"))
	assert.Len(t, h.backend.updates, 1)
}

func TestSendMessage_RequiresSubjectAndBody(t *testing.T) {
	h := newHarness(t, hotel("42", domain.StatusApproved))
	reg, _ := h.store.Find("42")

	for _, f := range []app.MessageForm{{Subject: "hi"}, {Message: "body"}, {Subject: " ", Message: " "}} {
		out, err := h.wf.SendMessage(context.Background(), reg, f)
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, domain.OutcomeInvalid, out.Result)
		assert.Equal(t, "Please fill in both subject and message", h.prompt.lastNotice().Message)
	}
	assert.Zero(t, h.backend.writes())
}

func TestSendMessage_DefaultsReplyToAndKeepsStatus(t *testing.T) {
	h := newHarness(t, hotel("42", domain.StatusPending))
	h.prompt.confirms = []bool{true}
	reg, _ := h.store.Find("42")
	form := h.view.OpenMessage(reg)
	assert.Equal(t, "Important Update: Hotel 42", form.Subject)
	form.Message = "Please upload washroom photos."
	form.AdminEmail = ""

	_, err := h.wf.SendMessage(context.Background(), reg, form)
	require.NoError(t, err)
	require.Len(t, h.backend.messages, 1)
	assert.Equal(t, app.DefaultAdminEmail, h.backend.messages[0].AdminEmail)
	assert.Empty(t, h.backend.updates)

	got, _ := h.store.Find("42")
	assert.Equal(t, domain.StatusPending, got.Status)
	n := h.prompt.lastNotice()
	assert.Contains(t, n.Message, "owner42@example.com")
	assert.Contains(t, n.Message, app.DefaultAdminEmail)
	assert.False(t, h.view.Snapshot().MessageModalOpen)
}

func TestSendMessage_FailureShowsServerMessage(t *testing.T) {
	h := newHarness(t, hotel("42", domain.StatusPending))
	h.prompt.confirms = []bool{true}
	h.backend.writeErr = &domain.NetworkError{Op: "send message", Err: errors.New("dial tcp: connection refused"), Retryable: true}
	reg, _ := h.store.Find("42")

	out, err := h.wf.SendMessage(context.Background(), reg, app.MessageForm{Subject: "s", Message: "m"})
	require.Error(t, err)
	assert.Equal(t, domain.OutcomeFailed, out.Result)
	n := h.prompt.lastNotice()
	assert.Equal(t, domain.NoticeError, n.Kind)
	assert.Contains(t, n.Message, "Please check if the backend server is running.")
}
