package alert_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ssh_admin/internal/adapters/alert"
	"ssh_admin/internal/domain"
)

// waitModal polls until a modal is open.
func waitModal(t *testing.T, s *alert.Service) alert.Modal {
	t.Helper()
	var m alert.Modal
	require.Eventually(t, func() bool {
		var ok bool
		m, ok = s.Current()
		return ok
	}, time.Second, time.Millisecond)
	return m
}

func TestConfirm_ResolvesWithAnswer(t *testing.T) {
	s := alert.New(0)
	for _, answer := range []bool{true, false} {
		got := make(chan bool, 1)
		go func() {
			ok, err := s.Confirm(context.Background(), "", "Approve?")
			assert.NoError(t, err)
			got <- ok
		}()
		m := waitModal(t, s)
		assert.Equal(t, alert.KindConfirm, m.Kind)
		assert.Equal(t, "Confirm", m.Title)
		assert.False(t, m.Dismissible)
		require.NoError(t, s.Respond(m.ID, alert.Response{Confirmed: answer}))
		assert.Equal(t, answer, <-got)
	}
	_, open := s.Current()
	assert.False(t, open)
}

func TestPrompt_CancelGivesEmpty(t *testing.T) {
	s := alert.New(0)
	got := make(chan string, 2)
	go func() {
		v, _ := s.Prompt(context.Background(), "Reject Hotel", "Reason?", "")
		got <- v
		v, _ = s.Prompt(context.Background(), "Reject Hotel", "Reason?", "")
		got <- v
	}()

	m := waitModal(t, s)
	require.NoError(t, s.Respond(m.ID, alert.Response{Confirmed: false, Value: "typed then cancelled"}))
	assert.Equal(t, "", <-got)

	m = waitModal(t, s)
	require.NoError(t, s.Respond(m.ID, alert.Response{Confirmed: true, Value: "blurry photos"}))
	assert.Equal(t, "blurry photos", <-got)
}

func TestSingleSlot_SecondCallerWaits(t *testing.T) {
	s := alert.New(0)
	first := make(chan error, 1)
	second := make(chan error, 1)

	go func() { first <- s.Notify(context.Background(), domain.NoticeInfo, "one", "first") }()
	m1 := waitModal(t, s)
	go func() { second <- s.Notify(context.Background(), domain.NoticeWarning, "two", "second") }()

	// the second modal must not replace the first
	time.Sleep(20 * time.Millisecond)
	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, m1.ID, cur.ID)

	require.NoError(t, s.Respond(m1.ID, alert.Response{}))
	require.NoError(t, <-first)

	var m2 alert.Modal
	require.Eventually(t, func() bool {
		var ok bool
		m2, ok = s.Current()
		return ok && m2.ID != m1.ID
	}, time.Second, time.Millisecond)
	assert.Equal(t, "second", m2.Message)
	require.NoError(t, s.Respond(m2.ID, alert.Response{}))
	require.NoError(t, <-second)
}

func TestDismiss_OnlyWithoutCancel(t *testing.T) {
	s := alert.New(0)
	done := make(chan bool, 1)
	go func() {
		ok, _ := s.Confirm(context.Background(), "Confirm", "sure?")
		done <- ok
	}()
	m := waitModal(t, s)
	assert.ErrorIs(t, s.Dismiss(m.ID), alert.ErrDismissDisabled)
	require.NoError(t, s.Respond(m.ID, alert.Response{Confirmed: false}))
	assert.False(t, <-done)

	notified := make(chan error, 1)
	go func() { notified <- s.Notify(context.Background(), domain.NoticeSuccess, "Success", "ok") }()
	m = waitModal(t, s)
	assert.True(t, m.Dismissible)
	require.NoError(t, s.Dismiss(m.ID))
	require.NoError(t, <-notified)
}

func TestRespond_UnknownModal(t *testing.T) {
	s := alert.New(0)
	assert.ErrorIs(t, s.Respond("nope", alert.Response{}), alert.ErrNoModal)
	assert.ErrorIs(t, s.Dismiss("nope"), alert.ErrNoModal)
}

func TestTimeout_ClosesModal(t *testing.T) {
	s := alert.New(30 * time.Millisecond)
	ok, err := s.Confirm(context.Background(), "Confirm", "nobody answers")
	assert.False(t, ok)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	_, open := s.Current()
	assert.False(t, open)
}
