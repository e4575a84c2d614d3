package domain

import (
	"context"
	"time"
)

// Backend is the partner platform's admin REST API.
type Backend interface {
	ListHotels(ctx context.Context, status Status) ([]HotelRegistration, error)
	UpdateStatus(ctx context.Context, id HotelID, upd StatusUpdate) error
	SendMessage(ctx context.Context, id HotelID, msg Message) error
	// ListRegistrations reads the public registrations feed.
	ListRegistrations(ctx context.Context, status Status) ([]HotelRegistration, error)
}

type NoticeKind string

const (
	NoticeInfo    NoticeKind = "info"
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeWarning NoticeKind = "warning"
)

// Prompter asks the operator something and waits for the answer.
type Prompter interface {
	Confirm(ctx context.Context, title, message string) (bool, error)
	// Prompt returns "" when the operator cancels.
	Prompt(ctx context.Context, title, message, defaultValue string) (string, error)
	Notify(ctx context.Context, kind NoticeKind, title, message string) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type AuditAction string

const (
	AuditApprove AuditAction = "approve"
	AuditReject  AuditAction = "reject"
	AuditMessage AuditAction = "message"
)

type AuditOutcome string

const (
	OutcomeDone      AuditOutcome = "done"
	OutcomeCancelled AuditOutcome = "cancelled"
	OutcomeInvalid   AuditOutcome = "invalid"
	OutcomeFailed    AuditOutcome = "failed"
)

// AuditEntry is one moderation action taken from the dashboard.
type AuditEntry struct {
	ID        int64        `json:"id"`
	HotelID   HotelID      `json:"hotelId"`
	Action    AuditAction  `json:"action"`
	Outcome   AuditOutcome `json:"outcome"`
	Detail    string       `json:"detail,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

type AuditLog interface {
	Record(ctx context.Context, e AuditEntry) error
	Recent(ctx context.Context, limit int) ([]AuditEntry, error)
}
