package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ssh_admin/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func valTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}

// AuditRepo persists moderation actions to MySQL.
type AuditRepo struct{ db *sql.DB }

func New(db *sql.DB) *AuditRepo { return &AuditRepo{db: db} }

// Migrate creates the moderation_actions table when missing.
func (r *AuditRepo) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createModerationActionsSQL); err != nil {
		return fmt.Errorf("create moderation_actions: %w", err)
	}
	return nil
}

func (r *AuditRepo) Record(ctx context.Context, e domain.AuditEntry) error {
	_, err := r.db.ExecContext(ctx, insertActionSQL,
		e.HotelID.String(),
		string(e.Action),
		string(e.Outcome),
		valStr(e.Detail),
		valTime(e.CreatedAt),
	)
	return err
}

// Recent returns up to limit actions, newest first.
func (r *AuditRepo) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	return r.query(ctx, recentActionsSQL, limit)
}

func (r *AuditRepo) query(ctx context.Context, q string, args ...any) ([]domain.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.AuditEntry{}
	for rows.Next() {
		var (
			e      domain.AuditEntry
			hotel  string
			detail sql.NullString
		)
		if err := rows.Scan(&e.ID, &hotel, &e.Action, &e.Outcome, &detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.HotelID = domain.HotelID(hotel)
		if detail.Valid {
			e.Detail = detail.String
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

var _ domain.AuditLog = (*AuditRepo)(nil)
