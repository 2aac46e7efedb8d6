package repo

import (
	"context"
	"database/sql"

	"github.com/crucial707/blog-api/internal/models"
	"github.com/google/uuid"
)

// AuditRepo persists audit log entries.
type AuditRepo struct {
	db *sql.DB
}

// NewAuditRepo returns a new AuditRepo.
func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// Log records an audit entry. action is create|update|delete; resourceType is user|post.
func (r *AuditRepo) Log(ctx context.Context, userID uuid.UUID, action, resourceType string, resourceID uuid.UUID, details string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (user_id, action, resource_type, resource_id, details) VALUES ($1, $2, $3, $4, $5)`,
		userID, action, resourceType, resourceID, details,
	)
	if err != nil {
		return wrapErr("insert audit entry", err)
	}
	return nil
}

// ListByUser returns the entries recorded for userID, newest first.
func (r *AuditRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, action, resource_type, resource_id, COALESCE(details,''), created_at FROM audit_log WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, wrapErr("list audit entries", err)
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.ResourceType, &e.ResourceID, &e.Details, &e.CreatedAt); err != nil {
			return nil, wrapErr("scan audit entry", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
