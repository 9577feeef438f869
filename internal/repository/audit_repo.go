package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"go-storefront/internal/model"
)

type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) Create(ctx context.Context, record model.AuditRecord) error {
	var detailsJSON []byte
	if record.Details != nil {
		var err error
		detailsJSON, err = json.Marshal(record.Details)
		if err != nil {
			return fmt.Errorf("marshal audit details: %w", err)
		}
	}

	var entityID *string
	if record.EntityID != "" {
		entityID = &record.EntityID
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_logs (user_id, action, entity, entity_id, details)
		 VALUES ($1, $2, $3, $4, $5)`,
		record.UserID, record.Action, record.Entity, entityID, detailsJSON)
	if err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

// List returns the newest entries first, each with the acting user's
// current username when that user still exists.
func (r *AuditRepository) List(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.user_id, a.action, a.entity, a.entity_id, a.details, a.created_at,
		        u.username AS admin_name
		 FROM audit_logs a
		 LEFT JOIN users u ON u.id = a.user_id
		 ORDER BY a.created_at DESC, a.id DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit logs: %w", err)
	}
	defer rows.Close()

	entries := make([]model.AuditEntry, 0)
	for rows.Next() {
		var e model.AuditEntry
		var detailsJSON []byte

		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Action, &e.Entity, &e.EntityID, &detailsJSON, &e.CreatedAt, &e.AdminName,
		); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}

		if len(detailsJSON) > 0 {
			if jsonErr := json.Unmarshal(detailsJSON, &e.Details); jsonErr != nil {
				return nil, fmt.Errorf("decode audit details %d: %w", e.ID, jsonErr)
			}
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}
