package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresResolutionRepository keeps one row per resolved id. Save
// only inserts; ids are never unresolved, so deletes are not needed.
type PostgresResolutionRepository struct {
	db *sql.DB
}

func NewPostgresResolutionRepository(db *sql.DB) *PostgresResolutionRepository {
	return &PostgresResolutionRepository{db: db}
}

// Load retrieves every resolved alert id.
func (r *PostgresResolutionRepository) Load(ctx context.Context) ([]string, error) {
	query := `SELECT alert_id FROM resolved_alerts ORDER BY resolved_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load resolved ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan resolved id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate resolved ids: %w", err)
	}
	return ids, nil
}

// Save upserts the full set. Existing rows keep their original
// resolved_at so re-saving is observably a no-op.
func (r *PostgresResolutionRepository) Save(ctx context.Context, ids []string) error {
	query := `
		INSERT INTO resolved_alerts (alert_id, resolved_at)
		VALUES ($1, NOW())
		ON CONFLICT (alert_id) DO NOTHING
	`
	for _, id := range ids {
		if _, err := r.db.ExecContext(ctx, query, id); err != nil {
			return fmt.Errorf("failed to save resolved id %s: %w", id, err)
		}
	}
	return nil
}
