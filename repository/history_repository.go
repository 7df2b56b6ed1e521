package repository

import (
	"context"
	"errors"

	"legalinsight-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a row does not exist or belongs to someone else
var ErrNotFound = errors.New("record not found")

// HistoryRepository handles database operations for query history
type HistoryRepository struct {
	db *pgxpool.Pool
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Create inserts a history item and fills in its id and timestamp
func (r *HistoryRepository) Create(ctx context.Context, item *models.QueryHistoryItem) error {
	query := `
		INSERT INTO query_history (user_id, query, results)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	return r.db.QueryRow(
		ctx, query,
		item.UserID,
		item.Query,
		item.Results,
	).Scan(&item.ID, &item.CreatedAt)
}

// ListByUserID returns a user's history, newest first
func (r *HistoryRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]*models.QueryHistoryItem, error) {
	query := `
		SELECT id, user_id, query, results, created_at
		FROM query_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*models.QueryHistoryItem, 0)
	for rows.Next() {
		item := &models.QueryHistoryItem{}
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.Query,
			&item.Results,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// Delete removes one history item owned by userID
func (r *HistoryRepository) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	query := `DELETE FROM query_history WHERE id = $1 AND user_id = $2`
	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
