package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tagvault/mediasearch/internal/models"
	"go.uber.org/zap"
)

type viewHistoryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewViewHistoryRepository creates a new view history repository
func NewViewHistoryRepository(db *sql.DB, logger *zap.Logger) *viewHistoryRepository {
	return &viewHistoryRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends a view history row. View time is assigned by the database.
func (r *viewHistoryRepository) Create(ctx context.Context, userID int, ref models.MediaRef) error {
	query := `
		INSERT INTO view_history (user_id, media_id, media_type)
		VALUES (?, ?, ?)
	`

	if _, err := r.db.ExecContext(ctx, query, userID, ref.ID, string(ref.Type)); err != nil {
		r.logger.Error("failed to log view history", zap.Error(err),
			zap.Int("user_id", userID), zap.Int("media_id", ref.ID), zap.String("media_type", string(ref.Type)))
		return fmt.Errorf("failed to log view history: %w", err)
	}

	return nil
}

// GetRecentByUserID retrieves the most recent view history rows of a user, newest first
func (r *viewHistoryRepository) GetRecentByUserID(ctx context.Context, userID int, limit int) ([]models.ViewHistoryEntry, error) {
	query := `
		SELECT history_id, media_id, media_type, view_time
		FROM view_history
		WHERE user_id = ?
		ORDER BY view_time DESC, history_id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		r.logger.Error("failed to query view history", zap.Error(err), zap.Int("user_id", userID))
		return nil, fmt.Errorf("failed to query view history: %w", err)
	}
	defer rows.Close()

	entries := []models.ViewHistoryEntry{}
	for rows.Next() {
		entry := models.ViewHistoryEntry{UserID: userID}
		var mediaType string
		if err := rows.Scan(&entry.ID, &entry.Ref.ID, &mediaType, &entry.ViewTime); err != nil {
			r.logger.Error("failed to scan view history", zap.Error(err))
			return nil, fmt.Errorf("failed to scan view history: %w", err)
		}
		entry.Ref.Type = models.MediaType(mediaType)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return entries, nil
}
