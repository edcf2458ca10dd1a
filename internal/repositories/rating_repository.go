package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tagvault/mediasearch/internal/models"
	"go.uber.org/zap"
)

type ratingRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRatingRepository creates a new rating repository
func NewRatingRepository(db *sql.DB, logger *zap.Logger) *ratingRepository {
	return &ratingRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts a rating or overwrites the value of an existing one for the same user and media item
//
// This is a single statement keyed on the (user_id, media_id, media_type) primary key.
func (r *ratingRepository) Upsert(ctx context.Context, rating models.Rating) error {
	query := `
		INSERT INTO media_ratings (user_id, media_id, media_type, rating_value)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE rating_value = VALUES(rating_value)
	`

	_, err := r.db.ExecContext(ctx, query, rating.UserID, rating.Ref.ID, string(rating.Ref.Type), rating.Value)
	if err != nil {
		r.logger.Error("failed to upsert rating", zap.Error(err),
			zap.Int("user_id", rating.UserID), zap.Int("media_id", rating.Ref.ID), zap.String("media_type", string(rating.Ref.Type)))
		return fmt.Errorf("failed to upsert rating: %w", err)
	}

	return nil
}

// GetAverage retrieves the mean rating and the number of ratings of a media item
//
// The average is only valid when count is greater than zero.
func (r *ratingRepository) GetAverage(ctx context.Context, ref models.MediaRef) (float64, int, error) {
	query := `
		SELECT AVG(rating_value), COUNT(*)
		FROM media_ratings
		WHERE media_id = ? AND media_type = ?
	`

	var avg sql.NullFloat64
	var count int
	err := r.db.QueryRowContext(ctx, query, ref.ID, string(ref.Type)).Scan(&avg, &count)
	if err != nil {
		r.logger.Error("failed to query average rating", zap.Error(err),
			zap.Int("media_id", ref.ID), zap.String("media_type", string(ref.Type)))
		return 0, 0, fmt.Errorf("failed to query average rating: %w", err)
	}

	if !avg.Valid {
		return 0, 0, nil
	}
	return avg.Float64, count, nil
}
