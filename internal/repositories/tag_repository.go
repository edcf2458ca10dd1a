package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tagvault/mediasearch/internal/models"
	"go.uber.org/zap"
)

type tagRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *sql.DB, logger *zap.Logger) *tagRepository {
	return &tagRepository{
		db:     db,
		logger: logger,
	}
}

// MatchAll retrieves references of media items carrying every one of the given tags
//
// Tags are compared case-insensitively. Extra tags on an item do not affect the match.
// Rows are ordered by type and id, but callers must not rely on that order.
func (r *tagRepository) MatchAll(ctx context.Context, tags []string) ([]models.MediaRef, error) {
	if len(tags) == 0 {
		return []models.MediaRef{}, nil
	}

	// Prepare the query for IN clause.
	// Placeholders are transformed into "?, ?, ?" string for slice insertion.
	distinct := make(map[string]struct{}, len(tags))
	placeholders := make([]string, len(tags))
	args := make([]any, 0, len(tags)+1)
	for i, tag := range tags {
		placeholders[i] = "?"
		args = append(args, tag)
		distinct[tag] = struct{}{}
	}
	// The HAVING clause compares against the number of distinct requested tags
	args = append(args, len(distinct))

	query := fmt.Sprintf(`
		SELECT mt.media_id, mt.media_type
		FROM media_tags mt
		JOIN tags t ON mt.tag_id = t.tag_id
		WHERE LOWER(t.tag_name) IN (%s)
		GROUP BY mt.media_id, mt.media_type
		HAVING COUNT(DISTINCT LOWER(t.tag_name)) = ?
		ORDER BY mt.media_type, mt.media_id
	`, strings.Join(placeholders, ","))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query media by tags", zap.Error(err), zap.Strings("tags", tags))
		return nil, fmt.Errorf("failed to query media by tags: %w", err)
	}
	defer rows.Close()

	refs := []models.MediaRef{}
	for rows.Next() {
		var ref models.MediaRef
		var mediaType string
		if err := rows.Scan(&ref.ID, &mediaType); err != nil {
			r.logger.Error("failed to scan media reference", zap.Error(err))
			return nil, fmt.Errorf("failed to scan media reference: %w", err)
		}
		ref.Type = models.MediaType(mediaType)
		refs = append(refs, ref)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return refs, nil
}
