package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tagvault/mediasearch/internal/models"
	"go.uber.org/zap"
)

// mediaQuery holds the fixed queries for one catalog table
type mediaQuery struct {
	table        string
	idColumn     string
	metricColumn string
	detailQuery  string
	titleQuery   string
}

// mediaQueries maps every media type to its table. Table and column names only ever come from here.
var mediaQueries = buildMediaQueries()

func buildMediaQueries() map[models.MediaType]mediaQuery {
	shapes := []mediaQuery{
		{table: "images", idColumn: "image_id", metricColumn: "resolution"},
		{table: "audio", idColumn: "audio_id", metricColumn: "duration"},
		{table: "videos", idColumn: "video_id", metricColumn: "duration"},
	}

	queries := make(map[models.MediaType]mediaQuery, len(models.MediaTypes))
	for i, mediaType := range models.MediaTypes {
		q := shapes[i]
		q.detailQuery = fmt.Sprintf(`SELECT title, file_path, %s FROM %s WHERE %s = ?`, q.metricColumn, q.table, q.idColumn)
		q.titleQuery = fmt.Sprintf(`SELECT title FROM %s WHERE %s = ?`, q.table, q.idColumn)
		queries[mediaType] = q
	}
	return queries
}

type mediaRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMediaRepository creates a new media repository
func NewMediaRepository(db *sql.DB, logger *zap.Logger) *mediaRepository {
	return &mediaRepository{
		db:     db,
		logger: logger,
	}
}

// GetByRef retrieves title, relative file path and the type-specific metric of a media item
//
// The returned item has no absolute path; path resolution is the caller's concern.
func (r *mediaRepository) GetByRef(ctx context.Context, ref models.MediaRef) (*models.MediaItem, error) {
	q, ok := mediaQueries[ref.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownMediaType, ref.Type)
	}

	item := &models.MediaItem{ID: ref.ID, Type: ref.Type}
	var metric sql.NullString
	err := r.db.QueryRowContext(ctx, q.detailQuery, ref.ID).Scan(&item.Title, &item.FilePath, &metric)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrMediaNotFound
	}
	if err != nil {
		r.logger.Error("failed to query media details", zap.Error(err),
			zap.Int("media_id", ref.ID), zap.String("media_type", string(ref.Type)))
		return nil, fmt.Errorf("failed to query %s %d: %w", ref.Type, ref.ID, err)
	}

	if ref.Type == models.MediaTypeImage {
		item.Resolution = metric.String
	} else {
		item.Duration = metric.String
	}

	return item, nil
}

// GetTitle retrieves only the title of a media item
func (r *mediaRepository) GetTitle(ctx context.Context, ref models.MediaRef) (string, error) {
	q, ok := mediaQueries[ref.Type]
	if !ok {
		return "", fmt.Errorf("%w: %q", models.ErrUnknownMediaType, ref.Type)
	}

	var title string
	err := r.db.QueryRowContext(ctx, q.titleQuery, ref.ID).Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return "", models.ErrMediaNotFound
	}
	if err != nil {
		r.logger.Error("failed to query media title", zap.Error(err),
			zap.Int("media_id", ref.ID), zap.String("media_type", string(ref.Type)))
		return "", fmt.Errorf("failed to query title of %s %d: %w", ref.Type, ref.ID, err)
	}

	return title, nil
}
