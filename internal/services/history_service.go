package services

import (
	"context"
	"fmt"

	"github.com/tagvault/mediasearch/internal/models"
	"go.uber.org/zap"
)

// ViewHistoryRepository is the interface that wraps methods for ViewHistory table data access
type ViewHistoryRepository interface {
	// Method Create appends a view history row; view time is assigned by the store.
	//
	// If some error occurs during insert, the error will be returned.
	Create(ctx context.Context, userID int, ref models.MediaRef) error
	// Method GetRecentByUserID retrieves at most "limit" history rows of a user, newest first.
	//
	// If some error occurs during data retrieve, the error will be returned together with "nil" value.
	GetRecentByUserID(ctx context.Context, userID int, limit int) ([]models.ViewHistoryEntry, error)
}

type historyService struct {
	historyRepo ViewHistoryRepository
	mediaRepo   MediaRepository
	logger      *zap.Logger
}

// NewHistoryService creates a new history reporting service
func NewHistoryService(historyRepo ViewHistoryRepository, mediaRepo MediaRepository, logger *zap.Logger) *historyService {
	return &historyService{
		historyRepo: historyRepo,
		mediaRepo:   mediaRepo,
		logger:      logger,
	}
}

// History returns the most recent views of a user with their titles, newest first
//
// Titles are looked up once per media item within a call. A failed lookup is replaced by models.UnknownTitle.
func (s *historyService) History(ctx context.Context, userID int) ([]models.HistoryItem, error) {
	entries, err := s.historyRepo.GetRecentByUserID(ctx, userID, models.HistoryLimit)
	if err != nil {
		s.logger.Error("failed to fetch history", zap.Error(err), zap.Int("user_id", userID))
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}

	titles := make(map[models.MediaRef]string)
	items := make([]models.HistoryItem, 0, len(entries))
	for _, entry := range entries {
		title, ok := titles[entry.Ref]
		if !ok {
			title = s.lookupTitle(ctx, entry.Ref)
			titles[entry.Ref] = title
		}
		items = append(items, models.HistoryItem{
			Ref:      entry.Ref,
			ViewTime: entry.ViewTime,
			Title:    title,
		})
	}

	return items, nil
}

func (s *historyService) lookupTitle(ctx context.Context, ref models.MediaRef) string {
	if !ref.Type.IsValid() {
		return models.UnknownTitle
	}
	title, err := s.mediaRepo.GetTitle(ctx, ref)
	if err != nil {
		s.logger.Warn("failed to look up history title", zap.Error(err),
			zap.Int("media_id", ref.ID), zap.String("media_type", string(ref.Type)))
		return models.UnknownTitle
	}
	return title
}
