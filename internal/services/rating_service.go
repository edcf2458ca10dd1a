package services

import (
	"context"
	"math"

	"github.com/tagvault/mediasearch/internal/models"
	"go.uber.org/zap"
)

// RatingRepository is the interface that wraps methods for MediaRating table data access
type RatingRepository interface {
	// Method Upsert inserts a rating or overwrites the existing value for the same user and media item.
	//
	// If some error occurs during the write, the error will be returned.
	Upsert(ctx context.Context, rating models.Rating) error
	// Method GetAverage retrieves the mean rating and the number of ratings of a media item.
	//
	// A zero count means the item has not been rated and the average is meaningless.
	GetAverage(ctx context.Context, ref models.MediaRef) (float64, int, error)
}

type ratingService struct {
	repo   RatingRepository
	logger *zap.Logger
}

// NewRatingService creates a new rating aggregation service
func NewRatingService(repo RatingRepository, logger *zap.Logger) *ratingService {
	return &ratingService{
		repo:   repo,
		logger: logger,
	}
}

// Average computes the mean rating of a media item, rounded to one decimal
//
// Items without ratings get RatingNone. A store failure gets RatingUnavailable.
func (s *ratingService) Average(ctx context.Context, ref models.MediaRef) models.AverageRating {
	avg, count, err := s.repo.GetAverage(ctx, ref)
	if err != nil {
		s.logger.Warn("average rating unavailable", zap.Error(err),
			zap.Int("media_id", ref.ID), zap.String("media_type", string(ref.Type)))
		return models.AverageRating{Status: models.RatingUnavailable}
	}

	if count == 0 {
		return models.AverageRating{Status: models.RatingNone}
	}

	return models.AverageRating{
		Status: models.RatingAvailable,
		Value:  math.Round(avg*10) / 10,
		Count:  count,
	}
}
