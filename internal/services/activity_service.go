package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tagvault/mediasearch/internal/models"
	"go.uber.org/zap"
)

// skipRatingInput is the literal that bypasses rating submission
const skipRatingInput = "skip"

type activityService struct {
	historyRepo ViewHistoryRepository
	ratingRepo  RatingRepository
	logger      *zap.Logger
}

// NewActivityService creates a new service recording views and ratings
func NewActivityService(historyRepo ViewHistoryRepository, ratingRepo RatingRepository, logger *zap.Logger) *activityService {
	return &activityService{
		historyRepo: historyRepo,
		ratingRepo:  ratingRepo,
		logger:      logger,
	}
}

// RecordView appends a view history row for the user
//
// Failures are logged and returned, but callers displaying media are expected to carry on.
func (s *activityService) RecordView(ctx context.Context, userID int, ref models.MediaRef) error {
	if err := s.historyRepo.Create(ctx, userID, ref); err != nil {
		s.logger.Warn("failed to log view history", zap.Error(err),
			zap.Int("user_id", userID), zap.Int("media_id", ref.ID), zap.String("media_type", string(ref.Type)))
		return fmt.Errorf("failed to log view history: %w", err)
	}
	return nil
}

// SubmitRating validates a rating and stores it, replacing any previous rating of the same item by the user
func (s *activityService) SubmitRating(ctx context.Context, userID int, ref models.MediaRef, value int) error {
	if err := ValidateRating(value); err != nil {
		return err
	}
	if !ref.Type.IsValid() {
		return fmt.Errorf("%w: %q", models.ErrUnknownMediaType, ref.Type)
	}

	rating := models.Rating{UserID: userID, Ref: ref, Value: value}
	if err := s.ratingRepo.Upsert(ctx, rating); err != nil {
		return fmt.Errorf("failed to submit rating: %w", err)
	}

	s.logger.Debug("rating saved", zap.Int("user_id", userID),
		zap.Int("media_id", ref.ID), zap.String("media_type", string(ref.Type)), zap.Int("rating", value))
	return nil
}

// ValidateRating checks that value lies within the allowed rating range
func ValidateRating(value int) error {
	if value < models.MinRating || value > models.MaxRating {
		return fmt.Errorf("%w: got %d", ErrInvalidRating, value)
	}
	return nil
}

// ParseRatingInput interprets user input for a rating prompt
//
// "skip" (any case) returns skip=true and no error. Otherwise the input must be an integer in 1..5.
func ParseRatingInput(input string) (value int, skip bool, err error) {
	input = strings.TrimSpace(input)
	if strings.EqualFold(input, skipRatingInput) {
		return 0, true, nil
	}

	value, err = strconv.Atoi(input)
	if err != nil {
		return 0, false, ErrInvalidRatingInput
	}
	if err := ValidateRating(value); err != nil {
		return 0, false, err
	}
	return value, false, nil
}
