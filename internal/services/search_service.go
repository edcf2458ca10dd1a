package services

import (
	"context"
	"errors"

	"github.com/tagvault/mediasearch/internal/models"
	"go.uber.org/zap"
)

// TagMatcher is the interface that wraps the tag intersection lookup
type TagMatcher interface {
	// Method Match returns references of media items carrying every tag.
	//
	// An empty tag set gives ErrNoTags. A store failure gives an empty slice and an error wrapping ErrSearchFailed.
	Match(ctx context.Context, tags []string) ([]models.MediaRef, error)
}

// MediaResolver is the interface that wraps media detail lookup
type MediaResolver interface {
	// Method Resolve loads a media item with its absolute path.
	//
	// Unknown types give models.ErrUnknownMediaType, missing rows give models.ErrMediaNotFound.
	Resolve(ctx context.Context, ref models.MediaRef) (*models.MediaItem, error)
}

// RatingAggregator is the interface that wraps average rating computation
type RatingAggregator interface {
	// Method Average never fails; failures are folded into models.RatingUnavailable.
	Average(ctx context.Context, ref models.MediaRef) models.AverageRating
}

// ActivityRecorder is the interface that wraps view and rating writes
type ActivityRecorder interface {
	// Method RecordView appends a view history entry.
	RecordView(ctx context.Context, userID int, ref models.MediaRef) error
	// Method SubmitRating validates and upserts a rating.
	//
	// Values outside 1..5 give ErrInvalidRating and nothing is written.
	SubmitRating(ctx context.Context, userID int, ref models.MediaRef, value int) error
}

// ResultSink receives the events of a search, in order, for each resolved media item
type ResultSink interface {
	// ItemFailed is called when a matched item could not be loaded because of a store failure.
	ItemFailed(ref models.MediaRef, err error)
	// Display presents a resolved item together with its average rating.
	Display(item *models.MediaItem, rating models.AverageRating)
	// RequestRating asks for a rating of the item. ok is false when the user skips.
	RequestRating(item *models.MediaItem) (value int, ok bool)
	// RatingSubmitted reports the outcome of saving a rating.
	RatingSubmitted(item *models.MediaItem, value int, err error)
}

type searchService struct {
	matcher  TagMatcher
	resolver MediaResolver
	ratings  RatingAggregator
	activity ActivityRecorder
	logger   *zap.Logger
}

// NewSearchService creates the search pipeline tying matching, resolving, rating and activity logging together
func NewSearchService(matcher TagMatcher, resolver MediaResolver, ratings RatingAggregator, activity ActivityRecorder, logger *zap.Logger) *searchService {
	return &searchService{
		matcher:  matcher,
		resolver: resolver,
		ratings:  ratings,
		activity: activity,
		logger:   logger,
	}
}

// Search finds media carrying all tags and walks every match through the sink
//
// For each resolved item the view is logged first, then the average is computed,
// then the item is displayed and finally a rating is requested.
// Items are processed one at a time. The number of resolved items is returned;
// zero resolved items gives ErrNoResults.
func (s *searchService) Search(ctx context.Context, userID int, tags []string, sink ResultSink) (int, error) {
	refs, err := s.matcher.Match(ctx, tags)
	if err != nil {
		return 0, err
	}

	resolved := 0
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return resolved, err
		}

		item, err := s.resolver.Resolve(ctx, ref)
		if err != nil {
			if errors.Is(err, models.ErrUnknownMediaType) || errors.Is(err, models.ErrMediaNotFound) {
				s.logger.Debug("skipping unresolvable match", zap.Error(err),
					zap.Int("media_id", ref.ID), zap.String("media_type", string(ref.Type)))
				continue
			}
			sink.ItemFailed(ref, err)
			continue
		}
		resolved++

		// view logging is best-effort and already logged by the recorder
		_ = s.activity.RecordView(ctx, userID, ref)

		avg := s.ratings.Average(ctx, ref)
		sink.Display(item, avg)

		value, ok := sink.RequestRating(item)
		if !ok {
			continue
		}
		err = s.activity.SubmitRating(ctx, userID, ref, value)
		sink.RatingSubmitted(item, value, err)
	}

	if resolved == 0 {
		return 0, ErrNoResults
	}
	return resolved, nil
}
