package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/tagvault/mediasearch/internal/models"
	"go.uber.org/zap"
)

// TagRepository is the interface that wraps methods for tag association data access
type TagRepository interface {
	// Method MatchAll retrieves references of media items tagged with every one of the given tags.
	//
	// "tags" must be normalized (trimmed, lower-case).
	// If some error occurs during data retrieve, the error will be returned together with "nil" value.
	MatchAll(ctx context.Context, tags []string) ([]models.MediaRef, error)
}

type tagService struct {
	repo   TagRepository
	logger *zap.Logger
}

// NewTagService creates a new tag matching service
func NewTagService(repo TagRepository, logger *zap.Logger) *tagService {
	return &tagService{
		repo:   repo,
		logger: logger,
	}
}

// ParseTagInput splits a comma-separated tag list and normalizes it
func ParseTagInput(input string) []string {
	return NormalizeTags(strings.Split(input, ","))
}

// NormalizeTags trims and case-folds tags, dropping empty ones and duplicates.
// The order of first occurrence is kept.
func NormalizeTags(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// Match returns references of media items carrying all requested tags
//
// A store failure yields an empty result together with an error wrapping ErrSearchFailed.
func (s *tagService) Match(ctx context.Context, tags []string) ([]models.MediaRef, error) {
	tags = NormalizeTags(tags)
	if len(tags) == 0 {
		return []models.MediaRef{}, ErrNoTags
	}

	refs, err := s.repo.MatchAll(ctx, tags)
	if err != nil {
		s.logger.Error("failed to match media by tags", zap.Error(err), zap.Strings("tags", tags))
		return []models.MediaRef{}, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	return refs, nil
}
