package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/tagvault/mediasearch/internal/models"
	"go.uber.org/zap"
)

// MediaRepository is the interface that wraps methods for the Image, Audio and Video tables
type MediaRepository interface {
	// Method GetByRef retrieves title, relative path and the type-specific metric of a media item.
	//
	// If the row does not exist, models.ErrMediaNotFound is returned.
	// If the media type is not one of the known types, models.ErrUnknownMediaType is returned.
	GetByRef(ctx context.Context, ref models.MediaRef) (*models.MediaItem, error)
	// Method GetTitle retrieves the title of a media item.
	//
	// Please reference GetByRef method for more information about error values.
	GetTitle(ctx context.Context, ref models.MediaRef) (string, error)
}

type mediaService struct {
	repo      MediaRepository
	mediaRoot string
	logger    *zap.Logger
}

// NewMediaService creates a new media resolver rooted at mediaRoot
func NewMediaService(repo MediaRepository, mediaRoot string, logger *zap.Logger) *mediaService {
	return &mediaService{
		repo:      repo,
		mediaRoot: mediaRoot,
		logger:    logger,
	}
}

// ResolvePath joins the media root with a forward-slash separated relative path using host separators.
// The file is not checked for existence.
func ResolvePath(mediaRoot, relative string) string {
	return filepath.Join(mediaRoot, filepath.FromSlash(relative))
}

// Resolve loads a media item and fills its absolute path
func (s *mediaService) Resolve(ctx context.Context, ref models.MediaRef) (*models.MediaItem, error) {
	if !ref.Type.IsValid() {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownMediaType, ref.Type)
	}

	item, err := s.repo.GetByRef(ctx, ref)
	if err != nil {
		if !errors.Is(err, models.ErrMediaNotFound) {
			s.logger.Error("failed to resolve media", zap.Error(err),
				zap.Int("media_id", ref.ID), zap.String("media_type", string(ref.Type)))
		}
		return nil, err
	}

	item.AbsolutePath = ResolvePath(s.mediaRoot, item.FilePath)
	return item, nil
}

// ResolveTitle loads only the title of a media item
func (s *mediaService) ResolveTitle(ctx context.Context, ref models.MediaRef) (string, error) {
	if !ref.Type.IsValid() {
		return "", fmt.Errorf("%w: %q", models.ErrUnknownMediaType, ref.Type)
	}
	return s.repo.GetTitle(ctx, ref)
}
