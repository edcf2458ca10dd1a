package services

import (
	"context"

	"github.com/tagvault/mediasearch/internal/models"
)

// mockTagRepository is a mock implementation of TagRepository
type mockTagRepository struct {
	refs  []models.MediaRef
	err   error
	calls [][]string
}

func (m *mockTagRepository) MatchAll(ctx context.Context, tags []string) ([]models.MediaRef, error) {
	m.calls = append(m.calls, tags)
	if m.err != nil {
		return nil, m.err
	}
	return m.refs, nil
}

// mockMediaRepository is a mock implementation of MediaRepository
type mockMediaRepository struct {
	items      map[models.MediaRef]models.MediaItem
	err        error
	titleErrs  map[models.MediaRef]error
	titleCalls map[models.MediaRef]int
}

func (m *mockMediaRepository) GetByRef(ctx context.Context, ref models.MediaRef) (*models.MediaItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	item, ok := m.items[ref]
	if !ok {
		return nil, models.ErrMediaNotFound
	}
	return &item, nil
}

func (m *mockMediaRepository) GetTitle(ctx context.Context, ref models.MediaRef) (string, error) {
	if m.titleCalls == nil {
		m.titleCalls = make(map[models.MediaRef]int)
	}
	m.titleCalls[ref]++
	if err, ok := m.titleErrs[ref]; ok {
		return "", err
	}
	item, ok := m.items[ref]
	if !ok {
		return "", models.ErrMediaNotFound
	}
	return item.Title, nil
}

// mockRatingRepository is a mock implementation of RatingRepository
type mockRatingRepository struct {
	avg       float64
	count     int
	err       error
	upsertErr error
	upserted  []models.Rating
}

func (m *mockRatingRepository) Upsert(ctx context.Context, rating models.Rating) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = append(m.upserted, rating)
	return nil
}

func (m *mockRatingRepository) GetAverage(ctx context.Context, ref models.MediaRef) (float64, int, error) {
	if m.err != nil {
		return 0, 0, m.err
	}
	return m.avg, m.count, nil
}

// mockViewHistoryRepository is a mock implementation of ViewHistoryRepository
type mockViewHistoryRepository struct {
	entries   []models.ViewHistoryEntry
	err       error
	createErr error
	created   []models.MediaRef
	limit     int
}

func (m *mockViewHistoryRepository) Create(ctx context.Context, userID int, ref models.MediaRef) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, ref)
	return nil
}

func (m *mockViewHistoryRepository) GetRecentByUserID(ctx context.Context, userID int, limit int) ([]models.ViewHistoryEntry, error) {
	m.limit = limit
	if m.err != nil {
		return nil, m.err
	}
	return m.entries, nil
}

// mockUserRepository is a mock implementation of UserRepository
type mockUserRepository struct {
	users     map[string]*models.User
	err       error
	createErr error
	nextID    int
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.users == nil {
		m.users = make(map[string]*models.User)
	}
	if _, ok := m.users[user.Username]; ok {
		return models.ErrDuplicateUsername
	}
	m.nextID++
	user.ID = m.nextID
	m.users[user.Username] = user
	return nil
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	user, ok := m.users[username]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return user, nil
}
