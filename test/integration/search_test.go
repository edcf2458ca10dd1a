package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tagvault/mediasearch/internal/auth"
	"github.com/tagvault/mediasearch/internal/handlers"
	"github.com/tagvault/mediasearch/internal/middleware"
	"github.com/tagvault/mediasearch/internal/models"
	"github.com/tagvault/mediasearch/internal/repositories"
	"github.com/tagvault/mediasearch/internal/services"
)

// recordingSink collects displayed items and answers rating prompts from a queue
type recordingSink struct {
	items   []*models.MediaItem
	ratings []models.AverageRating
	answers []int
	saved   []error
}

func (s *recordingSink) ItemFailed(ref models.MediaRef, err error) {}

func (s *recordingSink) Display(item *models.MediaItem, rating models.AverageRating) {
	s.items = append(s.items, item)
	s.ratings = append(s.ratings, rating)
}

func (s *recordingSink) RequestRating(item *models.MediaItem) (int, bool) {
	if len(s.answers) == 0 {
		return 0, false
	}
	value := s.answers[0]
	s.answers = s.answers[1:]
	return value, value != 0
}

func (s *recordingSink) RatingSubmitted(item *models.MediaItem, value int, err error) {
	s.saved = append(s.saved, err)
}

type pipeline struct {
	search   handlers.SearchService
	history  handlers.HistoryService
	ratings  handlers.RatingService
	activity handlers.ActivityService
	auth     handlers.AuthService
}

func newPipeline() pipeline {
	tagRepo := repositories.NewTagRepository(testDB, testLogger)
	mediaRepo := repositories.NewMediaRepository(testDB, testLogger)
	ratingRepo := repositories.NewRatingRepository(testDB, testLogger)
	historyRepo := repositories.NewViewHistoryRepository(testDB, testLogger)

	ratings := services.NewRatingService(ratingRepo, testLogger)
	activity := services.NewActivityService(historyRepo, ratingRepo, testLogger)

	return pipeline{
		search: services.NewSearchService(
			services.NewTagService(tagRepo, testLogger),
			services.NewMediaService(mediaRepo, testConfig.MediaRootPath, testLogger),
			ratings, activity, testLogger,
		),
		history:  services.NewHistoryService(historyRepo, mediaRepo, testLogger),
		ratings:  ratings,
		activity: activity,
		auth:     services.NewAuthService(repositories.NewUserRepository(testDB, testLogger), testLogger),
	}
}

func countRows(t *testing.T, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, testDB.QueryRow(query, args...).Scan(&n))
	return n
}

func TestIntegration_Search(t *testing.T) {
	requireDB(t)
	userID := seedTestData(t, testDB)
	defer cleanupTestData(t, testDB)

	p := newPipeline()
	ctx := context.Background()

	tests := []struct {
		name          string
		tags          []string
		expectedRefs  []models.MediaRef
		expectedError error
	}{
		{
			name: "two tags match image and video",
			tags: []string{"Car", " VEHICLE "},
			expectedRefs: []models.MediaRef{
				{ID: 1, Type: models.MediaTypeImage},
				{ID: 1, Type: models.MediaTypeVideo},
			},
		},
		{
			name: "single tag matches all types",
			tags: []string{"car"},
			expectedRefs: []models.MediaRef{
				{ID: 1, Type: models.MediaTypeAudio},
				{ID: 1, Type: models.MediaTypeImage},
				{ID: 1, Type: models.MediaTypeVideo},
			},
		},
		{
			name:         "duplicate tags count once",
			tags:         []string{"red", "red"},
			expectedRefs: []models.MediaRef{{ID: 1, Type: models.MediaTypeImage}},
		},
		{
			name:          "unknown tag",
			tags:          []string{"car", "boat"},
			expectedError: services.ErrNoResults,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := countRows(t, "SELECT COUNT(*) FROM view_history WHERE user_id = ?", userID)
			sink := &recordingSink{}

			count, err := p.search.Search(ctx, userID, tt.tags, sink)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Zero(t, count)
				assert.Equal(t, before, countRows(t, "SELECT COUNT(*) FROM view_history WHERE user_id = ?", userID))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, len(tt.expectedRefs), count)

			refs := make([]models.MediaRef, 0, len(sink.items))
			for _, item := range sink.items {
				refs = append(refs, item.Ref())
				assert.True(t, strings.HasPrefix(item.AbsolutePath, filepath.Clean(testConfig.MediaRootPath)))
				assert.NotEmpty(t, item.Metric())
			}
			assert.ElementsMatch(t, tt.expectedRefs, refs)

			// one history row per resolved item
			after := countRows(t, "SELECT COUNT(*) FROM view_history WHERE user_id = ?", userID)
			assert.Equal(t, before+count, after)
		})
	}
}

func TestIntegration_RatingUpsert(t *testing.T) {
	requireDB(t)
	userID := seedTestData(t, testDB)
	defer cleanupTestData(t, testDB)

	p := newPipeline()
	ctx := context.Background()
	ref := models.MediaRef{ID: 1, Type: models.MediaTypeImage}

	assert.Equal(t, models.RatingNone, p.ratings.Average(ctx, ref).Status)

	require.NoError(t, p.activity.SubmitRating(ctx, userID, ref, 4))
	require.NoError(t, p.activity.SubmitRating(ctx, userID, ref, 2))

	assert.Equal(t, 1, countRows(t, "SELECT COUNT(*) FROM media_ratings WHERE user_id = ? AND media_id = ? AND media_type = ?", userID, ref.ID, string(ref.Type)))
	assert.Equal(t, 2, countRows(t, "SELECT rating_value FROM media_ratings WHERE user_id = ? AND media_id = ? AND media_type = ?", userID, ref.ID, string(ref.Type)))

	avg := p.ratings.Average(ctx, ref)
	assert.Equal(t, models.RatingAvailable, avg.Status)
	assert.Equal(t, 2.0, avg.Value)
	assert.Equal(t, "2.0/5.0", avg.String())

	err := p.activity.SubmitRating(ctx, userID, ref, 6)
	assert.ErrorIs(t, err, services.ErrInvalidRating)
	assert.Equal(t, 2, countRows(t, "SELECT rating_value FROM media_ratings WHERE user_id = ?", userID))

	// same id in another table is a different item
	assert.Equal(t, models.RatingNone, p.ratings.Average(ctx, models.MediaRef{ID: 1, Type: models.MediaTypeVideo}).Status)
}

func TestIntegration_SearchWithRating(t *testing.T) {
	requireDB(t)
	userID := seedTestData(t, testDB)
	defer cleanupTestData(t, testDB)

	p := newPipeline()
	sink := &recordingSink{answers: []int{5}}

	_, err := p.search.Search(context.Background(), userID, []string{"red"}, sink)
	require.NoError(t, err)
	require.Len(t, sink.saved, 1)
	assert.NoError(t, sink.saved[0])
	assert.Equal(t, models.RatingNone, sink.ratings[0].Status)

	// the average shown is computed before the new rating is saved
	sink = &recordingSink{}
	_, err = p.search.Search(context.Background(), userID, []string{"red"}, sink)
	require.NoError(t, err)
	assert.Equal(t, "5.0/5.0", sink.ratings[0].String())
}

func TestIntegration_History(t *testing.T) {
	requireDB(t)
	userID := seedTestData(t, testDB)
	defer cleanupTestData(t, testDB)

	p := newPipeline()
	ctx := context.Background()

	items, err := p.history.History(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, items)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 35; i++ {
		mediaType := models.MediaTypeImage
		if i%2 == 1 {
			mediaType = models.MediaTypeVideo
		}
		_, err := testDB.Exec(
			"INSERT INTO view_history (user_id, media_id, media_type, view_time) VALUES (?, ?, ?, ?)",
			userID, 1, string(mediaType), base.Add(time.Duration(i)*time.Minute),
		)
		require.NoError(t, err)
	}
	// a view of a row that no longer exists
	_, err = testDB.Exec("INSERT INTO view_history (user_id, media_id, media_type, view_time) VALUES (?, 99, 'Audio', ?)",
		userID, base.Add(time.Hour))
	require.NoError(t, err)

	items, err = p.history.History(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, models.HistoryLimit)

	assert.Equal(t, models.UnknownTitle, items[0].Title)
	assert.Equal(t, "Red Car", items[1].Title)
	assert.Equal(t, "Road Trip", items[2].Title)
	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].ViewTime.After(items[i-1].ViewTime), "history must be newest first")
	}
}

func TestIntegration_HTTP(t *testing.T) {
	requireDB(t)
	seedTestData(t, testDB)
	defer cleanupTestData(t, testDB)

	p := newPipeline()
	tokens := auth.NewTokenGenerator("integration-secret", time.Hour)
	authMw := middleware.AuthMiddleware(tokens)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		handlers.NewAuthHandler(p.auth, tokens, testLogger).RegisterRoutes(r)
		handlers.NewMediaHandler(p.search, p.ratings, p.activity, testLogger).RegisterRoutes(r, authMw)
		handlers.NewHistoryHandler(p.history, testLogger).RegisterRoutes(r, authMw)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"username":"alice","password":"`+testPassword+`"}`)))
	require.Equal(t, http.StatusOK, w.Code)

	var login handlers.LoginResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&login))

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+login.AccessToken)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w = do(http.MethodGet, "/api/v1/media/search?tags=car,vehicle", "")
	require.Equal(t, http.StatusOK, w.Code)
	var search handlers.SearchResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&search))
	assert.Len(t, search.Results, 2)

	w = do(http.MethodGet, "/api/v1/media/search?tags=boat", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(http.MethodPut, "/api/v1/media/video/1/rating", `{"rating":3}`)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(http.MethodGet, "/api/v1/media/video/1/rating", "")
	require.Equal(t, http.StatusOK, w.Code)
	var avg models.AverageRating
	require.NoError(t, json.NewDecoder(w.Body).Decode(&avg))
	assert.Equal(t, 3.0, avg.Value)
	assert.Equal(t, 1, avg.Count)

	w = do(http.MethodGet, "/api/v1/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	var history []models.HistoryItem
	require.NoError(t, json.NewDecoder(w.Body).Decode(&history))
	assert.Len(t, history, 2)
}
