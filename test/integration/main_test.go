package integration

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tagvault/mediasearch/internal/config"
	"github.com/tagvault/mediasearch/internal/database"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	fallbackDSN    = "root:password@tcp(localhost:3306)/mediasearch_test?parseTime=true&charset=utf8mb4&multiStatements=true&time_zone=%27%2B00%3A00%27"
	migrationsPath = "../../migrations"
	testPassword   = "secret"
)

var (
	testDB     *sql.DB
	testConfig *config.Config
	testLogger *zap.Logger
)

// TestMain connects to the test database; tests are skipped when it is unreachable
func TestMain(m *testing.M) {
	var err error
	testLogger, err = zap.NewDevelopment()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	testConfig, err = config.LoadTestConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load test config: %v", err))
	}

	dsn := testConfig.DSN()
	if dsn == "" {
		dsn = fallbackDSN
	}

	db, err := database.Connect(dsn, 1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "integration tests skipped: %v\n", err)
	} else if err := database.RunMigrations(db, migrationsPath); err != nil {
		db.Close()
		panic(fmt.Sprintf("Failed to run migrations: %v", err))
	} else {
		testDB = db
	}

	code := m.Run()

	if testDB != nil {
		testDB.Close()
	}
	os.Exit(code)
}

// requireDB skips the test when no database is available
func requireDB(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	if testDB == nil {
		t.Skip("Skipping integration tests: test database is unreachable")
	}
}

func TestIntegration_SingleConnectionPoolUsableAfterMigrations(t *testing.T) {
	requireDB(t)

	assert.Equal(t, 1, testDB.Stats().MaxOpenConnections)
	assert.Equal(t, 0, testDB.Stats().InUse)

	seedTestData(t, testDB)
	t.Cleanup(func() { cleanupTestData(t, testDB) })

	var count int
	require.NoError(t, testDB.QueryRow("SELECT COUNT(*) FROM users").Scan(&count))
	assert.Equal(t, 1, count)
}

// seedTestData inserts a small tagged catalog and one user
//
//	Image 1 "Red Car"   car, vehicle, red
//	Audio 1 "Engine"    car
//	Video 1 "Road Trip" car, vehicle
func seedTestData(t *testing.T, db *sql.DB) int {
	t.Helper()
	cleanupTestData(t, db)

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	result, err := db.Exec("INSERT INTO users (username, password_hash) VALUES (?, ?)", "alice", string(hash))
	require.NoError(t, err, "Failed to seed user")
	userID, err := result.LastInsertId()
	require.NoError(t, err)

	statements := []string{
		"INSERT INTO images (image_id, title, file_path, resolution) VALUES (1, 'Red Car', 'images/red_car.jpg', '1920x1080')",
		"INSERT INTO audio (audio_id, title, file_path, duration) VALUES (1, 'Engine', 'audio/engine.mp3', '00:03:12')",
		"INSERT INTO videos (video_id, title, file_path, duration) VALUES (1, 'Road Trip', 'videos/road_trip.mp4', '00:12:40')",
		"INSERT INTO tags (tag_id, tag_name) VALUES (1, 'car'), (2, 'Vehicle'), (3, 'red')",
		`INSERT INTO media_tags (media_id, media_type, tag_id) VALUES
			(1, 'Image', 1), (1, 'Image', 2), (1, 'Image', 3),
			(1, 'Audio', 1),
			(1, 'Video', 1), (1, 'Video', 2)`,
	}
	for _, stmt := range statements {
		_, err := db.Exec(stmt)
		require.NoError(t, err, "Failed to seed test data")
	}

	return int(userID)
}

// cleanupTestData removes all test data
func cleanupTestData(t *testing.T, db *sql.DB) {
	t.Helper()
	for _, table := range []string{"media_ratings", "view_history", "media_tags", "tags", "images", "audio", "videos", "users"} {
		_, err := db.Exec("DELETE FROM " + table)
		require.NoError(t, err, "Failed to cleanup %s", table)
	}
}
