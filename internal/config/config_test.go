package config

import (
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("DB_USER", "media")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "multimedia")
	t.Setenv("MEDIA_ROOT_PATH", "/srv/media")
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name          string
		setupEnv      func(t *testing.T)
		expectedError bool
		validate      func(t *testing.T, cfg *Config)
	}{
		{
			name:     "success with defaults",
			setupEnv: setRequiredEnv,
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, 3307, cfg.Database.Port)
				assert.Equal(t, "/srv/media", cfg.MediaRootPath)
				assert.Equal(t, "migrations", cfg.MigrationsPath)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
				assert.Equal(t, time.Hour, cfg.JWT.AccessTokenExpiry)
			},
		},
		{
			name: "custom origins and expiry",
			setupEnv: func(t *testing.T) {
				setRequiredEnv(t)
				t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
				t.Setenv("JWT_ACCESS_TOKEN_EXPIRY", "15m")
				t.Setenv("LOG_LEVEL", "debug")
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
				assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiry)
				assert.Equal(t, "debug", cfg.Logging.Level)
			},
		},
		{
			name: "missing media root",
			setupEnv: func(t *testing.T) {
				setRequiredEnv(t)
				t.Setenv("MEDIA_ROOT_PATH", "")
			},
			expectedError: true,
		},
		{
			name: "missing db host",
			setupEnv: func(t *testing.T) {
				setRequiredEnv(t)
				t.Setenv("DB_HOST", "")
			},
			expectedError: true,
		},
		{
			name: "invalid db port",
			setupEnv: func(t *testing.T) {
				setRequiredEnv(t)
				t.Setenv("DB_PORT", "abc")
			},
			expectedError: true,
		},
		{
			name: "invalid expiry",
			setupEnv: func(t *testing.T) {
				setRequiredEnv(t)
				t.Setenv("JWT_ACCESS_TOKEN_EXPIRY", "soon")
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupEnv(t)

			cfg, err := Load("")

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			tt.validate(t, cfg)
		})
	}
}

func TestLoad_MissingEnvFile(t *testing.T) {
	cfg, err := Load("does-not-exist.env")

	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host:     "db.local",
		Port:     3306,
		User:     "media",
		Password: "secret",
		DBName:   "multimedia",
	}}

	dsn := cfg.DSN()

	assert.Contains(t, dsn, "media:secret@tcp(db.local:3306)/multimedia")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
	assert.Contains(t, dsn, "multiStatements=true")

	parsed, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, parsed.Loc)
	assert.Equal(t, "'+00:00'", parsed.Params["time_zone"])
}

func TestConfig_DSN_Empty(t *testing.T) {
	cfg := &Config{}

	assert.Empty(t, cfg.DSN())
}
