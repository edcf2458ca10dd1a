// Package database opens the MySQL catalog store and keeps its schema up to date
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// migrationsTable is the bookkeeping table used by golang-migrate
const migrationsTable = "mediasearch_schema_migrations"

// Connect opens a connection pool and verifies it with a ping.
//
// maxOpenConns bounds the pool; the interactive shell uses a single connection.
func Connect(dsn string, maxOpenConns int) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxOpenConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// RunMigrations applies all pending migrations found in migrationsPath.
//
// The migration driver pins one pooled connection for its lifetime; it is
// returned to the pool before RunMigrations exits.
func RunMigrations(db *sql.DB, migrationsPath string) error {
	ctx := context.Background()

	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire migration connection: %w", err)
	}
	defer conn.Close()

	driver, err := mysql.WithConnection(ctx, conn, &mysql.Config{
		MigrationsTable: migrationsTable,
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+ResolveMigrationsPath(migrationsPath),
		"mysql",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	// driver was built without the *sql.DB, so Close releases only conn and the source
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// ResolveMigrationsPath returns path, or its parent-relative variant when running from a subdirectory
func ResolveMigrationsPath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if _, err := os.Stat("../" + path); err == nil {
			return "../" + path
		}
	}
	return path
}
