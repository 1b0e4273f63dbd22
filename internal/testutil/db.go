// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-habit-api/internal/config"
	"github.com/yukikurage/task-habit-api/internal/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory SQLite database with foreign keys on.
// The pool is pinned to one connection so every caller sees the same memory
// database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(database.SQLiteDSN(":memory:")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))

	return db
}

// NewConfig returns a configuration suitable for tests.
func NewConfig() *config.Config {
	return &config.Config{
		DatabaseURL:              "sqlite://:memory:",
		JWTSecretKey:             "test-secret",
		JWTAlgorithm:             "HS256",
		JWTAccessTokenExpireMins: 60,
		SessionSecret:            "test-session-secret",
		GinMode:                  "test",
	}
}

// FixedClock returns a clock function pinned to t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
