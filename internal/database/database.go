package database

import (
	"fmt"
	"log"
	"net/url"
	"strings"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/yukikurage/task-habit-api/internal/config"
	"github.com/yukikurage/task-habit-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the database named by cfg.DatabaseURL. The scheme picks
// the driver: postgres://, mysql:// or sqlite://.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel(cfg.DBLogLevel)),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Printf("Database connection established (%s)", dialector.Name())
	return db, nil
}

// Dialector builds the GORM dialector for a database URL.
func Dialector(rawURL string) (gorm.Dialector, error) {
	scheme, rest, ok := strings.Cut(rawURL, "://")
	if !ok {
		return nil, fmt.Errorf("database url must include a scheme")
	}
	// SQLAlchemy style "postgresql+psycopg2" URLs are accepted as plain postgres.
	scheme, _, _ = strings.Cut(scheme, "+")

	switch scheme {
	case "postgres", "postgresql":
		return postgres.Open("postgres://" + rest), nil
	case "mysql":
		dsn, err := mysqlDSN(rawURL)
		if err != nil {
			return nil, err
		}
		return mysql.Open(dsn), nil
	case "sqlite", "sqlite3":
		return sqlite.Open(SQLiteDSN(rest)), nil
	default:
		return nil, fmt.Errorf("unsupported database scheme %q", scheme)
	}
}

// SQLiteDSN enables foreign key enforcement, which SQLite leaves off by default.
func SQLiteDSN(path string) string {
	if strings.Contains(path, "_foreign_keys=") {
		return path
	}
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

func mysqlDSN(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid mysql url: %w", err)
	}

	mc := gomysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = u.Host
	mc.DBName = strings.TrimPrefix(u.Path, "/")
	mc.ParseTime = true
	mc.Params = map[string]string{"charset": "utf8mb4"}
	if u.User != nil {
		mc.User = u.User.Username()
		mc.Passwd, _ = u.User.Password()
	}
	for key, values := range u.Query() {
		if len(values) > 0 {
			mc.Params[key] = values[0]
		}
	}

	return mc.FormatDSN(), nil
}

func logLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// Migrate creates or updates tables, constraints and indexes.
func Migrate(db *gorm.DB) error {
	log.Println("Running database migrations...")
	err := db.AutoMigrate(
		&models.User{},
		&models.Workspace{},
		&models.WorkspaceMember{},
		&models.Invite{},
		&models.Task{},
		&models.Habit{},
		&models.HabitCompletion{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	log.Println("Database migrations completed")
	return nil
}
