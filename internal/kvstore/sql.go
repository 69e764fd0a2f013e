package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/teacherlee/schemas"
)

// Dialect holds the statements that differ between SQL backends.
type Dialect interface {
	CreateTableQuery() string
	UpsertQuery() string
}

const createLearningKVMigration = "0001_create_learning_kv.sql"

// migration returns the statement in schemas/migrations/<driver>/<name> without its
// terminating semicolon.
func migration(driver, name string) string {
	content, err := schemas.Migrations.ReadFile(path.Join("migrations", driver, name))
	if err != nil {
		panic(fmt.Sprintf("missing %s migration %s: %v", driver, name, err))
	}
	return strings.TrimSuffix(strings.TrimSpace(string(content)), ";")
}

type mysqlDialect struct{}

func (mysqlDialect) CreateTableQuery() string {
	return migration("mysql", createLearningKVMigration)
}

func (mysqlDialect) UpsertQuery() string {
	return `INSERT INTO learning_kv (storage_key, storage_value, updated_at) VALUES (?, ?, ?)
	ON DUPLICATE KEY UPDATE storage_value = VALUES(storage_value), updated_at = VALUES(updated_at)`
}

type sqliteDialect struct{}

func (sqliteDialect) CreateTableQuery() string {
	return migration("sqlite", createLearningKVMigration)
}

func (sqliteDialect) UpsertQuery() string {
	return `INSERT INTO learning_kv (storage_key, storage_value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(storage_key) DO UPDATE SET storage_value = excluded.storage_value, updated_at = excluded.updated_at`
}

// DialectFor returns the dialect for a database/sql driver name.
func DialectFor(driverName string) (Dialect, error) {
	switch driverName {
	case "mysql":
		return mysqlDialect{}, nil
	case "sqlite", "sqlite3":
		return sqliteDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported driver for key-value storage: %s", driverName)
	}
}

// SQL keeps keys in the learning_kv table.
type SQL struct {
	db      *sqlx.DB
	dialect Dialect
	now     func() time.Time
}

// NewSQL picks the dialect from the driver the connection was opened with.
func NewSQL(db *sqlx.DB) (*SQL, error) {
	dialect, err := DialectFor(db.DriverName())
	if err != nil {
		return nil, err
	}
	return &SQL{
		db:      db,
		dialect: dialect,
		now:     time.Now,
	}, nil
}

// EnsureSchema creates the learning_kv table when it does not exist yet.
func (s *SQL) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.CreateTableQuery()); err != nil {
		return fmt.Errorf("db.ExecContext(create learning_kv) > %w", err)
	}
	return nil
}

func (s *SQL) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.GetContext(ctx, &value, "SELECT storage_value FROM learning_kv WHERE storage_key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("db.GetContext(learning_kv %s) > %w", key, err)
	}
	return value, true, nil
}

func (s *SQL) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.UpsertQuery(), key, value, s.now().UTC()); err != nil {
		return fmt.Errorf("db.ExecContext(upsert learning_kv %s) > %w", key, err)
	}
	return nil
}
