// Package database opens the configured storage backend for the learning store.
package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/at-ishikawa/teacherlee/internal/config"
	"github.com/at-ishikawa/teacherlee/internal/kvstore"
)

// Open opens a MySQL connection using the provided config.
func Open(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	mysqlCfg := mysql.NewConfig()
	mysqlCfg.User = cfg.Username
	mysqlCfg.Passwd = cfg.Password
	mysqlCfg.Net = "tcp"
	mysqlCfg.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mysqlCfg.DBName = cfg.Database
	mysqlCfg.ParseTime = true
	if cfg.TLS {
		mysqlCfg.TLSConfig = "true"
	}
	if len(cfg.Params) > 0 {
		mysqlCfg.Params = cfg.Params
	}

	db, err := sqlx.Open("mysql", mysqlCfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("sqlx.Open() > %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}

	return db, nil
}

// OpenSQLite opens the SQLite database at path, creating its directory.
func OpenSQLite(path string) (*sqlx.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
		}
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlx.Open() > %w", err)
	}
	// SQLite allows a single writer
	db.SetMaxOpenConns(1)
	return db, nil
}

// OpenStorage returns the key-value store selected by cfg.Driver and a function
// releasing it. SQL backends get their table created on first use.
func OpenStorage(ctx context.Context, cfg config.StorageConfig) (kvstore.Store, func() error, error) {
	noop := func() error { return nil }

	var db *sqlx.DB
	var err error
	switch cfg.Driver {
	case config.StorageDriverMemory:
		return kvstore.NewMemory(), noop, nil
	case config.StorageDriverFile:
		return kvstore.NewFile(cfg.Directory), noop, nil
	case config.StorageDriverSQLite:
		db, err = OpenSQLite(cfg.SQLitePath)
	case config.StorageDriverMySQL:
		db, err = Open(cfg.Database)
	default:
		return nil, nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
	if err != nil {
		return nil, nil, err
	}

	store, err := kvstore.NewSQL(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("kvstore.NewSQL() > %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("store.EnsureSchema() > %w", err)
	}
	return store, db.Close, nil
}
