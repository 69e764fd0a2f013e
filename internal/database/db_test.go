package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/teacherlee/internal/config"
	"github.com/at-ishikawa/teacherlee/internal/kvstore"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DatabaseConfig
	}{
		{
			name: "creates connection with valid config",
			cfg: config.DatabaseConfig{
				Host:     "localhost",
				Port:     3306,
				Database: "testdb",
				Username: "testuser",
				Password: "testpass",
			},
		},
		{
			name: "creates connection with tls and params",
			cfg: config.DatabaseConfig{
				Host:     "db.example.com",
				Port:     3307,
				Database: "teacherlee",
				Username: "admin",
				Password: "secret",
				TLS:      true,
				Params:   map[string]string{"charset": "utf8mb4"},
			},
		},
		{
			name: "creates connection with pool settings",
			cfg: config.DatabaseConfig{
				Host:            "localhost",
				Port:            3306,
				Database:        "testdb",
				Username:        "testuser",
				Password:        "testpass",
				MaxOpenConns:    25,
				MaxIdleConns:    5,
				ConnMaxLifetime: 300,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Open(tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, got)
			defer got.Close()

			assert.Equal(t, "mysql", got.DriverName())
		})
	}
}

func TestOpenSQLite(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "teacherlee.db"))
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, "sqlite", db.DriverName())
	assert.NoError(t, db.Ping())
}

func TestOpenStorage(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     config.StorageConfig
		wantErr bool
		check   func(t *testing.T, store kvstore.Store)
	}{
		{
			name: "memory",
			cfg:  config.StorageConfig{Driver: config.StorageDriverMemory},
			check: func(t *testing.T, store kvstore.Store) {
				assert.IsType(t, &kvstore.Memory{}, store)
			},
		},
		{
			name: "file",
			cfg:  config.StorageConfig{Driver: config.StorageDriverFile, Directory: filepath.Join(dir, "files")},
			check: func(t *testing.T, store kvstore.Store) {
				assert.IsType(t, &kvstore.File{}, store)
			},
		},
		{
			name: "sqlite",
			cfg:  config.StorageConfig{Driver: config.StorageDriverSQLite, SQLitePath: filepath.Join(dir, "sqlite", "teacherlee.db")},
			check: func(t *testing.T, store kvstore.Store) {
				assert.IsType(t, &kvstore.SQL{}, store)
			},
		},
		{
			name:    "unknown",
			cfg:     config.StorageConfig{Driver: "postgres"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, closeStore, err := OpenStorage(ctx, tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer func() {
				assert.NoError(t, closeStore())
			}()
			tt.check(t, store)

			require.NoError(t, store.Set(ctx, "teacherlee:onboarding", `{"goals":[]}`))
			value, found, err := store.Get(ctx, "teacherlee:onboarding")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, `{"goals":[]}`, value)
		})
	}
}
