package database

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	t.Run("Invalid Connection", func(t *testing.T) {
		cfg := Config{
			Host:           "localhost",
			Port:           9999, // Unused port
			User:           "root",
			Password:       "wrongpassword",
			Name:           "emulator",
			TimeoutSeconds: 1,
		}

		db, err := Connect(cfg)
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("Unsupported driver", func(t *testing.T) {
		db, err := Connect(Config{Driver: "postgres"})
		assert.ErrorContains(t, err, "unsupported database driver")
		assert.Nil(t, db)
	})

	t.Run("SQLite in memory", func(t *testing.T) {
		db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
		require.NoError(t, err)
		require.NoError(t, db.Exec("SELECT 1").Error)
	})
}

func TestApplyPool(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantOpen int
	}{
		{"MySQL pool from config", Config{Driver: "mysql", MaxOpenConns: 4, MaxIdleConns: 2}, 4},
		{"Unset keeps driver default", Config{Driver: "mysql"}, 0},
		{"SQLite pinned to one", Config{Driver: "sqlite", MaxOpenConns: 8}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sqlDB, err := sql.Open("sqlite3", ":memory:")
			require.NoError(t, err)
			defer sqlDB.Close()

			applyPool(sqlDB, tt.cfg)
			assert.Equal(t, tt.wantOpen, sqlDB.Stats().MaxOpenConnections)
		})
	}
}
