package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestGetTableColumns_SQLite(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE presence_links (user_id INTEGER PRIMARY KEY, discord_id VARCHAR(32) NOT NULL, use_discord_name TINYINT(1) DEFAULT 0)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "presence_links")
	require.NoError(t, err)
	require.Len(t, columns, 3)

	cols := IndexColumns(columns)
	assert.Equal(t, "integer", cols["user_id"].Type)
	assert.Equal(t, "PRI", cols["user_id"].Key)
	assert.Equal(t, "varchar(32)", cols["discord_id"].Type)
	assert.Equal(t, "NO", cols["discord_id"].Null)
	assert.Equal(t, "YES", cols["use_discord_name"].Null)
	require.NotNil(t, cols["use_discord_name"].Default)
	assert.Equal(t, "0", *cols["use_discord_name"].Default)

	// PRAGMA table_info returns no rows for a missing table.
	missing, err := GetTableColumns(db, "users")
	assert.NoError(t, err)
	assert.Empty(t, missing)
}

func TestGetTableColumns_MySQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectQuery("SHOW COLUMNS FROM `users`").WillReturnRows(
		sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
			AddRow("ID", "INT(11)", "NO", "PRI", nil, "auto_increment").
			AddRow("online", "enum('0','1','2')", "NO", "", "0", ""))

	columns, err := GetTableColumns(db, "users")
	require.NoError(t, err)

	cols := IndexColumns(columns)
	assert.Equal(t, "int(11)", cols["id"].Type)
	assert.Equal(t, "enum('0','1','2')", cols["online"].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTableColumns_RejectsInvalidName(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	_, err = GetTableColumns(db, "users`; DROP TABLE users; --")
	assert.Error(t, err)
}
