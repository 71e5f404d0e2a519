package database

import (
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

// tableNamePattern limits inspected names to plain identifiers, since the
// name is spliced into SHOW COLUMNS and PRAGMA statements.
var tableNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ColumnInfo is one row of SHOW COLUMNS. SQLite columns are mapped onto the
// same shape: Null is "YES"/"NO" and Key is "PRI" for primary key columns.
type ColumnInfo struct {
	Field   string
	Type    string
	Null    string
	Key     string
	Default *string
	Extra   string
}

// Columns indexes inspected columns by lower-cased name.
type Columns map[string]ColumnInfo

// GetTableColumns returns the columns of tableName with names and types
// lower-cased. A missing table yields no columns and no error.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	if !tableNamePattern.MatchString(tableName) {
		return nil, fmt.Errorf("invalid table name %q", tableName)
	}

	if db.Dialector.Name() == "sqlite" {
		return sqliteColumns(db, tableName)
	}

	var columns []ColumnInfo
	err := db.Raw(fmt.Sprintf("SHOW COLUMNS FROM `%s`", tableName)).Scan(&columns).Error
	if err != nil {
		if isMissingTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}
	for i := range columns {
		columns[i].Field = strings.ToLower(columns[i].Field)
		columns[i].Type = strings.ToLower(columns[i].Type)
	}
	return columns, nil
}

// IndexColumns keys cols by field name.
func IndexColumns(cols []ColumnInfo) Columns {
	out := make(Columns, len(cols))
	for _, col := range cols {
		out[col.Field] = col
	}
	return out
}

func sqliteColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	var rows []struct {
		Cid       int
		Name      string
		Type      string
		Notnull   int
		DfltValue *string
		Pk        int
	}
	if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", tableName)).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}

	columns := make([]ColumnInfo, 0, len(rows))
	for _, row := range rows {
		col := ColumnInfo{
			Field:   strings.ToLower(row.Name),
			Type:    strings.ToLower(row.Type),
			Null:    "YES",
			Default: row.DfltValue,
		}
		if row.Notnull != 0 {
			col.Null = "NO"
		}
		if row.Pk > 0 {
			col.Key = "PRI"
		}
		columns = append(columns, col)
	}
	return columns, nil
}

// isMissingTable matches MySQL error 1146 (ER_NO_SUCH_TABLE).
func isMissingTable(err error) bool {
	return strings.Contains(err.Error(), "1146")
}
