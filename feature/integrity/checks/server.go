package checks

import (
	"fmt"
	"reflect"
	"strings"

	"presence-sync/core/database"
	"presence-sync/feature/emulator/models"

	"gorm.io/gorm"
)

// ServerReport strictly types the result of a server integrity check.
type ServerReport struct {
	Emulator string                 `json:"emulator"`
	Matched  bool                   `json:"matched"`
	Tables   map[string]TableReport `json:"tables"`
	Errors   []string               `json:"errors"`
}

type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	Status         string   `json:"status"` // "ok", "error"
}

// CheckServerIntegrity verifies the emulator's user table, and the link table
// when withLinks is set, using the GORM models as the source of truth.
func CheckServerIntegrity(db *gorm.DB, emulator string, withLinks bool) (*ServerReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	userModel := models.UserModel(emulator)
	if userModel == nil {
		return nil, fmt.Errorf("unknown emulator model: %s", emulator)
	}
	checked := []any{userModel}
	if withLinks {
		checked = append(checked, models.PresenceLink{})
	}

	report := &ServerReport{
		Emulator: emulator,
		Tables:   make(map[string]TableReport),
		Errors:   []string{},
		Matched:  true,
	}
	for _, model := range checked {
		if err := checkModel(db, model, report); err != nil {
			return nil, err
		}
	}
	return report, nil
}

func checkModel(db *gorm.DB, model any, report *ServerReport) error {
	val := reflect.TypeOf(model)
	tabler, ok := reflect.New(val).Interface().(interface{ TableName() string })
	if !ok {
		return fmt.Errorf("model %s does not implement TableName", val.Name())
	}
	tableName := tabler.TableName()

	tblReport := TableReport{
		MissingColumns: []string{},
		TypeMismatches: []string{},
		Status:         "ok",
	}

	actualCols, err := database.GetTableColumns(db, tableName)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", tableName, err))
		report.Matched = false
		return nil
	}
	if len(actualCols) == 0 {
		report.Errors = append(report.Errors, fmt.Sprintf("Table %s does not exist", tableName))
		report.Matched = false
		tblReport.Status = "error"
		report.Tables[tableName] = tblReport
		return nil
	}

	actualMap := database.IndexColumns(actualCols)

	for i := 0; i < val.NumField(); i++ {
		gormTag := val.Field(i).Tag.Get("gorm")
		colName := parseGormColumn(gormTag)
		if colName == "" {
			continue
		}

		actCol, exists := actualMap[colName]
		if !exists {
			tblReport.MissingColumns = append(tblReport.MissingColumns, colName)
			tblReport.Status = "error"
			report.Matched = false
			continue
		}

		expType := strings.ToLower(parseGormType(gormTag))
		if expType == "" {
			continue
		}
		actType := strings.ToLower(actCol.Type)
		// Enum value lists differ between emulator versions.
		if strings.HasPrefix(expType, "enum") && strings.HasPrefix(actType, "enum") {
			continue
		}
		if !strings.Contains(actType, baseType(expType)) {
			tblReport.TypeMismatches = append(tblReport.TypeMismatches,
				fmt.Sprintf("%s: expected %s, got %s", colName, expType, actCol.Type))
			tblReport.Status = "error"
			report.Matched = false
		}
	}

	report.Tables[tableName] = tblReport
	return nil
}

// baseType strips the length from a type, so varchar(25) matches varchar(64).
func baseType(t string) string {
	if i := strings.IndexByte(t, '('); i > 0 {
		return t[:i]
	}
	return t
}

func parseGormColumn(tag string) string {
	return parseGormOption(tag, "column:")
}

func parseGormType(tag string) string {
	return parseGormOption(tag, "type:")
}

func parseGormOption(tag, prefix string) string {
	for _, p := range strings.Split(tag, ";") {
		if strings.HasPrefix(p, prefix) {
			return strings.TrimPrefix(p, prefix)
		}
	}
	return ""
}
