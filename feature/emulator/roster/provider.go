package roster

import (
	"context"
	"fmt"
	"strings"

	"presence-sync/core/reconcile"
	"presence-sync/core/utils"
	"presence-sync/feature/emulator/models"

	"gorm.io/gorm"
)

// onlineFlag is the value every supported emulator stores for a connected user.
const onlineFlag = "1"

// Provider reads the online roster from the emulator database.
type Provider struct {
	db       *gorm.DB
	emulator string
	table    string
}

// NewProvider creates a roster provider for the given emulator.
func NewProvider(db *gorm.DB, emulator string) (*Provider, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	emulator = strings.ToLower(emulator)
	table := models.UserTable(emulator)
	if table == "" {
		return nil, fmt.Errorf("unknown emulator model: %s", emulator)
	}
	return &Provider{db: db, emulator: emulator, table: table}, nil
}

// Emulator returns the emulator profile the provider reads.
func (p *Provider) Emulator() string {
	return p.emulator
}

// ActiveUsers returns user id -> username for every online user.
func (p *Provider) ActiveUsers(ctx context.Context) (map[reconcile.UserID]string, error) {
	var rows []map[string]any
	err := p.db.WithContext(ctx).
		Table(p.table).
		Select("id, username").
		Where("online = ?", onlineFlag).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query online users from %s: %w", p.table, err)
	}

	users := make(map[reconcile.UserID]string, len(rows))
	for _, row := range rows {
		id, ok := utils.ToUserID(row["id"])
		if !ok {
			continue
		}
		users[reconcile.UserID(id)] = utils.ToString(row["username"])
	}
	return users, nil
}
