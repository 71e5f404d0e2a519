package roster

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"presence-sync/core/reconcile"
	"presence-sync/feature/emulator/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LinkStore keeps emulator user -> Discord account links in presence_links.
type LinkStore struct {
	db *gorm.DB
}

// NewLinkStore creates a link store on db.
func NewLinkStore(db *gorm.DB) *LinkStore {
	return &LinkStore{db: db}
}

// EnsureSchema creates or migrates the presence_links table.
func (s *LinkStore) EnsureSchema(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&models.PresenceLink{}); err != nil {
		return fmt.Errorf("failed to migrate presence_links: %w", err)
	}
	return nil
}

// IsLinked reports whether the user has a linked Discord account.
func (s *LinkStore) IsLinked(ctx context.Context, id reconcile.UserID) (bool, error) {
	userID, ok := parseUserID(id)
	if !ok {
		return false, nil
	}
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.PresenceLink{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check link for user %s: %w", id, err)
	}
	return count > 0, nil
}

// GetLink returns the user's link, or nil when there is none.
func (s *LinkStore) GetLink(ctx context.Context, id reconcile.UserID) (*reconcile.Link, error) {
	userID, ok := parseUserID(id)
	if !ok {
		return nil, nil
	}
	var row models.PresenceLink
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load link for user %s: %w", id, err)
	}
	return &reconcile.Link{
		ExternalAccountID: row.DiscordID,
		UseExternalName:   row.UseDiscordName,
	}, nil
}

// SetLink creates or replaces the user's link.
func (s *LinkStore) SetLink(ctx context.Context, id reconcile.UserID, link reconcile.Link) error {
	userID, ok := parseUserID(id)
	if !ok {
		return fmt.Errorf("invalid user id %q", id)
	}
	if link.ExternalAccountID == "" {
		return fmt.Errorf("discord account id is required")
	}
	row := models.PresenceLink{
		UserID:         userID,
		DiscordID:      link.ExternalAccountID,
		UseDiscordName: link.UseExternalName,
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save link for user %s: %w", id, err)
	}
	return nil
}

// DeleteLink removes the user's link. It reports whether a link existed.
func (s *LinkStore) DeleteLink(ctx context.Context, id reconcile.UserID) (bool, error) {
	userID, ok := parseUserID(id)
	if !ok {
		return false, nil
	}
	res := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.PresenceLink{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete link for user %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func parseUserID(id reconcile.UserID) (int, bool) {
	n, err := strconv.Atoi(string(id))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
