package integrity

import (
	"context"
	"errors"

	"presence-sync/core/reconcile"
	"presence-sync/core/storage"
	"presence-sync/feature/archive"
	"presence-sync/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrStorageDisabled is returned by storage checks when archiving is off.
var ErrStorageDisabled = errors.New("archive storage is disabled")

// Targets are the systems the integrity checks inspect. Storage may be nil.
type Targets struct {
	DB         *gorm.DB
	Emulator   string
	CheckLinks bool

	Discord reconcile.ContainerLookup

	// Presence returns the guild and category currently synced. It is read
	// on every check so a reloaded config is picked up.
	Presence func() reconcile.Config

	Storage storage.Client
	Bucket  string
}

// Service handles integrity checks.
type Service struct {
	targets Targets
	logger  *zap.Logger
}

// NewService creates a new integrity service.
func NewService(targets Targets, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{targets: targets, logger: logger}
}

// CheckServer verifies the emulator tables presence-sync reads.
func (s *Service) CheckServer() (*checks.ServerReport, error) {
	return checks.CheckServerIntegrity(s.targets.DB, s.targets.Emulator, s.targets.CheckLinks)
}

// CheckDiscord verifies the configured guild and category.
func (s *Service) CheckDiscord(ctx context.Context) (*checks.DiscordReport, error) {
	var pc reconcile.Config
	if s.targets.Presence != nil {
		pc = s.targets.Presence()
	}
	return checks.CheckDiscord(ctx, s.targets.Discord, pc.GuildID, pc.CategoryID)
}

// CheckStorage verifies the archive bucket.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	if s.targets.Storage == nil {
		return nil, ErrStorageDisabled
	}
	return checks.CheckStorage(ctx, s.targets.Storage, s.targets.Bucket, archive.Prefix)
}

// FixStorage creates the archive bucket.
func (s *Service) FixStorage(ctx context.Context) error {
	if s.targets.Storage == nil {
		return ErrStorageDisabled
	}
	return checks.FixStorage(ctx, s.targets.Storage, s.targets.Bucket, s.logger)
}
