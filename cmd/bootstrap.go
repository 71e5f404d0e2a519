package cmd

import (
	"context"
	"fmt"

	"presence-sync/core/config"
	"presence-sync/core/database"
	"presence-sync/core/discord"
	"presence-sync/core/logger"
	"presence-sync/core/reconcile"
	"presence-sync/core/storage"
	"presence-sync/feature/archive"
	"presence-sync/feature/emulator/roster"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime holds the collaborators every command builds from the config.
type runtime struct {
	cfg     *config.Config
	log     *zap.Logger
	db      *gorm.DB
	discord *discord.Client
	roster  *roster.Provider
	links   *roster.LinkStore
	store   storage.Client
}

// loadConfig loads and validates the configuration and builds the logger.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logg, nil
}

// newRuntime connects to the emulator database and builds the Discord client.
// The link store is created only when linking is enabled, and the storage
// client only when archiving is enabled.
func newRuntime(ctx context.Context, cfg *config.Config, logg *zap.Logger) (*runtime, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to emulator database: %w", err)
	}
	logg.Info("Connected to emulator database", zap.String("server", cfg.Server.EmulatorName()))

	provider, err := roster.NewProvider(db, cfg.Server.EmulatorName())
	if err != nil {
		return nil, err
	}

	client, err := discord.NewClient(cfg.Discord, logg)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord client: %w", err)
	}

	rt := &runtime{
		cfg:     cfg,
		log:     logg,
		db:      db,
		discord: client,
		roster:  provider,
	}

	if cfg.Linking.Enabled {
		rt.links = roster.NewLinkStore(db)
		if err := rt.links.EnsureSchema(ctx); err != nil {
			return nil, err
		}
	}

	if cfg.Storage.Enabled {
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		rt.store = store
	}

	return rt, nil
}

// resolver builds the linked-name resolver for a guild, or nil when linking is off.
func (rt *runtime) resolver(guildID string) *reconcile.NameResolver {
	if rt.links == nil {
		return nil
	}
	profiles := rt.discord.Profiles(guildID)
	return reconcile.NewNameResolver(rt.links, profiles, rt.cfg.Linking.ResolveTimeout(), rt.log)
}

// dependencies wires the engine ports. onPass may be nil.
func (rt *runtime) dependencies(cfg reconcile.Config, onPass func(reconcile.PassReport)) reconcile.Dependencies {
	return reconcile.Dependencies{
		Roster:     rt.roster,
		Containers: rt.discord,
		Channels:   rt.discord,
		Resolver:   rt.resolver(cfg.GuildID),
		Sanitize:   discord.ChannelName,
		OnPass:     onPass,
	}
}

// engine builds an engine for presence settings.
func (rt *runtime) engine(cfg reconcile.Config, onPass func(reconcile.PassReport)) *reconcile.Engine {
	return reconcile.New(rt.dependencies(cfg, onPass), cfg.Settings(), rt.log)
}

// recorder builds the pass archive recorder, or nil when archiving is off.
func (rt *runtime) recorder(ctx context.Context) (*archive.Recorder, error) {
	if rt.store == nil {
		return nil, nil
	}
	rec := archive.NewRecorder(rt.store, rt.cfg.Storage.Bucket, rt.log, 0)
	if err := rec.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return rec, nil
}

func (rt *runtime) close() {
	if sqlDB, err := rt.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = rt.log.Sync()
}
