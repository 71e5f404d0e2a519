package presence

import (
	"context"
	"sync"

	"presence-sync/core/reconcile"

	"go.uber.org/zap"
)

// Factory builds an engine for a presence configuration.
type Factory func(cfg reconcile.Config) *reconcile.Engine

// State is the addon lifecycle state.
type State string

const (
	StateStopped State = "stopped"
	StateInert   State = "inert"
	StateRunning State = "running"
)

// Status is the addon's view of its engine.
type Status struct {
	reconcile.Status
	State State  `json:"state"`
	Error string `json:"error,omitempty"`
}

// Addon owns the engine lifecycle: load, reload and unload.
// A configuration that does not resolve leaves the addon inert until the
// next reload.
type Addon struct {
	factory Factory
	logger  *zap.Logger

	mu     sync.Mutex
	base   context.Context
	cfg    reconcile.Config
	engine *reconcile.Engine
	// retired is a stopped engine whose channels are kept until a reload succeeds.
	retired *reconcile.Engine
	state   State
	lastErr error
}

// NewAddon creates a stopped addon.
func NewAddon(factory Factory, cfg reconcile.Config, logger *zap.Logger) *Addon {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Addon{
		factory: factory,
		logger:  logger,
		cfg:     cfg,
		state:   StateStopped,
	}
}

// Load builds the engine, resolves its containers and starts it. ctx scopes
// the scheduled passes for the lifetime of the addon.
func (a *Addon) Load(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.base = ctx
	return a.load(ctx)
}

// Reload stops the running engine, applies cfg and loads again. Channels of
// the previous engine are deleted once the new configuration resolves. When it
// does not, they are left in place and the addon stays inert.
func (a *Addon) Reload(ctx context.Context, cfg reconcile.Config) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.engine != nil {
		if err := a.engine.Stop(ctx, reconcile.StopReload); err != nil {
			a.logger.Warn("Presence engine did not settle before reload", zap.Error(err))
		}
		if a.engine.Index().Len() > 0 {
			a.retired = a.engine
		}
	}
	a.cfg = cfg
	a.logger.Info("Reloading presence engine",
		zap.String("guild_id", cfg.GuildID),
		zap.String("category_id", cfg.CategoryID),
	)
	return a.load(ctx)
}

// Unload stops the engine and deletes every channel it owns.
func (a *Addon) Unload(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var err error
	if a.engine != nil {
		err = a.engine.Stop(ctx, reconcile.StopUnload)
	}
	a.releaseRetired(ctx)
	a.state = StateStopped
	return err
}

func (a *Addon) load(ctx context.Context) error {
	engine := a.factory(a.cfg)
	a.engine = engine

	if err := engine.Initialize(ctx); err != nil {
		a.state = StateInert
		a.lastErr = err
		return err
	}
	a.releaseRetired(ctx)

	run := a.base
	if run == nil {
		run = context.Background()
	}
	if err := engine.Start(run); err != nil {
		a.state = StateInert
		a.lastErr = err
		return err
	}
	a.state = StateRunning
	a.lastErr = nil
	return nil
}

func (a *Addon) releaseRetired(ctx context.Context) {
	if a.retired == nil {
		return
	}
	if err := a.retired.Stop(ctx, reconcile.StopUnload); err != nil {
		a.logger.Warn("Previous presence channels did not settle", zap.Error(err))
	}
	a.retired = nil
}

// Engine returns the current engine, or nil before the first load.
func (a *Addon) Engine() *reconcile.Engine {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine
}

// Config returns the configuration of the current engine.
func (a *Addon) Config() reconcile.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}

// Status reports the lifecycle state together with the engine status.
func (a *Addon) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()

	status := Status{State: a.state}
	if a.engine != nil {
		status.Status = a.engine.Status()
	}
	if a.lastErr != nil {
		status.Error = a.lastErr.Error()
	}
	return status
}
