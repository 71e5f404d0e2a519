package reconcile

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"presence-sync/core/logger"
	"presence-sync/core/telemetry"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// resolveConcurrency bounds parallel name lookups within one pass.
	resolveConcurrency = 8

	// clearConcurrency bounds parallel deletes while clearing the category.
	clearConcurrency = 4
)

// Dependencies are the collaborators an Engine drives.
type Dependencies struct {
	// Roster reports who is online.
	Roster RosterProvider

	// Containers resolves the guild and category and lists channels.
	Containers ContainerLookup

	// Channels creates, deletes and reorders channels.
	Channels ChannelAPI

	// Resolver overrides roster names with linked Discord names. Optional.
	Resolver *NameResolver

	// Sanitize turns a display name into a valid channel name. Optional.
	Sanitize func(string) string

	// OnPass runs after every pass that applied a change. Optional.
	OnPass func(PassReport)
}

// Engine reconciles the category against the roster.
type Engine struct {
	deps      Dependencies
	settings  Settings
	logger    *zap.Logger
	scheduler *Scheduler
	index     *ChannelIndex

	// passMu serialises passes; lifecycleMu serialises Start and Stop.
	passMu      sync.Mutex
	lifecycleMu sync.Mutex

	mu       sync.RWMutex
	guild    *Guild
	category *Category
	previous Snapshot
	lastPass *PassReport
	passes   uint64

	inflight inflight
}

// New returns an uninitialized engine.
func New(deps Dependencies, settings Settings, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("guild_id", settings.GuildID), zap.String("category_id", settings.CategoryID))
	return &Engine{
		deps:      deps,
		settings:  settings,
		logger:    logger,
		scheduler: NewScheduler(logger),
		index:     NewChannelIndex(),
		previous:  EmptySnapshot(),
	}
}

// Settings returns the settings the engine was built with.
func (e *Engine) Settings() Settings {
	return e.settings
}

// Index exposes the channel index.
func (e *Engine) Index() *ChannelIndex {
	return e.index
}

// Initialize resolves the configured guild and category. It returns a
// *ConfigurationError when either does not exist or cannot be looked up.
func (e *Engine) Initialize(ctx context.Context) error {
	guild, err := e.deps.Containers.FindGuild(ctx, e.settings.GuildID)
	if errors.Is(err, ErrNotFound) {
		err = nil
	}
	if err != nil || guild == nil {
		cfgErr := &ConfigurationError{Kind: "guild", ID: e.settings.GuildID, Err: err}
		e.logger.Error("Presence guild could not be resolved", zap.Error(cfgErr))
		return cfgErr
	}

	category, err := e.deps.Containers.FindCategory(ctx, *guild, e.settings.CategoryID)
	if errors.Is(err, ErrNotFound) {
		err = nil
	}
	if err != nil || category == nil {
		cfgErr := &ConfigurationError{Kind: "category", ID: e.settings.CategoryID, Err: err}
		e.logger.Error("Presence category could not be resolved", zap.Error(cfgErr))
		return cfgErr
	}

	e.mu.Lock()
	e.guild = guild
	e.category = category
	e.mu.Unlock()

	e.logger.Info("Presence engine initialized",
		zap.String("guild", guild.Name),
		zap.String("category", category.Name),
	)
	return nil
}

// Start clears the category, resets local state and begins scheduled passes.
func (e *Engine) Start(ctx context.Context) error {
	e.lifecycleMu.Lock()
	defer e.lifecycleMu.Unlock()

	if _, category := e.containers(); category == nil {
		return ErrNotInitialized
	}

	// No pass may run between the clear and the reset.
	e.passMu.Lock()
	cleared, err := e.Clear(ctx)
	if err != nil {
		e.logger.Warn("Category could not be listed for clearing", zap.Error(err))
	}
	e.index.Drain()
	e.setPrevious(EmptySnapshot())
	e.passMu.Unlock()

	telemetry.SetOwnedChannels(0)
	e.scheduler.Start(ctx, e.settings.interval(), e.runPass)

	e.logger.Info("Presence engine started",
		zap.Int("cleared", cleared),
		zap.Duration("interval", e.settings.interval()),
	)
	return nil
}

// Stop halts scheduled passes and waits for the running pass. StopUnload also
// deletes every owned channel. Stop then waits, bounded by ctx, for issued
// remote calls to settle.
func (e *Engine) Stop(ctx context.Context, mode StopMode) error {
	e.lifecycleMu.Lock()
	defer e.lifecycleMu.Unlock()

	e.scheduler.Stop()

	if mode == StopUnload {
		e.passMu.Lock()
		owned := e.index.Drain()
		for _, id := range sortedKeys(owned) {
			e.deleteAsync(id, owned[id], e.logger)
		}
		e.setPrevious(EmptySnapshot())
		e.passMu.Unlock()
		telemetry.SetOwnedChannels(0)
	}

	err := e.Wait(ctx)
	e.logger.Info("Presence engine stopped", zap.Stringer("mode", mode))
	return err
}

// Running reports whether passes are scheduled.
func (e *Engine) Running() bool {
	return e.scheduler.Running()
}

// Wait blocks until every issued remote call has returned or ctx is done.
func (e *Engine) Wait(ctx context.Context) error {
	select {
	case <-e.inflight.settled():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Clear deletes every channel in the category, owned or not, and waits for
// the deletes. It returns the number of channels deleted.
func (e *Engine) Clear(ctx context.Context) (int, error) {
	_, category := e.containers()
	if category == nil {
		return 0, ErrNotInitialized
	}

	channels, err := e.deps.Containers.ListChannels(ctx, *category)
	if err != nil {
		return 0, &RemoteCallError{Op: "clear", Err: err}
	}

	var (
		mu      sync.Mutex
		deleted int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(clearConcurrency)
	for _, ch := range channels {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gctx, e.settings.remoteTimeout())
			defer cancel()

			err := e.deps.Channels.DeleteChannel(callCtx, ch.Handle)
			telemetry.ObserveRemoteCall("delete", err)
			if err != nil {
				e.logger.Warn("Failed to clear channel", zap.Error(&RemoteCallError{Op: "clear", Handle: ch.Handle, Err: err}))
				return nil
			}
			mu.Lock()
			deleted++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return deleted, nil
}

// Tick runs one reconciliation pass. Remote failures are logged and never
// returned; the only error is ErrNotInitialized.
func (e *Engine) Tick(ctx context.Context) error {
	e.passMu.Lock()
	defer e.passMu.Unlock()

	guild, category := e.containers()
	if category == nil {
		return ErrNotInitialized
	}

	passID := uuid.NewString()
	log := logger.WithPass(e.logger, passID)
	ctx, span := telemetry.StartSpan(ctx, "presence.pass", attribute.String("pass_id", passID))
	defer span.End()

	started := time.Now()
	current := e.fetchRoster(ctx, log)
	telemetry.SetRosterSize(current.Len())

	previous := e.previousSnapshot()
	if current.Equal(previous) {
		telemetry.ObservePass("unchanged", 0)
		return nil
	}

	diff := Compare(previous, current)
	report := PassReport{
		ID:         passID,
		StartedAt:  started,
		RosterSize: current.Len(),
		Arrived:    diff.Arrived,
		Departed:   diff.Departed,
	}

	for _, id := range diff.Departed {
		handle, ok := e.index.Remove(id)
		if !ok {
			report.Unowned++
			log.Debug("Departed user has no owned channel", zap.String("user_id", string(id)))
			continue
		}
		e.deleteAsync(id, handle, log)
		report.DeletesIssued++
	}

	report.Names = e.resolveNames(ctx, diff.Arrived, current)
	override := ReadOnlyOverride(*guild)
	for _, id := range diff.Arrived {
		e.createAsync(*category, id, report.Names[id], override, log)
		report.CreatesIssued++
	}

	e.setPrevious(current)

	if e.pause(ctx, e.settings.SortGrace) {
		report.Sorted = e.sortCategory(ctx, *category, log)
	}

	report.Duration = time.Since(started)
	span.SetAttributes(
		attribute.Int("arrived", len(diff.Arrived)),
		attribute.Int("departed", len(diff.Departed)),
	)
	telemetry.ObservePass("changed", report.Duration)
	e.recordPass(report)

	log.Info("Presence pass applied",
		zap.Int("roster", report.RosterSize),
		zap.Int("arrived", len(diff.Arrived)),
		zap.Int("departed", len(diff.Departed)),
		zap.Int("unowned", report.Unowned),
		zap.Duration("duration", report.Duration),
	)

	if e.deps.OnPass != nil {
		e.deps.OnPass(report)
	}
	return nil
}

// Plan computes the diff the next pass would apply without calling the
// chat platform.
func (e *Engine) Plan(ctx context.Context) (Diff, Snapshot, error) {
	users, err := e.deps.Roster.ActiveUsers(ctx)
	if err != nil {
		return Diff{}, Snapshot{}, &TransientFetchError{Err: err}
	}
	current := NewSnapshot(users)
	return Compare(e.previousSnapshot(), current), current, nil
}

// Status returns a point-in-time view of the engine.
func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()

	status := Status{
		Initialized: e.category != nil,
		Running:     e.scheduler.Running(),
		Guild:       e.guild,
		Category:    e.category,
		RosterSize:  e.previous.Len(),
		OwnedCount:  e.index.Len(),
		Passes:      e.passes,
	}
	if e.lastPass != nil {
		last := *e.lastPass
		status.LastPass = &last
	}
	return status
}

func (e *Engine) runPass(ctx context.Context) {
	if err := e.Tick(ctx); err != nil {
		e.logger.Warn("Presence pass skipped", zap.Error(err))
	}
}

func (e *Engine) fetchRoster(ctx context.Context, log *zap.Logger) Snapshot {
	users, err := e.deps.Roster.ActiveUsers(ctx)
	if err != nil {
		fetchErr := &TransientFetchError{Err: err}
		telemetry.ObserveRosterFailure()
		telemetry.RecordError(trace.SpanFromContext(ctx), fetchErr)
		log.Warn("Treating roster as empty", zap.Error(fetchErr))
		return EmptySnapshot()
	}
	return NewSnapshot(users)
}

// resolveNames returns the channel name for each arrival. Lookups run
// concurrently and are awaited before any create is issued.
func (e *Engine) resolveNames(ctx context.Context, ids []UserID, current Snapshot) map[UserID]string {
	names := make(map[UserID]string, len(ids))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveConcurrency)
	for _, id := range ids {
		g.Go(func() error {
			name, ok := e.deps.Resolver.Resolve(gctx, id)
			if !ok {
				name, _ = current.Name(id)
			}
			if e.deps.Sanitize != nil {
				name = e.deps.Sanitize(name)
			}
			mu.Lock()
			names[id] = name
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return names
}

func (e *Engine) createAsync(category Category, id UserID, name string, override PermissionOverride, log *zap.Logger) {
	ticket := e.index.Reserve(id)

	e.inflight.add()
	go func() {
		defer e.inflight.done()

		ctx, cancel := context.WithTimeout(context.Background(), e.settings.remoteTimeout())
		defer cancel()

		handle, err := e.deps.Channels.CreateTextChannel(ctx, category, name, override)
		telemetry.ObserveRemoteCall("create", err)
		if err != nil {
			e.index.Release(id, ticket)
			log.Warn("Failed to create presence channel", zap.Error(&RemoteCallError{Op: "create", UserID: id, Err: err}))
			return
		}

		if !e.index.Commit(id, ticket, handle) {
			log.Debug("User left before channel was created, rolling back",
				zap.String("user_id", string(id)),
				zap.String("channel", string(handle)),
			)
			e.deleteAsync(id, handle, log)
			return
		}
		telemetry.SetOwnedChannels(e.index.Len())
	}()
}

func (e *Engine) deleteAsync(id UserID, handle ChannelHandle, log *zap.Logger) {
	e.inflight.add()
	go func() {
		defer e.inflight.done()

		ctx, cancel := context.WithTimeout(context.Background(), e.settings.remoteTimeout())
		defer cancel()

		err := e.deps.Channels.DeleteChannel(ctx, handle)
		telemetry.ObserveRemoteCall("delete", err)
		if err != nil {
			log.Warn("Failed to delete presence channel", zap.Error(&RemoteCallError{Op: "delete", UserID: id, Handle: handle, Err: err}))
		}
		telemetry.SetOwnedChannels(e.index.Len())
	}()
}

// sortCategory orders the category's channels by name, case-insensitively.
func (e *Engine) sortCategory(ctx context.Context, category Category, log *zap.Logger) bool {
	channels, err := e.deps.Containers.ListChannels(ctx, category)
	if err != nil {
		log.Warn("Skipping sort", zap.Error(&RemoteCallError{Op: "reorder", Err: err}))
		return false
	}

	sort.SliceStable(channels, func(i, j int) bool {
		a, b := strings.ToLower(channels[i].Name), strings.ToLower(channels[j].Name)
		if a != b {
			return a < b
		}
		if channels[i].Name != channels[j].Name {
			return channels[i].Name < channels[j].Name
		}
		return channels[i].Handle < channels[j].Handle
	})

	ctx, cancel := context.WithTimeout(ctx, e.settings.remoteTimeout())
	defer cancel()

	err = e.deps.Channels.ReorderChannels(ctx, category, channels)
	telemetry.ObserveRemoteCall("reorder", err)
	if err != nil {
		log.Warn("Failed to sort presence channels", zap.Error(&RemoteCallError{Op: "reorder", Err: err}))
		return false
	}
	return true
}

// pause sleeps for d unless ctx ends first.
func (e *Engine) pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (e *Engine) containers() (*Guild, *Category) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.guild, e.category
}

func (e *Engine) previousSnapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.previous
}

func (e *Engine) setPrevious(s Snapshot) {
	e.mu.Lock()
	e.previous = s
	e.mu.Unlock()
}

func (e *Engine) recordPass(report PassReport) {
	e.mu.Lock()
	e.lastPass = &report
	e.passes++
	e.mu.Unlock()
}

func sortedKeys(m map[UserID]ChannelHandle) []UserID {
	ids := make([]UserID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}
