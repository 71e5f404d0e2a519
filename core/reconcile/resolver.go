package reconcile

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// NameResolver decides the channel name for an arriving user.
// When linking is disabled, or the user is not linked, or has not opted in,
// Resolve reports ok=false and the caller keeps the roster name.
type NameResolver struct {
	links    LinkingService
	profiles ProfileService
	timeout  time.Duration
	logger   *zap.Logger
	group    singleflight.Group
}

// NewNameResolver returns a resolver backed by links and profiles. A nil
// links or profiles makes every lookup report ok=false.
func NewNameResolver(links LinkingService, profiles ProfileService, timeout time.Duration, logger *zap.Logger) *NameResolver {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NameResolver{
		links:    links,
		profiles: profiles,
		timeout:  timeout,
		logger:   logger,
	}
}

// Resolve returns the linked Discord name for id. Failures of the linking or
// profile service are logged and reported as ok=false.
func (r *NameResolver) Resolve(ctx context.Context, id UserID) (string, bool) {
	if r == nil || r.links == nil || r.profiles == nil {
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	name, err := r.lookup(ctx, id)
	if err != nil {
		r.logger.Debug("Falling back to roster name", zap.String("user_id", string(id)), zap.Error(err))
		return "", false
	}
	return name, name != ""
}

func (r *NameResolver) lookup(ctx context.Context, id UserID) (string, error) {
	linked, err := r.links.IsLinked(ctx, id)
	if err != nil || !linked {
		return "", err
	}

	link, err := r.links.GetLink(ctx, id)
	if err != nil || link == nil || !link.UseExternalName {
		return "", err
	}

	// Users sharing one external account wait on a single profile request.
	v, err, _ := r.group.Do(link.ExternalAccountID, func() (any, error) {
		return r.profiles.EffectiveName(ctx, link.ExternalAccountID)
	})
	if err != nil {
		return "", err
	}
	name, _ := v.(string)
	return strings.TrimSpace(name), nil
}
