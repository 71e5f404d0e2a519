package presence

import (
	"context"
	"errors"
	"sort"

	"presence-sync/core/reconcile"

	"go.uber.org/zap"
)

// ErrLinkingDisabled is returned by link operations when no link store is configured.
var ErrLinkingDisabled = errors.New("account linking is disabled")

// LinkWriter edits account links.
type LinkWriter interface {
	SetLink(ctx context.Context, id reconcile.UserID, link reconcile.Link) error
	DeleteLink(ctx context.Context, id reconcile.UserID) (bool, error)
}

// OwnedChannel is one entry of the channel index.
type OwnedChannel struct {
	UserID reconcile.UserID        `json:"user_id"`
	Handle reconcile.ChannelHandle `json:"handle"`
}

// Plan is a dry-run diff against the last applied roster.
type Plan struct {
	RosterSize int                `json:"roster_size"`
	Arrived    []reconcile.UserID `json:"arrived"`
	Departed   []reconcile.UserID `json:"departed"`
}

// Service exposes the addon to the HTTP API.
type Service struct {
	addon  *Addon
	links  LinkWriter
	logger *zap.Logger
}

// NewService creates a new presence service. links may be nil.
func NewService(addon *Addon, links LinkWriter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{addon: addon, links: links, logger: logger}
}

// Status returns the addon status.
func (s *Service) Status() Status {
	return s.addon.Status()
}

// Channels lists the owned channels ordered by user id.
func (s *Service) Channels() []OwnedChannel {
	engine := s.addon.Engine()
	if engine == nil {
		return []OwnedChannel{}
	}
	entries := engine.Index().Entries()
	out := make([]OwnedChannel, 0, len(entries))
	for id, handle := range entries {
		out = append(out, OwnedChannel{UserID: id, Handle: handle})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

// Plan computes what the next pass would change.
func (s *Service) Plan(ctx context.Context) (*Plan, error) {
	engine := s.addon.Engine()
	if engine == nil {
		return nil, reconcile.ErrNotInitialized
	}
	diff, current, err := engine.Plan(ctx)
	if err != nil {
		return nil, err
	}
	return &Plan{
		RosterSize: current.Len(),
		Arrived:    nonNil(diff.Arrived),
		Departed:   nonNil(diff.Departed),
	}, nil
}

// Reload restarts the engine with its current configuration.
func (s *Service) Reload(ctx context.Context) error {
	return s.addon.Reload(ctx, s.addon.Config())
}

// SetLink stores a link for a user.
func (s *Service) SetLink(ctx context.Context, id reconcile.UserID, link reconcile.Link) error {
	if s.links == nil {
		return ErrLinkingDisabled
	}
	return s.links.SetLink(ctx, id, link)
}

// DeleteLink removes a user's link.
func (s *Service) DeleteLink(ctx context.Context, id reconcile.UserID) (bool, error) {
	if s.links == nil {
		return false, ErrLinkingDisabled
	}
	return s.links.DeleteLink(ctx, id)
}

func nonNil(ids []reconcile.UserID) []reconcile.UserID {
	if ids == nil {
		return []reconcile.UserID{}
	}
	return ids
}
