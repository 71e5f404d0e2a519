package reconcile

import "context"

// RosterProvider returns the users currently online.
type RosterProvider interface {
	// ActiveUsers returns user id -> roster name for everyone online.
	ActiveUsers(ctx context.Context) (map[UserID]string, error)
}

// ContainerLookup resolves the guild and category at startup and lists what
// the category holds.
// Lookups return (nil, nil) when the container does not exist.
type ContainerLookup interface {
	FindGuild(ctx context.Context, guildID string) (*Guild, error)
	FindCategory(ctx context.Context, guild Guild, categoryID string) (*Category, error)
	ListChannels(ctx context.Context, category Category) ([]Channel, error)
}

// ChannelAPI mutates channels inside the category.
type ChannelAPI interface {
	// CreateTextChannel creates a channel named name under category with the
	// given role override and returns its handle.
	CreateTextChannel(ctx context.Context, category Category, name string, override PermissionOverride) (ChannelHandle, error)

	// DeleteChannel removes a channel by handle.
	DeleteChannel(ctx context.Context, handle ChannelHandle) error

	// ReorderChannels assigns positions 0..n-1 to ordered, in order.
	ReorderChannels(ctx context.Context, category Category, ordered []Channel) error
}

// LinkingService looks up account links between emulator users and Discord.
type LinkingService interface {
	IsLinked(ctx context.Context, id UserID) (bool, error)

	// GetLink returns nil when the user has no link.
	GetLink(ctx context.Context, id UserID) (*Link, error)
}

// ProfileService resolves a Discord account's effective display name.
type ProfileService interface {
	EffectiveName(ctx context.Context, externalAccountID string) (string, error)
}
