package reconcile

import "time"

// Config holds the presence reconciliation settings.
type Config struct {
	// GuildID is the Discord guild that owns the presence category.
	GuildID string `mapstructure:"guild_id" default:"" validate:"required,numeric"`
	// CategoryID is the category presence channels are created in.
	CategoryID string `mapstructure:"category_id" default:"" validate:"required,numeric"`
	// UpdateInterval is the time between passes, in seconds.
	UpdateInterval int `mapstructure:"update_interval" default:"1" validate:"min=1"`
	// SortGraceMs is the delay between issuing creates and sorting, in milliseconds.
	SortGraceMs int `mapstructure:"sort_grace_ms" default:"1000" validate:"min=0"`
	// RemoteTimeoutSeconds bounds each create, delete and reorder call.
	RemoteTimeoutSeconds int `mapstructure:"remote_timeout_seconds" default:"10" validate:"min=1"`
}

// Settings converts the config into engine settings.
func (c Config) Settings() Settings {
	return Settings{
		GuildID:       c.GuildID,
		CategoryID:    c.CategoryID,
		Interval:      time.Duration(c.UpdateInterval) * time.Second,
		SortGrace:     time.Duration(c.SortGraceMs) * time.Millisecond,
		RemoteTimeout: time.Duration(c.RemoteTimeoutSeconds) * time.Second,
	}
}

// LinkingConfig controls the linked-account name override.
type LinkingConfig struct {
	// Enabled turns on name resolution through account links.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// ResolveTimeoutMs bounds one name lookup, in milliseconds.
	ResolveTimeoutMs int `mapstructure:"resolve_timeout_ms" default:"3000" validate:"min=0"`
}

// ResolveTimeout returns the lookup bound as a duration.
func (c LinkingConfig) ResolveTimeout() time.Duration {
	return time.Duration(c.ResolveTimeoutMs) * time.Millisecond
}
