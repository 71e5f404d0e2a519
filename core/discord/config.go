package discord

// Config holds the Discord bot settings.
type Config struct {
	// Token is the bot token, sent as "Bot <token>".
	Token string `mapstructure:"token" default:"" validate:"required"`
	// BaseURL is the REST API root.
	BaseURL string `mapstructure:"base_url" default:"https://discord.com/api/v10" validate:"url"`
	// RequestsPerSecond paces outgoing calls.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" default:"5" validate:"gt=0"`
	// Burst is the number of calls allowed back to back.
	Burst int `mapstructure:"burst" default:"5" validate:"min=1"`
	// TimeoutSeconds bounds one HTTP round trip.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
	// MaxRetries is how many times a rate-limited call is retried.
	MaxRetries int `mapstructure:"max_retries" default:"1" validate:"min=0"`
}
