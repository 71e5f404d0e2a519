// Package config provides configuration management for presence-sync.
//
// It utilizes Viper for loading configuration from an optional presence.yaml,
// a .env file and environment variables (highest precedence).
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, emulator type)
//   - Database: emulator database connection details
//   - Storage: S3/MinIO credentials for the pass archive
//   - Log: Logging level and format
//   - Discord: bot token and REST pacing
//   - Presence: guild, category and pass timings
//   - Linking: linked-account name override
//   - Telemetry: metrics and tracing
//
// Defaults come from `default` struct tags and are checked with `validate`
// tags by Validate.
//
// # Reloading
//
// Watch observes the config directory with fsnotify and hands every valid new
// Config to a callback, which the start command uses to reload the engine.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Presence.GuildID)
package config
