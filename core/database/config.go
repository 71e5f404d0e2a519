package database

// Config holds the emulator database connection settings.
type Config struct {
	// Driver selects the dialect: mysql for a hotel, sqlite for local runs.
	Driver string `mapstructure:"driver" default:"mysql" validate:"oneof=mysql sqlite"`
	Host   string `mapstructure:"host" default:"localhost"`
	Port   int    `mapstructure:"port" default:"3306"`
	User   string `mapstructure:"user" default:"root"`
	// Password may contain DSN-reserved characters; it is URL encoded.
	Password string `mapstructure:"password" default:""`
	// Name is the schema name, or the file path (or :memory:) for sqlite.
	Name string `mapstructure:"name" default:"emulator"`
	// TimeoutSeconds bounds connection setup, reads and writes.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10" validate:"min=0"`

	// The roster is polled once per pass, so a small pool is enough.
	MaxOpenConns           int `mapstructure:"max_open_conns" default:"4" validate:"min=0"`
	MaxIdleConns           int `mapstructure:"max_idle_conns" default:"2" validate:"min=0"`
	ConnMaxLifetimeMinutes int `mapstructure:"conn_max_lifetime_minutes" default:"60" validate:"min=0"`
}
