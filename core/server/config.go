package server

import "strings"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// Emulator specifies the emulator whose roster is read (arcturus, plus, comet).
	Emulator string `mapstructure:"emulator" default:"arcturus"`
	// ShutdownSeconds bounds graceful shutdown, including the final channel cleanup.
	ShutdownSeconds int `mapstructure:"shutdown_seconds" default:"30" validate:"min=1"`
}

const (
	EmulatorArcturus = "arcturus"
	EmulatorPlus     = "plus"
	EmulatorComet    = "comet"
)

// EmulatorName returns the normalized emulator name. "plusemu" is accepted as
// an alias for plus.
func (c Config) EmulatorName() string {
	name := strings.ToLower(strings.TrimSpace(c.Emulator))
	if name == "plusemu" {
		return EmulatorPlus
	}
	return name
}

// IsValidEmulator checks if the configured emulator is valid.
func (c Config) IsValidEmulator() bool {
	switch c.EmulatorName() {
	case EmulatorArcturus, EmulatorPlus, EmulatorComet:
		return true
	default:
		return false
	}
}
