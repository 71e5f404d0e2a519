package reconcile

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by ports when a remote entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrNotInitialized is returned when Start or Tick run before Initialize.
var ErrNotInitialized = errors.New("engine not initialized")

// ConfigurationError means the configured guild or category could not be
// resolved. The engine stays inert until the next successful Initialize.
type ConfigurationError struct {
	// Kind is "guild" or "category".
	Kind string

	// ID is the configured id that failed to resolve.
	ID string

	// Err is the lookup failure, nil when the container simply does not exist.
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %q could not be resolved: %v", e.Kind, e.ID, e.Err)
	}
	return fmt.Sprintf("%s %q does not exist", e.Kind, e.ID)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// TransientFetchError wraps a roster fetch failure. The pass treats it as an
// empty roster.
type TransientFetchError struct {
	Err error
}

func (e *TransientFetchError) Error() string {
	return fmt.Sprintf("roster fetch failed: %v", e.Err)
}

func (e *TransientFetchError) Unwrap() error {
	return e.Err
}

// RemoteCallError wraps a failed create, delete or reorder. It is logged and
// never retried.
type RemoteCallError struct {
	// Op is "create", "delete", "reorder" or "clear".
	Op string

	// UserID is set for per-user calls.
	UserID UserID

	// Handle is set when a channel handle is known.
	Handle ChannelHandle

	Err error
}

func (e *RemoteCallError) Error() string {
	msg := "remote " + e.Op + " failed"
	if e.UserID != "" {
		msg += " for user " + string(e.UserID)
	}
	if e.Handle != "" {
		msg += " on channel " + string(e.Handle)
	}
	return msg + ": " + e.Err.Error()
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err is a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}
