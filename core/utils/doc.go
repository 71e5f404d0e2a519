// Package utils provides common utility functions for presence-sync.
// It holds the loose type conversions used when scanning untyped database rows.
package utils
