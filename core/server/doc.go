// Package server holds the HTTP server configuration and constants.
//
// The start command owns the fiber app. This package defines the port, API key,
// shutdown bound and the emulator profile whose roster presence-sync reads.
//
// # Usage
//
// This package is embedded by core/config and read by the roster provider to
// select the emulator's user table.
package server
