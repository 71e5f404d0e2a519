// Package integrity provides health checks for the systems presence-sync depends on.
//
// # Checks Provided
//
//   - Server: Validates that the emulator user table, and presence_links when linking is on, match the GORM models.
//   - Discord: Verifies the configured guild and category exist and counts the category's channels.
//   - Storage: Checks that the archive bucket exists and whether any pass was archived.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/server : Runs server schema check.
//   - GET /integrity/discord : Runs Discord container check.
//   - GET /integrity/storage : Runs storage check (supports ?fix=true).
package integrity
