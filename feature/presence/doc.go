// Package presence hosts the reconciliation engine and its HTTP API.
//
// Addon owns the engine lifecycle. Load resolves the guild and category and
// starts scheduled passes. Reload stops the engine, applies a new
// configuration and loads again; if the new guild or category does not
// resolve, the addon stays inert with the old channels in place. Unload stops
// the engine and deletes every channel it owns.
//
// # Routes
//
//   - GET /presence/status: lifecycle state and last pass
//   - GET /presence/channels: owned channels
//   - GET /presence/plan: dry-run diff against the last applied roster
//   - POST /presence/reload: reload with the current configuration
//   - PUT, DELETE /presence/links/:user_id: edit account links
package presence
