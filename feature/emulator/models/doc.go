// Package models contains the emulator tables presence-sync reads.
//
// Each supported emulator keeps its online flag on the user row:
//
//   - Arcturus: 'users' table, online enum('0','1','2').
//   - Plus: 'users' table, online enum('0','1').
//   - Comet: 'players' table, online enum('0','1').
//
// PresenceLink is the one table presence-sync owns. It stores the optional
// Discord account linked to an emulator user.
//
// # Usage
//
// The roster provider selects online users through UserTable, and the
// integrity checks reflect on these models to verify the live schema.
package models
