// Package reconcile keeps a Discord category of presence channels in line with
// the players currently online on the emulator.
//
// The package is built around four pieces:
//
//  1. Snapshot: an immutable user id -> display name map of who is online.
//     Two snapshots are unchanged only when both the key set and every value
//     match. A rename alone is not an update.
//
//  2. NameResolver: optionally swaps the roster name for the linked Discord
//     account's effective name. "Not linked" is a normal outcome, not an error.
//
//  3. ChannelIndex: the channels this process created, keyed by user id. It is
//     never persisted, which is why Engine.Start clears the whole category.
//
//  4. Engine + Scheduler: one pass per interval. Each pass fetches the roster,
//     diffs it against the previous snapshot, deletes channels for departed
//     users, creates channels for arrived users, waits a short grace period and
//     sorts the category by name.
//
// # Consistency
//
// Remote calls are fire-and-forget from the pass's point of view. Index entries
// are removed before the delete is confirmed and added when a create returns.
// A create that completes after its user has already left is rolled back by
// deleting the fresh channel, so the index never outlives the roster.
//
// # Usage
//
//	engine := reconcile.New(reconcile.Dependencies{
//	    Roster:     rosterProvider,
//	    Containers: discordClient,
//	    Channels:   discordClient,
//	    Resolver:   resolver,
//	}, settings, logger)
//
//	if err := engine.Initialize(ctx); err != nil {
//	    // *ConfigurationError: guild or category missing, stay inert
//	}
//	_ = engine.Start(ctx)
//	defer engine.Stop(ctx, reconcile.StopUnload)
package reconcile
