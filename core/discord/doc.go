// Package discord is a small Discord REST v10 client for the presence engine.
//
// Client implements reconcile.ContainerLookup and reconcile.ChannelAPI;
// Client.Profiles(guildID) implements reconcile.ProfileService. Requests go
// through fiber's fasthttp Agent and are paced with a token bucket
// (golang.org/x/time/rate). A 429 answer is retried after its retry_after
// up to MaxRetries times, then returned as *APIError.
//
// A 404 answer unwraps to reconcile.ErrNotFound, which FindGuild turns into
// (nil, nil).
//
// # Usage
//
//	client, err := discord.NewClient(cfg.Discord, logger)
//	engine := reconcile.New(reconcile.Dependencies{
//	    Containers: client,
//	    Channels:   client,
//	}, settings, logger)
package discord
