package main

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"presence-sync/core/config"
	"presence-sync/core/database"
	"presence-sync/core/discord"
	"presence-sync/core/reconcile"
	"presence-sync/feature/emulator/roster"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal(err)
	}

	provider, err := roster.NewProvider(db, cfg.Server.EmulatorName())
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users, err := provider.ActiveUsers(ctx)
	if err != nil {
		log.Fatal(err)
	}

	var resolver *reconcile.NameResolver
	if cfg.Linking.Enabled && cfg.Discord.Token != "" {
		client, err := discord.NewClient(cfg.Discord, zap.NewNop())
		if err != nil {
			log.Fatal(err)
		}
		resolver = reconcile.NewNameResolver(roster.NewLinkStore(db), client.Profiles(cfg.Presence.GuildID), cfg.Linking.ResolveTimeout(), zap.NewNop())
	}

	ids := make([]string, 0, len(users))
	for id := range users {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)

	fmt.Printf("=== Online on %s: %d ===\n", provider.Emulator(), len(ids))
	for _, id := range ids {
		name := users[reconcile.UserID(id)]
		line := fmt.Sprintf("%-10s %-25s -> #%s", id, name, discord.ChannelName(name))
		if linked, ok := resolver.Resolve(ctx, reconcile.UserID(id)); ok {
			line += fmt.Sprintf("  (linked: %s -> #%s)", linked, discord.ChannelName(linked))
		}
		fmt.Println(line)
	}
}
