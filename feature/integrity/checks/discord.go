package checks

import (
	"context"
	"errors"
	"fmt"

	"presence-sync/core/reconcile"
)

// DiscordReport is the result of a Discord container check.
type DiscordReport struct {
	GuildID       string   `json:"guild_id"`
	CategoryID    string   `json:"category_id"`
	GuildName     string   `json:"guild_name,omitempty"`
	CategoryName  string   `json:"category_name,omitempty"`
	GuildFound    bool     `json:"guild_found"`
	CategoryFound bool     `json:"category_found"`
	Channels      int      `json:"channels"`
	Matched       bool     `json:"matched"`
	Errors        []string `json:"errors"`
}

// CheckDiscord verifies that the configured guild and category exist and
// counts the channels currently in the category.
func CheckDiscord(ctx context.Context, lookup reconcile.ContainerLookup, guildID, categoryID string) (*DiscordReport, error) {
	if lookup == nil {
		return nil, fmt.Errorf("discord client is nil")
	}
	report := &DiscordReport{
		GuildID:    guildID,
		CategoryID: categoryID,
		Errors:     []string{},
	}

	guild, err := lookup.FindGuild(ctx, guildID)
	if err != nil && !errors.Is(err, reconcile.ErrNotFound) {
		report.Errors = append(report.Errors, fmt.Sprintf("Failed to look up guild: %v", err))
		return report, nil
	}
	if guild == nil {
		report.Errors = append(report.Errors, fmt.Sprintf("Guild %s does not exist or the bot is not a member", guildID))
		return report, nil
	}
	report.GuildFound = true
	report.GuildName = guild.Name

	category, err := lookup.FindCategory(ctx, *guild, categoryID)
	if err != nil && !errors.Is(err, reconcile.ErrNotFound) {
		report.Errors = append(report.Errors, fmt.Sprintf("Failed to look up category: %v", err))
		return report, nil
	}
	if category == nil {
		report.Errors = append(report.Errors, fmt.Sprintf("Category %s does not exist in guild %s", categoryID, guildID))
		return report, nil
	}
	report.CategoryFound = true
	report.CategoryName = category.Name

	channels, err := lookup.ListChannels(ctx, *category)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("Failed to list channels: %v", err))
		return report, nil
	}
	report.Channels = len(channels)
	report.Matched = true
	return report, nil
}
