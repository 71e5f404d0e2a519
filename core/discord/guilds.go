package discord

import (
	"context"
	"errors"
	"net/http"
	"sort"

	"presence-sync/core/reconcile"
)

// Channel types used by the client.
const (
	channelTypeText     = 0
	channelTypeCategory = 4
)

type guildPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type channelPayload struct {
	ID       string  `json:"id"`
	Type     int     `json:"type"`
	Name     string  `json:"name"`
	Position int     `json:"position"`
	ParentID *string `json:"parent_id"`
}

// FindGuild returns the guild, or nil when the bot cannot see it.
func (c *Client) FindGuild(ctx context.Context, guildID string) (*reconcile.Guild, error) {
	var g guildPayload
	if err := c.do(ctx, http.MethodGet, "/guilds/"+guildID, nil, &g); err != nil {
		if errors.Is(err, reconcile.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	// The @everyone role shares the guild's id.
	return &reconcile.Guild{ID: g.ID, Name: g.Name, PublicRoleID: g.ID}, nil
}

// FindCategory returns the category channel, or nil when the guild has no
// category with that id.
func (c *Client) FindCategory(ctx context.Context, guild reconcile.Guild, categoryID string) (*reconcile.Category, error) {
	channels, err := c.guildChannels(ctx, guild.ID)
	if err != nil {
		return nil, err
	}
	for _, ch := range channels {
		if ch.ID == categoryID && ch.Type == channelTypeCategory {
			return &reconcile.Category{ID: ch.ID, GuildID: guild.ID, Name: ch.Name}, nil
		}
	}
	return nil, nil
}

// ListChannels returns the channels parented to category, ordered by position.
func (c *Client) ListChannels(ctx context.Context, category reconcile.Category) ([]reconcile.Channel, error) {
	channels, err := c.guildChannels(ctx, category.GuildID)
	if err != nil {
		return nil, err
	}

	var out []reconcile.Channel
	for _, ch := range channels {
		if ch.Type == channelTypeCategory || ch.ParentID == nil || *ch.ParentID != category.ID {
			continue
		}
		out = append(out, reconcile.Channel{
			Handle:   reconcile.ChannelHandle(ch.ID),
			Name:     ch.Name,
			Position: ch.Position,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (c *Client) guildChannels(ctx context.Context, guildID string) ([]channelPayload, error) {
	var channels []channelPayload
	if err := c.do(ctx, http.MethodGet, "/guilds/"+guildID+"/channels", nil, &channels); err != nil {
		return nil, err
	}
	return channels, nil
}
