package discord

import (
	"context"
	"net/http"
	"strconv"

	"presence-sync/core/reconcile"
)

// Overwrite target types.
const overwriteTypeRole = 0

type overwritePayload struct {
	ID    string `json:"id"`
	Type  int    `json:"type"`
	Allow string `json:"allow"`
	Deny  string `json:"deny"`
}

type createChannelPayload struct {
	Name                 string             `json:"name"`
	Type                 int                `json:"type"`
	ParentID             string             `json:"parent_id"`
	PermissionOverwrites []overwritePayload `json:"permission_overwrites"`
}

type positionPayload struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
}

// CreateTextChannel creates a text channel under category with a single role
// overwrite. name is sent as given; callers normalize it with ChannelName.
func (c *Client) CreateTextChannel(ctx context.Context, category reconcile.Category, name string, override reconcile.PermissionOverride) (reconcile.ChannelHandle, error) {
	payload := createChannelPayload{
		Name:     name,
		Type:     channelTypeText,
		ParentID: category.ID,
		PermissionOverwrites: []overwritePayload{{
			ID:    override.RoleID,
			Type:  overwriteTypeRole,
			Allow: strconv.FormatUint(uint64(override.Allow), 10),
			Deny:  strconv.FormatUint(uint64(override.Deny), 10),
		}},
	}

	var created channelPayload
	if err := c.do(ctx, http.MethodPost, "/guilds/"+category.GuildID+"/channels", payload, &created); err != nil {
		return "", err
	}
	return reconcile.ChannelHandle(created.ID), nil
}

// DeleteChannel deletes a channel by id.
func (c *Client) DeleteChannel(ctx context.Context, handle reconcile.ChannelHandle) error {
	return c.do(ctx, http.MethodDelete, "/channels/"+string(handle), nil, nil)
}

// ReorderChannels assigns positions 0..n-1 in the order given.
func (c *Client) ReorderChannels(ctx context.Context, category reconcile.Category, ordered []reconcile.Channel) error {
	if len(ordered) == 0 {
		return nil
	}
	positions := make([]positionPayload, len(ordered))
	for i, ch := range ordered {
		positions[i] = positionPayload{ID: string(ch.Handle), Position: i}
	}
	return c.do(ctx, http.MethodPatch, "/guilds/"+category.GuildID+"/channels", positions, nil)
}
