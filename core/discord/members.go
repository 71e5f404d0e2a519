package discord

import (
	"context"
	"net/http"
)

type memberPayload struct {
	Nick *string `json:"nick"`
	User struct {
		ID         string  `json:"id"`
		Username   string  `json:"username"`
		GlobalName *string `json:"global_name"`
	} `json:"user"`
}

// effectiveName is the name Discord shows in the member list: guild nickname,
// then global display name, then username.
func (m memberPayload) effectiveName() string {
	if m.Nick != nil && *m.Nick != "" {
		return *m.Nick
	}
	if m.User.GlobalName != nil && *m.User.GlobalName != "" {
		return *m.User.GlobalName
	}
	return m.User.Username
}

// Profiles resolves member names within one guild.
type Profiles struct {
	client  *Client
	guildID string
}

// Profiles returns a ProfileService scoped to guildID.
func (c *Client) Profiles(guildID string) *Profiles {
	return &Profiles{client: c, guildID: guildID}
}

// EffectiveName returns the member's display name in the guild.
func (p *Profiles) EffectiveName(ctx context.Context, externalAccountID string) (string, error) {
	var m memberPayload
	if err := p.client.do(ctx, http.MethodGet, "/guilds/"+p.guildID+"/members/"+externalAccountID, nil, &m); err != nil {
		return "", err
	}
	return m.effectiveName(), nil
}
