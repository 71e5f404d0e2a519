package presence

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"presence-sync/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T, category string, links LinkWriter) (*fiber.App, *Addon, *fakeDiscord) {
	t.Helper()
	addon, _, discord := newTestAddon(t, category)
	app := fiber.New()
	feature := NewFeature(addon, links, zap.NewNop())
	require.NoError(t, feature.Load(app))
	return app, addon, discord
}

func decode(t *testing.T, app *fiber.App, method, target, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestFeature(t *testing.T) {
	f := NewFeature(NewAddon(nil, reconcile.Config{}, nil), nil, nil)
	assert.Equal(t, "presence", f.Name())
	assert.True(t, f.IsEnabled())
}

func TestHandleStatus(t *testing.T) {
	app, addon, discord := setupTestApp(t, "10", nil)

	code, body := decode(t, app, "GET", "/presence/status", "")
	assert.Equal(t, 200, code)
	assert.Equal(t, "stopped", body["state"])

	require.NoError(t, addon.Load(context.Background()))
	waitForNames(t, discord, "10", "alice")

	code, body = decode(t, app, "GET", "/presence/status", "")
	assert.Equal(t, 200, code)
	assert.Equal(t, "running", body["state"])
	assert.Equal(t, true, body["initialized"])
}

func TestHandleChannels(t *testing.T) {
	app, addon, discord := setupTestApp(t, "10", nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/presence/channels", nil))
	require.NoError(t, err)
	var empty []OwnedChannel
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&empty))
	assert.Empty(t, empty)

	require.NoError(t, addon.Load(context.Background()))
	waitForNames(t, discord, "10", "alice")

	assert.Eventually(t, func() bool {
		resp, err := app.Test(httptest.NewRequest("GET", "/presence/channels", nil))
		if err != nil {
			return false
		}
		var owned []OwnedChannel
		if json.NewDecoder(resp.Body).Decode(&owned) != nil {
			return false
		}
		return len(owned) == 1 && owned[0].UserID == "1"
	}, time.Second, 10*time.Millisecond)
}

func TestHandlePlan(t *testing.T) {
	app, addon, _ := setupTestApp(t, "10", nil)

	code, _ := decode(t, app, "GET", "/presence/plan", "")
	assert.Equal(t, 409, code)

	require.NoError(t, addon.Load(context.Background()))
	code, body := decode(t, app, "GET", "/presence/plan", "")
	assert.Equal(t, 200, code)
	assert.Equal(t, float64(1), body["roster_size"])
}

func TestHandleReload(t *testing.T) {
	app, addon, _ := setupTestApp(t, "99", nil)
	_ = addon.Load(context.Background())

	code, body := decode(t, app, "POST", "/presence/reload", "")
	assert.Equal(t, 422, code)
	assert.Contains(t, body["error"], "99")

	app, _, _ = setupTestApp(t, "10", nil)
	code, body = decode(t, app, "POST", "/presence/reload", "")
	assert.Equal(t, 200, code)
	assert.Equal(t, "running", body["state"])
}

func TestHandleLinks(t *testing.T) {
	links := &fakeLinks{}
	app, _, _ := setupTestApp(t, "10", links)

	code, _ := decode(t, app, "PUT", "/presence/links/7", `{"discord_id":"555","use_discord_name":true}`)
	assert.Equal(t, 200, code)
	assert.Equal(t, reconcile.Link{ExternalAccountID: "555", UseExternalName: true}, links.links["7"])

	code, _ = decode(t, app, "PUT", "/presence/links/7", `{"discord_id":"abc"}`)
	assert.Equal(t, 400, code)

	code, _ = decode(t, app, "PUT", "/presence/links/7", `not json`)
	assert.Equal(t, 400, code)

	code, _ = decode(t, app, "DELETE", "/presence/links/7", "")
	assert.Equal(t, 200, code)

	code, _ = decode(t, app, "DELETE", "/presence/links/7", "")
	assert.Equal(t, 404, code)

	links.err = errors.New("db down")
	code, _ = decode(t, app, "DELETE", "/presence/links/7", "")
	assert.Equal(t, 500, code)
}

func TestHandleLinks_Disabled(t *testing.T) {
	app, _, _ := setupTestApp(t, "10", nil)

	code, body := decode(t, app, "PUT", "/presence/links/7", `{"discord_id":"555"}`)
	assert.Equal(t, 404, code)
	assert.Equal(t, ErrLinkingDisabled.Error(), body["error"])
}
