package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "arcturus", cfg.Server.Emulator)
	assert.Equal(t, 1, cfg.Presence.UpdateInterval)
	assert.Equal(t, 1000, cfg.Presence.SortGraceMs)
	assert.Equal(t, 3000, cfg.Linking.ResolveTimeoutMs)
	assert.False(t, cfg.Linking.Enabled)
	assert.Equal(t, "https://discord.com/api/v10", cfg.Discord.BaseURL)
	assert.Equal(t, "presence-sync", cfg.Telemetry.ServiceName)
}

func TestLoadConfig_Sources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "presence.yaml"), "presence:\n  guild_id: \"111\"\n  category_id: \"222\"\n  update_interval: 5\n")

	t.Setenv("PRESENCE_UPDATE_INTERVAL", "7")
	t.Setenv("LINKING_ENABLED", "true")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "111", cfg.Presence.GuildID)
	assert.Equal(t, "222", cfg.Presence.CategoryID)
	assert.Equal(t, 7, cfg.Presence.UpdateInterval)
	assert.True(t, cfg.Linking.Enabled)

	settings := cfg.Presence.Settings()
	assert.Equal(t, 7*time.Second, settings.Interval)
	assert.Equal(t, time.Second, settings.SortGrace)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)
		cfg.Presence.GuildID = "111"
		cfg.Presence.CategoryID = "222"
		cfg.Discord.Token = "token"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"Valid", func(*Config) {}, ""},
		{"Missing guild", func(c *Config) { c.Presence.GuildID = "" }, "GuildID"},
		{"Non-numeric category", func(c *Config) { c.Presence.CategoryID = "abc" }, "CategoryID"},
		{"Zero interval", func(c *Config) { c.Presence.UpdateInterval = 0 }, "UpdateInterval"},
		{"Missing token", func(c *Config) { c.Discord.Token = "" }, "Token"},
		{"Unknown emulator", func(c *Config) { c.Server.Emulator = "nitro" }, "unknown emulator"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIsConfigFile(t *testing.T) {
	assert.True(t, isConfigFile("/etc/presence/.env"))
	assert.True(t, isConfigFile("presence.yaml"))
	assert.True(t, isConfigFile("/x/presence.toml"))
	assert.False(t, isConfigFile("/x/other.yaml"))
	assert.False(t, isConfigFile("/x/.env.swp"))
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "presence.yaml")
	writeFile(t, path, "presence:\n  guild_id: \"111\"\n  category_id: \"222\"\ndiscord:\n  token: \"t\"\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 1)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, zap.NewNop(), func(cfg *Config) { changes <- cfg })
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, path, "presence:\n  guild_id: \"111\"\n  category_id: \"333\"\ndiscord:\n  token: \"t\"\n")

	select {
	case cfg := <-changes:
		assert.Equal(t, "333", cfg.Presence.CategoryID)
	case <-time.After(3 * time.Second):
		t.Fatal("no reload after config change")
	}

	cancel()
	assert.NoError(t, <-done)
}
