package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ":25565", cfg.ListenAddress)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout())
	assert.Equal(t, 15*time.Second, cfg.KeepAlive())
	assert.Equal(t, 5*time.Minute, cfg.ChunkCacheTTL())
	assert.Equal(t, 10*time.Second, cfg.WriteTimeout())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glowstone.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
motd = "Hello"
max_players = 5
encryption = false
cipher = "xtea"
world_dir = "/tmp/world"
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Hello", cfg.MOTD)
	assert.Equal(t, 5, cfg.MaxPlayers)
	assert.False(t, cfg.Encryption)
	assert.Equal(t, "xtea", cfg.Cipher)
	assert.Equal(t, "/tmp/world", cfg.WorldDir)
	assert.Equal(t, 3, cfg.ViewDistance, "unset keys keep their defaults")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GLOWSTONE_MAX_PLAYERS", "7")
	t.Setenv("GLOWSTONE_WORLD_COMPRESSION", "lz4")
	t.Setenv("GLOWSTONE_ENCRYPTION", "false")
	t.Setenv("GLOWSTONE_LISTEN_ADDRESS", "127.0.0.1:1")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.MaxPlayers)
	assert.Equal(t, "lz4", cfg.WorldCompression)
	assert.False(t, cfg.Encryption)
	assert.Equal(t, "127.0.0.1:1", cfg.ListenAddress)

	t.Setenv("GLOWSTONE_VIEW_DISTANCE", "far")
	_, err = Load("")
	assert.Error(t, err)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"syntax":   `motd = `,
		"type":     `max_players = "many"`,
		"cipher":   `cipher = "rot13"`,
		"distance": `view_distance = 0`,
		"players":  `max_players = 1000`,
		"compress": `world_compression = "zip"`,
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".toml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}
