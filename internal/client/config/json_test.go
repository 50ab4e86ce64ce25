package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	t.Run("overlays present keys", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{
			"server_endpoint_addr": "www.example:9000",
			"principal":            "alice",
			"timeout":              "3s",
		})

		var cfg Config
		cfg.LoadDefaults()
		require.NoError(t, LoadFile(&cfg, path))

		assert.Equal(t, "www.example:9000", cfg.ServerEndpointAddr)
		assert.Equal(t, "alice", cfg.Principal)
		assert.Equal(t, 3*time.Second, cfg.Timeout)
		assert.Equal(t, 60*time.Minute, cfg.TokenTTL)
		assert.Equal(t, "secretKey", cfg.SecretKey)
	})

	t.Run("empty path → no changes", func(t *testing.T) {
		cfg := Config{ServerEndpointAddr: "defaults:1234"}
		require.NoError(t, LoadFile(&cfg, ""))
		assert.Equal(t, "defaults:1234", cfg.ServerEndpointAddr)
	})

	t.Run("missing file", func(t *testing.T) {
		require.Error(t, LoadFile(&Config{}, filepath.Join(t.TempDir(), "nope.json")))
	})

	t.Run("invalid JSON", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		require.Error(t, LoadFile(&Config{}, bad))
	})
}
