package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:4000", c.ListenAddr)
	assert.Equal(t, 24*time.Hour, c.TokenTTL)
	assert.NotEmpty(t, c.SecretKey)
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devapi.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"listen_addr":"0.0.0.0:1","secret_key":"json","token_ttl":"1h"}`), 0o600))
	t.Setenv("JOURNIFY_DEVAPI_SECRET_KEY", "env")

	c, err := LoadConfig([]string{"--config", path, "-ttl", "5m"})
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:1", c.ListenAddr)
	assert.Equal(t, "env", c.SecretKey)
	assert.Equal(t, 5*time.Minute, c.TokenTTL)
}

func TestLoadConfig_BadTTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devapi.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token_ttl":"soon"}`), 0o600))

	_, err := LoadConfig([]string{"-c", path})
	require.Error(t, err)
}
