package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(body), 0o600))
	return dir
}

func load(t *testing.T, dir string) (Config, error) {
	t.Helper()

	v, err := New(dir)
	require.NoError(t, err)
	return Load(v)
}

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PORT", "")

	cfg, err := load(t, dir)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Dir)
	assert.Equal(t, BackendTOML, cfg.Store.Backend)
	assert.Equal(t, filepath.Join(dir, "directory.toml"), cfg.Store.Path)
	assert.Equal(t, DefaultSecretRef, cfg.Gateway.SecretRef)
	assert.Equal(t, "savior.gateway", cfg.Gateway.Exchange)
	assert.Equal(t, 10*time.Second, cfg.Gateway.RequestTimeout)
	assert.Equal(t, 16, cfg.Gateway.Prefetch)
	assert.Equal(t, 3800, cfg.Router.ChunkSize)
	assert.Equal(t, 500, cfg.Router.ReplyIndexCapacity)
	assert.False(t, cfg.Router.MirrorReplies)
	assert.InDelta(t, 20.0, cfg.Broadcast.Rate, 0.001)
	assert.Equal(t, ":10000", cfg.Keepalive.Addr)
	assert.True(t, cfg.Keepalive.Enabled)
	assert.Equal(t, slog.LevelInfo, cfg.Log.SlogLevel())
	assert.Empty(t, cfg.Operators.IDs)
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := writeConfig(t, `
[operators]
ids = ["op-1", " op-2 ", "op-1"]
controller = "op-1"

[store]
backend = "bolt"

[gateway]
url = "amqp://bot:pw@broker:5672/"
request_timeout = "3s"

[router]
chunk_size = 1000
mirror_replies = true

[log]
level = "debug"
format = "text"
`)

	cfg, err := load(t, dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"op-1", "op-2"}, cfg.Operators.IDs)
	assert.Equal(t, "op-1", cfg.Operators.Controller)
	assert.Equal(t, BackendBolt, cfg.Store.Backend)
	assert.Equal(t, filepath.Join(dir, "directory.bolt"), cfg.Store.Path)
	assert.Equal(t, "amqp://bot:pw@broker:5672/", cfg.Gateway.URL)
	assert.Equal(t, 3*time.Second, cfg.Gateway.RequestTimeout)
	assert.Equal(t, 1000, cfg.Router.ChunkSize)
	assert.True(t, cfg.Router.MirrorReplies)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())

	roster, err := cfg.Roster()
	require.NoError(t, err)
	assert.True(t, roster.IsController("op-1"))
	assert.Len(t, roster.Operators, 2)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	dir := writeConfig(t, "[operators]\nids = [\"op-1\"]\n")
	t.Setenv("SAVIOR_OPERATORS_IDS", "op-7, op-8")
	t.Setenv("SAVIOR_ROUTER_FANOUT_CONCURRENCY", "2")
	t.Setenv("PORT", "8080")

	cfg, err := load(t, dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"op-7", "op-8"}, cfg.Operators.IDs)
	assert.Equal(t, 2, cfg.Router.FanoutConcurrency)
	assert.Equal(t, ":8080", cfg.Keepalive.Addr)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "unknown backend", body: "[store]\nbackend = \"sqlite\"\n", wantErr: KeyStoreBackend},
		{name: "controller outside roster", body: "[operators]\nids = [\"op-1\"]\ncontroller = \"op-9\"\n", wantErr: KeyController},
		{name: "bad log level", body: "[log]\nlevel = \"loud\"\n", wantErr: KeyLogLevel},
		{name: "bad log format", body: "[log]\nformat = \"xml\"\n", wantErr: KeyLogFormat},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := load(t, writeConfig(t, tc.body))
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	v, err := New(writeConfig(t, "[operators\n"))
	require.Error(t, err)
	assert.Nil(t, v)
	assert.ErrorContains(t, err, "read config file")
}

func TestRosterRequiresOperators(t *testing.T) {
	cfg, err := load(t, t.TempDir())
	require.NoError(t, err)

	_, err = cfg.Roster()
	require.Error(t, err)
	assert.ErrorContains(t, err, KeyOperatorIDs)
}

func TestExpandHomeStorePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := load(t, writeConfig(t, "[store]\npath = \"~/desk/directory.toml\"\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "desk", "directory.toml"), cfg.Store.Path)
}
