package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listenaddr: ":9000"
allowedorigins: "https://buythat.works,http://localhost:3000"
database:
  user: btw
  password: "p@ss word"
  host: db:5432
  db: setups
catalog:
  cachettl: 2m
events:
  mqtt:
    broker: tcp://mqtt:1883
  broker:
    listen: ":1883"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, []string{"https://buythat.works", "http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, 2*time.Minute, cfg.Catalog.CacheTTL)
	assert.Equal(t, "tcp://mqtt:1883", cfg.Events.MQTT.Broker)
	assert.Equal(t, "buythatworks/setups", cfg.Events.MQTT.Topic)
	assert.Equal(t, ":1883", cfg.Events.Broker.Listen)
	assert.Equal(t, "buythatworks/setups", cfg.Events.Broker.Topic)
	assert.Equal(t, int64(5*1024*1024), cfg.Images.MaxBytes)
	assert.Equal(t, 30*time.Second, cfg.Client.Timeout)
	assert.Equal(t, "postgres://btw:p%40ss%20word@db:5432/setups?sslmode=disable", cfg.Database.DSN())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("BTW_LISTENADDR", ":7000")
	t.Setenv("BTW_LOG_LEVEL", "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log]\nformat = \"json\"\n"), 0o600))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.ListenAddr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}
