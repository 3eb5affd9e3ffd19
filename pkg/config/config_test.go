package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, ".", cfg.Storage.DataDir)
	assert.Zero(t, cfg.Storage.BackgroundSave)
	assert.False(t, cfg.Replication.StrictDirection)
	assert.Equal(t, 5*time.Second, cfg.Replication.Interval)
	assert.False(t, cfg.Log.Debug)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docsync.toml")
	content := `
[server]
port = 9090

[storage]
data_dir = "/var/lib/docsync"
background_save = "5m"

[replication]
strict_direction = true
interval = "250ms"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/var/lib/docsync", cfg.Storage.DataDir)
	assert.Equal(t, 5*time.Minute, cfg.Storage.BackgroundSave)
	assert.True(t, cfg.Replication.StrictDirection)
	assert.Equal(t, 250*time.Millisecond, cfg.Replication.Interval)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docsync.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0644))
	t.Setenv("DOCSYNC_SERVER_PORT", "7070")
	t.Setenv("DOCSYNC_LOG_DEBUG", "true")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.True(t, cfg.Log.Debug)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("DOCSYNC_SERVER_PORT", "7070")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 8080, "")
	flags.String("data-dir", ".", "")
	flags.Bool("debug", false, "")
	require.NoError(t, flags.Parse([]string{"--port", "6060", "--data-dir", "/tmp/docs"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, 6060, cfg.Server.Port)
	assert.Equal(t, "/tmp/docs", cfg.Storage.DataDir)
	assert.False(t, cfg.Log.Debug)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"), nil)
		assert.Error(t, err)
	})

	t.Run("invalid port", func(t *testing.T) {
		t.Setenv("DOCSYNC_SERVER_PORT", "70000")
		_, err := Load("", nil)
		assert.ErrorContains(t, err, "server.port")
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:      ServerConfig{Port: 8080, ShutdownTimeout: time.Second},
			Storage:     StorageConfig{DataDir: "."},
			Replication: ReplicationConfig{Interval: time.Second},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, true},
		{"empty data dir", func(c *Config) { c.Storage.DataDir = "" }, true},
		{"negative background save", func(c *Config) { c.Storage.BackgroundSave = -time.Second }, true},
		{"zero replication interval", func(c *Config) { c.Replication.Interval = 0 }, true},
		{"zero shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
