package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("STORE_BACKEND", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.True(t, cfg.Breaker.Enabled)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `
server_address: ":9000"
store_backend: sqlite
sqlite_path: /tmp/file.db
log_level: warn
breaker:
  timeout: 5s
  consecutive_failures: 2
`)

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_ADDRESS", ":9100")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.ServerAddress)
	assert.Equal(t, StoreSQLite, cfg.StoreBackend)
	assert.Equal(t, "/tmp/file.db", cfg.SQLitePath)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.Breaker.Timeout)
	assert.Equal(t, uint32(2), cfg.Breaker.ConsecutiveFailures)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, path, cfg.ConfigFile)
}

func TestLoadConfig_RateLimitFromEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "7")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 2.5, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 7, cfg.RateLimit.Burst)
}

func TestLoadConfig_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "server_address: [unterminated")
	t.Setenv("CONFIG_FILE", path)

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "unknown backend", mutate: func(c *Config) { c.StoreBackend = "mongo" }, wantErr: "unknown STORE_BACKEND"},
		{name: "dynamodb without table", mutate: func(c *Config) {
			c.StoreBackend = StoreDynamoDB
			c.DynamoDBTable = ""
		}, wantErr: "DYNAMODB_TABLE"},
		{name: "sqlite without path", mutate: func(c *Config) {
			c.StoreBackend = StoreSQLite
			c.SQLitePath = ""
		}, wantErr: "SQLITE_PATH"},
		{name: "tracing without endpoint", mutate: func(c *Config) { c.EnableTracing = true }, wantErr: "OTLP_ENDPOINT"},
		{name: "negative rate limit", mutate: func(c *Config) { c.RateLimit.RequestsPerSecond = -1 }, wantErr: "RATE_LIMIT_RPS"},
		{name: "rate limit without burst", mutate: func(c *Config) {
			c.RateLimit = RateLimitConfig{RequestsPerSecond: 5}
		}, wantErr: "RATE_LIMIT_BURST"},
		{name: "rate limit enabled", mutate: func(c *Config) { c.RateLimit.RequestsPerSecond = 5 }},
		{name: "breaker without threshold", mutate: func(c *Config) { c.Breaker.ConsecutiveFailures = 0 }, wantErr: "BREAKER_CONSECUTIVE_FAILURES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
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

func TestWatcher_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "log_level: info\n")

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	w, err := NewWatcher(path, level, zap.NewNop())
	require.NoError(t, err)
	defer w.Stop()

	var seen []string
	w.OnChange(func(s ReloadableSettings) { seen = append(seen, s.LogLevel) })

	writeFile(t, path, "log_level: debug\n")
	require.NoError(t, w.Reload())
	assert.Equal(t, zapcore.DebugLevel, level.Level())

	writeFile(t, path, "log_level: shouting\n")
	assert.Error(t, w.Reload())
	assert.Equal(t, zapcore.DebugLevel, level.Level())

	assert.Equal(t, []string{"debug"}, seen)
}

func TestWatcher_PicksUpFileChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "log_level: info\n")

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	w, err := NewWatcher(path, level, zap.NewNop())
	require.NoError(t, err)
	w.Start()
	defer w.Stop()

	writeFile(t, path, "log_level: error\n")

	assert.Eventually(t, func() bool {
		return level.Level() == zapcore.ErrorLevel
	}, 3*time.Second, 20*time.Millisecond)
}
