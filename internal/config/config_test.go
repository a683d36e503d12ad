package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

func clearLegacyEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"DATABASE_URL", "PROD_DATABASE_URL", "DEV_DATABASE_URL", "OPENAI_API_KEY", "NODE_ENV"} {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearLegacyEnv(t)

	m, err := Load("", zaptest.NewLogger(t))
	require.NoError(t, err)
	cfg := m.Get()

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:5000", cfg.Server.GetServerAddr())
	assert.Equal(t, 60*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "fallback", cfg.AI.OnFailure)
	assert.Equal(t, "gpt-4o", cfg.AI.Model)
	assert.Equal(t, "development", cfg.App.Env)
	assert.False(t, cfg.App.IsProduction())
	assert.Equal(t, BackendMemory, cfg.StorageBackend())
	assert.True(t, cfg.Database.AutoSchema)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	clearLegacyEnv(t)
	t.Setenv("TABLESMITH_SERVER_PORT", "8081")
	t.Setenv("TABLESMITH_AI_ON_FAILURE", "error")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DATABASE_URL", "postgres://localhost/tables")

	m, err := Load("", nil)
	require.NoError(t, err)
	cfg := m.Get()

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "error", cfg.AI.OnFailure)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
	assert.Equal(t, "postgres://localhost/tables", cfg.DatabaseURL())
	assert.Equal(t, BackendDirect, cfg.StorageBackend())
}

func TestDatabaseURLByMode(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "production prefers production url",
			cfg: Config{
				App:      AppConfig{Env: "production"},
				Database: DatabaseConfig{URL: "base", ProductionURL: "prod", DevelopmentURL: "dev"},
			},
			want: "prod",
		},
		{
			name: "production falls back to url",
			cfg: Config{
				App:      AppConfig{Env: "production"},
				Database: DatabaseConfig{URL: "base", DevelopmentURL: "dev"},
			},
			want: "base",
		},
		{
			name: "development prefers development url",
			cfg: Config{
				App:      AppConfig{Env: "development"},
				Database: DatabaseConfig{URL: "base", ProductionURL: "prod", DevelopmentURL: "dev"},
			},
			want: "dev",
		},
		{
			name: "nothing configured",
			cfg:  Config{App: AppConfig{Env: "development"}},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.DatabaseURL())
		})
	}
}

func TestLegacyProductionEnv(t *testing.T) {
	clearLegacyEnv(t)
	t.Setenv("NODE_ENV", "production")
	t.Setenv("PROD_DATABASE_URL", "mysql://prod/tables")
	t.Setenv("DEV_DATABASE_URL", "sqlite3://dev.db")

	m, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "mysql://prod/tables", m.Get().DatabaseURL())
}

func TestLoadFromDirectory(t *testing.T) {
	clearLegacyEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, `
server:
  port: 9000
storage:
  backend: querybuilder
database:
  url: sqlite3://tables.db
logging:
  level: debug
  format: json
`)

	m, err := Load(dir, nil)
	require.NoError(t, err)
	cfg := m.Get()
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, BackendQueryBuilder, cfg.StorageBackend())
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	clearLegacyEnv(t)
	dir := t.TempDir()

	path := writeConfig(t, dir, "storage:\n  backend: mongo\n")
	_, err := Load(path, nil)
	assert.ErrorContains(t, err, "unknown storage backend")

	path = writeConfig(t, dir, "logging:\n  level: chatty\n")
	_, err = Load(path, nil)
	assert.ErrorContains(t, err, "unknown log level")

	_, err = Load(filepath.Join(dir, "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestReloadNotifiesListeners(t *testing.T) {
	clearLegacyEnv(t)
	dir := t.TempDir()
	path := writeConfig(t, dir, "logging:\n  level: info\n")

	m, err := Load(path, zaptest.NewLogger(t))
	require.NoError(t, err)

	var seen []string
	m.OnChange(func(c *Config) { seen = append(seen, c.Logging.Level) })

	writeConfig(t, dir, "logging:\n  level: debug\n")
	require.NoError(t, m.v.ReadInConfig())
	m.Reload()
	assert.Equal(t, []string{"debug"}, seen)
	assert.Equal(t, "debug", m.Get().Logging.Level)

	writeConfig(t, dir, "logging:\n  level: loud\n")
	require.NoError(t, m.v.ReadInConfig())
	m.Reload()
	assert.Equal(t, []string{"debug"}, seen, "invalid config must not be applied")
	assert.Equal(t, "debug", m.Get().Logging.Level)
}

func TestOnChangeFromListener(t *testing.T) {
	clearLegacyEnv(t)
	dir := t.TempDir()
	path := writeConfig(t, dir, "logging:\n  level: info\n")

	m, err := Load(path, zaptest.NewLogger(t))
	require.NoError(t, err)

	var calls []string
	m.OnChange(func(c *Config) {
		calls = append(calls, "first:"+c.Logging.Level)
		m.OnChange(func(c *Config) { calls = append(calls, "late:"+c.Logging.Level) })
	})
	m.OnChange(func(c *Config) { calls = append(calls, "second:"+c.Logging.Level) })

	writeConfig(t, dir, "logging:\n  level: warn\n")
	require.NoError(t, m.v.ReadInConfig())
	m.Reload()
	assert.Equal(t, []string{"first:warn", "second:warn"}, calls)

	calls = nil
	writeConfig(t, dir, "logging:\n  level: error\n")
	require.NoError(t, m.v.ReadInConfig())
	m.Reload()
	assert.Equal(t, []string{"first:error", "second:error", "late:error"}, calls)
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, level, err := NewLoggerTo(LoggingConfig{Level: "warn", Format: "json"}, zapcore.AddSync(&buf))
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	require.NoError(t, logger.Sync())
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	LevelUpdater(level, logger)(&Config{Logging: LoggingConfig{Level: "debug"}})
	assert.Equal(t, zapcore.DebugLevel, level.Level())

	LevelUpdater(level, logger)(&Config{Logging: LoggingConfig{Level: "bogus"}})
	assert.Equal(t, zapcore.DebugLevel, level.Level())
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, lvl)

	lvl, err = ParseLevel("WARNING")
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, lvl)

	_, err = ParseLevel("trace")
	assert.Error(t, err)
}
