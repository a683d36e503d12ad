package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EnvPrefix prefixes every environment override, e.g. TABLESMITH_SERVER_PORT.
const EnvPrefix = "TABLESMITH"

// Storage backends.
const (
	BackendDirect       = "direct"
	BackendQueryBuilder = "querybuilder"
	BackendMemory       = "memory"
)

// Config represents the application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Redis    RedisConfig    `mapstructure:"redis"`
	AI       AIConfig       `mapstructure:"ai"`
	Export   ExportConfig   `mapstructure:"export"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

// DatabaseConfig holds connection URLs. The deployment mode picks
// ProductionURL or DevelopmentURL, falling back to URL.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	ProductionURL   string        `mapstructure:"production_url"`
	DevelopmentURL  string        `mapstructure:"development_url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoSchema      bool          `mapstructure:"auto_schema"`
}

type StorageConfig struct {
	// Backend is direct, querybuilder or memory. Empty selects memory when
	// no database URL resolves and direct otherwise.
	Backend string `mapstructure:"backend"`
}

type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type AIConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	Timeout   time.Duration `mapstructure:"timeout"`
	OnFailure string        `mapstructure:"on_failure"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	Debug     bool          `mapstructure:"debug"`
}

type ExportConfig struct {
	PNGEnabled     bool          `mapstructure:"png_enabled"`
	InstallBrowser bool          `mapstructure:"install_browser"`
	RenderTimeout  time.Duration `mapstructure:"render_timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "tablesmith")
	v.SetDefault("app.env", "development")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 90*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("server.max_body_bytes", 2<<20)

	v.SetDefault("database.url", "")
	v.SetDefault("database.production_url", "")
	v.SetDefault("database.development_url", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.auto_schema", true)

	v.SetDefault("storage.backend", "")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "tablesmith:ai:")

	v.SetDefault("ai.base_url", "https://api.openai.com/v1")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.model", "gpt-4o")
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ai.on_failure", "fallback")
	v.SetDefault("ai.cache_ttl", time.Hour)
	v.SetDefault("ai.debug", false)

	v.SetDefault("export.png_enabled", true)
	v.SetDefault("export.install_browser", false)
	v.SetDefault("export.render_timeout", 30*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// bindLegacyEnv maps the variable names older deployments already export.
func bindLegacyEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"database.url":             {"DATABASE_URL"},
		"database.production_url":  {"PROD_DATABASE_URL"},
		"database.development_url": {"DEV_DATABASE_URL"},
		"ai.api_key":               {"OPENAI_API_KEY"},
		"app.env":                  {"NODE_ENV"},
	}
	for key, names := range bindings {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(append([]string{key, prefixed}, names...)...); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	return nil
}

// Manager owns a viper instance and the current decoded Config.
type Manager struct {
	v        *viper.Viper
	logger   *zap.Logger
	mu       sync.RWMutex
	cfg      *Config
	onChange []func(*Config)
}

// Load reads configuration from path, which may be a YAML file, a directory
// holding config.yaml, or empty for defaults plus environment only.
func Load(path string, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindLegacyEnv(v); err != nil {
		return nil, err
	}

	if path != "" {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if info.IsDir() {
			v.SetConfigName("config")
			v.AddConfigPath(path)
		} else {
			v.SetConfigFile(path)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	return &Manager{v: v, logger: logger, cfg: cfg}, nil
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Get returns the current configuration (thread-safe)
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// OnChange registers fn to run after every successful reload.
func (m *Manager) OnChange(fn func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = append(m.onChange, fn)
}

// Watch enables hot reload of the config file. It is a no-op without a file.
func (m *Manager) Watch() {
	if m.v.ConfigFileUsed() == "" {
		return
	}
	m.v.OnConfigChange(func(e fsnotify.Event) {
		m.logger.Info("config file changed", zap.String("file", e.Name), zap.String("op", e.Op.String()))
		m.Reload()
	})
	m.v.WatchConfig()
}

// Reload decodes the current viper state and swaps it in. Invalid configs
// are logged and the previous one is kept.
func (m *Manager) Reload() {
	newCfg, err := decode(m.v)
	if err != nil {
		m.logger.Error("failed to reload config", zap.Error(err))
		return
	}

	m.mu.Lock()
	m.cfg = newCfg
	listeners := slices.Clone(m.onChange)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(newCfg)
	}
	m.logger.Info("configuration reloaded")
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "", BackendDirect, BackendQueryBuilder, BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	switch strings.ToLower(c.AI.OnFailure) {
	case "", "fallback", "error":
	default:
		return fmt.Errorf("unknown ai.on_failure %q", c.AI.OnFailure)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("unknown logging format %q", c.Logging.Format)
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// DatabaseURL resolves the connection URL for the deployment mode.
func (c *Config) DatabaseURL() string {
	if c.App.IsProduction() {
		if c.Database.ProductionURL != "" {
			return c.Database.ProductionURL
		}
		return c.Database.URL
	}
	if c.Database.DevelopmentURL != "" {
		return c.Database.DevelopmentURL
	}
	return c.Database.URL
}

// StorageBackend resolves the configured backend.
func (c *Config) StorageBackend() string {
	if c.Storage.Backend != "" {
		return c.Storage.Backend
	}
	if c.DatabaseURL() == "" {
		return BackendMemory
	}
	return BackendDirect
}

// GetServerAddr returns the server listen address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsProduction returns true if running in production mode
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}
