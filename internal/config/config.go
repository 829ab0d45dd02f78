package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Assistant    AssistantConfig    `mapstructure:"assistant"`
	Cache        CacheConfig        `mapstructure:"cache"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit"`
	Snapshot     SnapshotConfig     `mapstructure:"snapshot"`
	TokenChannel TokenChannelConfig `mapstructure:"token_channel"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	Monitoring   MonitoringConfig   `mapstructure:"monitoring"`
	I18n         I18nConfig         `mapstructure:"i18n"`
}

// AssistantConfig describes the remote assistant endpoints. The three paths
// share one base URL and one response shape; only the auth path requires a
// bearer token.
type AssistantConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	ChatPath       string        `mapstructure:"chat_path"`
	AuthChatPath   string        `mapstructure:"auth_chat_path"`
	DirectPath     string        `mapstructure:"direct_path"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type CacheConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	Capacity int  `mapstructure:"capacity"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	Burst             int  `mapstructure:"burst"`
}

type SnapshotConfig struct {
	Enabled     bool         `mapstructure:"enabled"`
	Type        string       `mapstructure:"type"`
	MaxMessages int          `mapstructure:"max_messages"`
	Redis       RedisConfig  `mapstructure:"redis"`
	Memory      MemoryConfig `mapstructure:"memory"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type MemoryConfig struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

type TokenChannelConfig struct {
	Type    string `mapstructure:"type"`
	Channel string `mapstructure:"channel"`
}

type LoggingConfig struct {
	Level  string     `mapstructure:"level"`
	Format string     `mapstructure:"format"`
	Output string     `mapstructure:"output"`
	File   FileConfig `mapstructure:"file"`
}

type FileConfig struct {
	Path       string `mapstructure:"path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

type MonitoringConfig struct {
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

type I18nConfig struct {
	DefaultLanguage string   `mapstructure:"default_language"`
	Languages       []string `mapstructure:"languages"`
	Dir             string   `mapstructure:"dir"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	v.AutomaticEnv()
	v.BindEnv("assistant.base_url", "ASSISTANT_BASE_URL")
	v.BindEnv("snapshot.redis.addr", "REDIS_ADDR")
	v.BindEnv("snapshot.redis.password", "REDIS_PASSWORD")
	v.BindEnv("snapshot.redis.db", "REDIS_DB")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Default returns a configuration with every default applied and no file
// read. Callers still need to set assistant.base_url before dispatching.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		// Defaults are static; unmarshal cannot fail on them.
		panic(err)
	}
	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("assistant.chat_path", "/chat-groq")
	v.SetDefault("assistant.auth_chat_path", "/interagir")
	v.SetDefault("assistant.direct_path", "/groq")
	v.SetDefault("assistant.request_timeout", 30*time.Second)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.capacity", 50)

	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.requests_per_minute", 20)
	v.SetDefault("rate_limit.burst", 5)

	v.SetDefault("snapshot.enabled", false)
	v.SetDefault("snapshot.type", "memory")
	v.SetDefault("snapshot.max_messages", 100)
	v.SetDefault("snapshot.memory.default_expiration", 24*time.Hour)
	v.SetDefault("snapshot.memory.cleanup_interval", time.Hour)

	v.SetDefault("token_channel.type", "memory")
	v.SetDefault("token_channel.channel", "assistant:token")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")

	v.SetDefault("monitoring.metrics.enabled", false)
	v.SetDefault("monitoring.metrics.port", 9090)
	v.SetDefault("monitoring.metrics.path", "/metrics")

	v.SetDefault("i18n.default_language", "pt-BR")
	v.SetDefault("i18n.languages", []string{"pt-BR", "en"})
}

func validateConfig(cfg *Config) error {
	if cfg.Assistant.BaseURL == "" {
		return fmt.Errorf("assistant base URL is required")
	}
	if cfg.Cache.Enabled && cfg.Cache.Capacity <= 0 {
		return fmt.Errorf("cache capacity must be positive")
	}
	if cfg.Snapshot.Enabled {
		switch cfg.Snapshot.Type {
		case "redis", "memory":
		default:
			return fmt.Errorf("unsupported snapshot storage type: %s", cfg.Snapshot.Type)
		}
		if cfg.Snapshot.MaxMessages <= 0 {
			return fmt.Errorf("snapshot max_messages must be positive")
		}
	}
	switch cfg.TokenChannel.Type {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported token channel type: %s", cfg.TokenChannel.Type)
	}
	return nil
}
