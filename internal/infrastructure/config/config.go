package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "MAILGUARD"

// Config holds all application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Log        LogConfig        `mapstructure:"log"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Translator TranslatorConfig `mapstructure:"translator"`
	Models     ModelsConfig     `mapstructure:"models"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the connection string for the configured driver
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "mysql" {
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.User, c.Password, c.Host, c.Port, c.DBName)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// RedisConfig holds Redis settings
type RedisConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// File enables rotated file output in addition to stdout
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// AuthConfig holds authentication settings
type AuthConfig struct {
	Realm                string   `mapstructure:"realm"`
	DefaultAdminLogin    string   `mapstructure:"default_admin_login"`
	DefaultAdminPassword string   `mapstructure:"default_admin_password"`
	PredictRoles         []string `mapstructure:"predict_roles"`
}

// TranslatorConfig holds translation client settings
type TranslatorConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	TargetLanguage  string        `mapstructure:"target_language"`
	Timeout         time.Duration `mapstructure:"timeout"`
	BreakerFailures uint32        `mapstructure:"breaker_failures"`
	BreakerCooldown time.Duration `mapstructure:"breaker_cooldown"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
}

// ModelsConfig holds classifier model settings
type ModelsConfig struct {
	Dir               string   `mapstructure:"dir"`
	TokenizersDir     string   `mapstructure:"tokenizers_dir"`
	Labels            []string `mapstructure:"labels"`
	SequenceLength    int      `mapstructure:"sequence_length"`
	SessionPool       int      `mapstructure:"session_pool"`
	IntraOpThreads    int      `mapstructure:"intra_op_threads"`
	SharedLibraryPath string   `mapstructure:"shared_library_path"`
}

// Load reads configuration from defaults, an optional config file and the environment
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks settings that have no usable fallback
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if len(c.Models.Labels) == 0 {
		return errors.New("models.labels must not be empty")
	}
	if c.Models.SequenceLength <= 0 {
		return fmt.Errorf("models.sequence_length must be positive, got %d", c.Models.SequenceLength)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Database
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "mailguard")
	v.SetDefault("database.password", "mailguard")
	v.SetDefault("database.dbname", "mailguard")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	// Redis
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)

	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)

	// Auth
	v.SetDefault("auth.realm", "mailguard")
	v.SetDefault("auth.default_admin_login", "admin")
	v.SetDefault("auth.default_admin_password", "")
	v.SetDefault("auth.predict_roles", []string{})

	// Translator
	v.SetDefault("translator.base_url", "https://translate.googleapis.com")
	v.SetDefault("translator.target_language", "en")
	v.SetDefault("translator.timeout", 10*time.Second)
	v.SetDefault("translator.breaker_failures", 5)
	v.SetDefault("translator.breaker_cooldown", 30*time.Second)
	v.SetDefault("translator.cache_ttl", 24*time.Hour)

	// Models
	v.SetDefault("models.dir", "models")
	v.SetDefault("models.tokenizers_dir", "tokenizers")
	v.SetDefault("models.labels", []string{"fishing", "fraud", "spam"})
	v.SetDefault("models.sequence_length", 10)
	v.SetDefault("models.session_pool", 2)
	v.SetDefault("models.intra_op_threads", 1)
	v.SetDefault("models.shared_library_path", "")
}
