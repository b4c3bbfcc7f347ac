package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Ingest  IngestConfig  `mapstructure:"ingest"`
	Redis   RedisConfig   `mapstructure:"redis"`
	NATS    NATSConfig    `mapstructure:"nats"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port" validate:"gt=0,lt=65536"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// StorageConfig selects the Record Store backend. Credentials may be left
// empty; the service then answers every request with a configuration error.
type StorageConfig struct {
	Backend   string          `mapstructure:"backend" validate:"omitempty,oneof=file postgrest postgres"`
	File      FileConfig      `mapstructure:"file"`
	PostgREST PostgRESTConfig `mapstructure:"postgrest"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
}

type FileConfig struct {
	Path string `mapstructure:"path"`
}

type PostgRESTConfig struct {
	URL     string        `mapstructure:"url"`
	Key     string        `mapstructure:"key"`
	Table   string        `mapstructure:"table"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type PostgresConfig struct {
	DSN            string `mapstructure:"dsn"`
	MigrationsPath string `mapstructure:"migrations_path"`
	AutoMigrate    bool   `mapstructure:"auto_migrate"`
}

type IngestConfig struct {
	MaxBodyBytes      int64         `mapstructure:"max_body_bytes" validate:"gt=0"`
	RateLimitEnabled  bool          `mapstructure:"rate_limit_enabled"`
	RateLimitRequests int           `mapstructure:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindow   time.Duration `mapstructure:"rate_limit_window"`
}

type RedisConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url" validate:"required_if=Enabled true"`
}

type NATSConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url" validate:"required_if=Enabled true"`
	Name    string `mapstructure:"name"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json text"`
}

var validate = validator.New()

// envAliases lets deployments keep the variable names the hosted setup already uses.
var envAliases = map[string][]string{
	"server.port":           {"SURVEY_SERVER_PORT", "PORT"},
	"storage.postgrest.url": {"SURVEY_STORAGE_POSTGREST_URL", "SUPABASE_URL"},
	"storage.postgrest.key": {"SURVEY_STORAGE_POSTGREST_KEY", "SUPABASE_KEY"},
	"storage.postgres.dsn":  {"SURVEY_STORAGE_POSTGRES_DSN", "DATABASE_URL"},
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 4000)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.file.path", "data/submissions.json")
	v.SetDefault("storage.postgrest.url", "")
	v.SetDefault("storage.postgrest.key", "")
	v.SetDefault("storage.postgrest.table", "submissions")
	v.SetDefault("storage.postgrest.timeout", "10s")
	v.SetDefault("storage.postgres.dsn", "")
	v.SetDefault("storage.postgres.migrations_path", "file://migrations")
	v.SetDefault("storage.postgres.auto_migrate", true)
	v.SetDefault("ingest.max_body_bytes", 1048576)
	v.SetDefault("ingest.rate_limit_enabled", false)
	v.SetDefault("ingest.rate_limit_requests", 30)
	v.SetDefault("ingest.rate_limit_window", "1m")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.name", "survey-submissions")
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/survey/submissions")
	}

	// Environment variables override (SURVEY_STORAGE_BACKEND, etc.)
	v.SetEnvPrefix("SURVEY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envAliases {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
