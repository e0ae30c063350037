package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "SECONDCHANCE"

// keys without defaults still need binding so AutomaticEnv sees them on Unmarshal.
var boundKeys = []string{
	"database.url",
	"auth.jwt_secret",
	"assets.s3.bucket",
	"assets.s3.region",
	"assets.s3.endpoint",
	"assets.s3.access_key",
	"assets.s3.secret_key",
	"assets.s3.public_base_url",
	"tracing.endpoint",
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range boundKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	if cfg.Assets.Backend == "s3" && cfg.Assets.S3.Bucket == "" {
		return nil, fmt.Errorf("configuration validation failed: assets.s3.bucket is required for the s3 backend")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.request_timeout", 30*time.Second)

	v.SetDefault("database.query_timeout", 5*time.Second)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.login_failure_status", 404)

	v.SetDefault("assets.backend", "filesystem")
	v.SetDefault("assets.dir", "public/images")
	v.SetDefault("assets.public_path", "/images")
	v.SetDefault("assets.max_upload_bytes", 5*1024*1024)

	v.SetDefault("tracing.service_name", "secondchance-api")

	v.SetDefault("tasks.worker_count", 2)
	v.SetDefault("tasks.queue_size", 100)
}
