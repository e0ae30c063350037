package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Assets   AssetsConfig   `mapstructure:"assets"   validate:"required"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Tasks    TaskConfig     `mapstructure:"tasks"    validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// RequestTimeout bounds the whole handling of a single HTTP request.
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"required,gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	// URL selects the backend by scheme: postgres://, postgresql:// or sqlite:<dsn>.
	URL             string        `mapstructure:"url"               validate:"required"`
	QueryTimeout    time.Duration `mapstructure:"query_timeout"     validate:"required,gt=0"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"    validate:"gte=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret  string `mapstructure:"jwt_secret"  validate:"required,min=32"`
	BcryptCost int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
	// LoginFailureStatus is returned for both unknown emails and wrong passwords.
	LoginFailureStatus int `mapstructure:"login_failure_status" validate:"oneof=401 404"`
}

// AssetsConfig controls where uploaded item images are stored.
type AssetsConfig struct {
	Backend        string   `mapstructure:"backend"          validate:"required,oneof=filesystem s3"`
	Dir            string   `mapstructure:"dir"              validate:"required_if=Backend filesystem"`
	PublicPath     string   `mapstructure:"public_path"      validate:"required,startswith=/"`
	MaxUploadBytes int64    `mapstructure:"max_upload_bytes" validate:"gt=0"`
	S3             S3Config `mapstructure:"s3"`
}

// S3Config holds settings for an S3-compatible object store.
type S3Config struct {
	Bucket        string `mapstructure:"bucket"`
	Region        string `mapstructure:"region"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

// TracingConfig enables OpenTelemetry export when Endpoint is set.
type TracingConfig struct {
	Endpoint    string `mapstructure:"endpoint"     validate:"omitempty,url"`
	ServiceName string `mapstructure:"service_name"`
}

// TaskConfig sizes the background task queue and worker pool.
type TaskConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"gte=1"`
	QueueSize   int `mapstructure:"queue_size"   validate:"gte=1"`
}
