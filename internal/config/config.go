package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Logger       LoggerConfig       `yaml:"logger"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	Cache        CacheConfig        `yaml:"cache"`
	Auth         AuthConfig         `yaml:"auth"`
	S3           S3Config           `yaml:"s3"`
	Notification NotificationConfig `yaml:"notification"`
	Jobs         JobsConfig         `yaml:"jobs"`
	CORS         CORSConfig         `yaml:"cors"`
}

type ServerConfig struct {
	Port     int    `yaml:"port"`
	Mode     string `yaml:"mode"`
	BasePath string `yaml:"base_path"`
	// PublicURL is the externally visible API root used in feed links.
	// Derived from the request when empty.
	PublicURL       string        `yaml:"public_url"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
}

type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite"
	Driver          string        `yaml:"driver"`
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	AutoMigrate     bool          `yaml:"auto_migrate"`
}

type RedisConfig struct {
	URL string `yaml:"url"`
}

func (r RedisConfig) Enabled() bool {
	return r.URL != ""
}

type CacheConfig struct {
	// Backend is "memory" or "redis"
	Backend            string        `yaml:"backend"`
	TTL                time.Duration `yaml:"ttl"`
	Capacity           int           `yaml:"capacity"`
	NumShards          int           `yaml:"num_shards"`
	EvictionPercentage int           `yaml:"eviction_percentage"`
	InvalidateTimeout  time.Duration `yaml:"invalidate_timeout"`
}

type AuthConfig struct {
	// Mode is "jwt" (verify session tokens locally) or "remote" (ask the identity provider)
	Mode          string        `yaml:"mode"`
	JWTSecret     string        `yaml:"jwt_secret"`
	SessionCookie string        `yaml:"session_cookie"`
	IdentityURL   string        `yaml:"identity_url"`
	Timeout       time.Duration `yaml:"timeout"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

func (s S3Config) Enabled() bool {
	return s.Bucket != ""
}

type NotificationConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

type JobsConfig struct {
	CounterAuditSchedule    string `yaml:"counter_audit_schedule"`
	BusinessMetricsSchedule string `yaml:"business_metrics_schedule"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8000,
			Mode:            "debug",
			BasePath:        "/api",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logger: LoggerConfig{Level: "info"},
		Database: DatabaseConfig{
			Driver:          "sqlite",
			DSN:             "feedback.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			AutoMigrate:     true,
		},
		Cache: CacheConfig{
			Backend:            "memory",
			TTL:                5 * time.Minute,
			Capacity:           10000,
			NumShards:          64,
			EvictionPercentage: 10,
			InvalidateTimeout:  3 * time.Second,
		},
		Auth: AuthConfig{
			Mode:          "jwt",
			SessionCookie: "session_token",
			Timeout:       5 * time.Second,
		},
		Notification: NotificationConfig{Timeout: 5 * time.Second},
		Jobs: JobsConfig{
			CounterAuditSchedule:    "@every 10m",
			BusinessMetricsSchedule: "@every 1m",
		},
		CORS: CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
}

// Load reads the yaml file at path if it exists and applies environment overrides
func Load(path string) (*Config, error) {
	cfg := Default()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		cfg.Server.Mode = mode
	}
	if basePath := os.Getenv("SERVER_BASE_PATH"); basePath != "" {
		cfg.Server.BasePath = basePath
	}
	if publicURL := os.Getenv("PUBLIC_URL"); publicURL != "" {
		cfg.Server.PublicURL = publicURL
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.Logger.Level = logLevel
	}
	if driver := os.Getenv("DATABASE_DRIVER"); driver != "" {
		cfg.Database.Driver = driver
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.DSN = dbURL
		if os.Getenv("DATABASE_DRIVER") == "" {
			cfg.Database.Driver = "postgres"
		}
	}
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cfg.Redis.URL = redisURL
	}
	if backend := os.Getenv("CACHE_BACKEND"); backend != "" {
		cfg.Cache.Backend = backend
	}
	if mode := os.Getenv("AUTH_MODE"); mode != "" {
		cfg.Auth.Mode = mode
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if identityURL := os.Getenv("IDENTITY_URL"); identityURL != "" {
		cfg.Auth.IdentityURL = identityURL
	}
	if bucket := os.Getenv("S3_BUCKET"); bucket != "" {
		cfg.S3.Bucket = bucket
	}
	if region := os.Getenv("S3_REGION"); region != "" {
		cfg.S3.Region = region
	}
	if endpoint := os.Getenv("S3_ENDPOINT"); endpoint != "" {
		cfg.S3.Endpoint = endpoint
	}
	if accessKey := os.Getenv("S3_ACCESS_KEY"); accessKey != "" {
		cfg.S3.AccessKey = accessKey
	}
	if secretKey := os.Getenv("S3_SECRET_KEY"); secretKey != "" {
		cfg.S3.SecretKey = secretKey
	}
	if notiURL := os.Getenv("NOTIFICATION_URL"); notiURL != "" {
		cfg.Notification.BaseURL = notiURL
	}
	if apiKey := os.Getenv("INTERNAL_API_KEY"); apiKey != "" {
		cfg.Notification.APIKey = apiKey
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORS.AllowedOrigins = strings.Split(origins, ",")
	}
}

// Validate rejects combinations the server cannot start with
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.Cache.Backend {
	case "memory":
	case "redis":
		if !c.Redis.Enabled() {
			return fmt.Errorf("cache backend redis requires redis.url")
		}
	default:
		return fmt.Errorf("unsupported cache backend %q", c.Cache.Backend)
	}
	switch c.Auth.Mode {
	case "jwt":
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("auth mode jwt requires auth.jwt_secret")
		}
	case "remote":
		if c.Auth.IdentityURL == "" {
			return fmt.Errorf("auth mode remote requires auth.identity_url")
		}
	default:
		return fmt.Errorf("unsupported auth mode %q", c.Auth.Mode)
	}
	return nil
}
