// Package config provides application configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// environment variables (a .env file is loaded into the environment first).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	App      AppConfig      `yaml:"app"`
	Auth     AuthConfig     `yaml:"auth"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"read_timeout"`  // seconds
	WriteTimeout int    `yaml:"write_timeout"` // seconds
	IdleTimeout  int    `yaml:"idle_timeout"`  // seconds
}

// DatabaseConfig holds connection settings. Driver is "postgres" or "sqlite";
// for sqlite, Path is the database file.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
	Path     string `yaml:"path"`
	Debug    bool   `yaml:"debug"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev        bool `yaml:"dev"`
	Migrations bool `yaml:"migrations"`
	Seed       bool `yaml:"seed"`
}

// AuthConfig holds token and bootstrap account settings.
type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	TokenTTL      int    `yaml:"token_ttl"` // minutes
	AdminUsername string `yaml:"admin_username"`
	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`
}

// StorageConfig selects where uploaded files live. Backend is "disk" or "s3".
type StorageConfig struct {
	Backend        string `yaml:"backend"`
	Dir            string `yaml:"dir"`
	MaxUploadMB    int    `yaml:"max_upload_mb"`
	S3Bucket       string `yaml:"s3_bucket"`
	S3Region       string `yaml:"s3_region"`
	S3Endpoint     string `yaml:"s3_endpoint"`
	S3AccessKey    string `yaml:"s3_access_key"`
	S3SecretKey    string `yaml:"s3_secret_key"`
	S3UsePathStyle bool   `yaml:"s3_use_path_style"`
}

// LogConfig configures the zap logger. Format is "json" or "console".
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DSN returns the PostgreSQL connection string in key=value format.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the PostgreSQL connection string in URL format.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// TokenDuration returns the token validity.
func (a AuthConfig) TokenDuration() time.Duration {
	return time.Duration(a.TokenTTL) * time.Minute
}

// MaxUploadBytes returns the upload size limit in bytes.
func (s StorageConfig) MaxUploadBytes() int64 {
	return int64(s.MaxUploadMB) << 20
}

// Default returns the development defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080", ReadTimeout: 15, WriteTimeout: 15, IdleTimeout: 60},
		Database: DatabaseConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     5432,
			User:     "mairie",
			Password: "mairie123",
			DBName:   "mairie",
			SSLMode:  "disable",
			Path:     "mairie.db",
		},
		App:  AppConfig{Dev: true},
		Auth: AuthConfig{JWTSecret: "devjwtsecret", TokenTTL: 24 * 60, AdminUsername: "admin", AdminEmail: "admin@mairie.local"},
		Storage: StorageConfig{
			Backend:     "disk",
			Dir:         "uploads",
			MaxUploadMB: 5,
			S3Region:    "us-east-1",
			S3Bucket:    "mairie",
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// Load builds the configuration. path may be empty to skip the YAML file.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.ReadTimeout = getEnvInt("SERVER_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvInt("SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.IdleTimeout = getEnvInt("SERVER_IDLE_TIMEOUT", c.Server.IdleTimeout)

	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnvInt("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.DBName = getEnv("DB_NAME", c.Database.DBName)
	c.Database.SSLMode = getEnv("DB_SSLMODE", c.Database.SSLMode)
	c.Database.Path = getEnv("DB_PATH", c.Database.Path)
	c.Database.Debug = getEnvBool("DB_DEBUG", c.Database.Debug)

	c.App.Dev = getEnvBool("DEV", c.App.Dev)
	c.App.Migrations = getEnvBool("MIGRATIONS", c.App.Migrations)
	c.App.Seed = getEnvBool("DB_SEED", c.App.Seed)

	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.TokenTTL = getEnvInt("TOKEN_TTL_MINUTES", c.Auth.TokenTTL)
	c.Auth.AdminUsername = getEnv("ADMIN_USERNAME", c.Auth.AdminUsername)
	c.Auth.AdminEmail = getEnv("ADMIN_EMAIL", c.Auth.AdminEmail)
	c.Auth.AdminPassword = getEnv("ADMIN_PASSWORD", c.Auth.AdminPassword)

	c.Storage.Backend = getEnv("STORAGE_BACKEND", c.Storage.Backend)
	c.Storage.Dir = getEnv("UPLOAD_DIR", c.Storage.Dir)
	c.Storage.MaxUploadMB = getEnvInt("MAX_UPLOAD_MB", c.Storage.MaxUploadMB)
	c.Storage.S3Bucket = getEnv("S3_BUCKET", c.Storage.S3Bucket)
	c.Storage.S3Region = getEnv("S3_REGION", c.Storage.S3Region)
	c.Storage.S3Endpoint = getEnv("S3_ENDPOINT", c.Storage.S3Endpoint)
	c.Storage.S3AccessKey = getEnv("S3_ACCESS_KEY", c.Storage.S3AccessKey)
	c.Storage.S3SecretKey = getEnv("S3_SECRET_KEY", c.Storage.S3SecretKey)
	c.Storage.S3UsePathStyle = getEnvBool("S3_USE_PATH_STYLE", c.Storage.S3UsePathStyle)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

// Validate rejects settings the application cannot run with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	switch c.Storage.Backend {
	case "disk":
		if c.Storage.Dir == "" {
			return fmt.Errorf("storage dir is required for the disk backend")
		}
	case "s3":
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("s3 bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("jwt secret must not be empty")
	}
	if !c.App.Dev && c.Auth.JWTSecret == Default().Auth.JWTSecret {
		return fmt.Errorf("the default jwt secret is only allowed in dev mode")
	}
	return nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool accepts "1", "true", "yes" as true and "0", "false", "no" as false.
func getEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return defaultValue
}
