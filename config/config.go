package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config aggregates application settings sourced from the environment
// (optionally seeded by a .env file).
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	AI       AIConfig       `mapstructure:"ai"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Resume   ResumeConfig   `mapstructure:"resume"`
}

// ServerConfig holds HTTP settings. RequestTimeout bounds every handler; a
// cancelled request rolls back whatever transaction it had open.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	AcceptedOrigins []string      `mapstructure:"accepted_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type DatabaseConfig struct {
	Host          string        `mapstructure:"host"`
	Port          int           `mapstructure:"port"`
	Name          string        `mapstructure:"name"`
	User          string        `mapstructure:"user"`
	Password      string        `mapstructure:"password"`
	SSLMode       string        `mapstructure:"sslmode"`
	ReplicaDSNs   []string      `mapstructure:"replica_dsns"`
	MaxOpenConns  int           `mapstructure:"max_open_conns"`
	MaxIdleConns  int           `mapstructure:"max_idle_conns"`
	SlowThreshold time.Duration `mapstructure:"slow_threshold"`
}

// DSN builds a pgx compatible connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

type AuthConfig struct {
	JWTSecret         string `mapstructure:"jwt_secret"`
	JWTSecretSSMParam string `mapstructure:"jwt_secret_ssm_param"`
	Issuer            string `mapstructure:"issuer"`
}

const (
	AIProviderOpenRouter = "openrouter"
	AIProviderGemini     = "gemini"
)

// AIConfig is handed to the LLM client at construction.
type AIConfig struct {
	Provider           string        `mapstructure:"provider"`
	APIKey             string        `mapstructure:"api_key"`
	APIKeySSMParam     string        `mapstructure:"api_key_ssm_param"`
	Model              string        `mapstructure:"model"`
	BaseURL            string        `mapstructure:"base_url"`
	Timeout            time.Duration `mapstructure:"timeout"`
	MaxTokens          int           `mapstructure:"max_tokens"`
	Temperature        float64       `mapstructure:"temperature"`
	MaxResumeChars     int           `mapstructure:"max_resume_chars"`
	BreakerMaxFailures uint32        `mapstructure:"breaker_max_failures"`
	BreakerCooldown    time.Duration `mapstructure:"breaker_cooldown"`
}

const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

type StorageConfig struct {
	Type            string `mapstructure:"type"`
	LocalPath       string `mapstructure:"local_path"`
	S3Bucket        string `mapstructure:"s3_bucket"`
	S3Region        string `mapstructure:"s3_region"`
	S3Endpoint      string `mapstructure:"s3_endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

type ResumeConfig struct {
	MaxUploadBytes   int64 `mapstructure:"max_upload_bytes"`
	UploadsPerMinute int   `mapstructure:"uploads_per_minute"`
}

// Load reads configuration from environment variables (with optional defaults).
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Server.AcceptedOrigins = trimAll(cfg.Server.AcceptedOrigins)
	cfg.Database.ReplicaDSNs = trimAll(cfg.Database.ReplicaDSNs)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 180*time.Second)
	v.SetDefault("server.write_timeout", 180*time.Second)
	v.SetDefault("server.idle_timeout", 180*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.request_timeout", 120*time.Second)
	v.SetDefault("server.accepted_origins", []string{"http://localhost:5173"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "portfolia")
	v.SetDefault("database.user", "portfolia")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.slow_threshold", 2*time.Second)
	v.SetDefault("auth.issuer", "portfolia")
	v.SetDefault("ai.provider", AIProviderOpenRouter)
	v.SetDefault("ai.model", "google/gemma-3-4b-it:free")
	v.SetDefault("ai.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ai.max_tokens", 4000)
	v.SetDefault("ai.temperature", 0.1)
	v.SetDefault("ai.max_resume_chars", 8000)
	v.SetDefault("ai.breaker_max_failures", 5)
	v.SetDefault("ai.breaker_cooldown", 30*time.Second)
	v.SetDefault("storage.type", StorageLocal)
	v.SetDefault("storage.local_path", "./uploads")
	v.SetDefault("storage.s3_region", "us-east-1")
	v.SetDefault("resume.max_upload_bytes", 5*1024*1024)
	v.SetDefault("resume.uploads_per_minute", 10)
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"server.port":               "PORT",
		"server.read_timeout":       "READ_TIMEOUT",
		"server.write_timeout":      "WRITE_TIMEOUT",
		"server.idle_timeout":       "IDLE_TIMEOUT",
		"server.shutdown_timeout":   "SHUTDOWN_TIMEOUT",
		"server.request_timeout":    "REQUEST_TIMEOUT",
		"server.accepted_origins":   "ACCEPTED_ORIGINS",
		"log.level":                 "LOG_LEVEL",
		"log.pretty":                "LOG_PRETTY",
		"database.host":             "DB_HOST",
		"database.port":             "DB_PORT",
		"database.name":             "DB_NAME",
		"database.user":             "DB_USER",
		"database.password":         "DB_PASSWORD",
		"database.sslmode":          "DB_SSLMODE",
		"database.replica_dsns":     "DB_REPLICA_DSNS",
		"database.max_open_conns":   "DB_MAX_OPEN_CONNS",
		"database.max_idle_conns":   "DB_MAX_IDLE_CONNS",
		"database.slow_threshold":   "DB_SLOW_THRESHOLD",
		"auth.jwt_secret":           "JWT_SECRET",
		"auth.jwt_secret_ssm_param": "JWT_SECRET_SSM_PARAM",
		"auth.issuer":               "JWT_ISSUER",
		"ai.provider":               "AI_PROVIDER",
		"ai.api_key":                "AI_API_KEY",
		"ai.api_key_ssm_param":      "AI_API_KEY_SSM_PARAM",
		"ai.model":                  "AI_MODEL",
		"ai.base_url":               "AI_BASE_URL",
		"ai.timeout":                "AI_TIMEOUT",
		"ai.max_tokens":             "AI_MAX_TOKENS",
		"ai.temperature":            "AI_TEMPERATURE",
		"ai.max_resume_chars":       "AI_MAX_RESUME_CHARS",
		"ai.breaker_max_failures":   "AI_BREAKER_MAX_FAILURES",
		"ai.breaker_cooldown":       "AI_BREAKER_COOLDOWN",
		"storage.type":              "STORAGE_TYPE",
		"storage.local_path":        "STORAGE_LOCAL_PATH",
		"storage.s3_bucket":         "S3_BUCKET",
		"storage.s3_region":         "S3_REGION",
		"storage.s3_endpoint":       "S3_ENDPOINT",
		"storage.access_key_id":     "AWS_ACCESS_KEY_ID",
		"storage.secret_access_key": "AWS_SECRET_ACCESS_KEY",
		"resume.max_upload_bytes":   "RESUME_MAX_UPLOAD_BYTES",
		"resume.uploads_per_minute": "RESUME_UPLOADS_PER_MINUTE",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.Server.Port <= 0 {
		return errors.New("server port must be positive")
	}
	if cfg.Server.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	if cfg.Database.Host == "" {
		return errors.New("database host is required")
	}
	if cfg.Database.Name == "" {
		return errors.New("database name is required")
	}
	if cfg.Database.User == "" {
		return errors.New("database user is required")
	}
	if cfg.Auth.JWTSecret == "" && cfg.Auth.JWTSecretSSMParam == "" {
		return errors.New("jwt secret is required")
	}
	switch cfg.AI.Provider {
	case AIProviderOpenRouter, AIProviderGemini:
	default:
		return fmt.Errorf("unknown ai provider %q", cfg.AI.Provider)
	}
	if cfg.AI.Timeout <= 0 {
		return errors.New("ai timeout must be positive")
	}
	if cfg.AI.MaxResumeChars <= 0 {
		return errors.New("ai max resume chars must be positive")
	}
	switch cfg.Storage.Type {
	case StorageLocal:
		if cfg.Storage.LocalPath == "" {
			return errors.New("storage local path is required")
		}
	case StorageS3:
		if cfg.Storage.S3Bucket == "" {
			return errors.New("s3 bucket is required")
		}
	default:
		return fmt.Errorf("unknown storage type %q", cfg.Storage.Type)
	}
	if cfg.Resume.MaxUploadBytes <= 0 {
		return errors.New("resume max upload bytes must be positive")
	}
	return nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
