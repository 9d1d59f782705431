package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"conference-badge-api/core/constants"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Email     EmailConfig     `mapstructure:"email"`
	Waiver    WaiverConfig    `mapstructure:"waiver"`
	Session   SessionConfig   `mapstructure:"session"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Queue     QueueConfig     `mapstructure:"queue"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"` // disable, require, verify-ca, verify-full
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // in minutes
	ConnectTimeout  int    `mapstructure:"connect_timeout"`   // in seconds
	AutoMigrate     bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type StorageConfig struct {
	Region                string   `mapstructure:"region"`
	Endpoint              string   `mapstructure:"endpoint"`
	AccessKeyID           string   `mapstructure:"access_key_id"`
	SecretAccessKey       string   `mapstructure:"secret_access_key"`
	UsePathStyle          bool     `mapstructure:"use_path_style"`
	PublicBaseURL         string   `mapstructure:"public_base_url"`
	PublicBuckets         []string `mapstructure:"public_buckets"`
	BadgeImagesBucket     string   `mapstructure:"badge_images_bucket"`
	WaiverDocumentsBucket string   `mapstructure:"waiver_documents_bucket"`
}

type TelegramConfig struct {
	BotToken      string        `mapstructure:"bot_token"`
	RequestDelay  time.Duration `mapstructure:"request_delay"`
	HTTPTimeout   time.Duration `mapstructure:"http_timeout"`
	WebhookSecret string        `mapstructure:"webhook_secret"`
}

type EmailConfig struct {
	SendGridAPIKey  string `mapstructure:"sendgrid_api_key"`
	Host            string `mapstructure:"host"`
	FromAddress     string `mapstructure:"from_address"`
	FromName        string `mapstructure:"from_name"`
	BadgeTemplateID string `mapstructure:"badge_template_id"`
}

type WaiverConfig struct {
	DefaultVersion   string        `mapstructure:"default_version"`
	ChromePath       string        `mapstructure:"chrome_path"`
	RenderTimeout    time.Duration `mapstructure:"render_timeout"`
	ImageLoadTimeout time.Duration `mapstructure:"image_load_timeout"`
	SignedURLExpiry  time.Duration `mapstructure:"signed_url_expiry"`
}

type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type AuthConfig struct {
	JWTSecret         string        `mapstructure:"jwt_secret"`
	AdminEmail        string        `mapstructure:"admin_email"`
	AdminPasswordHash string        `mapstructure:"admin_password_hash"` // bcrypt
	TokenTTL          time.Duration `mapstructure:"token_ttl"`
	MaxLoginAttempts  int           `mapstructure:"max_login_attempts"`
}

type QueueConfig struct {
	Concurrency int  `mapstructure:"concurrency"`
	Enabled     bool `mapstructure:"enabled"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

var (
	mu       sync.RWMutex
	instance *Config
)

// Load reads .env (if present), an optional config.yaml and the environment.
// Environment keys are the upper-cased config path with "." replaced by "_",
// e.g. TELEGRAM_BOT_TOKEN or STORAGE_WAIVER_DOCUMENTS_BUCKET.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	Set(cfg)
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 7070)
	v.SetDefault("server.base_url", "http://localhost:7070")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "badges")
	v.SetDefault("database.ssl_mode", constants.DatabaseSSLMode)
	v.SetDefault("database.max_open_conns", constants.DatabaseMaxOpenConns)
	v.SetDefault("database.max_idle_conns", constants.DatabaseMaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", constants.DatabaseConnMaxLifetime)
	v.SetDefault("database.connect_timeout", 10)
	v.SetDefault("database.auto_migrate", false)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.access_key_id", "")
	v.SetDefault("storage.secret_access_key", "")
	v.SetDefault("storage.use_path_style", true)
	v.SetDefault("storage.public_base_url", "")
	v.SetDefault("storage.public_buckets", []string{constants.BucketBadgeImages})
	v.SetDefault("storage.badge_images_bucket", constants.BucketBadgeImages)
	v.SetDefault("storage.waiver_documents_bucket", constants.BucketWaiverDocuments)

	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.request_delay", constants.BotRequestDelay)
	v.SetDefault("telegram.http_timeout", constants.BotHTTPTimeout)
	v.SetDefault("telegram.webhook_secret", "")

	v.SetDefault("email.sendgrid_api_key", "")
	v.SetDefault("email.host", "https://api.sendgrid.com")
	v.SetDefault("email.from_address", "")
	v.SetDefault("email.from_name", "Conference Badges")
	v.SetDefault("email.badge_template_id", "")

	v.SetDefault("waiver.default_version", constants.DefaultWaiverVersion)
	v.SetDefault("waiver.chrome_path", "")
	v.SetDefault("waiver.render_timeout", constants.RenderTimeout)
	v.SetDefault("waiver.image_load_timeout", constants.ImageLoadTimeout)
	v.SetDefault("waiver.signed_url_expiry", constants.SignedURLExpiry)

	v.SetDefault("session.ttl", constants.SessionTTL)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.admin_email", "")
	v.SetDefault("auth.admin_password_hash", "")
	v.SetDefault("auth.token_ttl", constants.AdminTokenTTL)
	v.SetDefault("auth.max_login_attempts", constants.MaxLoginAttempts)

	v.SetDefault("queue.enabled", true)
	v.SetDefault("queue.concurrency", 5)

	v.SetDefault("rate_limit.requests_per_second", 20)
	v.SetDefault("rate_limit.burst", 40)
}

// Validate rejects configurations the process cannot start with.
// Optional integrations (Telegram, email) are allowed to be empty.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port: %d", c.Server.Port)
	}
	if c.Storage.WaiverDocumentsBucket == "" || c.Storage.BadgeImagesBucket == "" {
		return errors.New("storage bucket names must not be empty")
	}
	if c.Auth.AdminPasswordHash != "" && c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required when auth.admin_password_hash is set")
	}
	if c.Email.SendGridAPIKey != "" && c.Email.FromAddress == "" {
		return errors.New("email.from_address is required when email.sendgrid_api_key is set")
	}
	return nil
}

func (c *Config) IsPublicBucket(bucket string) bool {
	for _, b := range c.Storage.PublicBuckets {
		if b == bucket {
			return true
		}
	}
	return false
}

func Set(cfg *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = cfg
}

// Get returns the loaded configuration and panics if Load has not run.
func Get() *Config {
	cfg, ok := GetSafe()
	if !ok {
		panic("config: Get called before Load")
	}
	return cfg
}

func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return instance, instance != nil
}
