package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"portfolio/models"
)

// ConfigPath is read when Load is called with an empty path.
const ConfigPath = "config.yaml"

// Config is the server configuration, read from YAML and overridden by environment.
type Config struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"logLevel"`
	SiteURL  string `yaml:"siteURL"`

	SessionSecret string `yaml:"sessionSecret"`

	DBDriver           string `yaml:"dbDriver"`
	DatabaseURL        string `yaml:"databaseURL"`
	ServiceDatabaseURL string `yaml:"serviceDatabaseURL"`

	StoreJWTSecret      string   `yaml:"storeJWTSecret"`
	StoreAnonKey        string   `yaml:"storeAnonKey"`
	StoreServiceRoleKey string   `yaml:"storeServiceRoleKey"`
	AnonWritableTables  []string `yaml:"anonWritableTables"`

	GmailUser        string `yaml:"gmailUser"`
	GmailAppPassword string `yaml:"gmailAppPassword"`
	SMTPHost         string `yaml:"smtpHost"`
	SMTPPort         string `yaml:"smtpPort"`
	NotifyTo         string `yaml:"notifyTo"`

	StorageEndpoint  string `yaml:"storageEndpoint"`
	StorageAccessKey string `yaml:"storageAccessKey"`
	StorageSecretKey string `yaml:"storageSecretKey"`
	StorageBucket    string `yaml:"storageBucket"`
	StorageUseSSL    bool   `yaml:"storageUseSSL"`
	StoragePublicURL string `yaml:"storagePublicURL"`
	UploadDir        string `yaml:"uploadDir"`
	MaxUploadMB      int    `yaml:"maxUploadMB"`

	RedisAddr                 string `yaml:"redisAddr"`
	RedisPassword             string `yaml:"redisPassword"`
	ContactRateLimitPerMinute int    `yaml:"contactRateLimitPerMinute"`

	PageCacheTTL   time.Duration `yaml:"pageCacheTTL"`
	AllowedOrigins []string      `yaml:"allowedOrigins"`

	AdminEmail    string `yaml:"adminEmail"`
	AdminPassword string `yaml:"adminPassword"`
}

// Load reads .env (if present), the YAML file at path (if present) and the
// environment, in that order of increasing precedence.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	applyEnv(&cfg)
	fillDerived(&cfg)

	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		Port:                      "8080",
		LogLevel:                  "info",
		SiteURL:                   "http://localhost:8080",
		DBDriver:                  "sqlite",
		DatabaseURL:               "portfolio.db",
		SMTPHost:                  "smtp.gmail.com",
		SMTPPort:                  "587",
		AnonWritableTables:        []string{models.TableMessages},
		StorageBucket:             "images",
		UploadDir:                 "public/uploads",
		MaxUploadMB:               5,
		ContactRateLimitPerMinute: 5,
		PageCacheTTL:              time.Minute,
	}
}

func applyEnv(cfg *Config) {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	str("PORT", &cfg.Port)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("SITE_URL", &cfg.SiteURL)
	str("SESSION_SECRET", &cfg.SessionSecret)
	str("DB_DRIVER", &cfg.DBDriver)
	str("DATABASE_URL", &cfg.DatabaseURL)
	str("SERVICE_DATABASE_URL", &cfg.ServiceDatabaseURL)
	str("STORE_JWT_SECRET", &cfg.StoreJWTSecret)
	str("STORE_ANON_KEY", &cfg.StoreAnonKey)
	str("STORE_SERVICE_ROLE_KEY", &cfg.StoreServiceRoleKey)
	str("GMAIL_USER", &cfg.GmailUser)
	str("GMAIL_APP_PASSWORD", &cfg.GmailAppPassword)
	str("SMTP_HOST", &cfg.SMTPHost)
	str("SMTP_PORT", &cfg.SMTPPort)
	str("NOTIFY_TO", &cfg.NotifyTo)
	str("STORAGE_ENDPOINT", &cfg.StorageEndpoint)
	str("STORAGE_ACCESS_KEY", &cfg.StorageAccessKey)
	str("STORAGE_SECRET_KEY", &cfg.StorageSecretKey)
	str("STORAGE_BUCKET", &cfg.StorageBucket)
	str("STORAGE_PUBLIC_URL", &cfg.StoragePublicURL)
	str("UPLOAD_DIR", &cfg.UploadDir)
	str("REDIS_ADDR", &cfg.RedisAddr)
	str("REDIS_PASSWORD", &cfg.RedisPassword)
	str("ADMIN_EMAIL", &cfg.AdminEmail)
	str("ADMIN_PASSWORD", &cfg.AdminPassword)

	if v := os.Getenv("STORAGE_USE_SSL"); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			cfg.StorageUseSSL = b
		}
	}
	if v := os.Getenv("MAX_UPLOAD_MB"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.MaxUploadMB = n
		}
	}
	if v := os.Getenv("CONTACT_RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.ContactRateLimitPerMinute = n
		}
	}
	if v := os.Getenv("PAGE_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			cfg.PageCacheTTL = d
		}
	}
	if v := os.Getenv("STORE_ANON_WRITABLE_TABLES"); v != "" {
		cfg.AnonWritableTables = splitCSV(v)
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitCSV(v)
	}
}

func fillDerived(cfg *Config) {
	if cfg.ServiceDatabaseURL == "" {
		cfg.ServiceDatabaseURL = cfg.DatabaseURL
	}
	if cfg.NotifyTo == "" {
		cfg.NotifyTo = cfg.GmailUser
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.SiteURL = strings.TrimSuffix(cfg.SiteURL, "/")
}

func validateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.SessionSecret) == "" {
		return errors.New("config: sessionSecret is required (set in config.yaml or SESSION_SECRET)")
	}
	if cfg.DBDriver != "sqlite" && cfg.DBDriver != "postgres" {
		return fmt.Errorf("config: dbDriver must be sqlite or postgres, got %q", cfg.DBDriver)
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return errors.New("config: databaseURL is required")
	}
	if cfg.MaxUploadMB <= 0 {
		return errors.New("config: maxUploadMB must be positive")
	}
	return nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
