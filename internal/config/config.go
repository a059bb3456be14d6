package config

import (
	"errors"
	"fmt"
	"log"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	AppPort string
	AppEnv  string
	BaseURL string

	// FrontendOrigin is the storefront origin allowed by CORS
	FrontendOrigin string
	// TrustedProxies may set the client address through forwarding headers
	TrustedProxies []netip.Prefix

	SessionSecret string
	SessionTTL    time.Duration
	SecureCookies bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ResendAPIKey    string
	ResendBaseURL   string
	ResendFromEmail string

	GoogleClientID       string
	GoogleClientSecret   string
	FacebookClientID     string
	FacebookClientSecret string
	AppleClientID        string
	AppleClientSecret    string
}

var (
	ErrMissingDBHost        = errors.New("DB_HOST is not set")
	ErrMissingSessionSecret = errors.New("SESSION_SECRET is not set")
)

// Load reads the environment (and .env when present) into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("REDIS_DB must be an integer")
	}

	trusted, err := parseTrustedProxies(os.Getenv("TRUSTED_PROXIES"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "dbs_store"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		AppPort: getEnv("APP_PORT", "8080"),
		AppEnv:  getEnv("APP_ENV", "development"),
		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),

		FrontendOrigin: getEnv("FRONTEND_ORIGIN", "http://localhost:3000"),
		TrustedProxies: trusted,

		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionTTL:    7 * 24 * time.Hour,

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		ResendAPIKey:    os.Getenv("RESEND_API_KEY"),
		ResendBaseURL:   getEnv("RESEND_BASE_URL", "https://api.resend.com"),
		ResendFromEmail: getEnv("RESEND_FROM_EMAIL", "DBS Store <noreply@dbs-store.ci>"),

		GoogleClientID:       os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:   os.Getenv("GOOGLE_CLIENT_SECRET"),
		FacebookClientID:     os.Getenv("FACEBOOK_CLIENT_ID"),
		FacebookClientSecret: os.Getenv("FACEBOOK_CLIENT_SECRET"),
		AppleClientID:        os.Getenv("APPLE_CLIENT_ID"),
		AppleClientSecret:    os.Getenv("APPLE_CLIENT_SECRET"),
	}
	cfg.SecureCookies = cfg.IsProduction()

	if cfg.DBHost == "" {
		return nil, ErrMissingDBHost
	}
	if cfg.SessionSecret == "" {
		return nil, ErrMissingSessionSecret
	}

	return cfg, nil
}

// LoadConfig is Load for binaries that cannot start without a valid config.
func LoadConfig() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// parseTrustedProxies reads a comma-separated list of addresses and CIDR ranges.
func parseTrustedProxies(raw string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if strings.Contains(item, "/") {
			p, err := netip.ParsePrefix(item)
			if err != nil {
				return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(item)
		if err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
