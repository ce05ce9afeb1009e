package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Config holds the runtime settings of the API server. Values are read once at
// startup and never change afterwards.
type Config struct {
	Env               string
	Port              string
	JWTSecret         string
	JWTTTL            time.Duration
	AllowedOrigins    []string
	InitialAdminEmail string
	BcryptCost        int
	LogLevel          string
	MaxUploadBytes    int64
	RequestTimeout    time.Duration
	RateLimit         RateLimitConfig
	Redis             RedisConfig
}

// RateLimitConfig configures the token bucket guarding the auth endpoints
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
}

var ErrMissingJWTSecret = errors.New("JWT_SECRET_KEY not set in environment")

const defaultAllowedOrigins = "http://localhost:3000,http://localhost:3001"

// Load reads the server configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Env:               envStr("APP_ENV", "development"),
		Port:              envStr("SERVER_PORT", "5000"),
		JWTSecret:         os.Getenv("JWT_SECRET_KEY"),
		JWTTTL:            time.Duration(envInt("JWT_EXPIRATION_HOURS", 168)) * time.Hour,
		InitialAdminEmail: strings.ToLower(strings.TrimSpace(os.Getenv("INITIAL_ADMIN_EMAIL"))),
		BcryptCost:        envInt("BCRYPT_COST", 10),
		LogLevel:          envStr("LOG_LEVEL", "info"),
		MaxUploadBytes:    int64(envInt("MAX_UPLOAD_BYTES", 5<<20)),
		RequestTimeout:    envDur("REQUEST_TIMEOUT", 15*time.Second),
		RateLimit:         loadRateLimitConfig(),
		Redis:             loadRedisConfig(),
	}
	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	if cfg.JWTTTL <= 0 {
		cfg.JWTTTL = 168 * time.Hour
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 5 << 20
	}

	cfg.AllowedOrigins = splitList(envStr("ALLOWED_ORIGINS", defaultAllowedOrigins))
	if frontend := strings.TrimSpace(os.Getenv("FRONTEND_URL")); frontend != "" {
		cfg.AllowedOrigins = append(cfg.AllowedOrigins, frontend)
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func loadRateLimitConfig() RateLimitConfig {
	rl := RateLimitConfig{
		Enabled:        envBool("RATE_LIMIT_ENABLED", true),
		Capacity:       envInt("RATE_LIMIT_CAPACITY", 10),
		RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", 6*time.Second),
		TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
		Prefix:         envStr("RATE_LIMIT_PREFIX", "rl"),
	}
	if rl.Capacity < 1 {
		rl.Capacity = 1
	}
	if rl.RefillTokens < 1 {
		rl.RefillTokens = 1
	}
	if rl.RefillInterval <= 0 {
		rl.RefillInterval = time.Second
	}
	if minTTL := 5 * rl.RefillInterval; rl.TTL < minTTL {
		rl.TTL = minTTL
	}
	return rl
}

// NewLogger builds the process logger: JSON in production, text elsewhere
func NewLogger(cfg *Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if cfg.IsProduction() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return d
	}
	return b
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
