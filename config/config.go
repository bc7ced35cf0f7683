package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration loaded from environment variables
// Provide sane defaults for local development.
type Config struct {
	AppName string
	Env     string // development, staging, production
	Port    string
	GinMode string

	// Session record storage: badger, redis or memory
	SessionBackend string
	SessionKey     string
	BadgerDir      string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Simulated round trips
	LoginLatency    time.Duration
	RegisterLatency time.Duration
	EventsLatency   time.Duration
	MessagesLatency time.Duration

	BcryptCost int

	// CORS
	CORSAllowedOrigins string // comma-separated

	// Login/register throttling per client IP
	AuthRateLimitRPS   float64
	AuthRateLimitBurst int

	// Per-identity limits on event creation and chat posts
	PostRateLimitRPS   float64
	PostRateLimitBurst int

	// Debug metrics (/api/debug/vars)
	DebugMetricsEnabled bool

	// HTTP access log toggle (Gin logger)
	HTTPLogEnabled bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getfloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			log.Printf("invalid float for %s: %v, using default %v", key, err, def)
			return def
		}
		return f
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		AppName: getenv("APP_NAME", "eventhub"),
		Env:     getenv("APP_ENV", "development"),
		Port:    getenv("PORT", "8080"),
		GinMode: getenv("GIN_MODE", "release"),

		SessionBackend: strings.ToLower(getenv("SESSION_BACKEND", "badger")),
		SessionKey:     getenv("SESSION_KEY", "currentUser"),
		BadgerDir:      getenv("BADGER_DIR", "data/session"),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getint("REDIS_DB", 0),

		LoginLatency:    getdur("LOGIN_LATENCY", 800*time.Millisecond),
		RegisterLatency: getdur("REGISTER_LATENCY", 800*time.Millisecond),
		EventsLatency:   getdur("EVENTS_LATENCY", 600*time.Millisecond),
		MessagesLatency: getdur("MESSAGES_LATENCY", 500*time.Millisecond),

		BcryptCost: getint("BCRYPT_COST", 10),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),

		AuthRateLimitRPS:   getfloat("AUTH_RATE_LIMIT_RPS", 0.5),
		AuthRateLimitBurst: getint("AUTH_RATE_LIMIT_BURST", 10),

		PostRateLimitRPS:   getfloat("POST_RATE_LIMIT_RPS", 1),
		PostRateLimitBurst: getint("POST_RATE_LIMIT_BURST", 20),

		DebugMetricsEnabled: getbool("DEBUG_METRICS_ENABLED", true),

		// HTTP access log toggle (default false; enable when needed)
		HTTPLogEnabled: getbool("HTTP_LOG_ENABLED", false),
	}
}

// CORSOrigins returns the allowed origins as slice
func (c *Config) CORSOrigins() []string {
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
