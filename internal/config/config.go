package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	AppURL  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	SchedulerSecret      string        // HS256 key for scheduler bearer tokens
	SchedulerTokenExpiry time.Duration // Lifetime of tokens minted by `nudge token`
	ReplyWebhookSecret   string        // Standard Webhooks secret (whsec_...) for inbound replies

	// Synthesizer (Gemini)
	GeminiAPIKey       string
	GeminiModel        string
	SynthesizerTimeout time.Duration

	// Engine
	DefaultUTCOffsetMinutes int
	PendingActionTTL        time.Duration
	ActiveObjectiveLimit    int
	TriggerConcurrency      int
	LexiconPath             string // Optional: overrides the built-in keyword table

	// Email delivery
	EmailFrom    string
	ResendAPIKey string

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Nudge"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:  envString("APP_URL", "http://localhost:8090"),
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/nudge.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"),

		// Security
		SchedulerSecret:      envRequired("SCHEDULER_SECRET"),
		SchedulerTokenExpiry: envDuration("SCHEDULER_TOKEN_EXPIRY", 720*time.Hour), // 30 days
		ReplyWebhookSecret:   envString("REPLY_WEBHOOK_SECRET", ""),

		// Synthesizer
		GeminiAPIKey:       envString("GEMINI_API_KEY", ""),
		GeminiModel:        envString("GEMINI_MODEL", "gemini-2.5-flash"),
		SynthesizerTimeout: envDuration("SYNTHESIZER_TIMEOUT", 10*time.Second),

		// Engine
		DefaultUTCOffsetMinutes: envUTCOffset("DEFAULT_UTC_OFFSET", -5*60), // UTC-05:00
		PendingActionTTL:        envDuration("PENDING_ACTION_TTL", 24*time.Hour),
		ActiveObjectiveLimit:    envInt("ACTIVE_OBJECTIVE_LIMIT", 10),
		TriggerConcurrency:      envInt("TRIGGER_CONCURRENCY", 8),
		LexiconPath:             envString("LEXICON_PATH", ""),

		// Email (RESEND_API_KEY optional in development, required in production)
		EmailFrom:    envString("EMAIL_FROM", "nudges@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures all required services are configured for production deployments.
// Development falls back to log-only delivery and the fixed micro-action.
func validateProduction(cfg *Config) {
	if cfg.ResendAPIKey == "" {
		slog.Error("production deployment requires RESEND_API_KEY",
			"hint", "set APP_ENV=development for local testing with log delivery")
		os.Exit(1)
	}
	if cfg.GeminiAPIKey == "" {
		slog.Error("production deployment requires GEMINI_API_KEY",
			"hint", "set APP_ENV=development to use the fallback micro-action")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		slog.Warn("config invalid positive int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envUTCOffset(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	minutes, err := ParseUTCOffset(v)
	if err != nil {
		slog.Warn("config invalid utc offset, using default", "key", key, "value", v, "default", def, "error", err)
		return def
	}
	return minutes
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

// ParseUTCOffset parses "+HH:MM", "-HH:MM", "-05" or "Z" into minutes east of UTC.
func ParseUTCOffset(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "Z" || s == "0" {
		return 0, nil
	}
	if len(s) < 2 || (s[0] != '+' && s[0] != '-') {
		return 0, fmt.Errorf("offset %q must start with + or -", s)
	}

	sign := 1
	if s[0] == '-' {
		sign = -1
	}

	hh, mm, found := strings.Cut(s[1:], ":")
	hours, err := strconv.Atoi(hh)
	if err != nil || hours > 14 {
		return 0, fmt.Errorf("invalid offset hours in %q", s)
	}

	minutes := 0
	if found {
		minutes, err = strconv.Atoi(mm)
		if err != nil || minutes < 0 || minutes > 59 {
			return 0, fmt.Errorf("invalid offset minutes in %q", s)
		}
	}

	return sign * (hours*60 + minutes), nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Sanitized returns a copy of the config with only public/safe fields.
// All secrets, credentials, and sensitive data are excluded.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName: c.AppName,
		AppEnv:  c.AppEnv,
		AppURL:  c.AppURL,
		Port:    c.Port,

		DBDriver: c.DBDriver,

		GeminiModel:        c.GeminiModel,
		SynthesizerTimeout: c.SynthesizerTimeout,

		DefaultUTCOffsetMinutes: c.DefaultUTCOffsetMinutes,
		PendingActionTTL:        c.PendingActionTTL,
		ActiveObjectiveLimit:    c.ActiveObjectiveLimit,
		TriggerConcurrency:      c.TriggerConcurrency,
		LexiconPath:             c.LexiconPath,

		EmailFrom: c.EmailFrom,
	}
}
