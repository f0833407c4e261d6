package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string

	// Database. An empty DatabaseURL selects local SQLite at SQLitePath.
	DatabaseURL string
	SQLitePath  string

	// Redis caches team rosters when set.
	RedisURL string

	// RabbitMQ receives outbox events when set.
	RabbitMQURL      string
	RabbitMQExchange string

	// Outbox
	OutboxPollInterval     time.Duration
	OutboxBatchSize        int
	OutboxMaxRetries       int
	OutboxRetentionDays    int
	OutboxProcessorEnabled bool

	// Adapters
	HTTPAddr     string
	MCPAddr      string
	MCPAuthToken string

	// DefaultActor is the "role:id" the CLI and MCP server act as.
	DefaultActor string

	// Worker
	WorkerHealthAddr string
	SweepSchedule    string
	SweepBatchSize   int

	// Scheduling policy
	IntroExpiryWindow     time.Duration
	IntroProtectionPeriod time.Duration
	BusyLookaheadDays     int
	RosterCacheTTL        time.Duration

	// Meeting links
	MeetingLinkTimeout         time.Duration
	MeetingLinkBreakerFailures uint32
	MeetingLinkBreakerOpen     time.Duration

	// Google Calendar busy times and Meet links
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRefreshToken string
	GoogleCalendarID   string

	// Zoom server-to-server app
	ZoomAccountID    string
	ZoomClientID     string
	ZoomClientSecret string
	ZoomUserID       string

	// CalDAV busy times
	CalDAVURL          string
	CalDAVUser         string
	CalDAVPassword     string
	CalDAVCalendarPath string

	// Outlook busy times via Microsoft Graph
	MicrosoftTenantID     string
	MicrosoftClientID     string
	MicrosoftClientSecret string
	MicrosoftMailbox      string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("SQLITE_PATH", ""),

		RedisURL:         getEnv("REDIS_URL", ""),
		RabbitMQURL:      getEnv("RABBITMQ_URL", ""),
		RabbitMQExchange: getEnv("RABBITMQ_EXCHANGE", "hireflow.domain.events"),

		OutboxPollInterval:     getDurationEnv("OUTBOX_POLL_INTERVAL", time.Second),
		OutboxBatchSize:        getIntEnv("OUTBOX_BATCH_SIZE", 100),
		OutboxMaxRetries:       getIntEnv("OUTBOX_MAX_RETRIES", 5),
		OutboxRetentionDays:    getIntEnv("OUTBOX_RETENTION_DAYS", 14),
		OutboxProcessorEnabled: getBoolEnv("OUTBOX_PROCESSOR_ENABLED", true),

		HTTPAddr:     getEnv("HTTP_ADDR", "0.0.0.0:8080"),
		MCPAddr:      getEnv("MCP_ADDR", "0.0.0.0:8082"),
		MCPAuthToken: getEnv("MCP_AUTH_TOKEN", ""),
		DefaultActor: getEnv("HIREFLOW_ACTOR", "admin:cli"),

		WorkerHealthAddr: getEnv("WORKER_HEALTH_ADDR", "0.0.0.0:8081"),
		SweepSchedule:    getEnv("SWEEP_SCHEDULE", "@every 5m"),
		SweepBatchSize:   getIntEnv("SWEEP_BATCH_SIZE", 100),

		IntroExpiryWindow:     getDurationEnv("INTRO_EXPIRY_WINDOW", 14*24*time.Hour),
		IntroProtectionPeriod: getDurationEnv("INTRO_PROTECTION_PERIOD", 365*24*time.Hour),
		BusyLookaheadDays:     getIntEnv("BUSY_LOOKAHEAD_DAYS", 14),
		RosterCacheTTL:        getDurationEnv("ROSTER_CACHE_TTL", 5*time.Minute),

		MeetingLinkTimeout:         getDurationEnv("MEETING_LINK_TIMEOUT", 10*time.Second),
		MeetingLinkBreakerFailures: uint32(getIntEnv("MEETING_LINK_BREAKER_FAILURES", 5)),
		MeetingLinkBreakerOpen:     getDurationEnv("MEETING_LINK_BREAKER_OPEN", time.Minute),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRefreshToken: getEnv("GOOGLE_REFRESH_TOKEN", ""),
		GoogleCalendarID:   getEnv("GOOGLE_CALENDAR_ID", "primary"),

		ZoomAccountID:    getEnv("ZOOM_ACCOUNT_ID", ""),
		ZoomClientID:     getEnv("ZOOM_CLIENT_ID", ""),
		ZoomClientSecret: getEnv("ZOOM_CLIENT_SECRET", ""),
		ZoomUserID:       getEnv("ZOOM_USER_ID", "me"),

		CalDAVURL:          getEnv("CALDAV_URL", ""),
		CalDAVUser:         getEnv("CALDAV_USER", ""),
		CalDAVPassword:     getEnv("CALDAV_PASSWORD", ""),
		CalDAVCalendarPath: getEnv("CALDAV_CALENDAR_PATH", ""),

		MicrosoftTenantID:     getEnv("MICROSOFT_TENANT_ID", ""),
		MicrosoftClientID:     getEnv("MICROSOFT_CLIENT_ID", ""),
		MicrosoftClientSecret: getEnv("MICROSOFT_CLIENT_SECRET", ""),
		MicrosoftMailbox:      getEnv("MICROSOFT_MAILBOX", ""),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// LocalMode reports whether no Postgres URL is configured.
func (c *Config) LocalMode() bool {
	return c.DatabaseURL == ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil && i >= 0 {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
