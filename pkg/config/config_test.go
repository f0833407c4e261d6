package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envVars = []string{
	"APP_ENV", "LOG_LEVEL", "DATABASE_URL", "SQLITE_PATH",
	"REDIS_URL", "RABBITMQ_URL", "RABBITMQ_EXCHANGE",
	"OUTBOX_POLL_INTERVAL", "OUTBOX_BATCH_SIZE", "OUTBOX_MAX_RETRIES",
	"OUTBOX_RETENTION_DAYS", "OUTBOX_PROCESSOR_ENABLED",
	"HTTP_ADDR", "MCP_ADDR", "MCP_AUTH_TOKEN", "HIREFLOW_ACTOR",
	"WORKER_HEALTH_ADDR", "SWEEP_SCHEDULE", "SWEEP_BATCH_SIZE",
	"INTRO_EXPIRY_WINDOW", "INTRO_PROTECTION_PERIOD", "BUSY_LOOKAHEAD_DAYS", "ROSTER_CACHE_TTL",
	"MEETING_LINK_TIMEOUT", "MEETING_LINK_BREAKER_FAILURES", "MEETING_LINK_BREAKER_OPEN",
	"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GOOGLE_REFRESH_TOKEN", "GOOGLE_CALENDAR_ID",
	"ZOOM_ACCOUNT_ID", "ZOOM_CLIENT_ID", "ZOOM_CLIENT_SECRET", "ZOOM_USER_ID",
	"CALDAV_URL", "CALDAV_USER", "CALDAV_PASSWORD", "CALDAV_CALENDAR_PATH",
	"MICROSOFT_TENANT_ID", "MICROSOFT_CLIENT_ID", "MICROSOFT_CLIENT_SECRET", "MICROSOFT_MAILBOX",
}

// clearEnv blanks every variable Load reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range envVars {
		t.Setenv(v, "")
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.LocalMode())
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	assert.Equal(t, time.Second, cfg.OutboxPollInterval)
	assert.Equal(t, 100, cfg.OutboxBatchSize)
	assert.Equal(t, 5, cfg.OutboxMaxRetries)
	assert.True(t, cfg.OutboxProcessorEnabled)
	assert.Equal(t, "hireflow.domain.events", cfg.RabbitMQExchange)

	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr)
	assert.Equal(t, "0.0.0.0:8082", cfg.MCPAddr)
	assert.Equal(t, "admin:cli", cfg.DefaultActor)
	assert.Equal(t, "0.0.0.0:8081", cfg.WorkerHealthAddr)
	assert.Equal(t, "@every 5m", cfg.SweepSchedule)

	assert.Equal(t, 14*24*time.Hour, cfg.IntroExpiryWindow)
	assert.Equal(t, 365*24*time.Hour, cfg.IntroProtectionPeriod)
	assert.Equal(t, 14, cfg.BusyLookaheadDays)
	assert.Equal(t, 5*time.Minute, cfg.RosterCacheTTL)
	assert.Equal(t, 10*time.Second, cfg.MeetingLinkTimeout)
	assert.Equal(t, uint32(5), cfg.MeetingLinkBreakerFailures)

	assert.Equal(t, "primary", cfg.GoogleCalendarID)
	assert.Equal(t, "me", cfg.ZoomUserID)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://hireflow@localhost/hireflow")
	t.Setenv("INTRO_EXPIRY_WINDOW", "72h")
	t.Setenv("MEETING_LINK_TIMEOUT", "3s")
	t.Setenv("OUTBOX_PROCESSOR_ENABLED", "false")
	t.Setenv("ZOOM_ACCOUNT_ID", "acct")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.LocalMode())
	assert.Equal(t, 72*time.Hour, cfg.IntroExpiryWindow)
	assert.Equal(t, 3*time.Second, cfg.MeetingLinkTimeout)
	assert.False(t, cfg.OutboxProcessorEnabled)
	assert.Equal(t, "acct", cfg.ZoomAccountID)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("OUTBOX_BATCH_SIZE", "lots")
	t.Setenv("BUSY_LOOKAHEAD_DAYS", "-3")
	t.Setenv("ROSTER_CACHE_TTL", "soon")
	t.Setenv("OUTBOX_PROCESSOR_ENABLED", "maybe")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.OutboxBatchSize)
	assert.Equal(t, 14, cfg.BusyLookaheadDays)
	assert.Equal(t, 5*time.Minute, cfg.RosterCacheTTL)
	assert.True(t, cfg.OutboxProcessorEnabled)
}
