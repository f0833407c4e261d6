package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/hireflow/internal/calendar/infrastructure/caldav"
	googleCalendar "github.com/felixgeelhaar/hireflow/internal/calendar/infrastructure/google"
	"github.com/felixgeelhaar/hireflow/internal/calendar/infrastructure/microsoft"
	"github.com/felixgeelhaar/hireflow/internal/calendar/infrastructure/zoom"
	interviewCommands "github.com/felixgeelhaar/hireflow/internal/interviews/application/commands"
	interviewQueries "github.com/felixgeelhaar/hireflow/internal/interviews/application/queries"
	"github.com/felixgeelhaar/hireflow/internal/interviews/application/services"
	introCommands "github.com/felixgeelhaar/hireflow/internal/introductions/application/commands"
	introQueries "github.com/felixgeelhaar/hireflow/internal/introductions/application/queries"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/outbox"
	teamApp "github.com/felixgeelhaar/hireflow/internal/team/application"
	teamCache "github.com/felixgeelhaar/hireflow/internal/team/infrastructure/cache"
	teamPersistence "github.com/felixgeelhaar/hireflow/internal/team/infrastructure/persistence"
	"github.com/felixgeelhaar/hireflow/pkg/config"
	"github.com/felixgeelhaar/hireflow/pkg/observability"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Clock   sharedDomain.Clock
	Metrics observability.Metrics
	Health  *observability.HealthRegistry

	// Database (one of DB or SQLiteDB is set)
	DBDriver database.Driver
	DB       *pgxpool.Pool
	SQLiteDB *sql.DB

	// Redis
	RedisClient *redis.Client

	Repos          *Repositories
	Roster         services.TeamRoster
	BusyTimes      services.BusyTimeSource
	Links          *services.LinkProvisioner
	EventPublisher eventbus.Publisher

	// Interview handlers
	CreateInterviewHandler     *interviewCommands.CreateInterviewHandler
	ProposeAvailabilityHandler *interviewCommands.ProposeAvailabilityHandler
	SelectSlotsHandler         *interviewCommands.SelectSlotsHandler
	ConfirmInterviewHandler    *interviewCommands.ConfirmInterviewHandler
	RescheduleInterviewHandler *interviewCommands.RescheduleInterviewHandler
	UpdateStatusHandler        *interviewCommands.UpdateInterviewStatusHandler
	RetryMeetingLinkHandler    *interviewCommands.RetryMeetingLinkHandler
	ExpireInterviewsHandler    *interviewCommands.ExpireStaleInterviewsHandler
	GetInterviewHandler        *interviewQueries.GetInterviewHandler
	ListInterviewsHandler      *interviewQueries.ListInterviewsHandler
	SuggestAvailabilityHandler *interviewQueries.SuggestAvailabilityHandler

	// Introduction handlers
	RequestIntroductionHandler *introCommands.RequestIntroductionHandler
	RespondIntroductionHandler *introCommands.RespondToIntroductionHandler
	AdvanceIntroductionHandler *introCommands.AdvanceIntroductionHandler
	ExpireIntroductionsHandler *introCommands.ExpireIntroductionsHandler
	ViewCandidateHandler       *introQueries.ViewCandidateHandler
	IntroductionsHandler       *introQueries.IntroductionsHandler

	// Team
	RosterService *teamApp.RosterService

	// Outbox processor
	OutboxProcessor *outbox.Processor
}

// NewContainer creates a new dependency container. An empty DATABASE_URL
// selects local SQLite; Redis and RabbitMQ are optional outside production.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Clock:   sharedDomain.SystemClock{},
		Metrics: observability.NewInMemoryMetrics(),
		Health:  observability.NewHealthRegistry(),
	}

	if err := c.openDatabase(ctx); err != nil {
		c.Close()
		return nil, err
	}

	// Connect to Redis (optional in development)
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			if cfg.IsProduction() {
				c.Close()
				return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
			}
			logger.Warn("invalid Redis URL, rosters will not be cached", "error", err)
		} else {
			redisClient := redis.NewClient(opt)
			if err := redisClient.Ping(ctx).Err(); err != nil {
				_ = redisClient.Close()
				if cfg.IsProduction() {
					c.Close()
					return nil, fmt.Errorf("failed to connect to Redis: %w", err)
				}
				logger.Warn("Redis not available, rosters will not be cached", "error", err)
			} else {
				c.RedisClient = redisClient
				c.Health.Register("redis", observability.PingChecker("redis", observability.HealthStatusDegraded, func(ctx context.Context) error {
					return redisClient.Ping(ctx).Err()
				}))
				logger.Info("connected to Redis")
			}
		}
	}

	// Connect to RabbitMQ (optional in development)
	if cfg.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange, logger)
		if err != nil {
			if cfg.IsProduction() {
				c.Close()
				return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
			}
			logger.Warn("RabbitMQ not available, logging events instead", "error", err)
		} else {
			c.EventPublisher = publisher
			c.Health.Register("rabbitmq", observability.PingChecker("rabbitmq", observability.HealthStatusDegraded, publisher.Ping))
			logger.Info("connected to RabbitMQ", "exchange", cfg.RabbitMQExchange)
		}
	}
	if c.EventPublisher == nil {
		c.EventPublisher = eventbus.NewLogPublisher(logger)
	}

	c.wire(ctx)
	return c, nil
}

func (c *Container) openDatabase(ctx context.Context) error {
	cfg := c.Config
	c.DBDriver = database.DetectDriver(cfg.DatabaseURL)

	var factory *RepositoryFactory
	switch c.DBDriver {
	case database.DriverPostgres:
		pool, err := database.OpenPostgres(ctx, cfg.DatabaseURL, 20)
		if err != nil {
			return err
		}
		c.DB = pool
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		c.Health.Register("database", observability.PingChecker("database", observability.HealthStatusUnhealthy, pool.Ping))
		factory = NewPostgresRepositoryFactory(pool)
		c.Logger.Info("connected to PostgreSQL")

	default:
		path := cfg.SQLitePath
		if cfg.DatabaseURL != "" {
			path = database.SQLitePath(cfg.DatabaseURL)
		}
		db, err := database.OpenSQLite(ctx, path)
		if err != nil {
			return err
		}
		c.SQLiteDB = db
		if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		c.Health.Register("database", observability.PingChecker("database", observability.HealthStatusUnhealthy, db.PingContext))
		factory = NewSQLiteRepositoryFactory(db)
		c.Logger.Info("using local SQLite database", "path", path)
	}

	repos, err := factory.Build()
	if err != nil {
		return err
	}
	c.Repos = repos
	return nil
}

// wire builds adapters and handlers on top of the repositories.
func (c *Container) wire(ctx context.Context) {
	cfg := c.Config
	logger := c.Logger
	repos := c.Repos

	// Roster, cached in Redis when available
	roster := teamPersistence.Roster{Repo: repos.Roster}
	var invalidator teamApp.Invalidator
	if c.RedisClient != nil {
		cached := teamCache.NewRedisCachedRoster(c.RedisClient, roster, cfg.RosterCacheTTL, logger)
		c.Roster = cached
		invalidator = cached
	} else {
		c.Roster = roster
	}
	c.RosterService = teamApp.NewRosterService(repos.Roster, invalidator, logger)

	// Calendars
	var busy services.MultiBusyTimeSource
	var providers []services.MeetingLinkProvider
	google := googleCalendar.Credentials{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RefreshToken: cfg.GoogleRefreshToken,
	}
	if google.Configured() {
		ts := google.TokenSource(ctx)
		busy = append(busy, googleCalendar.NewFreeBusySource(ts, logger).WithCalendarID(cfg.GoogleCalendarID))
		providers = append(providers, googleCalendar.NewMeetProvider(ts, logger).WithCalendarID(cfg.GoogleCalendarID))
		logger.Info("google calendar enabled", "calendar_id", cfg.GoogleCalendarID)
	}
	if cfg.CalDAVURL != "" {
		source := caldav.NewBusySource(cfg.CalDAVURL, cfg.CalDAVUser, cfg.CalDAVPassword, logger)
		if cfg.CalDAVCalendarPath != "" {
			source = source.WithCalendarPath(cfg.CalDAVCalendarPath)
		}
		busy = append(busy, source)
		logger.Info("caldav calendar enabled", "url", cfg.CalDAVURL)
	}
	outlook := microsoft.Credentials{
		TenantID:     cfg.MicrosoftTenantID,
		ClientID:     cfg.MicrosoftClientID,
		ClientSecret: cfg.MicrosoftClientSecret,
	}
	if outlook.Configured() && cfg.MicrosoftMailbox != "" {
		busy = append(busy, microsoft.NewScheduleSource(outlook.TokenSource(ctx), cfg.MicrosoftMailbox, logger))
		logger.Info("outlook calendar enabled", "mailbox", cfg.MicrosoftMailbox)
	}
	zoomCfg := zoom.Config{
		AccountID:    cfg.ZoomAccountID,
		ClientID:     cfg.ZoomClientID,
		ClientSecret: cfg.ZoomClientSecret,
		UserID:       cfg.ZoomUserID,
	}
	if zoomCfg.Configured() {
		providers = append(providers, zoom.NewProvider(ctx, zoomCfg, logger))
		logger.Info("zoom meetings enabled")
	}
	if len(busy) > 0 {
		c.BusyTimes = busy
	} else {
		c.BusyTimes = services.NoBusyTimes{}
	}

	linkCfg := services.DefaultLinkProvisionerConfig()
	if cfg.MeetingLinkTimeout > 0 {
		linkCfg.Timeout = cfg.MeetingLinkTimeout
	}
	if cfg.MeetingLinkBreakerFailures > 0 {
		linkCfg.FailureThreshold = cfg.MeetingLinkBreakerFailures
	}
	if cfg.MeetingLinkBreakerOpen > 0 {
		linkCfg.OpenPeriod = cfg.MeetingLinkBreakerOpen
	}
	c.Links = services.NewLinkProvisioner(linkCfg, logger, providers...)

	// Introductions
	policy := introCommands.DefaultPolicy()
	if cfg.IntroExpiryWindow > 0 {
		policy.ExpiryWindow = cfg.IntroExpiryWindow
	}
	if cfg.IntroProtectionPeriod > 0 {
		policy.ProtectionPeriod = cfg.IntroProtectionPeriod
	}
	c.RequestIntroductionHandler = introCommands.NewRequestIntroductionHandler(repos.Introductions, repos.Directory, repos.Outbox, repos.UnitOfWork, c.Clock, policy)
	c.RespondIntroductionHandler = introCommands.NewRespondToIntroductionHandler(repos.Introductions, repos.Outbox, repos.UnitOfWork, c.Clock, policy)
	c.AdvanceIntroductionHandler = introCommands.NewAdvanceIntroductionHandler(repos.Introductions, repos.Outbox, repos.UnitOfWork, c.Clock, policy)
	c.ExpireIntroductionsHandler = introCommands.NewExpireIntroductionsHandler(repos.Introductions, repos.Outbox, repos.UnitOfWork, c.Clock, policy, logger)
	c.ViewCandidateHandler = introQueries.NewViewCandidateHandler(repos.Introductions, repos.Directory, repos.Outbox, repos.UnitOfWork, c.Clock, policy.ExpiryWindow)
	c.IntroductionsHandler = introQueries.NewIntroductionsHandler(repos.Introductions, repos.Outbox, repos.UnitOfWork, c.Clock, policy.ExpiryWindow)

	// Interviews
	c.CreateInterviewHandler = interviewCommands.NewCreateInterviewHandler(repos.Interviews, repos.Outbox, repos.UnitOfWork, c.Clock)
	c.ProposeAvailabilityHandler = interviewCommands.NewProposeAvailabilityHandler(repos.Interviews, c.BusyTimes, repos.Outbox, repos.UnitOfWork, c.Clock)
	c.SelectSlotsHandler = interviewCommands.NewSelectSlotsHandler(repos.Interviews, c.BusyTimes, repos.Outbox, repos.UnitOfWork, c.Clock)
	c.ConfirmInterviewHandler = interviewCommands.NewConfirmInterviewHandler(repos.Interviews, c.Roster, c.Links, c.AdvanceIntroductionHandler, repos.Outbox, repos.UnitOfWork, c.Clock, logger)
	c.RescheduleInterviewHandler = interviewCommands.NewRescheduleInterviewHandler(repos.Interviews, c.BusyTimes, repos.Outbox, repos.UnitOfWork, c.Clock)
	c.UpdateStatusHandler = interviewCommands.NewUpdateInterviewStatusHandler(repos.Interviews, repos.Outbox, repos.UnitOfWork, c.Clock)
	c.RetryMeetingLinkHandler = interviewCommands.NewRetryMeetingLinkHandler(repos.Interviews, c.Links, repos.Outbox, repos.UnitOfWork, c.Clock, logger)
	c.ExpireInterviewsHandler = interviewCommands.NewExpireStaleInterviewsHandler(repos.Interviews, repos.Outbox, repos.UnitOfWork, c.Clock, logger)
	c.GetInterviewHandler = interviewQueries.NewGetInterviewHandler(repos.Interviews, c.Clock)
	c.ListInterviewsHandler = interviewQueries.NewListInterviewsHandler(repos.Interviews, c.Clock)
	c.SuggestAvailabilityHandler = interviewQueries.NewSuggestAvailabilityHandler(repos.Interviews, c.BusyTimes, c.Clock, cfg.BusyLookaheadDays)

	// Outbox
	processorCfg := outbox.DefaultProcessorConfig()
	if cfg.OutboxPollInterval > 0 {
		processorCfg.PollInterval = cfg.OutboxPollInterval
	}
	if cfg.OutboxBatchSize > 0 {
		processorCfg.BatchSize = cfg.OutboxBatchSize
	}
	if cfg.OutboxMaxRetries > 0 {
		processorCfg.MaxRetries = cfg.OutboxMaxRetries
	}
	c.OutboxProcessor = outbox.NewProcessor(repos.Outbox, c.EventPublisher, processorCfg, logger).WithMetrics(c.Metrics)
}

// StartOutbox starts publishing outbox messages in the background.
func (c *Container) StartOutbox(ctx context.Context) {
	if c.OutboxProcessor == nil || !c.Config.OutboxProcessorEnabled {
		return
	}
	c.OutboxProcessor.Start(ctx)
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.OutboxProcessor != nil {
		c.OutboxProcessor.Stop()
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		} else {
			c.Logger.Info("Redis connection closed")
		}
	}

	if c.DB != nil {
		c.DB.Close()
		c.Logger.Info("PostgreSQL connection closed")
	}

	if c.SQLiteDB != nil {
		if err := c.SQLiteDB.Close(); err != nil {
			c.Logger.Warn("error closing SQLite database", "error", err)
		} else {
			c.Logger.Info("SQLite database closed")
		}
	}
}

// ShutdownTimeout bounds graceful shutdown of servers built on the container.
const ShutdownTimeout = 10 * time.Second
