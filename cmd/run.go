package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"footycards/bot"
	"footycards/bot/features/cardview"
	"footycards/config"
	"footycards/database"
	"footycards/domain/interfaces"
	"footycards/domain/services"
	"footycards/events"
	"footycards/infrastructure"
	"footycards/infrastructure/footballapi"
	"footycards/infrastructure/observability"
	"footycards/infrastructure/roster"
	"footycards/repository"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

const serviceName = "footycards"

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting footycards bot...")

	// Load configuration
	cfg := config.Get()
	configureLogging(cfg)

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Println("Database connection established successfully")

	log.Println("Running database migrations...")
	if err := database.RunMigrationsWithURL(cfg.GetDatabaseURL()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize event bus
	eventBus := events.NewBus()

	// Metrics
	metrics := observability.NewMetricsProvider(observability.Config{
		Exporter:       cfg.MetricsExporter,
		OTLPEndpoint:   cfg.OTelOTLPEndpoint,
		ServiceName:    serviceName,
		Environment:    cfg.Environment,
		ExportInterval: 30 * time.Second,
	})
	if err := metrics.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	metrics.Attach(eventBus)
	log.Printf("Metrics exporter: %s", cfg.MetricsExporter)

	// Optional NATS event forwarding
	natsClient, err := connectEventForwarding(ctx, cfg, eventBus)
	if err != nil {
		log.Warnf("Event forwarding disabled: %v", err)
	}

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)
	clock := clockwork.NewRealClock()

	// Player pool
	primary, fallback, err := playerProviders(cfg)
	if err != nil {
		return err
	}
	pool := services.NewPlayerPool(primary, fallback, eventBus, clock, services.PlayerPoolConfig{
		TTL:          cfg.PoolTTL,
		FallbackTTL:  cfg.PoolFallbackTTL,
		RefreshWait:  cfg.PoolRefreshWait,
		FetchTimeout: cfg.PoolFetchTimeout,
		Policy:       services.DefaultRarityPolicy(),
	})

	// Initialize services
	log.Println("Initializing services...")
	cooldowns := services.NewCooldownTracker(clock, cfg.DropCooldown)
	drops := services.NewDropService(
		uowFactory,
		pool,
		cooldowns,
		services.NewCardIDGenerator(clock, services.DefaultCardIDAttempts),
		services.RarityWeights{
			Epic:   cfg.RarityWeightEpic,
			Rare:   cfg.RarityWeightRare,
			Common: cfg.RarityWeightCommon,
		},
		services.NewRandomizer(),
		clock,
	)
	collection := services.NewCollectionService(uowFactory, cfg.CollectionPageSize)
	burns := services.NewBurnService(uowFactory, clock)
	trades := services.NewTradeService(uowFactory, eventBus, clock, cfg.TradeExpiry)
	defer trades.Close()

	images, err := cardview.NewImageGenerator()
	if err != nil {
		log.Warnf("Card images disabled: %v", err)
	}

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	discordBot, err := bot.New(bot.Config{
		Token:          cfg.DiscordToken,
		GuildID:        cfg.GuildID,
		DropCooldown:   cfg.DropCooldown,
		WarmupSchedule: cfg.PoolWarmupSchedule,
	}, bot.Dependencies{
		Drops:      drops,
		Cooldowns:  cooldowns,
		Collection: collection,
		Burns:      burns,
		Trades:     trades,
		Pool:       pool,
		Images:     images,
		Clock:      clock,
		EventBus:   eventBus,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")
	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if natsClient != nil {
		if err := natsClient.Close(); err != nil {
			log.Printf("Error closing NATS connection: %v", err)
		}
	}
	if err := metrics.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down metrics: %v", err)
	}

	log.Println("Shutdown completed")
	return nil
}

// configureLogging applies LOG_LEVEL and switches to JSON outside development
func configureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Unknown log level %q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// connectEventForwarding publishes domain events to JetStream when NATS is configured
func connectEventForwarding(ctx context.Context, cfg *config.Config, bus *events.Bus) (*infrastructure.NATSClient, error) {
	if cfg.NATSServers == "" {
		log.Println("NATS_SERVERS not set, event forwarding disabled")
		return nil, nil
	}

	client := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	if err := client.EnsureEventStream(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ensure event stream: %w", err)
	}

	forwarder := infrastructure.NewEventForwarder(client, infrastructure.NewEventSubjectMapper(infrastructure.EventSubjectPrefix))
	forwarder.Attach(bus)
	log.Printf("Forwarding domain events to NATS subject %s.*", infrastructure.EventSubjectPrefix)
	return client, nil
}

// playerProviders picks the football API as primary when configured and
// the embedded roster as fallback, or as the only source otherwise.
func playerProviders(cfg *config.Config) (primary, fallback interfaces.PlayerStatsProvider, err error) {
	client := footballapi.NewClient(footballapi.Config{
		BaseURL: cfg.FootballAPIURL,
		APIKey:  cfg.FootballAPIKey,
		Host:    cfg.FootballAPIHost,
		Leagues: cfg.FootballLeagues,
		Season:  cfg.FootballSeason,
		Timeout: cfg.PoolFetchTimeout,
	})
	if client.Configured() {
		primary = client
	} else {
		log.Warn("Football API not configured")
	}

	if cfg.FallbackRosterEnabled {
		rosterProvider, err := roster.NewFallbackProvider()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load fallback roster: %w", err)
		}
		if primary == nil {
			primary = rosterProvider
		} else {
			fallback = rosterProvider
		}
	}

	if primary == nil {
		return nil, nil, errors.New("no player provider configured: set FOOTBALL_API_KEY or enable FALLBACK_ROSTER_ENABLED")
	}

	log.WithFields(log.Fields{
		"primary":  primary.Name(),
		"fallback": fallback != nil,
	}).Info("Player providers configured")
	return primary, fallback, nil
}
