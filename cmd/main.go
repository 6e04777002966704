package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"github.com/questkit/jobscout/internal/clients/arcade"
	"github.com/questkit/jobscout/internal/clients/gemini"
	"github.com/questkit/jobscout/internal/clients/remotely"
	"github.com/questkit/jobscout/internal/clients/talenthub"
	"github.com/questkit/jobscout/internal/config"
	"github.com/questkit/jobscout/internal/logger"
	"github.com/questkit/jobscout/internal/metrics"
	"github.com/questkit/jobscout/internal/notifier"
	"github.com/questkit/jobscout/internal/repositories"
	"github.com/questkit/jobscout/internal/services"
	"github.com/questkit/jobscout/internal/sources"
	log "github.com/sirupsen/logrus"
)

func buildAdapters(cfg *config.Config) []sources.Adapter {

	arcadeClient := arcade.NewClient()
	remotelyClient := remotely.NewClient()
	talenthubClient := talenthub.NewClient()

	if rps := cfg.Engine.SourceMaxRequestsPerSecond; rps > 0 {
		arcadeClient.SetRateLimit(rps)
		remotelyClient.SetRateLimit(rps)
		talenthubClient.SetRateLimit(rps)
	}

	return []sources.Adapter{
		sources.NewArcadeAdapter(arcadeClient),
		sources.NewRemotelyAdapter(remotelyClient),
		sources.NewTalentHubAdapter(talenthubClient),
	}
}

func buildAIService(ctx context.Context, cfg *config.Config) *services.AIService {

	if !cfg.AI.Enabled() {
		return nil
	}

	model := gemini.ModelFlash
	if cfg.AI.Model != "" {
		model = gemini.Model(cfg.AI.Model)
	}

	aiClient, err := gemini.NewClient(ctx, cfg.AI.Key, model)
	if err != nil {
		log.Fatalf("can't create AI client: %v", err)
	}
	if cfg.AI.MaxRequestsPerMinute > 0 {
		aiClient.SetMinuteRateLimit(cfg.AI.MaxRequestsPerMinute)
	}
	if cfg.AI.MaxRequestsPerDay > 0 {
		aiClient.SetDayRateLimit(cfg.AI.MaxRequestsPerDay)
	}
	return services.NewAIService(aiClient)
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metrics.StartMetricsServer(cfg.Engine.MetricsAddress)

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	if err = dbContext.Migrate(); err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	alerts := repositories.NewAlertsRepository(dbContext.DB)
	notified := repositories.NewNotifiedJobsRepository(dbContext.DB, cfg.Engine.NotifiedCap)
	notifications := repositories.NewNotificationsRepository(dbContext.DB, cfg.Engine.NotificationCap)
	applications := repositories.NewApplicationsRepository(dbContext.DB)
	outcomes := repositories.NewOutcomesRepository(dbContext.DB)
	data := repositories.NewDataRepository(dbContext.DB)

	bus := EventBus.New()

	analytics := services.NewSearchAnalytics(data)
	aggregator := services.NewAggregator(buildAdapters(cfg), services.NewScorer(), analytics,
		services.AggregatorOptions{
			CacheTTL:      cfg.Engine.CacheTTL,
			Concurrency:   cfg.Engine.SearchConcurrency,
			SourceTimeout: cfg.Engine.SourceTimeout,
			MaxResults:    cfg.Engine.MaxResults,
		})

	alertEngine, err := services.NewAlertEngine(bus, aggregator, alerts, notified, notifications,
		uuid.NewString)
	if err != nil {
		log.Fatalf("can't create alert engine: %v", err)
	}

	cleaner, err := services.NewRetentionCleaner(notifications, notified, cfg.Engine.RetentionDays)
	if err != nil {
		log.Fatalf("can't create retention cleaner: %v", err)
	}
	defer cleaner.Stop()

	if cfg.Notifier.Enabled() {
		_, err = notifier.NewTelegram(cfg.Notifier.TelegramToken, cfg.Notifier.TelegramChatID, bus)
		if err != nil {
			log.Fatalf("can't create telegram notifier: %v", err)
		}
	}

	engine := services.NewEngine(aggregator, services.NewScorer(),
		services.NewApplicationTracker(applications, outcomes),
		alertEngine, services.NewNotificationService(notifications),
		buildAIService(ctx, cfg))

	if err = alertEngine.StartPolling(cfg.Engine.AlertPollInterval); err != nil {
		log.Fatalf("can't start alert polling: %v", err)
	}
	defer alertEngine.StopPolling()

	go func() {
		if _, err := engine.CheckAlerts(ctx); err != nil {
			log.Errorf("initial alert pass failed: %v", err)
		}
	}()

	<-ctx.Done()

	log.Info("Shutting down services...")
	log.Info("Services stopped.")
}
