package app

import (
	"context"
	"log/slog"

	"github.com/go-resty/resty/v2"

	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/config"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/db"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/feed"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/handlers"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/jobrunner"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/logging"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/metrics"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/middleware"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/moderation"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/repositories"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/storage"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/videos"
)

// buildDependencies wires together concrete implementations used by the HTTP handlers.
// Every external client is created here once. Missing optional integrations are
// logged and leave the affected feature answering with a server error. The returned
// cleanup drains the moderation dispatcher.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config, m *metrics.Metrics) (handlers.Dependencies, func(context.Context) error, error) {
	logger := logging.FromContext(ctx)

	httpClient := resty.New().
		SetTimeout(cfg.HTTPTimeout).
		SetHeader("User-Agent", "popnow-backend")

	videoRepo := repositories.NewPostgresVideoRepository(pool)
	profileRepo := repositories.NewPostgresProfileRepository(pool)
	notificationRepo := repositories.NewPostgresNotificationRepository(pool)
	engagementRepo := repositories.NewPostgresEngagementRepository(pool)

	runner := jobrunner.NewClient(httpClient, cfg.JobRunner.BaseURL, cfg.JobRunner.SecretKey)
	if !runner.Configured() {
		logger.Warn("job runner secret missing; video moderation disabled")
	}
	trigger := &moderation.VideoTrigger{Runner: runner, TaskID: cfg.JobRunner.TaskID, Metrics: m}

	dispatcher := videos.NewDispatcher(trigger, videos.DispatcherConfig{
		QueueSize:      cfg.Moderation.QueueSize,
		Workers:        cfg.Moderation.Workers,
		TriggerTimeout: cfg.HTTPTimeout,
	})

	uploader := &videos.Uploader{
		Videos:     videoRepo,
		Moderation: dispatcher,
		Metrics:    m,
	}
	if objectStore, err := storage.NewS3Storage(ctx, cfg.ObjectStore); err != nil {
		logger.Warn("object storage unavailable; uploads disabled", slog.String("error", err.Error()))
	} else {
		uploader.Storage = objectStore
	}

	if !cfg.CDNStorage.Configured() {
		logger.Warn("cdn storage credentials missing; rejected avatars will not be deleted")
	}
	avatars := &moderation.AvatarModerator{
		Fetcher:       moderation.NewHTTPImageFetcher(httpClient),
		Files:         storage.NewCDNStorage(httpClient, cfg.CDNStorage),
		Profiles:      profileRepo,
		Notifications: notificationRepo,
		Metrics:       m,
		MinConfidence: cfg.Classifier.MinConfidence,
	}
	if classifier, err := moderation.NewRekognitionClassifier(ctx, cfg.Classifier.Region); err != nil {
		logger.Warn("image classifier unavailable; avatar moderation disabled", slog.String("error", err.Error()))
	} else {
		avatars.Classifier = classifier
	}

	deps := handlers.Dependencies{
		Database:     pool,
		Uploader:     uploader,
		Map:          &feed.MapService{Videos: videoRepo, Metrics: m},
		Search:       feed.NewSearchService(videoRepo, profileRepo, m, cfg.SearchCacheTTL),
		Engagement:   &feed.EngagementService{Store: engagementRepo, Profiles: profileRepo},
		VideoTrigger: trigger,
		Avatars:      avatars,
		Results:      videoRepo,
		Secrets:      runner,
		Metrics:      m,
		MapboxToken:  cfg.MapboxToken,
	}
	if limiter := middleware.PerMinute(cfg.RateLimitPerMinute); limiter != nil {
		deps.Limiter = limiter
	}

	return deps, dispatcher.Shutdown, nil
}
