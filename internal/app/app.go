package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/templui/shelf/internal/config"
	"github.com/templui/shelf/internal/db"
	"github.com/templui/shelf/internal/markdown"
	"github.com/templui/shelf/internal/metadata"
	"github.com/templui/shelf/internal/metrics"
	"github.com/templui/shelf/internal/repository"
	"github.com/templui/shelf/internal/service"
	"github.com/templui/shelf/internal/storage"
)

type App struct {
	Cfg               *config.Config
	DB                *sqlx.DB
	Registry          *prometheus.Registry
	Metrics           *metrics.Collector
	AuthService       *service.AuthService
	UserService       *service.UserService
	ProfileService    *service.ProfileService
	SocialService     *service.SocialService
	CatalogService    *service.CatalogService
	ActivityService   *service.ActivityService
	EngagementService *service.EngagementService
	FeedService       *service.FeedService
	DiscoveryService  *service.DiscoveryService
	ListService       *service.ListService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.Migrate(ctx, database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	// Storage
	fileStorage, err := storage.New(ctx, cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Metadata providers
	metadataClient := metadata.New(metadata.Config{
		TMDbAPIKey:           cfg.TMDbAPIKey,
		TMDbBaseURL:          cfg.TMDbBaseURL,
		TMDbImageBase:        cfg.TMDbImageBase,
		TMDbLanguage:         cfg.TMDbLanguage,
		TMDbIncludeAdult:     cfg.TMDbIncludeAdult,
		OpenLibraryBaseURL:   cfg.OpenLibraryBaseURL,
		OpenLibraryCoverBase: cfg.OpenLibraryCoverBase,
		Timeout:              cfg.MetadataTimeout,
		BreakerFailures:      cfg.MetadataBreakerFailures,
		BreakerCooldown:      cfg.MetadataBreakerCooldown,
	}, collector)

	// Services
	store := repository.NewStore(database)
	authService := service.NewAuthService(store, cfg.JWTSecret, cfg.JWTExpiry)
	feedService := service.NewFeedService(store, markdown.NewRenderer(), cfg.FeedPageSize, cfg.ProfilePageSize)

	return &App{
		Cfg:               cfg,
		DB:                database,
		Registry:          registry,
		Metrics:           collector,
		AuthService:       authService,
		UserService:       service.NewUserService(store, authService, fileStorage),
		ProfileService:    service.NewProfileService(store, feedService, fileStorage),
		SocialService:     service.NewSocialService(store),
		CatalogService:    service.NewCatalogService(store, metadataClient),
		ActivityService:   service.NewActivityService(store, collector),
		EngagementService: service.NewEngagementService(store, collector),
		FeedService:       feedService,
		DiscoveryService:  service.NewDiscoveryService(store, cfg.ShowcaseLimit),
		ListService:       service.NewListService(store),
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return db.Close(a.DB)
	}
	return nil
}
