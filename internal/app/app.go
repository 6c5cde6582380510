package app

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/campusshare/campusshare"
	"github.com/campusshare/campusshare/internal/cache"
	"github.com/campusshare/campusshare/internal/config"
	"github.com/campusshare/campusshare/internal/db"
	"github.com/campusshare/campusshare/internal/repository"
	"github.com/campusshare/campusshare/internal/service"
	"github.com/campusshare/campusshare/internal/storage"
	"github.com/campusshare/campusshare/internal/validation"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Cfg                *config.Config
	DB                 *sqlx.DB
	Redis              *redis.Client
	AuthService        *service.AuthService
	ProfileService     *service.ProfileService
	EmailService       *service.EmailService
	CatalogService     *service.CatalogService
	ResourceService    *service.ResourceService
	ReviewService      *service.ReviewService
	ReportService      *service.ReportService
	LeaderboardService *service.LeaderboardService
	SeedService        *service.SeedService
	ContentService     *service.ContentService
	HealthService      *service.HealthService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	opts := db.DefaultOptions()
	opts.MaxOpenConns = cfg.DBMaxOpenConns
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	profileRepository := repository.NewProfileRepository(database)
	resourceRepository := repository.NewResourceRepository(database)
	reviewRepository := repository.NewReviewRepository(database)
	reportRepository := repository.NewReportRepository(database)

	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Leaderboard cache (optional)
	redisClient := connectRedis(cfg)
	var leaderboardCache service.LeaderboardCache
	var invalidator service.LeaderboardInvalidator
	if redisClient != nil {
		c := cache.NewLeaderboardCache(redisClient, cfg.LeaderboardCacheTTL)
		leaderboardCache = c
		invalidator = c
	}

	content, err := contentFS(cfg)
	if err != nil {
		_ = database.Close()
		return nil, err
	}

	// Services
	validate := validation.New()
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.SupportEmail,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	pointsService := service.NewPointsService(profileRepository, invalidator)

	return &App{
		Cfg:                cfg,
		DB:                 database,
		Redis:              redisClient,
		AuthService:        service.NewAuthService(userRepository, cfg.JWTSecret, cfg.JWTExpiry, cfg.IsProduction()),
		ProfileService:     service.NewProfileService(profileRepository, userRepository, invalidator, emailService, validate),
		EmailService:       emailService,
		CatalogService:     service.NewCatalogService(resourceRepository, reviewRepository, profileRepository),
		ResourceService:    service.NewResourceService(resourceRepository, profileRepository, fileStorage, pointsService, validate, cfg.MaxUploadSize),
		ReviewService:      service.NewReviewService(reviewRepository, resourceRepository, profileRepository, pointsService, validate),
		ReportService:      service.NewReportService(reportRepository, resourceRepository, reviewRepository, profileRepository, emailService, validate),
		LeaderboardService: service.NewLeaderboardService(profileRepository, leaderboardCache, cfg.LeaderboardSize),
		SeedService:        service.NewSeedService(resourceRepository, profileRepository),
		ContentService:     service.NewContentService(content, cfg.IsDevelopment()),
		HealthService:      service.NewHealthService(database, profileRepository, fileStorage),
	}, nil
}

// connectRedis returns nil when no cache is configured or Redis is
// unreachable; the leaderboard then reads straight from the database.
func connectRedis(cfg *config.Config) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}

	client, err := cache.Connect(context.Background(), cfg.RedisURL)
	if err != nil {
		slog.Warn("redis unavailable, leaderboard cache disabled", "error", err)
		return nil
	}
	slog.Info("leaderboard cache enabled", "ttl", cfg.LeaderboardCacheTTL)
	return client
}

// contentFS serves markdown pages from disk in development so edits show up
// without a rebuild, and from the embedded copy otherwise.
func contentFS(cfg *config.Config) (fs.FS, error) {
	if cfg.IsDevelopment() {
		return os.DirFS(cfg.ContentPath), nil
	}

	sub, err := fs.Sub(campusshare.ContentFS, "content")
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded content: %w", err)
	}
	return sub, nil
}

func (a *App) Close() error {
	if a.Redis != nil {
		err := a.Redis.Close()
		if err != nil {
			slog.Error("failed to close redis", "error", err)
		}
	}
	return db.Close(a.DB)
}
