package routes

import (
	"net/http"

	"github.com/campusshare/campusshare/internal/app"
	"github.com/campusshare/campusshare/internal/handler"
	"github.com/campusshare/campusshare/internal/metrics"
	"github.com/campusshare/campusshare/internal/middleware"
	"github.com/campusshare/campusshare/internal/ui/assets"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler(app.CatalogService, app.LeaderboardService)
	content := handler.NewContentHandler(app.ContentService)
	auth := handler.NewAuthHandler(app.AuthService, app.ProfileService, app.Cfg)
	resource := handler.NewResourceHandler(app.CatalogService, app.ResourceService, app.ReviewService, app.ContentService)
	review := handler.NewReviewHandler(app.ReviewService)
	report := handler.NewReportHandler(app.ReportService)
	profile := handler.NewProfileHandler(app.ProfileService)
	dashboard := handler.NewDashboardHandler(app.CatalogService, app.LeaderboardService)
	leaderboard := handler.NewLeaderboardHandler(app.LeaderboardService)
	seed := handler.NewSeedHandler(app.SeedService)
	health := handler.NewHealthHandler(app.HealthService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	// Static files
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(assets.FS))))

	// Pages
	mux.HandleFunc("GET /{$}", home.HomePage)
	mux.HandleFunc("GET /resources", resource.ListPage)
	mux.HandleFunc("GET /resources/{id}", resource.DetailPage)
	mux.HandleFunc("GET /leaderboard", leaderboard.LeaderboardPage)

	// Content
	mux.HandleFunc("GET /guidelines", content.GuidelinesPage)
	mux.HandleFunc("GET /legal/{page}", content.LegalPage)

	// Leaderboard API
	mux.HandleFunc("GET /api/leaderboard", leaderboard.Top)
	mux.HandleFunc("GET /api/leaderboard/me", leaderboard.Me)

	// Health checks
	mux.HandleFunc("GET /api/check-db", health.CheckDB)
	mux.HandleFunc("GET /api/check-storage", health.CheckStorage)
	if app.Cfg.MetricsEnabled {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	// ============================================================================
	// AUTH
	// ============================================================================

	authLimit := middleware.RateLimitAuth()

	mux.HandleFunc("GET /auth", middleware.RequireGuest(auth.AuthPage))
	mux.HandleFunc("GET /auth/google", authLimit(middleware.RequireGuest(auth.GoogleAuth)))
	mux.HandleFunc("GET /auth/google/callback", authLimit(auth.GoogleCallback))
	mux.HandleFunc("GET /auth/github", authLimit(middleware.RequireGuest(auth.GitHubAuth)))
	mux.HandleFunc("GET /auth/github/callback", authLimit(auth.GitHubCallback))
	mux.HandleFunc("POST /auth/logout", auth.Logout)

	mux.HandleFunc("GET /complete-profile", middleware.RequireAuth(profile.CompleteProfilePage))

	// ============================================================================
	// PROTECTED ROUTES (/app/*)
	// ============================================================================

	// Pages
	mux.HandleFunc("GET /app/dashboard", middleware.RequireProfile(dashboard.DashboardPage))
	mux.HandleFunc("GET /app/upload", middleware.RequireProfile(resource.UploadPage))
	mux.HandleFunc("GET /admin/reports", middleware.RequireAuth(report.AdminPage))

	// Actions answer with a JSON ActionResult, including 401 for anonymous
	// callers, so they are not wrapped in RequireAuth.
	actionLimit := middleware.RateLimitActions()

	mux.HandleFunc("POST /app/resources", actionLimit(resource.Upload))
	mux.HandleFunc("DELETE /app/resources/{id}", actionLimit(resource.Delete))
	mux.HandleFunc("POST /app/resources/{id}/reviews", actionLimit(review.Submit))
	mux.HandleFunc("POST /app/reports", actionLimit(report.Submit))
	mux.HandleFunc("POST /app/profile", actionLimit(profile.Save))
	mux.HandleFunc("POST /app/seed", actionLimit(seed.Seed))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	// 404
	mux.HandleFunc("/{path...}", home.NotFoundPage)

	// Global middleware - executed in order (top to bottom)
	global := []func(http.Handler) http.Handler{
		middleware.Config(app.Cfg), // Config must be first (needed by SecurityHeaders for the storage origin)
		middleware.NonceMiddleware, // Generate CSP nonce for each request (must be before SecurityHeaders)
		middleware.SecurityHeaders, // Security headers for all responses (XSS, clickjacking, etc.)
	}
	if app.Cfg.MetricsEnabled {
		global = append(global, metrics.Middleware)
	}
	global = append(global,
		middleware.RequestLogging,
		middleware.CSRFProtection, // CSRF protection for all state-changing requests
		middleware.Auth(app.AuthService, app.ProfileService),
		middleware.WithURLPath,
	)

	return middleware.Chain(mux, global...)
}
