package routes

import (
	"net/http"

	"github.com/templui/shelf/internal/app"
	"github.com/templui/shelf/internal/handler"
	"github.com/templui/shelf/internal/metrics"
	"github.com/templui/shelf/internal/middleware"
)

// SetupRoutes builds the API handler. The returned limiters own background
// cleanup goroutines; call Stop on each during shutdown.
func SetupRoutes(app *app.App) (http.Handler, []*middleware.RateLimiter) {
	// Handlers
	home := handler.NewHomeHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService)
	account := handler.NewAccountHandler(app.UserService)
	feed := handler.NewFeedHandler(app.FeedService, app.SocialService)
	engagement := handler.NewEngagementHandler(app.EngagementService)
	content := handler.NewContentHandler(app.CatalogService, app.ActivityService)
	list := handler.NewListHandler(app.ListService, app.ActivityService)
	discovery := handler.NewDiscoveryHandler(app.DiscoveryService)
	profile := handler.NewProfileHandler(app.ProfileService, app.SocialService)

	apiLimiter := middleware.NewRateLimiter(app.Cfg.RateLimitRPS, app.Cfg.RateLimitBurst)
	authLimiter := middleware.NewAuthRateLimiter()

	mux := http.NewServeMux()

	// ============================================================================
	// OPERATIONS
	// ============================================================================

	mux.HandleFunc("GET /healthz", home.Health)
	mux.Handle("GET /metrics", metrics.Handler(app.Registry))

	// ============================================================================
	// AUTH (rate limited)
	// ============================================================================

	mux.HandleFunc("POST /auth/register", authLimiter.Wrap(middleware.RequireGuest(auth.Register)))
	mux.HandleFunc("POST /auth/login", authLimiter.Wrap(middleware.RequireGuest(auth.Login)))
	mux.HandleFunc("POST /auth/logout", auth.Logout)

	// ============================================================================
	// PUBLIC ROUTES (viewer-aware when signed in)
	// ============================================================================

	mux.HandleFunc("GET /users/popular", feed.PopularUsers)
	mux.HandleFunc("GET /activities/{id}/comments", engagement.Comments)

	mux.HandleFunc("GET /contents/search", content.Search)
	mux.HandleFunc("GET /contents/{id}", content.Detail)
	mux.HandleFunc("GET /search/movies", content.SearchMovies)
	mux.HandleFunc("GET /search/books", content.SearchBooks)

	mux.HandleFunc("GET /lists/{id}", list.View)

	mux.HandleFunc("GET /discover/{type}", discovery.Showcase)
	mux.HandleFunc("GET /discover/{type}/{mode}", discovery.Rank)

	mux.HandleFunc("GET /profiles/{username}", profile.View)
	mux.HandleFunc("GET /profiles/{username}/followers", profile.Followers)
	mux.HandleFunc("GET /profiles/{username}/following", profile.Following)

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	// Feed
	mux.HandleFunc("GET /feed", middleware.RequireAuth(feed.Feed))

	// Engagement
	mux.HandleFunc("POST /activities/{id}/like", middleware.RequireAuth(engagement.ToggleLike))
	mux.HandleFunc("POST /activities/{id}/comments", middleware.RequireAuth(engagement.AddComment))

	// Catalog
	mux.HandleFunc("POST /contents/import", middleware.RequireAuth(content.Import))
	mux.HandleFunc("POST /contents/{id}/rating", middleware.RequireAuth(content.Rate))
	mux.HandleFunc("POST /contents/{id}/reviews", middleware.RequireAuth(content.Review))

	// Lists
	mux.HandleFunc("GET /lists", middleware.RequireAuth(list.Mine))
	mux.HandleFunc("POST /lists", middleware.RequireAuth(list.Create))
	mux.HandleFunc("POST /lists/{id}/items/{contentID}", middleware.RequireAuth(list.ToggleItem))

	// Social
	mux.HandleFunc("POST /profiles/{username}/follow", middleware.RequireAuth(profile.Follow))
	mux.HandleFunc("DELETE /profiles/{username}/follow", middleware.RequireAuth(profile.Unfollow))

	// Own profile
	mux.HandleFunc("GET /profile", middleware.RequireAuth(profile.Me))
	mux.HandleFunc("PATCH /profile", middleware.RequireAuth(profile.Update))
	mux.HandleFunc("POST /profile/avatar", middleware.RequireAuth(profile.UploadAvatar))

	// Account
	mux.HandleFunc("GET /account", middleware.RequireAuth(account.Me))
	mux.HandleFunc("POST /account/password", middleware.RequireAuth(account.ChangePassword))
	mux.HandleFunc("DELETE /account", middleware.RequireAuth(account.DeleteAccount))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", home.NotFound)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg),
		middleware.RequestLogging(app.Metrics),
		apiLimiter.Middleware,
		middleware.AuthMiddleware(app.AuthService),
	)

	return handler, []*middleware.RateLimiter{apiLimiter, authLimiter}
}
