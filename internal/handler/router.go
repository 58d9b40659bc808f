package handler

import (
	"io/fs"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/undangapp/undang/docs/swagger"
	"github.com/undangapp/undang/internal/api"
	"github.com/undangapp/undang/internal/auth"
	"github.com/undangapp/undang/internal/notify"
	"github.com/undangapp/undang/internal/slug"
	"github.com/undangapp/undang/internal/store"
	"github.com/undangapp/undang/web"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	SessionManager  *scs.SessionManager
	AuthHandlers    *auth.Handlers
	AuthMiddleware  *auth.Middleware
	InvitationStore *store.InvitationStore
	RSVPStore       *store.RSVPStore
	GuestbookStore  *store.GuestbookStore
	UserStore       *store.UserStore
	TokenStore      auth.TokenStore
	Allocator       *slug.Allocator
	Validator       *slug.Validator
	NotifyCh        chan<- notify.Message
	BaseURL         string
}

// NewRouter assembles the full chi router with all middleware and routes.
// Named routes are registered before the public slug catch-all, so reserved
// prefixes always take precedence over invitation slugs.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(deps.SessionManager.LoadAndSave)

	// Static assets (embedded). Use fs.Sub so the file server sees
	// css/app.css directly, not static/css/... paths.
	staticSub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic("failed to sub static FS: " + err.Error())
	}
	r.Handle("/static/*", http.StripPrefix("/static", http.FileServerFS(staticSub)))

	// Auth routes (no auth required)
	r.Get("/auth/login", deps.AuthHandlers.Login)
	r.Get("/auth/callback", deps.AuthHandlers.Callback)
	r.Post("/auth/logout", deps.AuthHandlers.Logout)

	// Landing page (unauthenticated; redirects authenticated to /dashboard)
	landing := NewLandingHandler()
	r.With(deps.AuthMiddleware.OptionalUser).Get("/", landing.Index)

	// Authenticated routes
	dashboard := NewDashboardHandler(deps.InvitationStore)
	r.Group(func(r chi.Router) {
		r.Use(deps.AuthMiddleware.RequireAuth)
		r.Get("/dashboard", dashboard.Show)
	})

	// Prometheus metrics.
	r.Handle("/metrics", promhttp.Handler())

	// Swagger UI. No auth required; must precede the slug catch-all.
	r.Get("/api/docs/*", httpSwagger.WrapHandler)

	// API sub-router at /api/v1. Must precede the slug catch-all.
	bearerMiddleware := auth.NewBearerTokenMiddleware(deps.TokenStore, deps.UserStore)
	apiRouter := api.NewAPIRouter(api.Deps{
		BearerAuth:      bearerMiddleware,
		InvitationStore: deps.InvitationStore,
		RSVPStore:       deps.RSVPStore,
		GuestbookStore:  deps.GuestbookStore,
		UserStore:       deps.UserStore,
		TokenStore:      deps.TokenStore,
		Allocator:       deps.Allocator,
		Validator:       deps.Validator,
	})
	r.Mount("/api/v1", apiRouter)

	// Public invitation pages -- catch-all, must be last. No auth; a
	// published page is reachable by anyone who knows the slug.
	public := NewPublicHandler(deps.InvitationStore, deps.RSVPStore, deps.GuestbookStore, deps.UserStore, deps.NotifyCh, deps.BaseURL)
	r.Get("/{slug}", public.Show)
	r.Post("/{slug}/rsvp", public.SubmitRSVP)
	r.Get("/{slug}/guestbook", public.ListGuestbook)
	r.Post("/{slug}/guestbook", public.SignGuestbook)

	return r
}
