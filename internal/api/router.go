package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/undangapp/undang/internal/auth"
	"github.com/undangapp/undang/internal/slug"
	"github.com/undangapp/undang/internal/store"
)

// Deps holds all dependencies required to build the API router.
type Deps struct {
	BearerAuth      *auth.BearerTokenMiddleware
	InvitationStore *store.InvitationStore
	RSVPStore       *store.RSVPStore
	GuestbookStore  *store.GuestbookStore
	UserStore       *store.UserStore
	TokenStore      auth.TokenStore
	Allocator       *slug.Allocator
	Validator       *slug.Validator
}

// NewAPIRouter creates a chi sub-router for /api/v1.
// All routes require Bearer token authentication and return application/json.
func NewAPIRouter(deps Deps) chi.Router {
	r := chi.NewRouter()

	// All API responses are JSON.
	r.Use(jsonContentType)

	// Bearer token authentication on all API routes.
	r.Use(deps.BearerAuth.Authenticate)

	registerSlugCheckRoutes(r, deps.Validator, deps.InvitationStore)
	registerInvitationRoutes(r, deps.InvitationStore, deps.RSVPStore, deps.GuestbookStore, deps.Allocator, deps.Validator)
	registerTokenRoutes(r, deps.TokenStore)
	registerAdminRoutes(r, deps.UserStore, deps.InvitationStore)

	return r
}

// jsonContentType is a middleware that sets Content-Type: application/json on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
