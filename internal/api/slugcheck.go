package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/undangapp/undang/internal/metrics"
	"github.com/undangapp/undang/internal/slug"
	"github.com/undangapp/undang/internal/store"
)

// slugCheckHandler answers availability queries from the authoring UI.
type slugCheckHandler struct {
	validator   *slug.Validator
	invitations *store.InvitationStore
}

func registerSlugCheckRoutes(r chi.Router, v *slug.Validator, inv *store.InvitationStore) {
	h := &slugCheckHandler{validator: v, invitations: inv}
	r.Get("/slug-check", h.Check)
}

// Check validates a candidate slug and reports whether it is free.
// GET /api/v1/slug-check?slug=...
//
// The pre-check is an optimization for the authoring UI; the unique
// index on the invitations table remains the true arbiter at save time.
//
// @Summary      Check slug availability
// @Description  Validates a candidate slug and reports whether it is free to claim.
// @Tags         Slugs
// @Produce      json
// @Param        slug  query     string  true  "Candidate slug"
// @Success      200   {object}  SlugCheckResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Security     BearerToken
// @Router       /slug-check [get]
func (h *slugCheckHandler) Check(w http.ResponseWriter, r *http.Request) {
	candidate := r.URL.Query().Get("slug")
	if candidate == "" {
		writeError(w, http.StatusBadRequest, "slug parameter is required", "MISSING_SLUG")
		return
	}

	if err := h.validator.Validate(candidate); err != nil {
		if errors.Is(err, slug.ErrReserved) {
			metrics.SlugProbesTotal.WithLabelValues("reserved").Inc()
			writeError(w, http.StatusBadRequest, "slug is a reserved word", "RESERVED_SLUG")
			return
		}
		metrics.SlugProbesTotal.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_SLUG")
		return
	}

	exists, err := h.invitations.SlugExists(r.Context(), candidate)
	if err != nil {
		metrics.SlugProbesTotal.WithLabelValues("error").Inc()
		log.Printf("api: slug check %q: %v", candidate, err)
		writeError(w, http.StatusInternalServerError, "availability check failed", "BACKEND_ERROR")
		return
	}

	if exists {
		metrics.SlugProbesTotal.WithLabelValues("taken").Inc()
	} else {
		metrics.SlugProbesTotal.WithLabelValues("available").Inc()
	}
	writeJSON(w, http.StatusOK, SlugCheckResponse{Slug: candidate, Available: !exists})
}
