package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/undangapp/undang/internal/invitation"
	"github.com/undangapp/undang/internal/metrics"
	"github.com/undangapp/undang/internal/notify"
	"github.com/undangapp/undang/internal/store"
)

// PublicHandler serves published invitation pages and the guest intake
// endpoints underneath them. Unpublished and missing slugs are
// indistinguishable to guests.
type PublicHandler struct {
	invitations *store.InvitationStore
	rsvps       *store.RSVPStore
	guestbook   *store.GuestbookStore
	users       *store.UserStore
	notifyCh    chan<- notify.Message
	baseURL     string
}

// NewPublicHandler creates a new PublicHandler. notifyCh may be nil when
// outbound notifications are disabled.
func NewPublicHandler(inv *store.InvitationStore, rs *store.RSVPStore, gb *store.GuestbookStore, us *store.UserStore, notifyCh chan<- notify.Message, baseURL string) *PublicHandler {
	return &PublicHandler{invitations: inv, rsvps: rs, guestbook: gb, users: us, notifyCh: notifyCh, baseURL: baseURL}
}

type invitePage struct {
	BasePage
	Slug   string
	Config *invitation.Config
}

type notFoundPage struct {
	BasePage
	Slug string
}

// Show renders the public invitation page for a published slug.
// GET /{slug}
func (h *PublicHandler) Show(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(metrics.PageRenderDuration)
	defer timer.ObserveDuration()

	slug := chi.URLParam(r, "slug")
	inv, err := h.invitations.GetPublishedBySlug(r.Context(), slug)
	if err != nil {
		metrics.PageViewsTotal.WithLabelValues("not_found").Inc()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		render(w, "404.html", notFoundPage{Slug: slug})
		return
	}

	cfg, err := inv.Config()
	if err != nil {
		log.Printf("handler: decode config for %q: %v", slug, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	metrics.PageViewsTotal.WithLabelValues("ok").Inc()
	render(w, "invite.html", invitePage{Slug: inv.Slug, Config: cfg})
}

// SubmitRSVP records a guest's RSVP against a published invitation.
// POST /{slug}/rsvp
//
// A second submission with the same email is a conflict, not an update,
// and the stored response stays as first written. Owner notification is
// best effort: the RSVP is saved even when the notification cannot be
// queued or delivered.
func (h *PublicHandler) SubmitRSVP(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	inv, err := h.invitations.GetPublishedBySlug(r.Context(), slug)
	if err != nil {
		writePublicError(w, http.StatusNotFound, "invitation not found", "NOT_FOUND")
		return
	}

	var in invitation.RSVPInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writePublicError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	if fe := invitation.ValidateRSVP(&in); len(fe) > 0 {
		writePublicFieldErrors(w, fe)
		return
	}

	rsvp, err := h.rsvps.Create(r.Context(), inv.ID, &in)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateRSVP) {
			writePublicError(w, http.StatusConflict, "an RSVP with this email already exists", "DUPLICATE_RSVP")
			return
		}
		log.Printf("handler: create rsvp for %q: %v", slug, err)
		writePublicError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	metrics.RSVPsRecordedTotal.Inc()

	h.queueRSVPNotification(r, inv, rsvp)

	writePublicJSON(w, http.StatusCreated, map[string]any{
		"id":          rsvp.ID,
		"name":        rsvp.Name,
		"attending":   rsvp.Attending,
		"guest_count": rsvp.GuestCount,
	})
}

// queueRSVPNotification hands the owner alert and the guest confirmation
// to the background mail worker without blocking the guest's request. A
// full queue drops the message rather than delaying the response.
func (h *PublicHandler) queueRSVPNotification(r *http.Request, inv *store.Invitation, rsvp *store.RSVP) {
	if h.notifyCh == nil {
		return
	}

	attending := "will attend"
	if !rsvp.Attending {
		attending = "cannot attend"
	}

	owner, err := h.users.GetByID(r.Context(), inv.OwnerID)
	if err != nil {
		log.Printf("handler: owner lookup for %q: %v", inv.Slug, err)
		metrics.NotifyErrorsTotal.Inc()
	} else if owner.Email != "" {
		h.enqueue(inv.Slug, notify.Message{
			To:      owner.Email,
			Subject: fmt.Sprintf("New RSVP for %s", inv.Slug),
			HTML: fmt.Sprintf("<p>%s %s (%d guests).</p><p>View all responses at %s/dashboard.</p>",
				html.EscapeString(rsvp.Name), attending, rsvp.GuestCount, h.baseURL),
		})
	}

	if rsvp.Email != "" {
		h.enqueue(inv.Slug, notify.Message{
			To:      rsvp.Email,
			Subject: "Your RSVP has been received",
			HTML: fmt.Sprintf("<p>Thank you, %s. We have recorded that you %s (%d guests).</p><p>%s/%s</p>",
				html.EscapeString(rsvp.Name), attending, rsvp.GuestCount, h.baseURL, inv.Slug),
		})
	}
}

func (h *PublicHandler) enqueue(slug string, msg notify.Message) {
	select {
	case h.notifyCh <- msg:
	default:
		log.Printf("handler: notify queue full, dropping notification for %q", slug)
		metrics.NotifyErrorsTotal.Inc()
	}
}

// SignGuestbook appends a public well-wish to an invitation's guestbook.
// POST /{slug}/guestbook
func (h *PublicHandler) SignGuestbook(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	inv, err := h.invitations.GetPublishedBySlug(r.Context(), slug)
	if err != nil {
		writePublicError(w, http.StatusNotFound, "invitation not found", "NOT_FOUND")
		return
	}

	cfg, err := inv.Config()
	if err != nil {
		writePublicError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	if !cfg.Settings.GuestbookEnabled {
		writePublicError(w, http.StatusForbidden, "guestbook is disabled for this invitation", "GUESTBOOK_DISABLED")
		return
	}

	var in invitation.GuestbookInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writePublicError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	if fe := invitation.ValidateGuestbook(&in); len(fe) > 0 {
		writePublicFieldErrors(w, fe)
		return
	}

	entry, err := h.guestbook.Create(r.Context(), inv.ID, &in)
	if err != nil {
		log.Printf("handler: create guestbook entry for %q: %v", slug, err)
		writePublicError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	writePublicJSON(w, http.StatusCreated, map[string]any{
		"id":      entry.ID,
		"name":    entry.Name,
		"message": entry.Message,
	})
}

// ListGuestbook returns the public guestbook feed for a published slug.
// GET /{slug}/guestbook
func (h *PublicHandler) ListGuestbook(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	inv, err := h.invitations.GetPublishedBySlug(r.Context(), slug)
	if err != nil {
		writePublicError(w, http.StatusNotFound, "invitation not found", "NOT_FOUND")
		return
	}

	cfg, err := inv.Config()
	if err != nil {
		writePublicError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	if !cfg.Settings.GuestbookEnabled {
		writePublicError(w, http.StatusForbidden, "guestbook is disabled for this invitation", "GUESTBOOK_DISABLED")
		return
	}

	rows, err := h.guestbook.ListByInvitation(r.Context(), inv.ID)
	if err != nil {
		writePublicError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	entries := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, map[string]any{
			"name":       row.Name,
			"message":    row.Message,
			"created_at": row.CreatedAt,
		})
	}
	writePublicJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func writePublicError(w http.ResponseWriter, status int, message, code string) {
	writePublicJSON(w, status, map[string]string{"error": message, "code": code})
}

func writePublicFieldErrors(w http.ResponseWriter, fe invitation.FieldErrors) {
	writePublicJSON(w, http.StatusBadRequest, map[string]any{
		"error":        "validation failed",
		"code":         "VALIDATION_FAILED",
		"field_errors": fe,
	})
}

func writePublicJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
