package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/undangapp/undang/internal/auth"
	"github.com/undangapp/undang/internal/invitation"
	"github.com/undangapp/undang/internal/slug"
	"github.com/undangapp/undang/internal/store"
)

// invitationsAPIHandler provides REST handlers for invitation management.
type invitationsAPIHandler struct {
	invitations *store.InvitationStore
	rsvps       *store.RSVPStore
	guestbook   *store.GuestbookStore
	allocator   *slug.Allocator
	validator   *slug.Validator
}

func registerInvitationRoutes(r chi.Router, inv *store.InvitationStore, rs *store.RSVPStore, gb *store.GuestbookStore, alloc *slug.Allocator, v *slug.Validator) {
	h := &invitationsAPIHandler{invitations: inv, rsvps: rs, guestbook: gb, allocator: alloc, validator: v}
	r.Get("/invitations", h.List)
	r.Post("/invitations", h.Create)
	r.Get("/invitations/{id}", h.Get)
	r.Put("/invitations/{id}", h.Update)
	r.Delete("/invitations/{id}", h.Delete)
	r.Post("/invitations/{id}/publish", h.Publish)
	r.Post("/invitations/{id}/unpublish", h.Unpublish)
	r.Get("/invitations/{id}/rsvps", h.ListRSVPs)
	r.Delete("/invitations/{id}/rsvps/{rid}", h.DeleteRSVP)
	r.Get("/invitations/{id}/guestbook", h.ListGuestbook)
	r.Delete("/invitations/{id}/guestbook/{eid}", h.DeleteGuestbookEntry)
}

// authorize loads an invitation and checks the caller may manage it.
// Writes the error response itself and returns nil when access is denied.
func (h *invitationsAPIHandler) authorize(w http.ResponseWriter, r *http.Request) *store.Invitation {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return nil
	}

	inv, err := h.invitations.GetByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "invitation not found", "NOT_FOUND")
		return nil
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return nil
	}

	if inv.OwnerID != user.ID && !user.IsAdmin() {
		writeError(w, http.StatusForbidden, "forbidden", "FORBIDDEN")
		return nil
	}
	return inv
}

func toInvitationResponse(inv *store.Invitation) (*InvitationResponse, error) {
	cfg, err := inv.Config()
	if err != nil {
		return nil, err
	}
	return &InvitationResponse{
		ID:          inv.ID,
		Slug:        inv.Slug,
		Config:      *cfg,
		IsPublished: inv.IsPublished,
		CreatedAt:   inv.CreatedAt,
		UpdatedAt:   inv.UpdatedAt,
	}, nil
}

// List returns owned invitations for regular users, or all invitations for admins.
// GET /api/v1/invitations
//
// @Summary      List invitations
// @Description  Returns invitations owned by the caller. Admins see all invitations.
// @Tags         Invitations
// @Produce      json
// @Success      200  {object}  InvitationListResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /invitations [get]
func (h *invitationsAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	var invs []*store.Invitation
	var err error
	if user.IsAdmin() {
		invs, err = h.invitations.ListAll(r.Context())
	} else {
		invs, err = h.invitations.ListByOwner(r.Context(), user.ID)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	resp := &InvitationListResponse{Invitations: make([]*InvitationResponse, 0, len(invs))}
	for _, inv := range invs {
		ir, err := toInvitationResponse(inv)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
			return
		}
		resp.Invitations = append(resp.Invitations, ir)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create allocates a slug and creates a new unpublished invitation.
// POST /api/v1/invitations
//
// A custom slug candidate is normalized then validated; validation failure
// aborts the request. Without one, a slug is derived from the couple's names.
// The unique index on the invitations table is the true arbiter: a write-time
// collision surfaces as 409 and the caller retries through allocation.
//
// @Summary      Create an invitation
// @Description  Creates a new unpublished invitation. A slug is derived from the couple's names unless a custom candidate is supplied.
// @Tags         Invitations
// @Accept       json
// @Produce      json
// @Param        body  body      CreateInvitationRequest  true  "Invitation to create"
// @Success      201   {object}  InvitationResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      503   {object}  ErrorResponse
// @Security     BearerToken
// @Router       /invitations [post]
func (h *invitationsAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	var req CreateInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	if req.Slug == "" && req.Bride.FullName == "" && req.Groom.FullName == "" {
		writeError(w, http.StatusBadRequest, "either a slug or the couple's names are required", "BAD_REQUEST")
		return
	}

	// A fresh draft starts from the default document; a caller-supplied
	// configuration must pass full validation up front.
	cfg := req.Config
	if cfg != nil {
		normalized, fe := invitation.ValidateAndNormalize(cfg)
		if len(fe) > 0 {
			writeFieldErrors(w, fe)
			return
		}
		cfg = normalized
	}
	if cfg == nil {
		def := invitation.DefaultConfig()
		def.Couple.Bride.FullName = req.Bride.FullName
		def.Couple.Bride.Nickname = req.Bride.Nickname
		def.Couple.Groom.FullName = req.Groom.FullName
		def.Couple.Groom.Nickname = req.Groom.Nickname
		cfg = def
	}

	bride := slug.Partner{FullName: req.Bride.FullName, Nickname: req.Bride.Nickname}
	groom := slug.Partner{FullName: req.Groom.FullName, Nickname: req.Groom.Nickname}
	allocated, err := h.allocator.Allocate(r.Context(), bride, groom, req.Slug)
	if err != nil {
		if errors.Is(err, slug.ErrOracleUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "slug availability check failed, please retry", "BACKEND_ERROR")
			return
		}
		if errors.Is(err, slug.ErrReserved) {
			writeError(w, http.StatusBadRequest, "slug is a reserved word", "RESERVED_SLUG")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_SLUG")
		return
	}

	inv, err := h.invitations.Create(r.Context(), user.ID, allocated, cfg)
	if err != nil {
		if errors.Is(err, store.ErrSlugTaken) {
			writeError(w, http.StatusConflict, "slug already exists", "SLUG_CONFLICT")
			return
		}
		log.Printf("api: create invitation %q: %v", allocated, err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	ir, err := toInvitationResponse(inv)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusCreated, ir)
}

// Get returns a single invitation by ID. Owners and admins only.
// GET /api/v1/invitations/{id}
//
// @Summary      Get an invitation
// @Tags         Invitations
// @Produce      json
// @Param        id   path      string  true  "Invitation ID"
// @Success      200  {object}  InvitationResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /invitations/{id} [get]
func (h *invitationsAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	inv := h.authorize(w, r)
	if inv == nil {
		return
	}

	ir, err := toInvitationResponse(inv)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, ir)
}

// Update replaces the invitation's configuration. The slug is immutable.
// PUT /api/v1/invitations/{id}
//
// Validation is total: every failing field is reported in one response
// keyed by dotted path, and nothing is persisted on failure.
//
// @Summary      Update an invitation's configuration
// @Tags         Invitations
// @Accept       json
// @Produce      json
// @Param        id    path      string                   true  "Invitation ID"
// @Param        body  body      UpdateInvitationRequest  true  "New configuration"
// @Success      200   {object}  InvitationResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Security     BearerToken
// @Router       /invitations/{id} [put]
func (h *invitationsAPIHandler) Update(w http.ResponseWriter, r *http.Request) {
	inv := h.authorize(w, r)
	if inv == nil {
		return
	}

	var req UpdateInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	normalized, fe := invitation.ValidateAndNormalize(&req.Config)
	if len(fe) > 0 {
		writeFieldErrors(w, fe)
		return
	}

	updated, err := h.invitations.UpdateConfig(r.Context(), inv.ID, normalized)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "invitation not found", "NOT_FOUND")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	ir, err := toInvitationResponse(updated)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, ir)
}

// Delete removes an invitation and its RSVPs and guestbook entries.
// DELETE /api/v1/invitations/{id}
//
// @Summary      Delete an invitation
// @Tags         Invitations
// @Param        id  path  string  true  "Invitation ID"
// @Success      204
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /invitations/{id} [delete]
func (h *invitationsAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	inv := h.authorize(w, r)
	if inv == nil {
		return
	}

	if err := h.invitations.Delete(r.Context(), inv.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Publish makes the invitation resolvable at its public slug.
// POST /api/v1/invitations/{id}/publish
//
// Publishing requires a configuration that passes full validation, so a
// half-filled draft can never go live.
//
// @Summary      Publish an invitation
// @Tags         Invitations
// @Produce      json
// @Param        id   path      string  true  "Invitation ID"
// @Success      200  {object}  InvitationResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /invitations/{id}/publish [post]
func (h *invitationsAPIHandler) Publish(w http.ResponseWriter, r *http.Request) {
	inv := h.authorize(w, r)
	if inv == nil {
		return
	}

	cfg, err := inv.Config()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	if fe := invitation.Validate(cfg); len(fe) > 0 {
		writeFieldErrors(w, fe)
		return
	}

	updated, err := h.invitations.SetPublished(r.Context(), inv.ID, true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	ir, err := toInvitationResponse(updated)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, ir)
}

// Unpublish takes the invitation offline. The slug stays claimed.
// POST /api/v1/invitations/{id}/unpublish
//
// @Summary      Unpublish an invitation
// @Tags         Invitations
// @Produce      json
// @Param        id   path      string  true  "Invitation ID"
// @Success      200  {object}  InvitationResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /invitations/{id}/unpublish [post]
func (h *invitationsAPIHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	inv := h.authorize(w, r)
	if inv == nil {
		return
	}

	updated, err := h.invitations.SetPublished(r.Context(), inv.ID, false)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	ir, err := toInvitationResponse(updated)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, ir)
}

// ListRSVPs returns all RSVPs for an invitation, oldest first.
// GET /api/v1/invitations/{id}/rsvps
//
// @Summary      List RSVPs
// @Tags         RSVPs
// @Produce      json
// @Param        id   path      string  true  "Invitation ID"
// @Success      200  {object}  RSVPListResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /invitations/{id}/rsvps [get]
func (h *invitationsAPIHandler) ListRSVPs(w http.ResponseWriter, r *http.Request) {
	inv := h.authorize(w, r)
	if inv == nil {
		return
	}

	rows, err := h.rsvps.ListByInvitation(r.Context(), inv.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	resp := &RSVPListResponse{RSVPs: make([]*RSVPResponse, 0, len(rows))}
	for _, row := range rows {
		resp.RSVPs = append(resp.RSVPs, &RSVPResponse{
			ID:         row.ID,
			Name:       row.Name,
			Email:      row.Email,
			Phone:      row.Phone,
			Attending:  row.Attending,
			GuestCount: row.GuestCount,
			Message:    row.Message,
			CreatedAt:  row.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// DeleteRSVP removes a single RSVP from an invitation.
// DELETE /api/v1/invitations/{id}/rsvps/{rid}
//
// @Summary      Delete an RSVP
// @Tags         RSVPs
// @Param        id   path  string  true  "Invitation ID"
// @Param        rid  path  string  true  "RSVP ID"
// @Success      204
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /invitations/{id}/rsvps/{rid} [delete]
func (h *invitationsAPIHandler) DeleteRSVP(w http.ResponseWriter, r *http.Request) {
	inv := h.authorize(w, r)
	if inv == nil {
		return
	}

	err := h.rsvps.Delete(r.Context(), inv.ID, chi.URLParam(r, "rid"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "rsvp not found", "NOT_FOUND")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListGuestbook returns all guestbook entries for an invitation, newest first.
// GET /api/v1/invitations/{id}/guestbook
//
// @Summary      List guestbook entries
// @Tags         Guestbook
// @Produce      json
// @Param        id   path      string  true  "Invitation ID"
// @Success      200  {object}  GuestbookListResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /invitations/{id}/guestbook [get]
func (h *invitationsAPIHandler) ListGuestbook(w http.ResponseWriter, r *http.Request) {
	inv := h.authorize(w, r)
	if inv == nil {
		return
	}

	rows, err := h.guestbook.ListByInvitation(r.Context(), inv.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	resp := &GuestbookListResponse{Entries: make([]*GuestbookEntryResponse, 0, len(rows))}
	for _, row := range rows {
		resp.Entries = append(resp.Entries, &GuestbookEntryResponse{
			ID:        row.ID,
			Name:      row.Name,
			Message:   row.Message,
			CreatedAt: row.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// DeleteGuestbookEntry removes a single guestbook entry from an invitation.
// DELETE /api/v1/invitations/{id}/guestbook/{eid}
//
// @Summary      Delete a guestbook entry
// @Tags         Guestbook
// @Param        id   path  string  true  "Invitation ID"
// @Param        eid  path  string  true  "Entry ID"
// @Success      204
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /invitations/{id}/guestbook/{eid} [delete]
func (h *invitationsAPIHandler) DeleteGuestbookEntry(w http.ResponseWriter, r *http.Request) {
	inv := h.authorize(w, r)
	if inv == nil {
		return
	}

	err := h.guestbook.Delete(r.Context(), inv.ID, chi.URLParam(r, "eid"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "guestbook entry not found", "NOT_FOUND")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
