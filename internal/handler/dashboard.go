package handler

import (
	"net/http"

	"github.com/undangapp/undang/internal/auth"
	"github.com/undangapp/undang/internal/store"
)

// DashboardPage is the template data for the dashboard view.
type DashboardPage struct {
	BasePage
	Invitations []*store.Invitation
}

// DashboardHandler serves the authenticated invitation overview.
type DashboardHandler struct {
	invitations *store.InvitationStore
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(inv *store.InvitationStore) *DashboardHandler {
	return &DashboardHandler{invitations: inv}
}

// Show renders the dashboard with the user's invitations (or all
// invitations for admins).
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	var invs []*store.Invitation
	var err error
	if user.IsAdmin() {
		invs, err = h.invitations.ListAll(r.Context())
	} else {
		invs, err = h.invitations.ListByOwner(r.Context(), user.ID)
	}
	if err != nil {
		http.Error(w, "could not load invitations", http.StatusInternalServerError)
		return
	}

	render(w, "dashboard.html", DashboardPage{
		BasePage:    newBasePage(r, user),
		Invitations: invs,
	})
}
