package api

import (
	"time"

	"github.com/undangapp/undang/internal/invitation"
)

// --- Invitation types ---

// PartnerNames carries the couple's names used for slug derivation.
type PartnerNames struct {
	FullName string `json:"full_name"`
	Nickname string `json:"nickname,omitempty"`
}

// CreateInvitationRequest is the request body for POST /api/v1/invitations.
// Slug is the optional custom candidate; when empty a slug is derived from
// the couple's names.
type CreateInvitationRequest struct {
	Slug   string             `json:"slug,omitempty"`
	Bride  PartnerNames       `json:"bride"`
	Groom  PartnerNames       `json:"groom"`
	Config *invitation.Config `json:"config,omitempty"`
}

// UpdateInvitationRequest is the request body for PUT /api/v1/invitations/{id}.
// The slug is intentionally omitted; it is immutable after creation.
type UpdateInvitationRequest struct {
	Config invitation.Config `json:"config"`
}

// InvitationResponse is the JSON representation of a single invitation.
type InvitationResponse struct {
	ID          string            `json:"id"`
	Slug        string            `json:"slug"`
	Config      invitation.Config `json:"config"`
	IsPublished bool              `json:"is_published"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// InvitationListResponse is the response for invitation list endpoints.
type InvitationListResponse struct {
	Invitations []*InvitationResponse `json:"invitations"`
}

// SlugCheckResponse is the response for GET /api/v1/slug-check.
type SlugCheckResponse struct {
	Slug      string `json:"slug"`
	Available bool   `json:"available"`
}

// --- RSVP and guestbook types ---

// RSVPResponse is the JSON representation of a guest RSVP.
type RSVPResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Attending  bool      `json:"attending"`
	GuestCount int       `json:"guest_count"`
	Message    string    `json:"message,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// RSVPListResponse is the response for RSVP list endpoints.
type RSVPListResponse struct {
	RSVPs []*RSVPResponse `json:"rsvps"`
}

// GuestbookEntryResponse is the JSON representation of a guestbook entry.
type GuestbookEntryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// GuestbookListResponse is the response for guestbook list endpoints.
type GuestbookListResponse struct {
	Entries []*GuestbookEntryResponse `json:"entries"`
}

// --- Token types ---

// CreateTokenRequest is the request body for POST /api/v1/tokens.
type CreateTokenRequest struct {
	Name      string     `json:"name"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// TokenResponse is the JSON representation of an API token.
type TokenResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	LastUsedAt *time.Time `json:"last_used_at"`
	ExpiresAt  *time.Time `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TokenCreatedResponse carries the plaintext token exactly once, at creation.
type TokenCreatedResponse struct {
	TokenResponse
	Token string `json:"token"`
}

// TokenListResponse is the response for token list endpoints.
type TokenListResponse struct {
	Tokens []*TokenResponse `json:"tokens"`
}

// --- User types ---

// UserResponse is the JSON representation of a user.
type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserListResponse is the response for user list endpoints.
type UserListResponse struct {
	Users []*UserResponse `json:"users"`
}

// UpdateRoleRequest is the request body for PUT /api/v1/admin/users/{id}/role.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}
