package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/undangapp/undang/internal/api"
)

func TestAdmin_NonAdminForbidden(t *testing.T) {
	env := newTestEnv(t)
	u := seedUser(t, env, "owner@example.com", "user")
	token := seedToken(t, env, u.ID)

	for _, path := range []string{"/admin/users", "/admin/invitations"} {
		rec := doJSON(t, env, token, "GET", path, nil)
		if rec.Code != http.StatusForbidden {
			t.Errorf("GET %s: status = %d, want %d", path, rec.Code, http.StatusForbidden)
		}
	}
}

func TestAdmin_ListUsers(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env, "owner@example.com", "user")
	admin := seedUser(t, env, "admin@example.com", "admin")
	token := seedToken(t, env, admin.ID)

	rec := doJSON(t, env, token, "GET", "/admin/users", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp api.UserListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Users) != 2 {
		t.Errorf("users = %d, want 2", len(resp.Users))
	}
}

func TestAdmin_UpdateRole(t *testing.T) {
	env := newTestEnv(t)
	u := seedUser(t, env, "owner@example.com", "user")
	admin := seedUser(t, env, "admin@example.com", "admin")
	token := seedToken(t, env, admin.ID)

	rec := doJSON(t, env, token, "PUT", "/admin/users/"+u.ID+"/role", api.UpdateRoleRequest{Role: "admin"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp api.UserResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Role != "admin" {
		t.Errorf("role = %q, want admin", resp.Role)
	}
}

func TestAdmin_UpdateRole_InvalidRole(t *testing.T) {
	env := newTestEnv(t)
	u := seedUser(t, env, "owner@example.com", "user")
	admin := seedUser(t, env, "admin@example.com", "admin")
	token := seedToken(t, env, admin.ID)

	rec := doJSON(t, env, token, "PUT", "/admin/users/"+u.ID+"/role", api.UpdateRoleRequest{Role: "owner"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
