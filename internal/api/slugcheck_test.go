package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/undangapp/undang/internal/api"
	"github.com/undangapp/undang/internal/invitation"
)

func checkSlug(t *testing.T, env *testEnv, token, query string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", "/slug-check"+query, nil)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, authRequest(req, token))
	return rec
}

func TestSlugCheck_Available(t *testing.T) {
	env := newTestEnv(t)
	u := seedUser(t, env, "owner@example.com", "user")
	token := seedToken(t, env, u.ID)

	rec := checkSlug(t, env, token, "?slug=siti-budi")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp api.SlugCheckResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Available {
		t.Error("expected slug to be available")
	}
	if resp.Slug != "siti-budi" {
		t.Errorf("slug = %q, want %q", resp.Slug, "siti-budi")
	}
}

func TestSlugCheck_Taken(t *testing.T) {
	env := newTestEnv(t)
	u := seedUser(t, env, "owner@example.com", "user")
	token := seedToken(t, env, u.ID)

	cfg := invitation.DefaultConfig()
	if _, err := env.InvitationStore.Create(context.Background(), u.ID, "siti-budi", cfg); err != nil {
		t.Fatalf("seed invitation: %v", err)
	}

	rec := checkSlug(t, env, token, "?slug=siti-budi")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp api.SlugCheckResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Available {
		t.Error("expected slug to be reported as taken")
	}
}

func TestSlugCheck_ErrorCodes(t *testing.T) {
	env := newTestEnv(t)
	u := seedUser(t, env, "owner@example.com", "user")
	token := seedToken(t, env, u.ID)

	tests := []struct {
		name     string
		query    string
		wantCode string
	}{
		{"missing parameter", "", "MISSING_SLUG"},
		{"too short", "?slug=ab", "INVALID_SLUG"},
		{"bad characters", "?slug=Siti%20Budi", "INVALID_SLUG"},
		{"reserved word", "?slug=admin", "RESERVED_SLUG"},
		{"reserved word mixed case", "?slug=rsvp", "RESERVED_SLUG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := checkSlug(t, env, token, tt.query)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			var resp api.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
		})
	}
}

func TestSlugCheck_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("GET", "/slug-check?slug=siti-budi", nil)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
