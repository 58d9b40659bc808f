package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/undangapp/undang/internal/invitation"
	"github.com/undangapp/undang/internal/notify"
	"github.com/undangapp/undang/internal/store"
	"github.com/undangapp/undang/internal/testutil"
)

type publicTestEnv struct {
	Router      http.Handler
	Invitations *store.InvitationStore
	RSVPs       *store.RSVPStore
	Guestbook   *store.GuestbookStore
	Users       *store.UserStore
	NotifyCh    chan notify.Message
	OwnerID     string
}

func newPublicTestEnv(t *testing.T) *publicTestEnv {
	t.Helper()
	db := testutil.NewTestDB(t)

	inv := store.NewInvitationStore(db)
	rs := store.NewRSVPStore(db)
	gb := store.NewGuestbookStore(db)
	us := store.NewUserStore(db)

	owner, err := us.Upsert(context.Background(), "test", "sub1", "couple@example.com", "The Couple", "")
	if err != nil {
		t.Fatalf("seed owner: %v", err)
	}

	ch := make(chan notify.Message, 4)
	h := NewPublicHandler(inv, rs, gb, us, ch, "http://localhost:8080")

	r := chi.NewRouter()
	r.Get("/{slug}", h.Show)
	r.Post("/{slug}/rsvp", h.SubmitRSVP)
	r.Get("/{slug}/guestbook", h.ListGuestbook)
	r.Post("/{slug}/guestbook", h.SignGuestbook)

	return &publicTestEnv{
		Router:      r,
		Invitations: inv,
		RSVPs:       rs,
		Guestbook:   gb,
		Users:       us,
		NotifyCh:    ch,
		OwnerID:     owner.ID,
	}
}

func seedPublished(t *testing.T, env *publicTestEnv, slug string, mutate func(*invitation.Config)) *store.Invitation {
	t.Helper()
	cfg := invitation.DefaultConfig()
	cfg.Couple.Bride.FullName = "Siti Nurhaliza"
	cfg.Couple.Groom.FullName = "Budi Santoso"
	cfg.Events = []invitation.Event{{
		Type: invitation.EventAkad, Title: "Akad Nikah", Date: "2027-06-12",
		Time: "09:00", Venue: "Masjid Raya", Address: "Jl. Merdeka 1",
	}}
	if mutate != nil {
		mutate(cfg)
	}
	inv, err := env.Invitations.Create(context.Background(), env.OwnerID, slug, cfg)
	if err != nil {
		t.Fatalf("seed invitation: %v", err)
	}
	inv, err = env.Invitations.SetPublished(context.Background(), inv.ID, true)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	return inv
}

func postJSON(t *testing.T, env *publicTestEnv, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	return rec
}

func TestShow_PublishedPage(t *testing.T) {
	env := newPublicTestEnv(t)
	seedPublished(t, env, "siti-budi", nil)

	req := httptest.NewRequest("GET", "/siti-budi", nil)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "Siti Nurhaliza") {
		t.Error("expected page to include the bride's name")
	}
}

func TestShow_UnpublishedLooksLikeMissing(t *testing.T) {
	env := newPublicTestEnv(t)
	inv := seedPublished(t, env, "siti-budi", nil)
	if _, err := env.Invitations.SetPublished(context.Background(), inv.ID, false); err != nil {
		t.Fatalf("unpublish: %v", err)
	}

	for _, slug := range []string{"siti-budi", "never-existed"} {
		req := httptest.NewRequest("GET", "/"+slug, nil)
		rec := httptest.NewRecorder()
		env.Router.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET /%s: status = %d, want %d", slug, rec.Code, http.StatusNotFound)
		}
	}
}

func TestSubmitRSVP(t *testing.T) {
	env := newPublicTestEnv(t)
	inv := seedPublished(t, env, "siti-budi", nil)

	rec := postJSON(t, env, "/siti-budi/rsvp",
		`{"name":"Ann","email":"ann@example.com","attending":true,"guest_count":2}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	rows, err := env.RSVPs.ListByInvitation(context.Background(), inv.ID)
	if err != nil {
		t.Fatalf("ListByInvitation: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Ann" {
		t.Fatalf("unexpected rsvps: %+v", rows)
	}

	// Owner alert and guest confirmation were queued, in that order.
	want := []string{"couple@example.com", "ann@example.com"}
	for _, to := range want {
		select {
		case msg := <-env.NotifyCh:
			if msg.To != to {
				t.Errorf("notification To = %q, want %q", msg.To, to)
			}
			if !strings.Contains(msg.HTML, "Ann") {
				t.Errorf("notification body missing guest name: %q", msg.HTML)
			}
		default:
			t.Errorf("expected a queued notification for %q", to)
		}
	}
}

func TestSubmitRSVP_DuplicateEmailConflict(t *testing.T) {
	env := newPublicTestEnv(t)
	seedPublished(t, env, "siti-budi", nil)

	body := `{"name":"Ann","email":"ann@example.com","attending":true,"guest_count":2}`
	if rec := postJSON(t, env, "/siti-budi/rsvp", body); rec.Code != http.StatusCreated {
		t.Fatalf("first rsvp: status = %d", rec.Code)
	}

	// Same email, different case: still a conflict, first answer stands.
	rec := postJSON(t, env, "/siti-budi/rsvp",
		`{"name":"Ann Again","email":"ANN@example.com","attending":false,"guest_count":0}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusConflict)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["code"] != "DUPLICATE_RSVP" {
		t.Errorf("code = %q, want DUPLICATE_RSVP", resp["code"])
	}
}

func TestSubmitRSVP_OwnerLookupFailureStillRecords(t *testing.T) {
	env := newPublicTestEnv(t)
	seedPublished(t, env, "siti-budi", nil)

	// A user store over a separate, unmigrated database: every owner
	// lookup errors, the way a flaky backend would.
	brokenDB, err := sqlx.Open("sqlite", "file:"+strings.ReplaceAll(t.Name(), "/", "_")+"-users?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open empty sqlite: %v", err)
	}
	t.Cleanup(func() { _ = brokenDB.Close() })

	h := NewPublicHandler(env.Invitations, env.RSVPs, env.Guestbook, store.NewUserStore(brokenDB), env.NotifyCh, "http://localhost:8080")
	r := chi.NewRouter()
	r.Post("/{slug}/rsvp", h.SubmitRSVP)

	req := httptest.NewRequest("POST", "/siti-budi/rsvp",
		strings.NewReader(`{"name":"Ann","email":"ann@example.com","attending":true,"guest_count":2}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	// The write survived; only the guest confirmation was queued.
	select {
	case msg := <-env.NotifyCh:
		if msg.To != "ann@example.com" {
			t.Errorf("notification To = %q, want the guest", msg.To)
		}
	default:
		t.Error("expected the guest confirmation to be queued")
	}
	select {
	case msg := <-env.NotifyCh:
		t.Errorf("unexpected extra notification to %q", msg.To)
	default:
	}
}

func TestSubmitRSVP_ValidationErrors(t *testing.T) {
	env := newPublicTestEnv(t)
	seedPublished(t, env, "siti-budi", nil)

	rec := postJSON(t, env, "/siti-budi/rsvp",
		`{"name":"","email":"not-an-email","attending":true,"guest_count":0}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	var resp struct {
		Code        string            `json:"code"`
		FieldErrors map[string]string `json:"field_errors"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != "VALIDATION_FAILED" {
		t.Errorf("code = %q, want VALIDATION_FAILED", resp.Code)
	}
	for _, path := range []string{"name", "email", "guest_count"} {
		if _, ok := resp.FieldErrors[path]; !ok {
			t.Errorf("expected field error for %s, got %v", path, resp.FieldErrors)
		}
	}
}

func TestSubmitRSVP_UnpublishedRejected(t *testing.T) {
	env := newPublicTestEnv(t)

	rec := postJSON(t, env, "/never-existed/rsvp",
		`{"name":"Ann","email":"ann@example.com","attending":true,"guest_count":1}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestGuestbook_SignAndList(t *testing.T) {
	env := newPublicTestEnv(t)
	seedPublished(t, env, "siti-budi", nil)

	rec := postJSON(t, env, "/siti-budi/guestbook",
		`{"name":"Bo","message":"Congratulations!"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("sign: status = %d: %s", rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest("GET", "/siti-budi/guestbook", nil)
	listRec := httptest.NewRecorder()
	env.Router.ServeHTTP(listRec, req)
	if listRec.Code != http.StatusOK {
		t.Fatalf("list: status = %d", listRec.Code)
	}
	if !strings.Contains(listRec.Body.String(), "Congratulations!") {
		t.Error("expected listed entry message")
	}
}

func TestGuestbook_DisabledBySettings(t *testing.T) {
	env := newPublicTestEnv(t)
	seedPublished(t, env, "siti-budi", func(cfg *invitation.Config) {
		cfg.Settings.GuestbookEnabled = false
	})

	rec := postJSON(t, env, "/siti-budi/guestbook",
		`{"name":"Bo","message":"Congratulations!"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["code"] != "GUESTBOOK_DISABLED" {
		t.Errorf("code = %q, want GUESTBOOK_DISABLED", resp["code"])
	}
}
