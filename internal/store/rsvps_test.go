package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/undangapp/undang/internal/invitation"
	"github.com/undangapp/undang/internal/store"
	"github.com/undangapp/undang/internal/testutil"
)

func TestRSVPStore_CreateAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	invs := store.NewInvitationStore(db)
	rsvps := store.NewRSVPStore(db)
	owner := seedOwner(t, store.NewUserStore(db))
	ctx := context.Background()

	inv, err := invs.Create(ctx, owner.ID, "ann-bo", testConfig())
	if err != nil {
		t.Fatalf("create invitation: %v", err)
	}

	r, err := rsvps.Create(ctx, inv.ID, &invitation.RSVPInput{
		Name:       "Carol",
		Email:      "Carol@Example.com",
		Attending:  true,
		GuestCount: 2,
		Message:    "See you there!",
	})
	if err != nil {
		t.Fatalf("create rsvp: %v", err)
	}
	if r.Email != "carol@example.com" {
		t.Errorf("email = %q, want lowercased", r.Email)
	}

	list, err := rsvps.ListByInvitation(ctx, inv.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].GuestCount != 2 {
		t.Errorf("list = %+v, want one RSVP with guest count 2", list)
	}
}

func TestRSVPStore_DuplicateEmailConflict(t *testing.T) {
	db := testutil.NewTestDB(t)
	invs := store.NewInvitationStore(db)
	rsvps := store.NewRSVPStore(db)
	owner := seedOwner(t, store.NewUserStore(db))
	ctx := context.Background()

	inv, err := invs.Create(ctx, owner.ID, "ann-bo", testConfig())
	if err != nil {
		t.Fatalf("create invitation: %v", err)
	}
	other, err := invs.Create(ctx, owner.ID, "bo-ann", testConfig())
	if err != nil {
		t.Fatalf("create invitation: %v", err)
	}

	in := &invitation.RSVPInput{Name: "Carol", Email: "carol@example.com", Attending: true, GuestCount: 1}
	if _, err := rsvps.Create(ctx, inv.ID, in); err != nil {
		t.Fatalf("first rsvp: %v", err)
	}

	// Same email on the same invitation is a conflict, case-insensitively.
	dup := &invitation.RSVPInput{Name: "Carol", Email: "CAROL@example.com", Attending: false, GuestCount: 0}
	if _, err := rsvps.Create(ctx, inv.ID, dup); !errors.Is(err, store.ErrDuplicateRSVP) {
		t.Errorf("duplicate err = %v, want ErrDuplicateRSVP", err)
	}

	// Same email on a different invitation is fine.
	if _, err := rsvps.Create(ctx, other.ID, in); err != nil {
		t.Errorf("same email, other invitation: %v", err)
	}
}

func TestRSVPStore_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	invs := store.NewInvitationStore(db)
	rsvps := store.NewRSVPStore(db)
	owner := seedOwner(t, store.NewUserStore(db))
	ctx := context.Background()

	inv, err := invs.Create(ctx, owner.ID, "ann-bo", testConfig())
	if err != nil {
		t.Fatalf("create invitation: %v", err)
	}
	r, err := rsvps.Create(ctx, inv.ID, &invitation.RSVPInput{
		Name: "Carol", Email: "carol@example.com", Attending: true, GuestCount: 1,
	})
	if err != nil {
		t.Fatalf("create rsvp: %v", err)
	}

	// Wrong invitation scope deletes nothing.
	if err := rsvps.Delete(ctx, "other-invitation", r.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("cross-invitation delete err = %v, want ErrNotFound", err)
	}
	if err := rsvps.Delete(ctx, inv.ID, r.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := rsvps.GetByID(ctx, r.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("get after delete err = %v, want ErrNotFound", err)
	}
}

func TestGuestbookStore(t *testing.T) {
	db := testutil.NewTestDB(t)
	invs := store.NewInvitationStore(db)
	gb := store.NewGuestbookStore(db)
	owner := seedOwner(t, store.NewUserStore(db))
	ctx := context.Background()

	inv, err := invs.Create(ctx, owner.ID, "ann-bo", testConfig())
	if err != nil {
		t.Fatalf("create invitation: %v", err)
	}

	e, err := gb.Create(ctx, inv.ID, &invitation.GuestbookInput{Name: "  Dave ", Message: "Congrats!"})
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if e.Name != "Dave" {
		t.Errorf("name = %q, want trimmed", e.Name)
	}

	entries, err := gb.ListByInvitation(ctx, inv.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}

	if err := gb.Delete(ctx, inv.ID, e.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := gb.Delete(ctx, inv.ID, e.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}
