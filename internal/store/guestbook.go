package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/undangapp/undang/internal/invitation"
)

// GuestbookEntry represents a row in the guestbook_entries table.
type GuestbookEntry struct {
	ID           string    `db:"id"`
	InvitationID string    `db:"invitation_id"`
	Name         string    `db:"name"`
	Message      string    `db:"message"`
	CreatedAt    time.Time `db:"created_at"`
}

type GuestbookStore struct {
	db *sqlx.DB
}

func NewGuestbookStore(db *sqlx.DB) *GuestbookStore {
	return &GuestbookStore{db: db}
}

func (s *GuestbookStore) q(query string) string { return s.db.Rebind(query) }

// Create inserts a public guestbook entry.
func (s *GuestbookStore) Create(ctx context.Context, invitationID string, in *invitation.GuestbookInput) (*GuestbookEntry, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO guestbook_entries (id, invitation_id, name, message, created_at)
		VALUES (?, ?, ?, ?, ?)
	`), id, invitationID, strings.TrimSpace(in.Name), strings.TrimSpace(in.Message), now)
	if err != nil {
		return nil, err
	}

	var e GuestbookEntry
	if err := s.db.GetContext(ctx, &e, s.q(`SELECT * FROM guestbook_entries WHERE id = ?`), id); err != nil {
		return nil, mapNoRows(err)
	}
	return &e, nil
}

// ListByInvitation returns an invitation's guestbook entries, newest first.
func (s *GuestbookStore) ListByInvitation(ctx context.Context, invitationID string) ([]*GuestbookEntry, error) {
	var entries []*GuestbookEntry
	err := s.db.SelectContext(ctx, &entries, s.q(`
		SELECT * FROM guestbook_entries WHERE invitation_id = ? ORDER BY created_at DESC
	`), invitationID)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Delete removes one entry from an invitation's guestbook.
func (s *GuestbookStore) Delete(ctx context.Context, invitationID, id string) error {
	res, err := s.db.ExecContext(ctx, s.q(`
		DELETE FROM guestbook_entries WHERE id = ? AND invitation_id = ?
	`), id, invitationID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
