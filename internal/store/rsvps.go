package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/undangapp/undang/internal/invitation"
)

// RSVP represents a row in the rsvps table. Rows are written once by a guest
// submission and never mutated; only the invitation owner may delete them.
type RSVP struct {
	ID           string    `db:"id"`
	InvitationID string    `db:"invitation_id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	Phone        string    `db:"phone"`
	Attending    bool      `db:"attending"`
	GuestCount   int       `db:"guest_count"`
	Message      string    `db:"message"`
	CreatedAt    time.Time `db:"created_at"`
}

type RSVPStore struct {
	db *sqlx.DB
}

func NewRSVPStore(db *sqlx.DB) *RSVPStore {
	return &RSVPStore{db: db}
}

func (s *RSVPStore) q(query string) string { return s.db.Rebind(query) }

// Create inserts a guest's RSVP. The unique index on (invitation_id, email)
// enforces one RSVP per guest; a violation maps to ErrDuplicateRSVP so the
// caller can surface a conflict rather than a generic failure. Emails are
// stored lowercased so the uniqueness check is case-insensitive.
func (s *RSVPStore) Create(ctx context.Context, invitationID string, in *invitation.RSVPInput) (*RSVP, error) {
	id := uuid.New().String()
	now := time.Now().UTC()
	email := strings.ToLower(strings.TrimSpace(in.Email))

	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO rsvps (id, invitation_id, name, email, phone, attending, guest_count, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), id, invitationID, strings.TrimSpace(in.Name), email, strings.TrimSpace(in.Phone),
		in.Attending, in.GuestCount, in.Message, now)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateRSVP
		}
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// GetByID returns the RSVP matching id, or ErrNotFound.
func (s *RSVPStore) GetByID(ctx context.Context, id string) (*RSVP, error) {
	var r RSVP
	err := s.db.GetContext(ctx, &r, s.q(`SELECT * FROM rsvps WHERE id = ?`), id)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &r, nil
}

// ListByInvitation returns an invitation's RSVPs, oldest first.
func (s *RSVPStore) ListByInvitation(ctx context.Context, invitationID string) ([]*RSVP, error) {
	var rsvps []*RSVP
	err := s.db.SelectContext(ctx, &rsvps, s.q(`
		SELECT * FROM rsvps WHERE invitation_id = ? ORDER BY created_at ASC
	`), invitationID)
	if err != nil {
		return nil, err
	}
	return rsvps, nil
}

// Delete removes one RSVP from an invitation. Scoped by invitation so an
// owner cannot delete across invitations they do not hold.
func (s *RSVPStore) Delete(ctx context.Context, invitationID, id string) error {
	res, err := s.db.ExecContext(ctx, s.q(`
		DELETE FROM rsvps WHERE id = ? AND invitation_id = ?
	`), id, invitationID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the total number of RSVPs, for the metrics gauges.
func (s *RSVPStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM rsvps`)
	return n, err
}
