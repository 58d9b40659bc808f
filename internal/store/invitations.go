package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/undangapp/undang/internal/invitation"
)

// Invitation represents a row in the invitations table. The configuration
// document travels as raw JSON; decode it with Config when the fields matter.
type Invitation struct {
	ID          string    `db:"id"`
	OwnerID     string    `db:"owner_id"`
	Slug        string    `db:"slug"`
	ConfigJSON  string    `db:"config"`
	IsPublished bool      `db:"is_published"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Config decodes the stored configuration document.
func (i *Invitation) Config() (*invitation.Config, error) {
	var cfg invitation.Config
	if err := json.Unmarshal([]byte(i.ConfigJSON), &cfg); err != nil {
		return nil, fmt.Errorf("decode invitation %s config: %w", i.ID, err)
	}
	return &cfg, nil
}

// InvitationStore is the sqlx-backed store for invitation records. Its
// SlugExists method doubles as the allocator's uniqueness oracle.
type InvitationStore struct {
	db *sqlx.DB
}

func NewInvitationStore(db *sqlx.DB) *InvitationStore {
	return &InvitationStore{db: db}
}

// q rebinds ? placeholders to the driver's native format ($1,$2,... for PostgreSQL).
func (s *InvitationStore) q(query string) string { return s.db.Rebind(query) }

// Create inserts a new, unpublished invitation. The unique index on slug is
// the real uniqueness arbiter: a violation maps to ErrSlugTaken so the caller
// can rerun the allocator instead of re-prompting the user.
func (s *InvitationStore) Create(ctx context.Context, ownerID, slug string, cfg *invitation.Config) (*Invitation, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	id := uuid.New().String()
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, s.q(`
		INSERT INTO invitations (id, owner_id, slug, config, is_published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), id, ownerID, slug, string(raw), false, now, now)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// GetByID returns the invitation matching id, or ErrNotFound.
func (s *InvitationStore) GetByID(ctx context.Context, id string) (*Invitation, error) {
	var inv Invitation
	err := s.db.GetContext(ctx, &inv, s.q(`SELECT * FROM invitations WHERE id = ?`), id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetPublishedBySlug returns the published invitation matching slug, or
// ErrNotFound. Unpublished rows are deliberately indistinguishable from
// absent ones to anonymous callers.
func (s *InvitationStore) GetPublishedBySlug(ctx context.Context, slug string) (*Invitation, error) {
	var inv Invitation
	err := s.db.GetContext(ctx, &inv, s.q(`SELECT * FROM invitations WHERE slug = ? AND is_published = ?`), slug, true)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// SlugExists reports whether any invitation, published or not, holds slug.
// This is the allocator's uniqueness oracle: one read, no locks.
func (s *InvitationStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n, s.q(`SELECT COUNT(*) FROM invitations WHERE slug = ?`), slug)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListByOwner returns the owner's invitations, most recent first.
func (s *InvitationStore) ListByOwner(ctx context.Context, ownerID string) ([]*Invitation, error) {
	var invs []*Invitation
	err := s.db.SelectContext(ctx, &invs, s.q(`
		SELECT * FROM invitations WHERE owner_id = ? ORDER BY created_at DESC
	`), ownerID)
	if err != nil {
		return nil, err
	}
	return invs, nil
}

// ListAll returns every invitation, most recent first. Admin use only.
func (s *InvitationStore) ListAll(ctx context.Context) ([]*Invitation, error) {
	var invs []*Invitation
	err := s.db.SelectContext(ctx, &invs, `SELECT * FROM invitations ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return invs, nil
}

// UpdateConfig replaces the configuration document. The slug is immutable
// after creation: changing it means allocating a new invitation.
func (s *InvitationStore) UpdateConfig(ctx context.Context, id string, cfg *invitation.Config) (*Invitation, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE invitations SET config = ?, updated_at = ? WHERE id = ?
	`), string(raw), now, id)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// SetPublished flips the publication flag. The transition is reversible and
// touches no other data.
func (s *InvitationStore) SetPublished(ctx context.Context, id string, published bool) (*Invitation, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE invitations SET is_published = ?, updated_at = ? WHERE id = ?
	`), published, now, id)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// Delete removes an invitation. CASCADE deletes handle rsvps and
// guestbook_entries.
func (s *InvitationStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM invitations WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the total number of invitations, for the metrics gauges.
func (s *InvitationStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM invitations`)
	return n, err
}
