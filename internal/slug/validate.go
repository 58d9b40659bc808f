package slug

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	// MinLength and MaxLength bound every accepted slug, inclusive.
	MinLength = 3
	MaxLength = 50
)

var (
	// ErrTooShort is returned when a slug is shorter than MinLength.
	ErrTooShort = errors.New("slug is too short")

	// ErrTooLong is returned when a slug is longer than MaxLength.
	ErrTooLong = errors.New("slug is too long")

	// ErrInvalid is returned when a slug contains characters outside [a-z0-9-].
	ErrInvalid = errors.New("slug must contain only lowercase letters, digits, and hyphens")

	// ErrReserved is returned when a slug matches a reserved word.
	ErrReserved = errors.New("slug is reserved")

	slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// ReservedWords are slug values that conflict with application routes or the
// product's own namespace and MUST NOT be accepted from users. Changing this
// list is a compatibility-relevant code change: removing a word frees it for
// registration.
var ReservedWords = []string{
	"admin",
	"api",
	"auth",
	"dashboard",
	"docs",
	"guestbook",
	"login",
	"logout",
	"metrics",
	"rsvp",
	"static",
	"undang",
	"wedding",
}

// Validator checks candidate slugs against format rules and a reserved-word
// set. The set is injected at construction so deployments and tests can vary
// it without code edits.
type Validator struct {
	reserved map[string]bool
}

// NewValidator creates a Validator with the given reserved words. Matching is
// case-insensitive; entries are lowercased on the way in.
func NewValidator(reserved []string) *Validator {
	m := make(map[string]bool, len(reserved))
	for _, w := range reserved {
		m[strings.ToLower(w)] = true
	}
	return &Validator{reserved: m}
}

// Validate checks candidate against the slug rules in order: length bounds,
// character class, reserved-word membership. The first failing rule wins.
// It is pure: no storage access, and uniqueness is NOT checked here; that is
// the store's unique index.
func (v *Validator) Validate(candidate string) error {
	if len(candidate) < MinLength {
		return fmt.Errorf("%w: %d characters, minimum is %d", ErrTooShort, len(candidate), MinLength)
	}
	if len(candidate) > MaxLength {
		return fmt.Errorf("%w: %d characters, maximum is %d", ErrTooLong, len(candidate), MaxLength)
	}
	if !slugPattern.MatchString(candidate) {
		return ErrInvalid
	}
	if v.reserved[strings.ToLower(candidate)] {
		return fmt.Errorf("%w: %q", ErrReserved, candidate)
	}
	return nil
}

// IsReserved reports whether word is in the reserved set (case-insensitive).
func (v *Validator) IsReserved(word string) bool {
	return v.reserved[strings.ToLower(word)]
}

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize converts arbitrary input into slug form: lowercase, trimmed, runs
// of non-alphanumeric characters collapsed to single hyphens, leading and
// trailing hyphens stripped. It does not enforce length or reserved words;
// run the result through Validate for that.
func Normalize(s string) string {
	out := strings.ToLower(strings.TrimSpace(s))
	out = nonAlphanumeric.ReplaceAllString(out, "-")
	return strings.Trim(out, "-")
}
