package invitation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxGuestCount bounds the party size one RSVP may claim.
const MaxGuestCount = 10

// RSVPInput is a guest's submission against a published invitation, before
// persistence.
type RSVPInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Attending  bool   `json:"attending"`
	GuestCount int    `json:"guest_count"`
	Message    string `json:"message,omitempty"`
}

// ValidateRSVP checks a guest submission and returns the complete set of
// field errors, or nil. The guest count is only meaningful when attending:
// a non-attending reply may carry any count from 0 through the maximum.
func ValidateRSVP(in *RSVPInput) FieldErrors {
	fe := FieldErrors{}

	requireNonEmpty(fe, "name", in.Name)

	if strings.TrimSpace(in.Email) == "" {
		fe["email"] = "required"
	} else if !emailPattern.MatchString(in.Email) {
		fe["email"] = "must be a valid email address"
	}

	switch {
	case in.GuestCount < 0:
		fe["guest_count"] = "must not be negative"
	case in.GuestCount > MaxGuestCount:
		fe["guest_count"] = fmt.Sprintf("at most %d guests are allowed", MaxGuestCount)
	case in.Attending && in.GuestCount < 1:
		fe["guest_count"] = "at least 1 when attending"
	}

	// Character count, not bytes: a multibyte message must not be
	// rejected early.
	if utf8.RuneCountInString(in.Message) > MaxMessageLen {
		fe["message"] = fmt.Sprintf("at most %d characters", MaxMessageLen)
	}

	if len(fe) == 0 {
		return nil
	}
	return fe
}

// GuestbookInput is a public guestbook entry before persistence.
type GuestbookInput struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// ValidateGuestbook checks a guestbook submission.
func ValidateGuestbook(in *GuestbookInput) FieldErrors {
	fe := FieldErrors{}
	requireNonEmpty(fe, "name", in.Name)
	requireNonEmpty(fe, "message", in.Message)
	if utf8.RuneCountInString(in.Message) > MaxMessageLen {
		fe["message"] = fmt.Sprintf("at most %d characters", MaxMessageLen)
	}
	if len(fe) == 0 {
		return nil
	}
	return fe
}
