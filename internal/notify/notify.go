package notify

import (
	"context"
	"fmt"

	"github.com/undangapp/undang/internal/config"
)

// Message is a single outbound notification email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers notification emails.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New creates a Mailer based on the config. Returns nil when Mail.Provider is
// unset, meaning outbound notifications are disabled.
func New(cfg *config.Config) (Mailer, error) {
	switch cfg.Mail.Provider {
	case "":
		return nil, nil
	case "resend":
		return newResendMailer(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported mail provider: %q", cfg.Mail.Provider)
	}
}
